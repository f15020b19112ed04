package ws

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

// Conn is the opaque transport handle the registry owns. Nothing outside
// this package and the handler that created it ever touches the raw
// socket; heartbeat, reaper and fan-out all operate through this
// interface, which also keeps them testable without real sockets.
type Conn interface {
	WriteJSON(v interface{}) error
	Ping() error
	IsOpen() bool
	Close(code int, reason string) error
}

// wsConn adapts a gorilla socket. Gorilla permits a single concurrent
// writer, so every write path (payloads, pings, close frames) funnels
// through one mutex, and every write carries a deadline so a slow peer
// fails fast instead of stalling a sweep.
type wsConn struct {
	sock         *websocket.Conn
	writeTimeout time.Duration
	mu           sync.Mutex
	closed       atomic.Bool
}

func newWSConn(sock *websocket.Conn, writeTimeout time.Duration) *wsConn {
	return &wsConn{
		sock:         sock,
		writeTimeout: writeTimeout,
	}
}

func (c *wsConn) WriteJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.sock.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	if err := c.sock.WriteJSON(v); err != nil {
		c.closed.Store(true)
		return err
	}
	return nil
}

func (c *wsConn) Ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.sock.WriteControl(websocket.PingMessage, nil, time.Now().Add(c.writeTimeout)); err != nil {
		c.closed.Store(true)
		return err
	}
	return nil
}

func (c *wsConn) IsOpen() bool {
	return !c.closed.Load()
}

func (c *wsConn) Close(code int, reason string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Swap(true) {
		return nil
	}
	msg := websocket.FormatCloseMessage(code, reason)
	c.sock.WriteControl(websocket.CloseMessage, msg, time.Now().Add(c.writeTimeout))
	return c.sock.Close()
}

// markClosed records transport death observed by the read loop so the
// reaper can collect the entry even when deregistration raced.
func (c *wsConn) markClosed() {
	c.closed.Store(true)
}
