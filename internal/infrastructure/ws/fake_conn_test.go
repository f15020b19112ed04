package ws

import "sync"

// fakeConn is an in-memory Conn for registry, fan-out and heartbeat
// tests.
type fakeConn struct {
	mu        sync.Mutex
	open      bool
	writes    []interface{}
	writeErr  error
	pingErr   error
	pings     int
	closeCode int
	closed    bool
}

func newFakeConn() *fakeConn {
	return &fakeConn{open: true}
}

func (c *fakeConn) WriteJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.writeErr != nil {
		return c.writeErr
	}
	c.writes = append(c.writes, v)
	return nil
}

func (c *fakeConn) Ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pings++
	return c.pingErr
}

func (c *fakeConn) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open
}

func (c *fakeConn) Close(code int, reason string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.open = false
	c.closed = true
	c.closeCode = code
	return nil
}

func (c *fakeConn) events() []interface{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]interface{}, len(c.writes))
	copy(out, c.writes)
	return out
}
