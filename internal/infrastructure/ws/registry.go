package ws

import (
	"sync"
	"time"

	"github.com/tessyjonburica/Droppio/internal/core/domain"
)

type ChannelType string

const (
	ChannelStreamer ChannelType = "streamer"
	ChannelViewer   ChannelType = "viewer"
	ChannelOverlay  ChannelType = "overlay"
)

// Connection is a live registered transport session. It is owned by the
// Registry once registered; lastPing is registry-internal state mutated
// only via Touch.
type Connection struct {
	conn     Conn
	channel  ChannelType
	key      string
	userID   domain.UserID
	lastPing time.Time
}

// Conn exposes the transport handle for delivery.
func (c *Connection) Conn() Conn { return c.conn }

func (c *Connection) Channel() ChannelType { return c.channel }
func (c *Connection) Key() string          { return c.key }
func (c *Connection) UserID() domain.UserID { return c.userID }

// Registry is the in-memory store of live connections, keyed by channel
// type and entity id. Streamer and overlay channels hold at most one
// connection per key (a new registration silently supersedes, without
// closing, the previous occupant); the viewer channel holds a set per
// stream. One registry-wide lock serializes all mutation; connection
// churn is low relative to tip volume, so contention is acceptable.
type Registry struct {
	mu        sync.RWMutex
	streamers map[string]*Connection
	viewers   map[string]map[*Connection]struct{}
	overlays  map[string]*Connection
}

func NewRegistry() *Registry {
	return &Registry{
		streamers: make(map[string]*Connection),
		viewers:   make(map[string]map[*Connection]struct{}),
		overlays:  make(map[string]*Connection),
	}
}

// Register inserts a connection under (channel, key) according to the
// channel's cardinality rule and returns the registered instance.
func (r *Registry) Register(channel ChannelType, key string, conn Conn, userID domain.UserID) *Connection {
	c := &Connection{
		conn:     conn,
		channel:  channel,
		key:      key,
		userID:   userID,
		lastPing: time.Now(),
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	switch channel {
	case ChannelStreamer:
		r.streamers[key] = c
	case ChannelOverlay:
		r.overlays[key] = c
	case ChannelViewer:
		set, ok := r.viewers[key]
		if !ok {
			set = make(map[*Connection]struct{})
			r.viewers[key] = set
		}
		set[c] = struct{}{}
	}

	return c
}

// Deregister removes the specific connection instance. A stale
// deregister from a superseded connection never evicts the current
// occupant of the same key.
func (r *Registry) Deregister(c *Connection) {
	if c == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	switch c.channel {
	case ChannelStreamer:
		if cur, ok := r.streamers[c.key]; ok && cur == c {
			delete(r.streamers, c.key)
		}
	case ChannelOverlay:
		if cur, ok := r.overlays[c.key]; ok && cur == c {
			delete(r.overlays, c.key)
		}
	case ChannelViewer:
		if set, ok := r.viewers[c.key]; ok {
			delete(set, c)
			if len(set) == 0 {
				delete(r.viewers, c.key)
			}
		}
	}
}

// Lookup returns the connections registered under (channel, key).
// Absence is a normal result: no subscriber, empty slice.
func (r *Registry) Lookup(channel ChannelType, key string) []*Connection {
	r.mu.RLock()
	defer r.mu.RUnlock()

	switch channel {
	case ChannelStreamer:
		if c, ok := r.streamers[key]; ok {
			return []*Connection{c}
		}
	case ChannelOverlay:
		if c, ok := r.overlays[key]; ok {
			return []*Connection{c}
		}
	case ChannelViewer:
		set := r.viewers[key]
		conns := make([]*Connection, 0, len(set))
		for c := range set {
			conns = append(conns, c)
		}
		return conns
	}
	return nil
}

func (r *Registry) ViewerCount(streamID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.viewers[streamID])
}

// Snapshot returns every connection across all channels. Safe to call
// concurrently with register/deregister; the result is a point-in-time
// copy the heartbeat and reaper iterate without holding the lock.
func (r *Registry) Snapshot() []*Connection {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var conns []*Connection
	for _, c := range r.streamers {
		conns = append(conns, c)
	}
	for _, set := range r.viewers {
		for c := range set {
			conns = append(conns, c)
		}
	}
	for _, c := range r.overlays {
		conns = append(conns, c)
	}
	return conns
}

// Touch refreshes a connection's liveness timestamp.
func (r *Registry) Touch(c *Connection) {
	if c == nil {
		return
	}
	r.mu.Lock()
	c.lastPing = time.Now()
	r.mu.Unlock()
}

// LastPing reads a connection's liveness timestamp under the registry
// lock.
func (r *Registry) LastPing(c *Connection) time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return c.lastPing
}

// Counts reports connections per channel, for metrics and health.
func (r *Registry) Counts() (streamers, viewers, overlays int) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, set := range r.viewers {
		viewers += len(set)
	}
	return len(r.streamers), viewers, len(r.overlays)
}

// CloseAll closes every registered connection and empties the registry.
// Used on shutdown only.
func (r *Registry) CloseAll(code int, reason string) {
	r.mu.Lock()
	conns := make([]*Connection, 0)
	for _, c := range r.streamers {
		conns = append(conns, c)
	}
	for _, set := range r.viewers {
		for c := range set {
			conns = append(conns, c)
		}
	}
	for _, c := range r.overlays {
		conns = append(conns, c)
	}
	r.streamers = make(map[string]*Connection)
	r.viewers = make(map[string]map[*Connection]struct{})
	r.overlays = make(map[string]*Connection)
	r.mu.Unlock()

	for _, c := range conns {
		c.conn.Close(code, reason)
	}
}
