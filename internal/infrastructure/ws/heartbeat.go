package ws

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/tessyjonburica/Droppio/internal/infrastructure/monitoring"
)

// Heartbeat pings every registered connection on a fixed interval and
// evicts connections whose liveness timestamp has gone stale. Eviction
// removes the registry entry only; closing the socket is left to the
// connection's own read loop noticing the failure.
type Heartbeat struct {
	registry     *Registry
	logger       *zap.SugaredLogger
	metrics      *monitoring.Collector
	pingInterval time.Duration
	pongTimeout  time.Duration
	reapInterval time.Duration

	cancel context.CancelFunc
	done   chan struct{}
}

func NewHeartbeat(registry *Registry, logger *zap.SugaredLogger, metrics *monitoring.Collector, pingInterval, pongTimeout, reapInterval time.Duration) *Heartbeat {
	return &Heartbeat{
		registry:     registry,
		logger:       logger,
		metrics:      metrics,
		pingInterval: pingInterval,
		pongTimeout:  pongTimeout,
		reapInterval: reapInterval,
	}
}

func (h *Heartbeat) Start(ctx context.Context) {
	ctx, h.cancel = context.WithCancel(ctx)
	h.done = make(chan struct{})
	go h.run(ctx)
}

func (h *Heartbeat) Stop() {
	if h.cancel == nil {
		return
	}
	h.cancel()
	<-h.done
}

func (h *Heartbeat) run(ctx context.Context) {
	defer close(h.done)

	ping := time.NewTicker(h.pingInterval)
	defer ping.Stop()
	reap := time.NewTicker(h.reapInterval)
	defer reap.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ping.C:
			h.pingSweep()
		case <-reap.C:
			h.reapSweep()
		}
	}
}

// pingSweep writes a ping frame to every connection. A connection that
// is already closed or fails the write is evicted immediately rather
// than waiting for the reaper.
func (h *Heartbeat) pingSweep() {
	for _, c := range h.registry.Snapshot() {
		if !c.Conn().IsOpen() {
			h.evict(c, "closed")
			continue
		}
		if err := c.Conn().Ping(); err != nil {
			h.logger.Debugw("ping failed", "channel", c.Channel(), "key", c.Key(), "error", err)
			h.evict(c, "ping_failed")
		}
	}
}

// reapSweep evicts connections that have not refreshed their liveness
// timestamp within the pong timeout.
func (h *Heartbeat) reapSweep() {
	cutoff := time.Now().Add(-h.pongTimeout)
	for _, c := range h.registry.Snapshot() {
		if !c.Conn().IsOpen() {
			h.evict(c, "closed")
			continue
		}
		if h.registry.LastPing(c).Before(cutoff) {
			h.logger.Infow("reaping stale connection", "channel", c.Channel(), "key", c.Key())
			h.evict(c, "stale")
		}
	}
}

func (h *Heartbeat) evict(c *Connection, reason string) {
	h.registry.Deregister(c)
	h.metrics.RecordConnectionReaped(string(c.Channel()))
	_ = c.Conn().Close(1000, reason)
}
