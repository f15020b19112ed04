package monitoring

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Readiness statuses reported by /ready. The service is ready only
// while every configured check passes.
const (
	StatusReady    = "ready"
	StatusDegraded = "degraded"
)

type readinessCheck struct {
	name    string
	timeout time.Duration
	run     func(ctx context.Context) error
}

// HealthChecker runs the notifier's readiness checks: the Redis store
// when one is configured, and the TipSent subscription.
type HealthChecker struct {
	mu     sync.RWMutex
	checks []readinessCheck
}

// HealthStatus is the /ready response body. Checks maps each check
// name to "ok" or the failure detail.
type HealthStatus struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Checks    map[string]string `json:"checks"`
}

func NewHealthChecker() *HealthChecker {
	return &HealthChecker{}
}

func (h *HealthChecker) addCheck(name string, timeout time.Duration, run func(ctx context.Context) error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checks = append(h.checks, readinessCheck{name: name, timeout: timeout, run: run})
}

// AddRedisCheck reports store connectivity. Skipped entirely when the
// service runs on memory repositories.
func (h *HealthChecker) AddRedisCheck(client *redis.Client, timeout time.Duration) {
	if client == nil {
		return
	}
	h.addCheck("redis", timeout, func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	})
}

// AddChainListenerCheck reports the tip event subscription. The
// listener is ready only while subscribed; a reconnect in progress
// reports degraded.
func (h *HealthChecker) AddChainListenerCheck(state func() string, timeout time.Duration) {
	h.addCheck("chain_listener", timeout, func(ctx context.Context) error {
		if s := state(); s != "subscribed" {
			return fmt.Errorf("listener state: %s", s)
		}
		return nil
	})
}

// CheckAll runs every check and aggregates the result. One failure
// degrades the whole report.
func (h *HealthChecker) CheckAll(ctx context.Context) HealthStatus {
	h.mu.RLock()
	defer h.mu.RUnlock()

	status := HealthStatus{
		Status:    StatusReady,
		Timestamp: time.Now(),
		Checks:    make(map[string]string, len(h.checks)),
	}

	for _, c := range h.checks {
		checkCtx, cancel := context.WithTimeout(ctx, c.timeout)
		err := c.run(checkCtx)
		cancel()

		if err != nil {
			status.Status = StatusDegraded
			status.Checks[c.name] = err.Error()
			continue
		}
		status.Checks[c.name] = "ok"
	}

	return status
}
