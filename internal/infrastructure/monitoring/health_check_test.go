package monitoring

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckAllReadyWithNoChecks(t *testing.T) {
	h := NewHealthChecker()

	status := h.CheckAll(context.Background())

	assert.Equal(t, StatusReady, status.Status)
	assert.Empty(t, status.Checks)
}

func TestChainListenerCheckFollowsState(t *testing.T) {
	state := "subscribed"
	h := NewHealthChecker()
	h.AddChainListenerCheck(func() string { return state }, time.Second)

	status := h.CheckAll(context.Background())
	require.Equal(t, StatusReady, status.Status)
	assert.Equal(t, "ok", status.Checks["chain_listener"])

	state = "disconnected"
	status = h.CheckAll(context.Background())
	assert.Equal(t, StatusDegraded, status.Status)
	assert.Equal(t, "listener state: disconnected", status.Checks["chain_listener"])
}

func TestOneFailingCheckDegradesReport(t *testing.T) {
	h := NewHealthChecker()
	h.addCheck("good", time.Second, func(ctx context.Context) error { return nil })
	h.AddChainListenerCheck(func() string { return "stopped" }, time.Second)

	status := h.CheckAll(context.Background())

	assert.Equal(t, StatusDegraded, status.Status)
	assert.Equal(t, "ok", status.Checks["good"])
	assert.Equal(t, "listener state: stopped", status.Checks["chain_listener"])
}

func TestRedisCheckSkippedWithoutClient(t *testing.T) {
	h := NewHealthChecker()
	h.AddRedisCheck(nil, time.Second)

	status := h.CheckAll(context.Background())

	assert.Equal(t, StatusReady, status.Status)
	assert.NotContains(t, status.Checks, "redis")
}
