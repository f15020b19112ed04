package chain

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tessyjonburica/Droppio/internal/core/domain"
	"github.com/tessyjonburica/Droppio/internal/infrastructure/monitoring"
	"github.com/tessyjonburica/Droppio/pkg/backoff"
	"github.com/tessyjonburica/Droppio/pkg/logger"
)

type fakeSubscription struct {
	errCh chan error
	once  sync.Once
}

func newFakeSubscription() *fakeSubscription {
	return &fakeSubscription{errCh: make(chan error, 1)}
}

func (s *fakeSubscription) Err() <-chan error { return s.errCh }
func (s *fakeSubscription) Unsubscribe() {
	s.once.Do(func() { close(s.errCh) })
}
func (s *fakeSubscription) fail(err error) { s.errCh <- err }

type fakeBackend struct {
	mu     sync.Mutex
	subs   []*fakeSubscription
	logsCh chan<- types.Log
	subErr error
	closed bool
}

func (b *fakeBackend) SubscribeFilterLogs(ctx context.Context, q ethereum.FilterQuery, ch chan<- types.Log) (ethereum.Subscription, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.subErr != nil {
		return nil, b.subErr
	}
	sub := newFakeSubscription()
	b.subs = append(b.subs, sub)
	b.logsCh = ch
	return sub, nil
}

func (b *fakeBackend) Close() {
	b.mu.Lock()
	b.closed = true
	b.mu.Unlock()
}

func (b *fakeBackend) emit(logEntry types.Log) {
	b.mu.Lock()
	ch := b.logsCh
	b.mu.Unlock()
	ch <- logEntry
}

type captureProcessor struct {
	mu     sync.Mutex
	events []*domain.TipSentEvent
	err    error
}

func (p *captureProcessor) ProcessTipEvent(ctx context.Context, event *domain.TipSentEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *captureProcessor) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

func newTestListener(backend *fakeBackend, dialErrs int, processor *captureProcessor, policy backoff.Policy) (*Listener, *int) {
	attempts := 0
	dial := func(ctx context.Context, url string) (Backend, error) {
		attempts++
		if attempts <= dialErrs {
			return nil, errors.New("connection refused")
		}
		return backend, nil
	}
	l := NewListener(
		"ws://localhost:8545",
		common.HexToAddress("0x1111111111111111111111111111111111111111"),
		dial,
		processor,
		policy,
		logger.Nop(),
		nil,
	)
	return l, &attempts
}

func fastPolicy(maxAttempts int) backoff.Policy {
	return backoff.Policy{
		BaseDelay:   time.Millisecond,
		MaxDelay:    5 * time.Millisecond,
		MaxAttempts: maxAttempts,
	}
}

func waitForState(t *testing.T, l *Listener, want State) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if l.State() == want {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("listener state = %s, want %s", l.State(), want)
}

func TestListenerDeliversDecodedEvents(t *testing.T) {
	backend := &fakeBackend{}
	processor := &captureProcessor{}
	l, _ := newTestListener(backend, 0, processor, fastPolicy(10))
	defer l.Stop()

	l.Start(context.Background())
	waitForState(t, l, StateSubscribed)

	amount := big.NewInt(1000000000000000000)
	backend.emit(tipLog(
		common.HexToAddress("0xaaa0000000000000000000000000000000000001"),
		common.HexToAddress("0xbbb0000000000000000000000000000000000002"),
		amount,
		[32]byte{},
	))

	deadline := time.Now().Add(2 * time.Second)
	for processor.count() == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	require.Equal(t, 1, processor.count())
	assert.Equal(t, "0xbbb0000000000000000000000000000000000002", processor.events[0].To)
}

func TestListenerReconnectsAfterSubscriptionDrop(t *testing.T) {
	backend := &fakeBackend{}
	processor := &captureProcessor{}
	l, _ := newTestListener(backend, 0, processor, fastPolicy(10))
	defer l.Stop()

	l.Start(context.Background())
	waitForState(t, l, StateSubscribed)

	backend.mu.Lock()
	first := backend.subs[0]
	backend.mu.Unlock()
	first.fail(errors.New("connection reset"))

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		backend.mu.Lock()
		n := len(backend.subs)
		backend.mu.Unlock()
		if n >= 2 && l.State() == StateSubscribed {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("listener did not resubscribe after drop")
}

func TestListenerRetriesDialFailures(t *testing.T) {
	backend := &fakeBackend{}
	processor := &captureProcessor{}
	l, dialCount := newTestListener(backend, 3, processor, fastPolicy(10))
	defer l.Stop()

	l.Start(context.Background())
	waitForState(t, l, StateSubscribed)
	assert.Equal(t, 4, *dialCount)
}

func TestListenerStopsAfterAttemptBudget(t *testing.T) {
	backend := &fakeBackend{subErr: errors.New("permanently broken")}
	processor := &captureProcessor{}
	l, _ := newTestListener(backend, 0, processor, fastPolicy(3))

	l.Start(context.Background())
	waitForState(t, l, StateStopped)
}

func TestListenerStopIsIdempotent(t *testing.T) {
	backend := &fakeBackend{}
	processor := &captureProcessor{}
	l, _ := newTestListener(backend, 0, processor, fastPolicy(10))

	l.Start(context.Background())
	waitForState(t, l, StateSubscribed)

	l.Stop()
	l.Stop()
	assert.Equal(t, StateStopped, l.State())
	assert.True(t, backend.closed)
}

func counterValue(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() == name {
			return mf.GetMetric()[0].GetCounter().GetValue()
		}
	}
	return 0
}

func TestReconnectMetricCountsScheduledAttemptsOnly(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := monitoring.NewCollectorWith(reg)

	backend := &fakeBackend{subErr: errors.New("permanently broken")}
	l := NewListener(
		"ws://localhost:8545",
		common.HexToAddress("0x1111111111111111111111111111111111111111"),
		func(ctx context.Context, url string) (Backend, error) { return backend, nil },
		&captureProcessor{},
		fastPolicy(3),
		logger.Nop(),
		metrics,
	)

	l.Start(context.Background())
	waitForState(t, l, StateStopped)

	got := counterValue(t, reg, "droppio_chain_reconnects_total")
	assert.Equal(t, float64(3), got, "the final give-up must not count as a reconnect")
}
