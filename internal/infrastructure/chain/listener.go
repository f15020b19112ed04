package chain

import (
	"context"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.uber.org/zap"

	"github.com/tessyjonburica/Droppio/internal/core/ports"
	"github.com/tessyjonburica/Droppio/internal/infrastructure/monitoring"
	"github.com/tessyjonburica/Droppio/pkg/backoff"
)

type State string

const (
	StateStopped      State = "stopped"
	StateConnecting   State = "connecting"
	StateSubscribed   State = "subscribed"
	StateDisconnected State = "disconnected"
)

// Backend is the slice of the RPC client the listener needs. ethclient
// satisfies it; tests substitute a fake.
type Backend interface {
	SubscribeFilterLogs(ctx context.Context, q ethereum.FilterQuery, ch chan<- types.Log) (ethereum.Subscription, error)
	Close()
}

// DialFunc opens a backend against a WebSocket RPC endpoint.
type DialFunc func(ctx context.Context, url string) (Backend, error)

// DialEthclient is the production DialFunc.
func DialEthclient(ctx context.Context, url string) (Backend, error) {
	client, err := ethclient.DialContext(ctx, url)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// Listener maintains a log subscription for TipSent events on the tip
// contract and feeds decoded events to the processor. A dropped
// subscription triggers reconnection with a growing delay; once the
// attempt budget is spent the listener stops for good and the process
// keeps serving already-connected clients.
type Listener struct {
	rpcURL    string
	contract  common.Address
	dial      DialFunc
	processor ports.TipProcessor
	policy    backoff.Policy
	logger    *zap.SugaredLogger
	metrics   *monitoring.Collector

	mu       sync.Mutex
	state    State
	attempts int
	backend  Backend
	sub      ethereum.Subscription
	timer    *time.Timer
	stopped  bool

	ctx    context.Context
	cancel context.CancelFunc
}

func NewListener(
	rpcURL string,
	contract common.Address,
	dial DialFunc,
	processor ports.TipProcessor,
	policy backoff.Policy,
	logger *zap.SugaredLogger,
	metrics *monitoring.Collector,
) *Listener {
	return &Listener{
		rpcURL:    rpcURL,
		contract:  contract,
		dial:      dial,
		processor: processor,
		policy:    policy,
		logger:    logger,
		metrics:   metrics,
		state:     StateStopped,
	}
}

// Start connects and subscribes. Connection failures do not surface as
// errors; they enter the same reconnect path as a dropped subscription,
// so Start always returns nil unless the listener was already started.
func (l *Listener) Start(ctx context.Context) {
	l.mu.Lock()
	if l.state != StateStopped || l.stopped {
		l.mu.Unlock()
		return
	}
	l.ctx, l.cancel = context.WithCancel(ctx)
	l.state = StateConnecting
	l.mu.Unlock()

	go l.connect()
}

func (l *Listener) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

func (l *Listener) connect() {
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return
	}
	l.state = StateConnecting
	ctx := l.ctx
	l.mu.Unlock()

	backend, err := l.dial(ctx, l.rpcURL)
	if err != nil {
		l.logger.Warnw("chain dial failed", "url", l.rpcURL, "error", err)
		l.handleDisconnect()
		return
	}

	logs := make(chan types.Log, 64)
	query := ethereum.FilterQuery{
		Addresses: []common.Address{l.contract},
		Topics:    [][]common.Hash{{TipSentTopic}},
	}
	sub, err := backend.SubscribeFilterLogs(ctx, query, logs)
	if err != nil {
		backend.Close()
		l.logger.Warnw("log subscription failed", "contract", l.contract.Hex(), "error", err)
		l.handleDisconnect()
		return
	}

	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		sub.Unsubscribe()
		backend.Close()
		return
	}
	l.backend = backend
	l.sub = sub
	l.state = StateSubscribed
	l.attempts = 0
	l.mu.Unlock()

	l.metrics.SetChainListenerUp(true)
	l.logger.Infow("subscribed to tip events", "contract", l.contract.Hex())

	go l.run(ctx, sub, logs)
}

func (l *Listener) run(ctx context.Context, sub ethereum.Subscription, logs <-chan types.Log) {
	for {
		select {
		case <-ctx.Done():
			return
		case err := <-sub.Err():
			if err != nil {
				l.logger.Warnw("log subscription dropped", "error", err)
			}
			l.handleDisconnect()
			return
		case logEntry := <-logs:
			l.handleLog(ctx, logEntry)
		}
	}
}

// handleLog decodes and processes one event. A malformed log or a
// processing failure is logged and dropped; it never tears down the
// subscription.
func (l *Listener) handleLog(ctx context.Context, logEntry types.Log) {
	event, err := DecodeTipSent(logEntry)
	if err != nil {
		l.logger.Warnw("discarding undecodable tip log", "tx", logEntry.TxHash.Hex(), "error", err)
		l.metrics.RecordTipDropped()
		return
	}
	if err := l.processor.ProcessTipEvent(ctx, event); err != nil {
		l.logger.Errorw("tip processing failed", "tx", event.TxHash, "error", err)
		l.metrics.RecordTipDropped()
		return
	}
	l.metrics.RecordTipProcessed()
}

func (l *Listener) handleDisconnect() {
	l.metrics.SetChainListenerUp(false)

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.stopped {
		return
	}

	l.cleanupLocked()
	l.attempts++

	if l.policy.Exhausted(l.attempts) {
		l.state = StateStopped
		l.logger.Errorw("reconnect budget exhausted, giving up on chain events", "attempts", l.attempts)
		return
	}

	l.metrics.RecordChainReconnect()
	delay := l.policy.Delay(l.attempts)
	l.state = StateDisconnected
	l.logger.Infow("scheduling chain reconnect", "attempt", l.attempts, "delay", delay)
	l.timer = time.AfterFunc(delay, l.connect)
}

// Stop is idempotent and safe to call concurrently with a reconnect in
// flight.
func (l *Listener) Stop() {
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return
	}
	l.stopped = true
	if l.timer != nil {
		l.timer.Stop()
	}
	l.cleanupLocked()
	l.state = StateStopped
	cancel := l.cancel
	l.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	l.metrics.SetChainListenerUp(false)
	l.logger.Info("chain listener stopped")
}

func (l *Listener) cleanupLocked() {
	if l.sub != nil {
		l.sub.Unsubscribe()
		l.sub = nil
	}
	if l.backend != nil {
		l.backend.Close()
		l.backend = nil
	}
}
