package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector holds the Prometheus instruments for the notifier. A nil
// *Collector is valid and records nothing, so wiring metrics stays
// optional in tests.
type Collector struct {
	connectionsActive *prometheus.GaugeVec
	connectionsTotal  *prometheus.CounterVec
	connectionsReaped *prometheus.CounterVec

	fanoutDelivered *prometheus.CounterVec
	fanoutFailed    *prometheus.CounterVec

	tipsProcessed prometheus.Counter
	tipsDropped   prometheus.Counter

	chainReconnects   prometheus.Counter
	chainListenerUp   prometheus.Gauge
	admissionRejected *prometheus.CounterVec
}

func NewCollector() *Collector {
	return NewCollectorWith(prometheus.DefaultRegisterer)
}

// NewCollectorWith registers the instruments on reg instead of the
// default registry.
func NewCollectorWith(reg prometheus.Registerer) *Collector {
	auto := promauto.With(reg)
	return &Collector{
		connectionsActive: auto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "droppio_ws_connections_active",
			Help: "Currently registered WebSocket connections per channel",
		}, []string{"channel"}),

		connectionsTotal: auto.NewCounterVec(prometheus.CounterOpts{
			Name: "droppio_ws_connections_total",
			Help: "Total accepted WebSocket connections per channel",
		}, []string{"channel"}),

		connectionsReaped: auto.NewCounterVec(prometheus.CounterOpts{
			Name: "droppio_ws_connections_reaped_total",
			Help: "Connections evicted by the heartbeat sweep per channel",
		}, []string{"channel"}),

		fanoutDelivered: auto.NewCounterVec(prometheus.CounterOpts{
			Name: "droppio_fanout_delivered_total",
			Help: "Events successfully written to subscribers per channel",
		}, []string{"channel"}),

		fanoutFailed: auto.NewCounterVec(prometheus.CounterOpts{
			Name: "droppio_fanout_failed_total",
			Help: "Event writes that failed per channel",
		}, []string{"channel"}),

		tipsProcessed: auto.NewCounter(prometheus.CounterOpts{
			Name: "droppio_tips_processed_total",
			Help: "TipSent events handled without error",
		}),

		tipsDropped: auto.NewCounter(prometheus.CounterOpts{
			Name: "droppio_tips_dropped_total",
			Help: "TipSent events that were undecodable or failed processing",
		}),

		chainReconnects: auto.NewCounter(prometheus.CounterOpts{
			Name: "droppio_chain_reconnects_total",
			Help: "Reconnect attempts scheduled against the chain RPC endpoint",
		}),

		chainListenerUp: auto.NewGauge(prometheus.GaugeOpts{
			Name: "droppio_chain_listener_up",
			Help: "1 while the TipSent subscription is live, 0 otherwise",
		}),

		admissionRejected: auto.NewCounterVec(prometheus.CounterOpts{
			Name: "droppio_ws_admission_rejected_total",
			Help: "Connection attempts rejected during admission per reason",
		}, []string{"reason"}),
	}
}

func (c *Collector) RecordConnectionOpened(channel string) {
	if c == nil {
		return
	}
	c.connectionsTotal.WithLabelValues(channel).Inc()
	c.connectionsActive.WithLabelValues(channel).Inc()
}

func (c *Collector) RecordConnectionClosed(channel string) {
	if c == nil {
		return
	}
	c.connectionsActive.WithLabelValues(channel).Dec()
}

func (c *Collector) RecordConnectionReaped(channel string) {
	if c == nil {
		return
	}
	c.connectionsReaped.WithLabelValues(channel).Inc()
}

func (c *Collector) RecordFanoutDelivered(channel string) {
	if c == nil {
		return
	}
	c.fanoutDelivered.WithLabelValues(channel).Inc()
}

func (c *Collector) RecordFanoutFailed(channel string) {
	if c == nil {
		return
	}
	c.fanoutFailed.WithLabelValues(channel).Inc()
}

func (c *Collector) RecordTipProcessed() {
	if c == nil {
		return
	}
	c.tipsProcessed.Inc()
}

func (c *Collector) RecordTipDropped() {
	if c == nil {
		return
	}
	c.tipsDropped.Inc()
}

func (c *Collector) RecordChainReconnect() {
	if c == nil {
		return
	}
	c.chainReconnects.Inc()
}

func (c *Collector) SetChainListenerUp(up bool) {
	if c == nil {
		return
	}
	if up {
		c.chainListenerUp.Set(1)
	} else {
		c.chainListenerUp.Set(0)
	}
}

func (c *Collector) RecordAdmissionRejected(reason string) {
	if c == nil {
		return
	}
	c.admissionRejected.WithLabelValues(reason).Inc()
}
