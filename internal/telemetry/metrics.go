package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Attempt and pass outcome labels.
const (
	resultOK                 = "ok"
	resultTransportError     = "transport_error"
	resultNormalizationError = "normalization_error"

	outcomeSuccess   = "success"
	outcomeAllFailed = "all_failed"
	outcomeDiscarded = "discarded"
)

// Metrics holds the engine collectors. A nil *Metrics records nothing.
type Metrics struct {
	attempts            *prometheus.CounterVec
	passes              *prometheus.CounterVec
	skippedTicks        prometheus.Counter
	analytics           *prometheus.CounterVec
	consecutiveFailures prometheus.Gauge
	state               *prometheus.GaugeVec
}

// NewMetrics registers the engine collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		attempts: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dashboard",
			Name:      "endpoint_attempts_total",
			Help:      "Endpoint attempts by catalog entry and result.",
		}, []string{"endpoint", "result"}),
		passes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dashboard",
			Name:      "resolution_passes_total",
			Help:      "Resolution passes by outcome.",
		}, []string{"outcome"}),
		skippedTicks: f.NewCounter(prometheus.CounterOpts{
			Namespace: "dashboard",
			Name:      "fast_ticks_skipped_total",
			Help:      "Fast ticks skipped because a pass was still in flight.",
		}),
		analytics: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dashboard",
			Name:      "analytics_fetches_total",
			Help:      "Analytics fetches by fetcher and result.",
		}, []string{"fetcher", "result"}),
		consecutiveFailures: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "dashboard",
			Name:      "consecutive_failed_passes",
			Help:      "Consecutive resolution passes where every source failed.",
		}),
		state: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "dashboard",
			Name:      "connection_state",
			Help:      "1 for the current connection state, 0 otherwise.",
		}, []string{"state"}),
	}
}

func (m *Metrics) attempt(endpoint, result string) {
	if m == nil {
		return
	}
	m.attempts.WithLabelValues(endpoint, result).Inc()
}

func (m *Metrics) pass(outcome string) {
	if m == nil {
		return
	}
	m.passes.WithLabelValues(outcome).Inc()
}

func (m *Metrics) skipped() {
	if m == nil {
		return
	}
	m.skippedTicks.Inc()
}

func (m *Metrics) analyticsFetch(fetcher, result string) {
	if m == nil {
		return
	}
	m.analytics.WithLabelValues(fetcher, result).Inc()
}

func (m *Metrics) status(state string, failures int) {
	if m == nil {
		return
	}
	m.consecutiveFailures.Set(float64(failures))
	for _, s := range allStates {
		v := 0.0
		if s == state {
			v = 1
		}
		m.state.WithLabelValues(s).Set(v)
	}
}
