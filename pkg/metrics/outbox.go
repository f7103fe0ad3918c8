package metrics

import "github.com/prometheus/client_golang/prometheus"

// OutboxMetrics tracks the publisher's relay of domain events.
type OutboxMetrics struct {
	published *prometheus.CounterVec
	failed    *prometheus.CounterVec
	pending   prometheus.Gauge
}

// NewOutboxMetrics registers the outbox metrics on the provided registerer.
func NewOutboxMetrics(reg prometheus.Registerer) *OutboxMetrics {
	if reg == nil {
		return &OutboxMetrics{}
	}
	published := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storefront",
		Name:      "outbox_published_total",
		Help:      "Outbox events published to Pub/Sub.",
	}, []string{"event_type"})
	failed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storefront",
		Name:      "outbox_publish_failures_total",
		Help:      "Outbox publish attempts that failed.",
	}, []string{"event_type"})
	pending := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "storefront",
		Name:      "outbox_last_batch_size",
		Help:      "Number of events fetched in the most recent batch.",
	})
	reg.MustRegister(published, failed, pending)
	return &OutboxMetrics{published: published, failed: failed, pending: pending}
}

// IncPublished counts a successful publish.
func (m *OutboxMetrics) IncPublished(eventType string) {
	if m == nil || m.published == nil {
		return
	}
	m.published.WithLabelValues(normalizeLabel(eventType)).Inc()
}

// IncFailed counts a failed publish.
func (m *OutboxMetrics) IncFailed(eventType string) {
	if m == nil || m.failed == nil {
		return
	}
	m.failed.WithLabelValues(normalizeLabel(eventType)).Inc()
}

// SetBatchSize records how many rows the last poll returned.
func (m *OutboxMetrics) SetBatchSize(n int) {
	if m == nil || m.pending == nil {
		return
	}
	m.pending.Set(float64(n))
}
