package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// WebhookMetrics records payment webhook reconciliation outcomes.
type WebhookMetrics struct {
	received    *prometheus.CounterVec
	fulfilled   prometheus.Counter
	failed      *prometheus.CounterVec
	skipped     *prometheus.CounterVec
	duration    prometheus.Histogram
	sigFailures prometheus.Counter
}

// NewWebhookMetrics registers the webhook metrics on the provided registerer.
func NewWebhookMetrics(reg prometheus.Registerer) *WebhookMetrics {
	if reg == nil {
		return &WebhookMetrics{}
	}
	received := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "webhook_events_received_total",
		Help: "Webhook events accepted after signature verification.",
	}, []string{"event_type"})
	fulfilled := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "webhook_fulfillments_total",
		Help: "Checkout sessions fulfilled into completed orders.",
	})
	failed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "webhook_fulfillment_failures_total",
		Help: "Fulfillment attempts persisted as failed orders.",
	}, []string{"reason"})
	skipped := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "webhook_events_skipped_total",
		Help: "Events acknowledged without fulfillment.",
	}, []string{"reason"})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "webhook_processing_duration_seconds",
		Help:    "Duration of webhook event processing in seconds.",
		Buckets: prometheus.DefBuckets,
	})
	sigFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "webhook_signature_failures_total",
		Help: "Webhook deliveries rejected for an invalid signature.",
	})
	reg.MustRegister(received, fulfilled, failed, skipped, duration, sigFailures)
	return &WebhookMetrics{
		received:    received,
		fulfilled:   fulfilled,
		failed:      failed,
		skipped:     skipped,
		duration:    duration,
		sigFailures: sigFailures,
	}
}

// IncReceived counts a verified event by its type.
func (m *WebhookMetrics) IncReceived(eventType string) {
	if m == nil || m.received == nil {
		return
	}
	m.received.WithLabelValues(normalizeLabel(eventType)).Inc()
}

// IncFulfilled counts a completed fulfillment.
func (m *WebhookMetrics) IncFulfilled() {
	if m == nil || m.fulfilled == nil {
		return
	}
	m.fulfilled.Inc()
}

// IncFailed counts a fulfillment persisted as a failed order.
func (m *WebhookMetrics) IncFailed(reason string) {
	if m == nil || m.failed == nil {
		return
	}
	m.failed.WithLabelValues(normalizeLabel(reason)).Inc()
}

// IncSkipped counts an event acknowledged without fulfillment.
func (m *WebhookMetrics) IncSkipped(reason string) {
	if m == nil || m.skipped == nil {
		return
	}
	m.skipped.WithLabelValues(normalizeLabel(reason)).Inc()
}

// IncSignatureFailure counts a delivery rejected at the signature gate.
func (m *WebhookMetrics) IncSignatureFailure() {
	if m == nil || m.sigFailures == nil {
		return
	}
	m.sigFailures.Inc()
}

// ObserveDuration records the processing time for one delivery.
func (m *WebhookMetrics) ObserveDuration(d time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.Observe(d.Seconds())
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
