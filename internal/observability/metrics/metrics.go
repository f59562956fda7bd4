package metrics

import "github.com/prometheus/client_golang/prometheus"

// SchedulingMetrics exposes counters/histograms for the booking flows.
type SchedulingMetrics struct {
	availabilityTotal *prometheus.CounterVec
	bookingsTotal     *prometheus.CounterVec
	webhookTotal      *prometheus.CounterVec
	actionLatency     *prometheus.HistogramVec
}

func NewSchedulingMetrics(reg prometheus.Registerer) *SchedulingMetrics {
	m := &SchedulingMetrics{
		availabilityTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "buildquick",
			Subsystem: "scheduling",
			Name:      "availability_requests_total",
			Help:      "Total availability lookups",
		}, []string{"source", "status"}),
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "buildquick",
			Subsystem: "scheduling",
			Name:      "bookings_total",
			Help:      "Total booking attempts",
		}, []string{"status", "fallback"}),
		webhookTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "buildquick",
			Subsystem: "scheduling",
			Name:      "webhook_total",
			Help:      "Total inbound provider webhooks",
		}, []string{"event", "status"}),
		actionLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "buildquick",
			Subsystem: "scheduling",
			Name:      "action_latency_seconds",
			Help:      "Latency of scheduling API actions",
			Buckets:   prometheus.DefBuckets,
		}, []string{"action"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.availabilityTotal, m.bookingsTotal, m.webhookTotal, m.actionLatency)
	return m
}

func (m *SchedulingMetrics) ObserveAvailability(source, status string) {
	if m == nil {
		return
	}
	m.availabilityTotal.WithLabelValues(source, status).Inc()
}

func (m *SchedulingMetrics) ObserveBooking(status string, fallback bool) {
	if m == nil {
		return
	}
	label := "false"
	if fallback {
		label = "true"
	}
	m.bookingsTotal.WithLabelValues(status, label).Inc()
}

func (m *SchedulingMetrics) ObserveWebhook(event, status string) {
	if m == nil {
		return
	}
	m.webhookTotal.WithLabelValues(event, status).Inc()
}

func (m *SchedulingMetrics) ObserveActionLatency(action string, seconds float64) {
	if m == nil {
		return
	}
	m.actionLatency.WithLabelValues(action).Observe(seconds)
}
