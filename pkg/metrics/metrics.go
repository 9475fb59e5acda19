package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the order-flow counters exposed on /metrics.
type Metrics struct {
	registry *prometheus.Registry

	OrdersSubmitted        prometheus.Counter
	OrderSubmissionFailed  prometheus.Counter
	OrderStatusTransitions *prometheus.CounterVec
	ReviewsSubmitted       prometheus.Counter
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: registry,
		OrdersSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pasarantar_orders_submitted_total",
			Help: "Orders accepted and persisted.",
		}),
		OrderSubmissionFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pasarantar_orders_submission_failed_total",
			Help: "Order submissions rejected by validation or storage.",
		}),
		OrderStatusTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pasarantar_order_status_transitions_total",
			Help: "Order status transitions by target status.",
		}, []string{"status"}),
		ReviewsSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pasarantar_reviews_submitted_total",
			Help: "Product reviews accepted.",
		}),
	}

	registry.MustRegister(
		m.OrdersSubmitted,
		m.OrderSubmissionFailed,
		m.OrderStatusTransitions,
		m.ReviewsSubmitted,
	)

	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Gatherer exposes the registry for tests and custom exporters.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}
