// Package metrics exposes Prometheus collectors for the storefront.
// All recording methods are safe to call on a nil *Metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "foodexpress"

// Metrics holds the storefront collectors on a private registry.
type Metrics struct {
	registry         *prometheus.Registry
	sessions         prometheus.Gauge
	logins           *prometheus.CounterVec
	cartMutations    *prometheus.CounterVec
	ordersStarted    *prometheus.CounterVec
	orderTransitions *prometheus.CounterVec
	ratingStars      prometheus.Histogram
}

// New creates and registers all collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "open_sessions",
			Help:      "Number of open storefront sessions.",
		}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logins_total",
			Help:      "Login and signup attempts by kind and outcome.",
		}, []string{"kind", "outcome"}),
		cartMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_mutations_total",
			Help:      "Cart operations by kind.",
		}, []string{"op"}),
		ordersStarted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_started_total",
			Help:      "Orders started at checkout by payment method.",
		}, []string{"payment"}),
		orderTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_transitions_total",
			Help:      "Order status transitions by target status.",
		}, []string{"status"}),
		ratingStars: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rating_stars",
			Help:      "Distribution of submitted rating scores.",
			Buckets:   []float64{1, 2, 3, 4, 5},
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.sessions,
		m.logins,
		m.cartMutations,
		m.ordersStarted,
		m.orderTransitions,
		m.ratingStars,
	)
	return m
}

// Registry returns the registry the collectors live on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the exposition format for the registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// SessionOpened counts a newly opened storefront.
func (m *Metrics) SessionOpened() {
	if m == nil {
		return
	}
	m.sessions.Inc()
}

// SessionClosed releases a storefront from the open sessions gauge.
func (m *Metrics) SessionClosed() {
	if m == nil {
		return
	}
	m.sessions.Dec()
}

// Login records a login or signup attempt. kind is "login" or "signup".
func (m *Metrics) Login(kind string, ok bool) {
	if m == nil {
		return
	}
	outcome := "success"
	if !ok {
		outcome = "failure"
	}
	m.logins.WithLabelValues(kind, outcome).Inc()
}

// CartMutation counts a cart change by operation.
func (m *Metrics) CartMutation(op string) {
	if m == nil {
		return
	}
	m.cartMutations.WithLabelValues(op).Inc()
}

// OrderStarted counts a checkout by payment method.
func (m *Metrics) OrderStarted(payment string) {
	if m == nil {
		return
	}
	m.ordersStarted.WithLabelValues(payment).Inc()
}

// OrderTransition counts an order reaching status.
func (m *Metrics) OrderTransition(status string) {
	if m == nil {
		return
	}
	m.orderTransitions.WithLabelValues(status).Inc()
}

// RatingSubmitted observes the stars of a rating.
func (m *Metrics) RatingSubmitted(stars int) {
	if m == nil {
		return
	}
	m.ratingStars.Observe(float64(stars))
}
