package telemetry

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics exposes the Prometheus instruments used by the API
type Metrics struct {
	registry *prometheus.Registry

	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
	documentsCreated *prometheus.CounterVec
	invoiceAmount    prometheus.Histogram
	stripeEvents     *prometheus.CounterVec
}

// NewMetrics registers instruments on a dedicated registry
func NewMetrics() *Metrics {
	httpRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shopfloor_http_requests_total",
		Help: "HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})

	httpDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "shopfloor_http_request_duration_seconds",
		Help:    "HTTP request latency by method and route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	documentsCreated := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shopfloor_documents_created_total",
		Help: "Quotes, jobs, invoices and purchase orders created.",
	}, []string{"kind"})

	invoiceAmount := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "shopfloor_invoice_total_amount",
		Help:    "Distribution of issued invoice totals.",
		Buckets: []float64{10, 50, 100, 250, 500, 1000, 5000, 10000},
	})

	stripeEvents := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shopfloor_stripe_webhook_events_total",
		Help: "Stripe webhook events by type and outcome.",
	}, []string{"type", "outcome"})

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		httpRequests,
		httpDuration,
		documentsCreated,
		invoiceAmount,
		stripeEvents,
	)

	return &Metrics{
		registry:         reg,
		httpRequests:     httpRequests,
		httpDuration:     httpDuration,
		documentsCreated: documentsCreated,
		invoiceAmount:    invoiceAmount,
		stripeEvents:     stripeEvents,
	}
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveHTTP records one served request
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// DocumentCreated counts a newly numbered document
func (m *Metrics) DocumentCreated(kind string) {
	if m == nil {
		return
	}
	m.documentsCreated.WithLabelValues(kind).Inc()
}

// InvoiceIssued records the total of a generated invoice
func (m *Metrics) InvoiceIssued(total float64) {
	if m == nil {
		return
	}
	m.invoiceAmount.Observe(total)
}

// StripeEvent counts a processed Stripe webhook event
func (m *Metrics) StripeEvent(eventType, outcome string) {
	if m == nil {
		return
	}
	m.stripeEvents.WithLabelValues(eventType, outcome).Inc()
}
