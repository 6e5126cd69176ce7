package telemetry

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := NewMetrics()

	m.ObserveHTTP("GET", "/api/v1/jobs", 200, 15*time.Millisecond)
	m.ObserveHTTP("GET", "/api/v1/jobs", 200, 5*time.Millisecond)
	m.DocumentCreated("invoice")
	m.StripeEvent("customer.subscription.updated", "processed")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/api/v1/jobs", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.documentsCreated.WithLabelValues("invoice")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.stripeEvents.WithLabelValues("customer.subscription.updated", "processed")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveHTTP("GET", "/", 200, time.Millisecond)
		m.DocumentCreated("quote")
		m.InvoiceIssued(10)
		m.StripeEvent("x", "ignored")
	})
}

func TestMetrics_Handler(t *testing.T) {
	m := NewMetrics()
	m.InvoiceIssued(120)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "shopfloor_invoice_total_amount")
}
