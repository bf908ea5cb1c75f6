package metrics_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yieldcanary/yieldcanary/pkg/metrics"
)

func TestCounters(t *testing.T) {
	t.Parallel()

	m := metrics.New()
	m.WebhookEvents.WithLabelValues("customer.subscription.deleted", metrics.OutcomeOK).Inc()
	m.UnmappedPrices.Inc()
	m.UnmappedPrices.Inc()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.WebhookEvents.WithLabelValues("customer.subscription.deleted", metrics.OutcomeOK)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.UnmappedPrices))
}

func TestHandlerAndMiddleware(t *testing.T) {
	t.Parallel()

	m := metrics.New()
	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/etfs/{ticker}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Handle("/metrics", m.Handler())

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/etfs/QYLD", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `yieldcanary_http_request_duration_seconds_count{method="GET",route="/etfs/{ticker}",status="200"} 1`)
}
