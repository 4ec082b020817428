package metrics_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"QRFeedback/feedback-backend/internal/metrics"

	"github.com/stretchr/testify/require"
)

func TestRegistryAndHandler(t *testing.T) {
	reg := metrics.InitRegistry()

	metrics.ObserveHTTP("GET /api/healthz", http.MethodGet, http.StatusOK, 12*time.Millisecond)
	metrics.ObserveAnalytics("form_analytics", "ok", 30*time.Millisecond)
	metrics.ObserveExport("form", "csv", 3)

	w := httptest.NewRecorder()
	metrics.Handler(reg).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)

	body, err := io.ReadAll(w.Body)
	require.NoError(t, err)
	out := string(body)
	require.Contains(t, out, "feedback_http_requests_total")
	require.Contains(t, out, "feedback_analytics_duration_seconds")
	require.Contains(t, out, `feedback_export_rows_total{format="csv",kind="form"}`)
}

func TestMiddleware(t *testing.T) {
	reg := metrics.InitRegistry()

	handler := metrics.Middleware(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	w := httptest.NewRecorder()
	handler(w, httptest.NewRequest(http.MethodGet, "/unmatched", nil))
	require.Equal(t, http.StatusNotFound, w.Code)

	scrape := httptest.NewRecorder()
	metrics.Handler(reg).ServeHTTP(scrape, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Contains(t, scrape.Body.String(), `feedback_http_requests_total{method="GET",route="/unmatched",status="404"}`)
}
