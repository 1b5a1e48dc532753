package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/spf13/viper"

	"github.com/limelightcms/limelight/internal/config"
	"github.com/limelightcms/limelight/internal/metrics"
	"github.com/limelightcms/limelight/internal/testutil"
)

func newMetrics(t *testing.T) *metrics.Metrics {
	t.Helper()
	m := metrics.New()
	if err := m.Init(config.New(viper.New()), testutil.Logger()); err != nil {
		t.Fatalf("Init: %v", err)
	}
	return m
}

func scrape(t *testing.T, m *metrics.Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Routes()[0].Handler(rec, httptest.NewRequest("GET", "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("scrape status = %d, want 200", rec.Code)
	}
	return rec.Body.String()
}

func TestMetrics_MiddlewareCountsRequests(t *testing.T) {
	m := newMetrics(t)

	handler := m.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))

	for _, path := range []string{"/api/v1/health", "/api/v1/health", "/missing"} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest("GET", path, nil))
	}

	body := scrape(t, m)
	if !strings.Contains(body, `limelight_http_requests_total{code="200",method="GET"} 2`) {
		t.Errorf("missing 200 counter in scrape output:\n%s", body)
	}
	if !strings.Contains(body, `limelight_http_requests_total{code="404",method="GET"} 1`) {
		t.Errorf("missing 404 counter in scrape output:\n%s", body)
	}
	if !strings.Contains(body, "limelight_http_request_duration_seconds") {
		t.Error("missing duration histogram in scrape output")
	}
}

func TestMetrics_ScrapeNotCounted(t *testing.T) {
	m := newMetrics(t)

	handler := m.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	if strings.Contains(scrape(t, m), `limelight_http_requests_total`) {
		t.Error("scrape endpoint counted itself")
	}
}

func TestMetrics_GoRuntimeCollectors(t *testing.T) {
	m := newMetrics(t)
	if !strings.Contains(scrape(t, m), "go_goroutines") {
		t.Error("missing go runtime collector output")
	}
}
