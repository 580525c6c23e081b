package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"mercator-hq/saturn/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// Helper function to create test config
func testConfig() *config.MetricsConfig {
	return &config.MetricsConfig{
		Enabled:         true,
		Namespace:       "test",
		Path:            "/metrics",
		DurationBuckets: []float64{0.001, 0.01, 0.1, 1},
	}
}

func TestNewCollector(t *testing.T) {
	cfg := testConfig()
	registry := prometheus.NewRegistry()

	collector := NewCollector(cfg, registry)

	if collector == nil {
		t.Fatal("expected non-nil collector")
	}
	if collector.Registry() != registry {
		t.Error("collector registry not set correctly")
	}
}

func TestNewCollector_NilRegistry(t *testing.T) {
	collector := NewCollector(testConfig(), nil)
	if collector.Registry() == nil {
		t.Fatal("expected collector to create its own registry")
	}
}

func TestCollector_RecordTransform(t *testing.T) {
	collector := NewCollector(testConfig(), nil)

	collector.RecordTransform("cli", "success", 2*time.Millisecond)
	collector.RecordTransform("cli", "success", 5*time.Millisecond)
	collector.RecordTransform("serve", "error", 1*time.Millisecond)

	got := testutil.ToFloat64(collector.transformsTotal.WithLabelValues("cli", "success"))
	if got != 2 {
		t.Errorf("expected 2 cli successes, got %v", got)
	}
	got = testutil.ToFloat64(collector.transformsTotal.WithLabelValues("serve", "error"))
	if got != 1 {
		t.Errorf("expected 1 serve error, got %v", got)
	}
}

func TestCollector_RecordTransformError(t *testing.T) {
	collector := NewCollector(testConfig(), nil)

	collector.RecordTransformError("missing_field")
	collector.RecordTransformError("missing_field")
	collector.RecordTransformError("spread_length_mismatch")

	got := testutil.ToFloat64(collector.transformErrors.WithLabelValues("missing_field"))
	if got != 2 {
		t.Errorf("expected 2 missing_field errors, got %v", got)
	}
}

func TestCollector_Disabled(t *testing.T) {
	cfg := testConfig()
	cfg.Enabled = false
	collector := NewCollector(cfg, nil)

	collector.RecordTransform("cli", "success", time.Millisecond)
	collector.RecordTransformError("missing_field")
	collector.IncInFlight()

	if got := testutil.ToFloat64(collector.transformsTotal.WithLabelValues("cli", "success")); got != 0 {
		t.Errorf("expected no transforms recorded when disabled, got %v", got)
	}
	if got := testutil.ToFloat64(collector.httpInFlight); got != 0 {
		t.Errorf("expected no in-flight change when disabled, got %v", got)
	}
}

func TestCollector_InFlight(t *testing.T) {
	collector := NewCollector(testConfig(), nil)

	collector.IncInFlight()
	collector.IncInFlight()
	collector.DecInFlight()

	if got := testutil.ToFloat64(collector.httpInFlight); got != 1 {
		t.Errorf("expected 1 in-flight request, got %v", got)
	}
}

func TestCollector_Handler(t *testing.T) {
	collector := NewCollector(testConfig(), nil)
	collector.RecordTransform("cli", "success", time.Millisecond)
	collector.RecordHTTPRequest("/v1/transform", http.MethodPost, "200", time.Millisecond)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	collector.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "test_transforms_total") {
		t.Errorf("expected transforms_total in exposition, got:\n%s", body)
	}
	if !strings.Contains(body, "test_http_requests_total") {
		t.Errorf("expected http_requests_total in exposition, got:\n%s", body)
	}
}
