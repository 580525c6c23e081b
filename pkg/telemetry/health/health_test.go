package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestCheckLiveness(t *testing.T) {
	checker := New(time.Second)

	status := checker.CheckLiveness(context.Background())
	if status.Status != "ok" {
		t.Errorf("expected status %q, got %q", "ok", status.Status)
	}
	if status.Timestamp.IsZero() {
		t.Error("expected non-zero timestamp")
	}
}

func TestCheckReadiness_NoChecks(t *testing.T) {
	checker := New(time.Second)

	status := checker.CheckReadiness(context.Background())
	if status.Status != "ready" {
		t.Errorf("expected status %q, got %q", "ready", status.Status)
	}
}

func TestCheckReadiness_AllHealthy(t *testing.T) {
	checker := New(time.Second)
	checker.RegisterCheck("audit", func(ctx context.Context) error { return nil })
	checker.RegisterCheck("config", func(ctx context.Context) error { return nil })

	status := checker.CheckReadiness(context.Background())
	if status.Status != "ready" {
		t.Errorf("expected status %q, got %q", "ready", status.Status)
	}
	if len(status.Checks) != 2 {
		t.Fatalf("expected 2 check results, got %d", len(status.Checks))
	}
	if status.Checks["audit"].Status != "ok" {
		t.Errorf("expected audit check ok, got %q", status.Checks["audit"].Status)
	}
}

func TestCheckReadiness_UnhealthyComponent(t *testing.T) {
	checker := New(time.Second)
	checker.RegisterCheck("audit", func(ctx context.Context) error {
		return errors.New("database is locked")
	})

	status := checker.CheckReadiness(context.Background())
	if status.Status != "degraded" {
		t.Errorf("expected status %q, got %q", "degraded", status.Status)
	}
	if status.Checks["audit"].Message != "database is locked" {
		t.Errorf("expected failure message, got %q", status.Checks["audit"].Message)
	}
}

func TestCheckReadiness_Timeout(t *testing.T) {
	checker := New(20 * time.Millisecond)
	checker.RegisterCheck("slow", func(ctx context.Context) error {
		select {
		case <-time.After(time.Second):
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})

	status := checker.CheckReadiness(context.Background())
	if status.Status != "degraded" {
		t.Errorf("expected status %q, got %q", "degraded", status.Status)
	}
}

func TestLivenessHandler(t *testing.T) {
	checker := New(time.Second)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	checker.LivenessHandler()(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var status HealthStatus
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if status.Status != "ok" {
		t.Errorf("expected status %q, got %q", "ok", status.Status)
	}
}

func TestLivenessHandler_MethodNotAllowed(t *testing.T) {
	checker := New(time.Second)

	req := httptest.NewRequest(http.MethodPost, "/healthz", nil)
	rec := httptest.NewRecorder()
	checker.LivenessHandler()(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status 405, got %d", rec.Code)
	}
}

func TestReadinessHandler_Degraded(t *testing.T) {
	checker := New(time.Second)
	checker.RegisterCheck("audit", func(ctx context.Context) error {
		return errors.New("unreachable")
	})

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec := httptest.NewRecorder()
	checker.ReadinessHandler()(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d", rec.Code)
	}
}

func TestVersionHandler(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/version", nil)
	rec := httptest.NewRecorder()
	VersionHandler("1.2.3", "abc123", "2026-01-01T00:00:00Z")(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var info VersionInfo
	if err := json.Unmarshal(rec.Body.Bytes(), &info); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if info.Version != "1.2.3" {
		t.Errorf("expected version %q, got %q", "1.2.3", info.Version)
	}
	if info.GoVersion == "" {
		t.Error("expected non-empty go version")
	}
}
