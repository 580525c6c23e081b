package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"mercator-hq/saturn/pkg/audit"
	"mercator-hq/saturn/pkg/config"
)

func newTestServer(t *testing.T, store audit.Store) *Server {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Server.MaxBodyBytes = 1 << 20

	return New(cfg, nil, nil, store, BuildInfo{Version: "test", Commit: "none", BuildDate: "today"})
}

func postTransform(t *testing.T, handler http.Handler, req TransformRequest) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("failed to marshal request: %v", err)
	}

	httpReq := httptest.NewRequest(http.MethodPost, "/v1/transform", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httpReq)
	return rec
}

func TestHandleTransform_Success(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := postTransform(t, srv.Handler(), TransformRequest{
		Source:   `{"user": {"name": "Ada"}}`,
		Template: `{"who": "/user/name"}`,
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp TransformResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if got := strings.TrimSpace(resp.Output); got != `{"who":"Ada"}` {
		t.Errorf("unexpected output %q", got)
	}
	if resp.RequestID == "" {
		t.Error("expected a request ID")
	}
	if rec.Header().Get(RequestIDHeader) == "" {
		t.Error("expected X-Request-ID response header")
	}
}

func TestHandleTransform_YAMLOutput(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := postTransform(t, srv.Handler(), TransformRequest{
		Source:       `{"user": {"name": "Ada"}}`,
		Template:     `{"who": "/user/name"}`,
		OutputFormat: "yaml",
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp TransformResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if resp.OutputFormat != "yaml" {
		t.Errorf("expected output format yaml, got %q", resp.OutputFormat)
	}
	if !strings.Contains(resp.Output, "who:") {
		t.Errorf("expected YAML output, got %q", resp.Output)
	}
}

func TestHandleTransform_MissingField(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := postTransform(t, srv.Handler(), TransformRequest{
		Source:   `{"user": {}}`,
		Template: `{"who": "/user/name"}`,
	})

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid error JSON: %v", err)
	}
	if resp.Error.Kind != "missing_field" {
		t.Errorf("expected kind missing_field, got %q", resp.Error.Kind)
	}
}

func TestHandleTransform_MissingFieldNullOption(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := postTransform(t, srv.Handler(), TransformRequest{
		Source:   `{"user": {}}`,
		Template: `{"who": "/user/name"}`,
		Options:  &TransformOptions{OnMissingField: "null"},
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp TransformResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if got := strings.TrimSpace(resp.Output); got != `{"who":null}` {
		t.Errorf("unexpected output %q", got)
	}
}

func TestHandleTransform_TemplateSyntax(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := postTransform(t, srv.Handler(), TransformRequest{
		Source:   `{"a": 1}`,
		Template: `{"[broken": "/a"}`,
	})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid error JSON: %v", err)
	}
	if resp.Error.Kind != "template_syntax" {
		t.Errorf("expected kind template_syntax, got %q", resp.Error.Kind)
	}
}

func TestHandleTransform_BadRequests(t *testing.T) {
	srv := newTestServer(t, nil)
	handler := srv.Handler()

	tests := []struct {
		name string
		req  TransformRequest
	}{
		{"empty source", TransformRequest{Template: `{}`}},
		{"empty template", TransformRequest{Source: `{}`}},
		{"bad source format", TransformRequest{Source: `{}`, Template: `{}`, SourceFormat: "xml"}},
		{"bad source document", TransformRequest{Source: `{"a": `, Template: `{}`}},
		{"bad missing-field option", TransformRequest{Source: `{}`, Template: `{}`, Options: &TransformOptions{OnMissingField: "skip"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postTransform(t, handler, tt.req)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected status 400, got %d: %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestHandleTransform_BodyTooLarge(t *testing.T) {
	srv := newTestServer(t, nil)
	srv.config.Server.MaxBodyBytes = 64

	rec := postTransform(t, srv.Handler(), TransformRequest{
		Source:   `{"field": "` + strings.Repeat("x", 200) + `"}`,
		Template: `{"out": "/field"}`,
	})

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("expected status 413, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestHandleTransform_MethodNotAllowed(t *testing.T) {
	srv := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/transform", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status 405, got %d", rec.Code)
	}
}

func TestHandleHistory(t *testing.T) {
	store := audit.NewMemoryStore()
	defer store.Close()

	srv := newTestServer(t, store)
	handler := srv.Handler()

	// A transform that succeeds, then one that fails.
	postTransform(t, handler, TransformRequest{
		Source:   `{"a": 1}`,
		Template: `{"out": "/a"}`,
	})
	postTransform(t, handler, TransformRequest{
		Source:   `{"a": 1}`,
		Template: `{"out": "/missing"}`,
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/history?status=error", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Records []*audit.Record `json:"records"`
		Count   int             `json:"count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if resp.Count != 1 {
		t.Fatalf("expected 1 error record, got %d", resp.Count)
	}
	if resp.Records[0].ErrorKind != "missing_field" {
		t.Errorf("expected error kind missing_field, got %q", resp.Records[0].ErrorKind)
	}
	if resp.Records[0].Mode != "serve" {
		t.Errorf("expected mode serve, got %q", resp.Records[0].Mode)
	}
}

func TestHandleHistory_AuditDisabled(t *testing.T) {
	srv := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/history", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", rec.Code)
	}
}

func TestHandleHistory_InvalidParams(t *testing.T) {
	store := audit.NewMemoryStore()
	defer store.Close()

	srv := newTestServer(t, store)
	handler := srv.Handler()

	for _, target := range []string{
		"/v1/history?limit=abc",
		"/v1/history?offset=-1",
		"/v1/history?since=yesterday",
	} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected status 400, got %d", target, rec.Code)
		}
	}
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t, audit.NewMemoryStore())
	handler := srv.Handler()

	for _, target := range []string{"/healthz", "/readyz", "/version"} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("%s: expected status 200, got %d", target, rec.Code)
		}
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t, nil)
	handler := srv.Handler()

	postTransform(t, handler, TransformRequest{
		Source:   `{"a": 1}`,
		Template: `{"out": "/a"}`,
	})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "saturn_transforms_total") {
		t.Error("expected saturn_transforms_total in metrics exposition")
	}
}

func TestServer_StartAndShutdown(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Server.ListenAddress = "127.0.0.1:0"
	cfg.Server.ShutdownTimeout = time.Second

	srv := New(cfg, nil, nil, nil, BuildInfo{})

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(ctx)
	}()

	// Let the listener come up, then cancel.
	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("expected clean shutdown, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}

	if srv.IsRunning() {
		t.Error("expected server stopped")
	}
}
