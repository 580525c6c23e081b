package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New(Config{Level: "verbose"})
	if err == nil {
		t.Fatal("expected error for invalid level")
	}
	if !strings.Contains(err.Error(), "invalid log level") {
		t.Errorf("unexpected error message: %v", err)
	}
}

func TestNew_InvalidFormat(t *testing.T) {
	_, err := New(Config{Format: "xml"})
	if err == nil {
		t.Fatal("expected error for invalid format")
	}
	if !strings.Contains(err.Error(), "invalid log format") {
		t.Errorf("unexpected error message: %v", err)
	}
}

func TestLogger_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Config{Level: "info", Format: "json", Writer: &buf})
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}

	logger.Info("transform complete", "template", "order.json", "copies", 3)

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("log output is not valid JSON: %v\noutput: %s", err, buf.String())
	}
	if record["msg"] != "transform complete" {
		t.Errorf("expected msg %q, got %v", "transform complete", record["msg"])
	}
	if record["template"] != "order.json" {
		t.Errorf("expected template %q, got %v", "order.json", record["template"])
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Config{Level: "warn", Format: "text", Writer: &buf})
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}

	logger.Debug("not logged")
	logger.Info("not logged either")
	if buf.Len() != 0 {
		t.Errorf("expected no output below warn level, got %q", buf.String())
	}

	logger.Warn("logged")
	if !strings.Contains(buf.String(), "logged") {
		t.Errorf("expected warn record, got %q", buf.String())
	}
}

func TestLogger_With(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Config{Level: "info", Format: "text", Writer: &buf})
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}

	child := logger.With("component", "walker")
	child.Info("rendering")

	if !strings.Contains(buf.String(), "component=walker") {
		t.Errorf("expected component field in output, got %q", buf.String())
	}
}

func TestLogger_ContextFields(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Config{Level: "info", Format: "text", Writer: &buf})
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}

	ctx := WithRequestID(context.Background(), "req-42")
	ctx = WithTemplate(ctx, "invoice.yaml")
	logger.InfoContext(ctx, "processing")

	out := buf.String()
	if !strings.Contains(out, "request_id=req-42") {
		t.Errorf("expected request_id in output, got %q", out)
	}
	if !strings.Contains(out, "template=invoice.yaml") {
		t.Errorf("expected template in output, got %q", out)
	}
}

func TestDiscard(t *testing.T) {
	logger := Discard()
	// Must not panic and must drop everything silently.
	logger.Info("dropped")
	logger.Error("dropped too")
}

func TestGetRequestID_Missing(t *testing.T) {
	if got := GetRequestID(context.Background()); got != "" {
		t.Errorf("expected empty request ID, got %q", got)
	}
}
