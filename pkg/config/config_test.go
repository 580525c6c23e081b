package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Transform.MaxDepth != 256 {
		t.Errorf("expected default max depth 256, got %d", cfg.Transform.MaxDepth)
	}
	if cfg.Transform.OnMissingField != "fail" {
		t.Errorf("expected default missing-field policy %q, got %q", "fail", cfg.Transform.OnMissingField)
	}
	if cfg.Server.ListenAddress != "127.0.0.1:8080" {
		t.Errorf("expected default listen address %q, got %q", "127.0.0.1:8080", cfg.Server.ListenAddress)
	}
	if cfg.Server.ReadTimeout != 30*time.Second {
		t.Errorf("expected default read timeout 30s, got %v", cfg.Server.ReadTimeout)
	}
	if cfg.Watch.DebounceInterval != 200*time.Millisecond {
		t.Errorf("expected default debounce interval 200ms, got %v", cfg.Watch.DebounceInterval)
	}
	if cfg.Telemetry.Logging.Level != "info" {
		t.Errorf("expected default log level %q, got %q", "info", cfg.Telemetry.Logging.Level)
	}
	if !cfg.Telemetry.Metrics.Enabled {
		t.Error("expected metrics enabled by default")
	}
	if cfg.Audit.Enabled {
		t.Error("expected audit disabled by default")
	}
	if !cfg.Audit.SQLite.WALMode {
		t.Error("expected WAL mode enabled by default")
	}

	if err := Validate(cfg); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadConfig_ValidFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
transform:
  max_depth: 64
  on_missing_field: "null"

server:
  listen_address: "0.0.0.0:9090"
  read_timeout: "60s"

telemetry:
  logging:
    level: "debug"
    format: "json"

audit:
  enabled: true
  backend: "sqlite"
  sqlite:
    path: "./test-audit.db"
`

	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Transform.MaxDepth != 64 {
		t.Errorf("expected max depth 64, got %d", cfg.Transform.MaxDepth)
	}
	if cfg.Transform.OnMissingField != "null" {
		t.Errorf("expected missing-field policy %q, got %q", "null", cfg.Transform.OnMissingField)
	}
	if cfg.Server.ListenAddress != "0.0.0.0:9090" {
		t.Errorf("expected listen address %q, got %q", "0.0.0.0:9090", cfg.Server.ListenAddress)
	}
	if cfg.Server.ReadTimeout != 60*time.Second {
		t.Errorf("expected read timeout 60s, got %v", cfg.Server.ReadTimeout)
	}
	if cfg.Audit.SQLite.Path != "./test-audit.db" {
		t.Errorf("expected sqlite path %q, got %q", "./test-audit.db", cfg.Audit.SQLite.Path)
	}

	// Unspecified fields get defaults.
	if cfg.Server.WriteTimeout != 30*time.Second {
		t.Errorf("expected default write timeout 30s, got %v", cfg.Server.WriteTimeout)
	}
	if !cfg.Telemetry.Metrics.Enabled {
		t.Error("expected metrics enabled by default")
	}
}

func TestLoadConfig_ExplicitFalsePreserved(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
telemetry:
  metrics:
    enabled: false

audit:
  sqlite:
    wal_mode: false
`

	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Telemetry.Metrics.Enabled {
		t.Error("explicit metrics.enabled=false should not be overwritten by defaults")
	}
	if cfg.Audit.SQLite.WALMode {
		t.Error("explicit wal_mode=false should not be overwritten by defaults")
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig("/nonexistent/config.yaml")
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
	if !strings.Contains(err.Error(), "failed to read configuration file") {
		t.Errorf("unexpected error message: %v", err)
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	if err := os.WriteFile(configPath, []byte("server:\n  listen_address: [unclosed"), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	_, err := LoadConfig(configPath)
	if err == nil {
		t.Fatal("expected error for invalid YAML")
	}
	if !strings.Contains(err.Error(), "failed to parse configuration file") {
		t.Errorf("unexpected error message: %v", err)
	}
}

func TestLoadConfig_ValidationFailure(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
transform:
  on_missing_field: "ignore"
`

	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	_, err := LoadConfig(configPath)
	if err == nil {
		t.Fatal("expected validation error")
	}

	var verr ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %T: %v", err, err)
	}
	if len(verr.Errors) != 1 {
		t.Fatalf("expected 1 field error, got %d", len(verr.Errors))
	}
	if verr.Errors[0].Field != "transform.on_missing_field" {
		t.Errorf("expected field %q, got %q", "transform.on_missing_field", verr.Errors[0].Field)
	}
}

func TestLoadConfigWithEnvOverrides(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
server:
  listen_address: "127.0.0.1:8080"

transform:
  max_depth: 100
`

	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	t.Setenv("SATURN_SERVER_LISTEN_ADDRESS", "0.0.0.0:9999")
	t.Setenv("SATURN_TRANSFORM_MAX_DEPTH", "32")
	t.Setenv("SATURN_LOGGING_LEVEL", "debug")
	t.Setenv("SATURN_AUDIT_BACKEND", "memory")

	cfg, err := LoadConfigWithEnvOverrides(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Server.ListenAddress != "0.0.0.0:9999" {
		t.Errorf("expected env-overridden listen address %q, got %q", "0.0.0.0:9999", cfg.Server.ListenAddress)
	}
	if cfg.Transform.MaxDepth != 32 {
		t.Errorf("expected env-overridden max depth 32, got %d", cfg.Transform.MaxDepth)
	}
	if cfg.Telemetry.Logging.Level != "debug" {
		t.Errorf("expected env-overridden log level %q, got %q", "debug", cfg.Telemetry.Logging.Level)
	}
	if cfg.Audit.Backend != "memory" {
		t.Errorf("expected env-overridden audit backend %q, got %q", "memory", cfg.Audit.Backend)
	}
}

func TestLoadConfigWithEnvOverrides_InvalidOverride(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	if err := os.WriteFile(configPath, []byte("{}"), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	t.Setenv("SATURN_AUDIT_BACKEND", "postgres")

	_, err := LoadConfigWithEnvOverrides(configPath)
	if err == nil {
		t.Fatal("expected validation error for invalid audit backend override")
	}
	if !strings.Contains(err.Error(), "audit.backend") {
		t.Errorf("unexpected error message: %v", err)
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Transform.MaxDepth = 0
	cfg.Server.ListenAddress = ""
	cfg.Audit.Backend = "bogus"

	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error")
	}

	var verr ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if len(verr.Errors) != 3 {
		t.Errorf("expected 3 field errors, got %d: %v", len(verr.Errors), verr)
	}
}

func TestValidate_BucketOrdering(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Telemetry.Metrics.DurationBuckets = []float64{0.1, 0.05, 1}

	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error for out-of-order buckets")
	}
	if !strings.Contains(err.Error(), "strictly increasing") {
		t.Errorf("unexpected error message: %v", err)
	}
}

func TestSetConfigAndGetConfig(t *testing.T) {
	orig := GetConfig()
	defer SetConfig(orig)

	cfg := DefaultConfig()
	cfg.Server.ListenAddress = "10.0.0.1:7777"
	SetConfig(cfg)

	got := GetConfig()
	if got == nil {
		t.Fatal("expected non-nil config after SetConfig")
	}
	if got.Server.ListenAddress != "10.0.0.1:7777" {
		t.Errorf("expected listen address %q, got %q", "10.0.0.1:7777", got.Server.ListenAddress)
	}
}
