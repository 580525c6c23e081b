package config

import (
	"fmt"
	"strings"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "server.listen_address").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
// It implements the error interface and provides access to all field errors.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. It returns nil if the configuration is valid.
// All validation errors are collected and returned together.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateTransform(&cfg.Transform)...)
	errs = append(errs, validateServer(&cfg.Server)...)
	errs = append(errs, validateWatch(&cfg.Watch)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)
	errs = append(errs, validateAudit(&cfg.Audit)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}

	return nil
}

// validateTransform validates engine default configuration.
func validateTransform(cfg *TransformConfig) []FieldError {
	var errs []FieldError

	if cfg.MaxDepth < 1 {
		errs = append(errs, FieldError{
			Field:   "transform.max_depth",
			Message: "max depth must be at least 1",
		})
	}
	if cfg.MaxDepth > 1<<16 {
		errs = append(errs, FieldError{
			Field:   "transform.max_depth",
			Message: "max depth exceeds reasonable limit (65536)",
		})
	}

	switch cfg.OnMissingField {
	case "fail", "null":
	default:
		errs = append(errs, FieldError{
			Field:   "transform.on_missing_field",
			Message: fmt.Sprintf("must be %q or %q, got %q", "fail", "null", cfg.OnMissingField),
		})
	}

	return errs
}

// validateServer validates HTTP service configuration.
func validateServer(cfg *ServerConfig) []FieldError {
	var errs []FieldError

	if cfg.ListenAddress == "" {
		errs = append(errs, FieldError{
			Field:   "server.listen_address",
			Message: "listen address is required",
		})
	}

	if cfg.ReadTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.read_timeout",
			Message: "read timeout must be positive",
		})
	}
	if cfg.WriteTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.write_timeout",
			Message: "write timeout must be positive",
		})
	}
	if cfg.IdleTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.idle_timeout",
			Message: "idle timeout must be positive",
		})
	}
	if cfg.ShutdownTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.shutdown_timeout",
			Message: "shutdown timeout must be positive",
		})
	}

	if cfg.MaxBodyBytes < 0 {
		errs = append(errs, FieldError{
			Field:   "server.max_body_bytes",
			Message: "max body bytes must be non-negative",
		})
	}
	if cfg.MaxBodyBytes > 1<<30 {
		errs = append(errs, FieldError{
			Field:   "server.max_body_bytes",
			Message: "max body bytes exceeds reasonable limit (1GB)",
		})
	}

	return errs
}

// validateWatch validates file-watch configuration.
func validateWatch(cfg *WatchConfig) []FieldError {
	var errs []FieldError

	if cfg.DebounceInterval < 0 {
		errs = append(errs, FieldError{
			Field:   "watch.debounce_interval",
			Message: "debounce interval must be positive",
		})
	}

	return errs
}

// validateTelemetry validates telemetry configuration.
func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Logging.Level] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("must be one of debug, info, warn, error; got %q", cfg.Logging.Level),
		})
	}

	validFormats := map[string]bool{"json": true, "text": true, "console": true}
	if !validFormats[cfg.Logging.Format] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("must be one of json, text, console; got %q", cfg.Logging.Format),
		})
	}

	if cfg.Metrics.Enabled {
		if cfg.Metrics.Namespace == "" {
			errs = append(errs, FieldError{
				Field:   "telemetry.metrics.namespace",
				Message: "namespace is required when metrics are enabled",
			})
		}
		if !strings.HasPrefix(cfg.Metrics.Path, "/") {
			errs = append(errs, FieldError{
				Field:   "telemetry.metrics.path",
				Message: "path must start with /",
			})
		}
		for i, b := range cfg.Metrics.DurationBuckets {
			if b <= 0 {
				errs = append(errs, FieldError{
					Field:   "telemetry.metrics.duration_buckets",
					Message: fmt.Sprintf("bucket %d must be positive", i),
				})
				break
			}
			if i > 0 && b <= cfg.Metrics.DurationBuckets[i-1] {
				errs = append(errs, FieldError{
					Field:   "telemetry.metrics.duration_buckets",
					Message: "buckets must be strictly increasing",
				})
				break
			}
		}
	}

	return errs
}

// validateAudit validates audit log configuration.
func validateAudit(cfg *AuditConfig) []FieldError {
	var errs []FieldError

	switch cfg.Backend {
	case "memory", "sqlite":
	default:
		errs = append(errs, FieldError{
			Field:   "audit.backend",
			Message: fmt.Sprintf("must be %q or %q, got %q", "memory", "sqlite", cfg.Backend),
		})
	}

	if cfg.Enabled && cfg.Backend == "sqlite" && cfg.SQLite.Path == "" {
		errs = append(errs, FieldError{
			Field:   "audit.sqlite.path",
			Message: "database path is required for the sqlite backend",
		})
	}

	if cfg.SQLite.MaxOpenConns < 0 {
		errs = append(errs, FieldError{
			Field:   "audit.sqlite.max_open_conns",
			Message: "max open connections must be non-negative",
		})
	}
	if cfg.SQLite.MaxIdleConns < 0 {
		errs = append(errs, FieldError{
			Field:   "audit.sqlite.max_idle_conns",
			Message: "max idle connections must be non-negative",
		})
	}
	if cfg.SQLite.MaxIdleConns > cfg.SQLite.MaxOpenConns && cfg.SQLite.MaxOpenConns > 0 {
		errs = append(errs, FieldError{
			Field:   "audit.sqlite.max_idle_conns",
			Message: "max idle connections cannot exceed max open connections",
		})
	}
	if cfg.SQLite.BusyTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "audit.sqlite.busy_timeout",
			Message: "busy timeout must be positive",
		})
	}

	if cfg.Retention.Days < 0 {
		errs = append(errs, FieldError{
			Field:   "audit.retention.days",
			Message: "retention days must be non-negative",
		})
	}
	if cfg.Retention.MaxRecords < 0 {
		errs = append(errs, FieldError{
			Field:   "audit.retention.max_records",
			Message: "max records must be non-negative",
		})
	}

	return errs
}
