package config

import "time"

// Config is the root configuration structure for Saturn. It covers the
// transform engine defaults, the HTTP service, telemetry, and the audit log.
type Config struct {
	// Transform contains engine defaults applied when a request or command
	// does not specify its own options.
	Transform TransformConfig `yaml:"transform"`

	// Server contains HTTP service configuration for "saturn serve".
	Server ServerConfig `yaml:"server"`

	// Watch contains file-watch configuration for "saturn transform --watch".
	Watch WatchConfig `yaml:"watch"`

	// Telemetry contains logging and metrics configuration.
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Audit contains transform-run audit log configuration (serve mode).
	Audit AuditConfig `yaml:"audit"`
}

// TransformConfig contains engine defaults.
type TransformConfig struct {
	// MaxDepth is the maximum template nesting depth.
	// Default: 256
	MaxDepth int `yaml:"max_depth"`

	// OnMissingField selects the missing-field policy: "fail" or "null".
	// Default: "fail"
	OnMissingField string `yaml:"on_missing_field"`
}

// ServerConfig contains configuration for the HTTP transform service.
type ServerConfig struct {
	// ListenAddress is the address and port to listen on.
	// Format: "host:port".
	// Default: "127.0.0.1:8080"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading the entire request.
	// Default: 30s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out writes of the
	// response.
	// Default: 30s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the keep-alive idle timeout.
	// Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown.
	// Default: 30s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// MaxBodyBytes limits the size of request bodies.
	// Default: 10485760 (10MB)
	MaxBodyBytes int64 `yaml:"max_body_bytes"`
}

// WatchConfig contains file-watch configuration.
type WatchConfig struct {
	// DebounceInterval is the time to wait after a change before re-running
	// the transform, absorbing editor write bursts.
	// Default: 200ms
	DebounceInterval time.Duration `yaml:"debounce_interval"`
}

// TelemetryConfig contains observability configuration.
type TelemetryConfig struct {
	// Logging contains structured logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains Prometheus metrics configuration.
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig contains structured logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	// Default: "info"
	Level string `yaml:"level"`

	// Format is the output format: "json", "text", or "console".
	// Default: "text"
	Format string `yaml:"format"`

	// AddSource includes file:line in log records.
	// Default: false
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig contains Prometheus metrics configuration.
type MetricsConfig struct {
	// Enabled toggles the /metrics endpoint in serve mode.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Namespace is the metric name prefix.
	// Default: "saturn"
	Namespace string `yaml:"namespace"`

	// Path is the metrics endpoint path.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// DurationBuckets are the histogram buckets for transform durations,
	// in seconds.
	DurationBuckets []float64 `yaml:"duration_buckets"`
}

// AuditConfig contains audit log configuration.
type AuditConfig struct {
	// Enabled toggles audit recording in serve mode.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Backend selects the storage backend: "memory" or "sqlite".
	// Default: "sqlite"
	Backend string `yaml:"backend"`

	// SQLite contains SQLite backend configuration.
	SQLite SQLiteConfig `yaml:"sqlite"`

	// Retention contains pruning configuration.
	Retention RetentionConfig `yaml:"retention"`
}

// SQLiteConfig contains SQLite backend configuration.
type SQLiteConfig struct {
	// Path is the database file path.
	// Default: "data/audit.db"
	Path string `yaml:"path"`

	// MaxOpenConns is the maximum number of open connections.
	// Default: 10
	MaxOpenConns int `yaml:"max_open_conns"`

	// MaxIdleConns is the maximum number of idle connections.
	// Default: 5
	MaxIdleConns int `yaml:"max_idle_conns"`

	// WALMode enables Write-Ahead Logging for better concurrency.
	// Default: true
	WALMode bool `yaml:"wal_mode"`

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`
}

// RetentionConfig contains audit log pruning configuration.
type RetentionConfig struct {
	// Days keeps records newer than this many days; 0 disables age pruning.
	// Default: 30
	Days int `yaml:"days"`

	// MaxRecords caps the number of records; 0 disables count pruning.
	// Default: 0
	MaxRecords int `yaml:"max_records"`

	// Schedule is a cron expression for automatic pruning, e.g. "0 3 * * *"
	// for daily at 3 AM. Empty disables the scheduler.
	// Default: ""
	Schedule string `yaml:"schedule"`
}
