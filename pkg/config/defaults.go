package config

import "time"

// ApplyDefaults fills unset fields with their default values. It is called
// by LoadConfig before validation; callers constructing a Config by hand can
// use it directly.
func ApplyDefaults(cfg *Config) {
	if cfg.Transform.MaxDepth == 0 {
		cfg.Transform.MaxDepth = 256
	}
	if cfg.Transform.OnMissingField == "" {
		cfg.Transform.OnMissingField = "fail"
	}

	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = "127.0.0.1:8080"
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 30 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 30 * time.Second
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = 120 * time.Second
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 30 * time.Second
	}
	if cfg.Server.MaxBodyBytes == 0 {
		cfg.Server.MaxBodyBytes = 10 << 20
	}

	if cfg.Watch.DebounceInterval == 0 {
		cfg.Watch.DebounceInterval = 200 * time.Millisecond
	}

	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = "info"
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = "text"
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = "saturn"
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = "/metrics"
	}
	if len(cfg.Telemetry.Metrics.DurationBuckets) == 0 {
		// Transforms are in-memory tree walks; sub-millisecond to a few
		// seconds covers even very large documents.
		cfg.Telemetry.Metrics.DurationBuckets = []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5}
	}

	if cfg.Audit.Backend == "" {
		cfg.Audit.Backend = "sqlite"
	}
	if cfg.Audit.SQLite.Path == "" {
		cfg.Audit.SQLite.Path = "data/audit.db"
	}
	if cfg.Audit.SQLite.MaxOpenConns == 0 {
		cfg.Audit.SQLite.MaxOpenConns = 10
	}
	if cfg.Audit.SQLite.MaxIdleConns == 0 {
		cfg.Audit.SQLite.MaxIdleConns = 5
	}
	if cfg.Audit.SQLite.BusyTimeout == 0 {
		cfg.Audit.SQLite.BusyTimeout = 5 * time.Second
	}
	if cfg.Audit.Retention.Days == 0 {
		cfg.Audit.Retention.Days = 30
	}
}

// DefaultConfig returns a fully defaulted configuration.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.Telemetry.Metrics.Enabled = true
	cfg.Audit.SQLite.WALMode = true
	ApplyDefaults(cfg)
	return cfg
}
