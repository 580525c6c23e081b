package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"mercator-hq/saturn/pkg/audit"
	"mercator-hq/saturn/pkg/cli"
	"mercator-hq/saturn/pkg/config"
	"mercator-hq/saturn/pkg/server"
	"mercator-hq/saturn/pkg/telemetry/logging"
	"mercator-hq/saturn/pkg/telemetry/metrics"
)

var serveFlags struct {
	listenAddress string
	logLevel      string
	dryRun        bool
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Saturn transform server",
	Long: `Start the HTTP transform service with the specified configuration.

The server exposes POST /v1/transform for on-demand transformations,
GET /v1/history over the audit log, Prometheus metrics, and health probes.

Examples:
  # Start with default config
  saturn serve

  # Start with custom config
  saturn serve --config /etc/saturn/config.yaml

  # Override listen address
  saturn serve --listen 0.0.0.0:8080

  # Validate config without starting server
  saturn serve --dry-run`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&serveFlags.listenAddress, "listen", "l", "", "override listen address")
	serveCmd.Flags().StringVar(&serveFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	serveCmd.Flags().BoolVar(&serveFlags.dryRun, "dry-run", false, "validate config without starting server")
}

func runServe(cmd *cobra.Command, args []string) error {
	// Load configuration
	if err := config.Initialize(cfgFile); err != nil {
		return cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}
	cfg := config.GetConfig()

	// Apply flag overrides
	if serveFlags.listenAddress != "" {
		cfg.Server.ListenAddress = serveFlags.listenAddress
	}
	if serveFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = serveFlags.logLevel
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}

	logger, err := logging.New(logging.Config{
		Level:     cfg.Telemetry.Logging.Level,
		Format:    cfg.Telemetry.Logging.Format,
		AddSource: cfg.Telemetry.Logging.AddSource,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}

	if serveFlags.dryRun {
		fmt.Println("✓ Configuration valid")
		return nil
	}

	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)

	// Audit store (if enabled)
	var auditStore audit.Store
	if cfg.Audit.Enabled {
		switch cfg.Audit.Backend {
		case "sqlite":
			auditStore, err = audit.NewSQLiteStore(&cfg.Audit.SQLite, logger)
			if err != nil {
				return fmt.Errorf("failed to open audit store: %w", err)
			}
		case "memory":
			auditStore = audit.NewMemoryStore()
		default:
			return fmt.Errorf("unsupported audit backend: %s", cfg.Audit.Backend)
		}
		defer auditStore.Close()

		// Retention pruner (if scheduled)
		if cfg.Audit.Retention.Schedule != "" {
			pruner := audit.NewPruner(auditStore, &cfg.Audit.Retention, logger)
			if err := pruner.Start(context.Background()); err != nil {
				logger.Warn("failed to start retention scheduler", "error", err)
			} else {
				defer pruner.Stop()
				if next := pruner.NextPruning(); next != nil {
					logger.Debug("audit retention scheduler started", "next_pruning", next)
				}
			}
		}

		fmt.Fprintf(os.Stderr, "✓ Audit log initialized (%s)\n", cfg.Audit.Backend)
	}

	srv := server.New(cfg, logger, collector, auditStore, server.BuildInfo{
		Version:   Version,
		Commit:    GitCommit,
		BuildDate: BuildDate,
	})

	fmt.Fprintf(os.Stderr, "✓ Saturn listening on %s\n", cfg.Server.ListenAddress)

	// Start blocks until SIGINT/SIGTERM or a server error.
	return srv.Start(context.Background())
}
