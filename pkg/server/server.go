package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"mercator-hq/saturn/pkg/audit"
	"mercator-hq/saturn/pkg/config"
	"mercator-hq/saturn/pkg/telemetry/health"
	"mercator-hq/saturn/pkg/telemetry/logging"
	"mercator-hq/saturn/pkg/telemetry/metrics"
)

// BuildInfo carries version information for the /version endpoint.
type BuildInfo struct {
	Version   string
	Commit    string
	BuildDate string
}

// Server is the HTTP transform service.
type Server struct {
	config     *config.Config
	logger     *logging.Logger
	metrics    *metrics.Collector
	checker    *health.Checker
	build      BuildInfo
	auditStore audit.Store
	recorder   *audit.Recorder

	httpServer   *http.Server
	shutdownChan chan struct{}
	shutdownOnce sync.Once
	mu           sync.RWMutex
	isRunning    bool
}

// New creates a transform server. auditStore may be nil, disabling the
// audit log and the /v1/history endpoint.
func New(cfg *config.Config, logger *logging.Logger, collector *metrics.Collector, auditStore audit.Store, build BuildInfo) *Server {
	if logger == nil {
		logger = logging.Discard()
	}
	if collector == nil {
		collector = metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
	}

	s := &Server{
		config:       cfg,
		logger:       logger.With("component", "server"),
		metrics:      collector,
		checker:      health.New(0),
		build:        build,
		auditStore:   auditStore,
		shutdownChan: make(chan struct{}),
	}

	if auditStore != nil {
		s.recorder = audit.NewRecorder(auditStore, logger)
		s.checker.RegisterCheck("audit", auditStore.Ping)
	}

	return s
}

// Start starts the HTTP server and blocks until shutdown via signal,
// context cancellation, or Shutdown.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}
	s.isRunning = true
	s.mu.Unlock()

	s.httpServer = &http.Server{
		Addr:         s.config.Server.ListenAddress,
		Handler:      s.Handler(),
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
		IdleTimeout:  s.config.Server.IdleTimeout,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("starting transform server",
			"address", s.config.Server.ListenAddress,
			"metrics_enabled", s.config.Telemetry.Metrics.Enabled,
			"audit_enabled", s.auditStore != nil,
		)

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case <-ctx.Done():
		s.logger.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case sig := <-sigChan:
		s.logger.Info("received shutdown signal", "signal", sig.String())
		return s.Shutdown(context.Background())
	case err := <-errChan:
		return err
	case <-s.shutdownChan:
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully shuts down the server, waiting up to the configured
// shutdown timeout for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		if !s.isRunning {
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()

		s.logger.Info("initiating graceful shutdown", "timeout", s.config.Server.ShutdownTimeout.String())

		shutdownCtx, cancel := context.WithTimeout(ctx, s.config.Server.ShutdownTimeout)
		defer cancel()

		if s.httpServer != nil {
			if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
				s.logger.Error("error during server shutdown", "error", err)
				shutdownErr = fmt.Errorf("server shutdown error: %w", err)
			}
		}

		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()

		s.logger.Info("transform server stopped")
	})

	return shutdownErr
}

// IsRunning returns true if the server is running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Handler returns the configured HTTP handler with the full middleware
// chain. Exposed for tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/v1/transform", s.handleTransform)
	mux.HandleFunc("/v1/history", s.handleHistory)
	health.Register(mux, s.checker, s.build.Version, s.build.Commit, s.build.BuildDate)

	if s.config.Telemetry.Metrics.Enabled {
		mux.Handle(s.config.Telemetry.Metrics.Path, s.metrics.Handler())
	}

	var handler http.Handler = mux
	handler = maxBodyMiddleware(s.config.Server.MaxBodyBytes)(handler)
	handler = metricsMiddleware(s.metrics)(handler)
	handler = requestIDMiddleware(handler)
	handler = loggingMiddleware(s.logger)(handler)
	handler = recoveryMiddleware(s.logger)(handler)

	return handler
}
