// Package logging provides structured logging for Saturn.
//
// The package wraps Go's standard log/slog package to provide:
//   - Structured logging with JSON, text, and console formats
//   - Context-aware logging with request IDs and transform metadata
//   - Configurable log levels (debug, info, warn, error)
//
// Logs are written to stderr by default so that transform output on
// stdout stays machine-readable.
//
//	logger, err := logging.New(logging.Config{
//	    Level:  "info",
//	    Format: "text",
//	})
//
//	logger.Info("transform complete",
//	    "template", "order.tmpl.json",
//	    "duration_ms", 3,
//	)
//
//	ctx := logging.WithRequestID(ctx, "req-123")
//	logger.WithContext(ctx).Info("processing") // includes request_id
package logging
