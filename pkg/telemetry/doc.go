// Package telemetry groups the observability subpackages for Saturn.
//
// # Components
//
//   - logging: structured logging built on log/slog
//   - metrics: Prometheus metrics collection
//   - health: liveness and readiness endpoints for serve mode
//
// Each subpackage is independent; CLI mode typically uses only logging,
// while serve mode wires all three.
package telemetry
