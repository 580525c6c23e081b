// Package server provides the HTTP transform service behind "saturn serve".
//
// # Endpoints
//
//   - POST /v1/transform: run a template against a source document
//   - GET  /v1/history: query the audit log (when auditing is enabled)
//   - GET  /healthz, /readyz, /version: probes and build info
//   - GET  /metrics: Prometheus exposition (when metrics are enabled)
//
// Requests pass through a middleware chain of panic recovery, request
// logging, request ID assignment, metrics, and body size limiting. The
// server shuts down gracefully on SIGINT/SIGTERM.
package server
