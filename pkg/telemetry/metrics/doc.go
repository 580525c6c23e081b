// Package metrics provides Prometheus metrics for the transform service.
//
// The Collector owns a dedicated Prometheus registry and exposes:
//   - saturn_transforms_total: transforms by mode and status
//   - saturn_transform_duration_seconds: transform latency histogram
//   - saturn_transform_errors_total: failures by error kind
//   - saturn_document_size_bytes: source and output document sizes
//   - saturn_conversion_copies: sibling copies per array conversion
//   - saturn_http_requests_total / _duration_seconds / _in_flight: serve mode
//
// Usage:
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	collector.RecordTransform("serve", "success", elapsed)
//	mux.Handle(cfg.Telemetry.Metrics.Path, collector.Handler())
package metrics
