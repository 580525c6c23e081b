package audit

import (
	"context"
	"time"
)

// Record captures one transform run executed by the service. Records carry
// enough metadata to answer "what ran, when, and how did it go" without
// retaining the documents themselves.
type Record struct {
	// Identity
	ID        string `json:"id"`         // UUID v4
	RequestID string `json:"request_id"` // From the HTTP layer, empty in CLI mode

	// Timestamps
	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at"`

	// Transform metadata
	Mode         string `json:"mode"`          // "cli", "watch", "serve"
	TemplateHash string `json:"template_hash"` // SHA-256 of the template document
	SourceFormat string `json:"source_format"` // "json" or "yaml"
	OutputFormat string `json:"output_format"`
	SourceBytes  int64  `json:"source_bytes"`
	OutputBytes  int64  `json:"output_bytes"`

	// Outcome
	Status       string        `json:"status"`        // "success" or "error"
	ErrorKind    string        `json:"error_kind"`    // e.g. "missing_field", empty on success
	ErrorMessage string        `json:"error_message"` // empty on success
	Duration     time.Duration `json:"duration"`
}

// Query defines filter parameters for listing audit records.
type Query struct {
	// Time range (on StartedAt, inclusive)
	StartTime *time.Time `json:"start_time,omitempty"`
	EndTime   *time.Time `json:"end_time,omitempty"`

	// Filters
	Status       string `json:"status,omitempty"`
	ErrorKind    string `json:"error_kind,omitempty"`
	Mode         string `json:"mode,omitempty"`
	TemplateHash string `json:"template_hash,omitempty"`

	// Pagination
	Limit  int `json:"limit,omitempty"`
	Offset int `json:"offset,omitempty"`

	// SortOrder is "asc" or "desc" by start time. Default: "desc".
	SortOrder string `json:"sort_order,omitempty"`
}

// Store defines the interface for audit storage backends.
// Implementations must be safe for concurrent use.
type Store interface {
	// Store persists an audit record.
	Store(ctx context.Context, record *Record) error

	// Query retrieves records matching the query filters.
	// Returns an empty slice if no records match.
	Query(ctx context.Context, query *Query) ([]*Record, error)

	// Count returns the number of records matching the query filters.
	Count(ctx context.Context, query *Query) (int64, error)

	// Delete removes records matching the query filters and returns the
	// number of records deleted. Used for retention enforcement.
	Delete(ctx context.Context, query *Query) (int64, error)

	// Ping verifies the backend is reachable. Used by readiness probes.
	Ping(ctx context.Context) error

	// Close releases any resources held by the backend.
	Close() error
}
