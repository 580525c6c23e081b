package server

import (
	"errors"
	"net/http"

	"mercator-hq/saturn/pkg/transform"
)

// TransformRequest is the body of POST /v1/transform. Source and Template
// are the raw documents as strings in their declared formats.
type TransformRequest struct {
	// Source is the source document text.
	Source string `json:"source"`

	// SourceFormat is "json" or "yaml". Default: "json".
	SourceFormat string `json:"source_format,omitempty"`

	// Template is the template document text.
	Template string `json:"template"`

	// TemplateFormat is "json" or "yaml". Default: SourceFormat.
	TemplateFormat string `json:"template_format,omitempty"`

	// OutputFormat is "json" or "yaml". Default: SourceFormat.
	OutputFormat string `json:"output_format,omitempty"`

	// Pretty requests indented JSON output.
	Pretty bool `json:"pretty,omitempty"`

	// Options override the engine defaults for this request.
	Options *TransformOptions `json:"options,omitempty"`
}

// TransformOptions carries per-request engine options.
type TransformOptions struct {
	// MaxDepth overrides the template nesting limit when positive.
	MaxDepth int `json:"max_depth,omitempty"`

	// OnMissingField is "fail" or "null".
	OnMissingField string `json:"on_missing_field,omitempty"`
}

// TransformResponse is the success body of POST /v1/transform.
type TransformResponse struct {
	// Output is the transformed document text in OutputFormat.
	Output string `json:"output"`

	// OutputFormat echoes the format of Output.
	OutputFormat string `json:"output_format"`

	// DurationMs is the engine time spent on the transform.
	DurationMs float64 `json:"duration_ms"`

	// RequestID correlates with logs and audit records.
	RequestID string `json:"request_id"`
}

// ErrorResponse is the error body for all endpoints.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail describes a request failure.
type ErrorDetail struct {
	// Kind is a stable identifier, e.g. "missing_field" or "bad_request".
	Kind string `json:"kind"`

	// Message is a human-readable description.
	Message string `json:"message"`

	// RequestID correlates with logs and audit records.
	RequestID string `json:"request_id,omitempty"`
}

// statusForTransformError maps engine failures to HTTP status codes.
// Template problems are the client's fault; everything else on this list is
// a data mismatch between template and source, reported as unprocessable.
func statusForTransformError(err error) int {
	switch {
	case errors.Is(err, transform.ErrTemplateSyntax):
		return http.StatusBadRequest
	case errors.Is(err, transform.ErrMissingField),
		errors.Is(err, transform.ErrSpreadTypeMismatch),
		errors.Is(err, transform.ErrSpreadLengthMismatch),
		errors.Is(err, transform.ErrNoSpreadTarget),
		errors.Is(err, transform.ErrDepthExceeded):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
