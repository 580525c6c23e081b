package logging

import (
	"context"
)

// Context keys for common log fields.
type contextKey string

const (
	// RequestIDKey is the context key for request IDs.
	RequestIDKey contextKey = "request_id"

	// TemplateKey is the context key for template identifiers (file path
	// in CLI mode, template hash in serve mode).
	TemplateKey contextKey = "template"

	// SourceFormatKey is the context key for the source document format.
	SourceFormatKey contextKey = "source_format"

	// OutputFormatKey is the context key for the output document format.
	OutputFormatKey contextKey = "output_format"
)

// WithRequestID adds a request ID to the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// GetRequestID retrieves the request ID from the context.
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		return requestID
	}
	return ""
}

// WithTemplate adds a template identifier to the context.
func WithTemplate(ctx context.Context, template string) context.Context {
	return context.WithValue(ctx, TemplateKey, template)
}

// GetTemplate retrieves the template identifier from the context.
func GetTemplate(ctx context.Context) string {
	if template, ok := ctx.Value(TemplateKey).(string); ok {
		return template
	}
	return ""
}

// WithSourceFormat adds a source document format to the context.
func WithSourceFormat(ctx context.Context, format string) context.Context {
	return context.WithValue(ctx, SourceFormatKey, format)
}

// GetSourceFormat retrieves the source document format from the context.
func GetSourceFormat(ctx context.Context) string {
	if format, ok := ctx.Value(SourceFormatKey).(string); ok {
		return format
	}
	return ""
}

// WithOutputFormat adds an output document format to the context.
func WithOutputFormat(ctx context.Context, format string) context.Context {
	return context.WithValue(ctx, OutputFormatKey, format)
}

// GetOutputFormat retrieves the output document format from the context.
func GetOutputFormat(ctx context.Context) string {
	if format, ok := ctx.Value(OutputFormatKey).(string); ok {
		return format
	}
	return ""
}

// extractContextFields extracts common fields from context for logging.
// Returns a slice of key-value pairs suitable for logger.With().
func extractContextFields(ctx context.Context) []any {
	var fields []any

	if requestID := GetRequestID(ctx); requestID != "" {
		fields = append(fields, "request_id", requestID)
	}
	if template := GetTemplate(ctx); template != "" {
		fields = append(fields, "template", template)
	}
	if format := GetSourceFormat(ctx); format != "" {
		fields = append(fields, "source_format", format)
	}
	if format := GetOutputFormat(ctx); format != "" {
		fields = append(fields, "output_format", format)
	}

	return fields
}
