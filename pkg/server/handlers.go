package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"mercator-hq/saturn/pkg/audit"
	"mercator-hq/saturn/pkg/document"
	"mercator-hq/saturn/pkg/telemetry/logging"
	"mercator-hq/saturn/pkg/transform"
)

// handleTransform implements POST /v1/transform.
func (s *Server) handleTransform(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, r, http.StatusMethodNotAllowed, "bad_request", "method not allowed")
		return
	}

	var req TransformRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			s.writeError(w, r, http.StatusRequestEntityTooLarge, "bad_request",
				fmt.Sprintf("request body exceeds %d bytes", maxErr.Limit))
			return
		}
		s.writeError(w, r, http.StatusBadRequest, "bad_request", fmt.Sprintf("invalid request body: %v", err))
		return
	}
	if req.Source == "" || req.Template == "" {
		s.writeError(w, r, http.StatusBadRequest, "bad_request", "source and template are required")
		return
	}

	sourceFormat, templateFormat, outputFormat, err := resolveFormats(&req)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	opts, err := s.resolveOptions(req.Options)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	source, err := document.Decode([]byte(req.Source), sourceFormat)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, "bad_request", fmt.Sprintf("invalid source document: %v", err))
		return
	}
	tmpl, err := document.Decode([]byte(req.Template), templateFormat)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, "bad_request", fmt.Sprintf("invalid template document: %v", err))
		return
	}

	started := time.Now()
	result, terr := transform.Transform(source, tmpl, opts)
	elapsed := time.Since(started)

	status := "success"
	if terr != nil {
		status = "error"
	}
	s.metrics.RecordTransform("serve", status, elapsed)
	s.metrics.RecordDocumentSize("source", len(req.Source))

	if terr != nil {
		kind := transform.ErrorKind(terr)
		s.metrics.RecordTransformError(kind)
		s.recordAudit(r, &req, sourceFormat, outputFormat, started, 0, kind, terr.Error())
		s.writeError(w, r, statusForTransformError(terr), kind, terr.Error())
		return
	}

	output, err := document.Encode(result, outputFormat, req.Pretty)
	if err != nil {
		s.recordAudit(r, &req, sourceFormat, outputFormat, started, 0, "internal", err.Error())
		s.writeError(w, r, http.StatusInternalServerError, "internal", fmt.Sprintf("failed to encode output: %v", err))
		return
	}

	s.metrics.RecordDocumentSize("output", len(output))
	s.recordAudit(r, &req, sourceFormat, outputFormat, started, int64(len(output)), "", "")

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(TransformResponse{
		Output:       string(output),
		OutputFormat: string(outputFormat),
		DurationMs:   float64(elapsed.Microseconds()) / 1000,
		RequestID:    logging.GetRequestID(r.Context()),
	})
}

// handleHistory implements GET /v1/history over the audit store.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, r, http.StatusMethodNotAllowed, "bad_request", "method not allowed")
		return
	}
	if s.auditStore == nil {
		s.writeError(w, r, http.StatusNotFound, "bad_request", "audit log is not enabled")
		return
	}

	query, err := historyQuery(r)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	records, err := s.auditStore.Query(r.Context(), query)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "history query failed", "error", err)
		s.writeError(w, r, http.StatusInternalServerError, "internal", "failed to query audit log")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"records": records,
		"count":   len(records),
	})
}

// historyQuery builds an audit query from URL parameters.
func historyQuery(r *http.Request) (*audit.Query, error) {
	q := r.URL.Query()
	query := &audit.Query{
		Status:       q.Get("status"),
		ErrorKind:    q.Get("error_kind"),
		Mode:         q.Get("mode"),
		TemplateHash: q.Get("template_hash"),
		SortOrder:    q.Get("sort"),
	}

	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid limit %q", v)
		}
		query.Limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid offset %q", v)
		}
		query.Offset = n
	}
	if v := q.Get("since"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return nil, fmt.Errorf("invalid since %q: want RFC 3339", v)
		}
		query.StartTime = &t
	}
	if v := q.Get("until"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return nil, fmt.Errorf("invalid until %q: want RFC 3339", v)
		}
		query.EndTime = &t
	}

	return query, nil
}

// resolveFormats applies the request's format defaulting rules.
func resolveFormats(req *TransformRequest) (source, template, output document.Format, err error) {
	source = document.FormatJSON
	if req.SourceFormat != "" {
		if source, err = document.ParseFormat(req.SourceFormat); err != nil {
			return "", "", "", fmt.Errorf("source_format: %w", err)
		}
	}

	template = source
	if req.TemplateFormat != "" {
		if template, err = document.ParseFormat(req.TemplateFormat); err != nil {
			return "", "", "", fmt.Errorf("template_format: %w", err)
		}
	}

	output = source
	if req.OutputFormat != "" {
		if output, err = document.ParseFormat(req.OutputFormat); err != nil {
			return "", "", "", fmt.Errorf("output_format: %w", err)
		}
	}

	return source, template, output, nil
}

// resolveOptions merges per-request options over the configured defaults.
func (s *Server) resolveOptions(reqOpts *TransformOptions) (*transform.Options, error) {
	opts := &transform.Options{
		MaxDepth:       s.config.Transform.MaxDepth,
		OnMissingField: transform.MissingFieldPolicy(s.config.Transform.OnMissingField),
	}

	if reqOpts == nil {
		return opts, nil
	}

	if reqOpts.MaxDepth < 0 {
		return nil, fmt.Errorf("options.max_depth must be positive")
	}
	if reqOpts.MaxDepth > 0 {
		opts.MaxDepth = reqOpts.MaxDepth
	}

	switch reqOpts.OnMissingField {
	case "":
	case "fail":
		opts.OnMissingField = transform.MissingFieldFail
	case "null":
		opts.OnMissingField = transform.MissingFieldNull
	default:
		return nil, fmt.Errorf("options.on_missing_field must be %q or %q", "fail", "null")
	}

	return opts, nil
}

// recordAudit stores an audit record for the request if auditing is enabled.
func (s *Server) recordAudit(r *http.Request, req *TransformRequest, sourceFormat, outputFormat document.Format, started time.Time, outputBytes int64, errorKind, errorMessage string) {
	if s.recorder == nil {
		return
	}

	s.recorder.Record(r.Context(), audit.RunInfo{
		RequestID:    logging.GetRequestID(r.Context()),
		Mode:         "serve",
		TemplateRaw:  []byte(req.Template),
		SourceFormat: string(sourceFormat),
		OutputFormat: string(outputFormat),
		SourceBytes:  int64(len(req.Source)),
		OutputBytes:  outputBytes,
		StartedAt:    started,
		CompletedAt:  time.Now(),
		ErrorKind:    errorKind,
		ErrorMessage: errorMessage,
	})
}

// writeError writes a JSON error response.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, kind, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: ErrorDetail{
		Kind:      kind,
		Message:   message,
		RequestID: logging.GetRequestID(r.Context()),
	}})
}
