package audit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"

	"mercator-hq/saturn/pkg/telemetry/logging"
)

// HashTemplate returns the hex-encoded SHA-256 digest of a raw template
// document. The hash identifies templates across runs without retaining
// their contents.
func HashTemplate(raw []byte) string {
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

// Recorder builds and persists audit records for transform runs. Storage
// failures are logged, never propagated; an audit outage must not fail the
// transform itself.
type Recorder struct {
	store  Store
	logger *logging.Logger
}

// NewRecorder creates a recorder writing to the given store.
func NewRecorder(store Store, logger *logging.Logger) *Recorder {
	if logger == nil {
		logger = logging.Discard()
	}

	return &Recorder{
		store:  store,
		logger: logger.With("component", "audit.recorder"),
	}
}

// RunInfo describes a completed transform run.
type RunInfo struct {
	RequestID    string
	Mode         string
	TemplateRaw  []byte
	SourceFormat string
	OutputFormat string
	SourceBytes  int64
	OutputBytes  int64
	StartedAt    time.Time
	CompletedAt  time.Time
	ErrorKind    string
	ErrorMessage string
}

// Record persists an audit record for the run and returns its generated ID.
func (r *Recorder) Record(ctx context.Context, info RunInfo) string {
	status := "success"
	if info.ErrorKind != "" || info.ErrorMessage != "" {
		status = "error"
	}

	record := &Record{
		ID:           uuid.NewString(),
		RequestID:    info.RequestID,
		StartedAt:    info.StartedAt,
		CompletedAt:  info.CompletedAt,
		Mode:         info.Mode,
		TemplateHash: HashTemplate(info.TemplateRaw),
		SourceFormat: info.SourceFormat,
		OutputFormat: info.OutputFormat,
		SourceBytes:  info.SourceBytes,
		OutputBytes:  info.OutputBytes,
		Status:       status,
		ErrorKind:    info.ErrorKind,
		ErrorMessage: info.ErrorMessage,
		Duration:     info.CompletedAt.Sub(info.StartedAt),
	}

	if err := r.store.Store(ctx, record); err != nil {
		r.logger.Error("failed to store audit record",
			"record_id", record.ID,
			"error", err,
		)
	}

	return record.ID
}
