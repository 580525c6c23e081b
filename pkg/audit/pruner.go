package audit

import (
	"context"
	"fmt"
	"time"

	"mercator-hq/saturn/pkg/config"
	"mercator-hq/saturn/pkg/telemetry/logging"
)

// Pruner enforces retention policy on audit records.
type Pruner struct {
	store     Store
	config    *config.RetentionConfig
	logger    *logging.Logger
	scheduler *Scheduler
}

// NewPruner creates a new retention pruner.
func NewPruner(store Store, cfg *config.RetentionConfig, logger *logging.Logger) *Pruner {
	if cfg == nil {
		defaults := config.DefaultConfig()
		cfg = &defaults.Audit.Retention
	}
	if logger == nil {
		logger = logging.Discard()
	}

	pruner := &Pruner{
		store:  store,
		config: cfg,
		logger: logger.With("component", "audit.retention"),
	}
	pruner.scheduler = NewScheduler(pruner)

	return pruner
}

// Prune deletes audit records older than the retention period or exceeding
// the record cap. Age-based pruning runs first, then count-based pruning
// removes the oldest surplus records. Returns the total number deleted.
func (p *Pruner) Prune(ctx context.Context) (int64, error) {
	var totalDeleted int64

	if p.config.Days > 0 {
		deleted, err := p.pruneByAge(ctx)
		if err != nil {
			return totalDeleted, fmt.Errorf("prune by age failed: %w", err)
		}
		totalDeleted += deleted
	}

	if p.config.MaxRecords > 0 {
		deleted, err := p.pruneByCount(ctx)
		if err != nil {
			return totalDeleted, fmt.Errorf("prune by count failed: %w", err)
		}
		totalDeleted += deleted
	}

	if totalDeleted > 0 {
		p.logger.Info("audit pruning completed",
			"total_deleted", totalDeleted,
			"retention_days", p.config.Days,
			"max_records", p.config.MaxRecords,
		)
	}

	return totalDeleted, nil
}

// pruneByAge deletes records older than the retention period.
func (p *Pruner) pruneByAge(ctx context.Context) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -p.config.Days)

	return p.store.Delete(ctx, &Query{EndTime: &cutoff})
}

// pruneByCount deletes the oldest records when the total exceeds MaxRecords.
func (p *Pruner) pruneByCount(ctx context.Context) (int64, error) {
	count, err := p.store.Count(ctx, &Query{})
	if err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}

	maxRecords := int64(p.config.MaxRecords)
	if count <= maxRecords {
		return 0, nil
	}

	toDelete := count - maxRecords

	// Find the start time of the newest record in the surplus; everything
	// at or before it goes.
	oldest, err := p.store.Query(ctx, &Query{
		SortOrder: "asc",
		Limit:     int(toDelete),
	})
	if err != nil {
		return 0, fmt.Errorf("failed to query oldest records: %w", err)
	}
	if len(oldest) == 0 {
		return 0, nil
	}

	cutoff := oldest[len(oldest)-1].StartedAt

	return p.store.Delete(ctx, &Query{EndTime: &cutoff})
}

// Start starts the automatic pruning scheduler.
func (p *Pruner) Start(ctx context.Context) error {
	return p.scheduler.Start(ctx)
}

// Stop stops the automatic pruning scheduler.
func (p *Pruner) Stop() {
	p.scheduler.Stop()
}

// NextPruning returns the time of the next scheduled pruning, or nil when
// no schedule is configured.
func (p *Pruner) NextPruning() *time.Time {
	return p.scheduler.NextRun()
}
