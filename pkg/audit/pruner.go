package audit

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// PrunerConfig contains retention configuration.
type PrunerConfig struct {
	// RetentionDays is how long records are kept. Zero disables age-based
	// pruning.
	RetentionDays int

	// MaxRecords caps the total record count; the oldest records beyond the
	// cap are removed. Zero disables the cap.
	MaxRecords int64

	// PruneSchedule is a cron expression for the Scheduler (e.g. "0 3 * * *"
	// for daily at 3 AM). Empty disables scheduled pruning.
	PruneSchedule string
}

// Pruner enforces retention on audit storage.
type Pruner struct {
	storage Storage
	config  *PrunerConfig
	logger  *slog.Logger
}

// NewPruner creates a pruner over the given storage.
func NewPruner(storage Storage, config *PrunerConfig, logger *slog.Logger) (*Pruner, error) {
	if storage == nil {
		return nil, fmt.Errorf("storage cannot be nil")
	}
	if config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if config.RetentionDays < 0 {
		return nil, fmt.Errorf("retention days cannot be negative, got %d", config.RetentionDays)
	}
	if config.MaxRecords < 0 {
		return nil, fmt.Errorf("max records cannot be negative, got %d", config.MaxRecords)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Pruner{storage: storage, config: config, logger: logger}, nil
}

// Prune runs one retention cycle and returns the number of deleted records.
// Age-based pruning runs first, then the record-count cap.
func (p *Pruner) Prune(ctx context.Context) (int64, error) {
	var total int64

	if p.config.RetentionDays > 0 {
		cutoff := time.Now().UTC().AddDate(0, 0, -p.config.RetentionDays)
		deleted, err := p.storage.DeleteOlderThan(ctx, cutoff)
		if err != nil {
			return total, fmt.Errorf("age-based pruning failed: %w", err)
		}
		total += deleted
	}

	if p.config.MaxRecords > 0 {
		count, err := p.storage.Count(ctx)
		if err != nil {
			return total, fmt.Errorf("counting audit records failed: %w", err)
		}
		if excess := count - p.config.MaxRecords; excess > 0 {
			deleted, err := p.storage.DeleteOldest(ctx, excess)
			if err != nil {
				return total, fmt.Errorf("count-based pruning failed: %w", err)
			}
			total += deleted
		}
	}

	if total > 0 {
		p.logger.Info("audit records pruned",
			"deleted_count", total,
			"retention_days", p.config.RetentionDays,
			"max_records", p.config.MaxRecords,
		)
	}
	return total, nil
}
