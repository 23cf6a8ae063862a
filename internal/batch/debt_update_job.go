package batch

import (
	"context"
	"credit-approval/internal/ingestion"
	"fmt"
	"log/slog"
	"time"
)

type DebtRecomputer interface {
	RecomputeDebt(ctx context.Context) (ingestion.StageResult, error)
}

// UpdateDebtJob refreshes every customer's cached current debt so loans that
// ended since the last run stop counting against the approved limit.
type UpdateDebtJob struct {
	recomputer DebtRecomputer
	timeout    time.Duration
	logger     *slog.Logger
}

func NewUpdateDebtJob(recomputer DebtRecomputer, timeout time.Duration, logger *slog.Logger) *UpdateDebtJob {
	if recomputer == nil || logger == nil {
		panic("UpdateDebtJob dependencies cannot be nil")
	}
	return &UpdateDebtJob{
		recomputer: recomputer,
		timeout:    timeout,
		logger:     logger.With("job", "UpdateCurrentDebt"),
	}
}

func (j *UpdateDebtJob) Run(ctx context.Context) error {
	startTime := time.Now()
	j.logger.InfoContext(ctx, "Starting customer current debt update job.")

	res, err := j.recomputer.RecomputeDebt(ctx)
	if err != nil {
		j.logger.ErrorContext(ctx, "Current debt update job failed.", slog.Any("error", err), slog.Duration("duration", time.Since(startTime)))
		return fmt.Errorf("current debt update failed: %w", err)
	}

	j.logger.InfoContext(ctx, "Customer current debt update job finished successfully.",
		slog.Int("customers_updated", res.Updated),
		slog.Duration("duration", time.Since(startTime)),
	)
	return nil
}

// Scheduled adapts the job to a cron entry, bounding each run by the
// configured timeout.
func (j *UpdateDebtJob) Scheduled(parent context.Context) func() {
	return func() {
		ctx := parent
		if j.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(parent, j.timeout)
			defer cancel()
		}
		_ = j.Run(ctx)
	}
}
