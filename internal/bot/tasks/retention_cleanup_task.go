package tasks

import (
	"context"
	"fmt"
	"time"
)

// newRetentionCleanupTask creates the scheduled task function that deletes
// messages older than the configured retention age. With retention disabled
// (max_age of zero) the task is a no-op, and the log grows without bound.
func newRetentionCleanupTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "retention_cleanup")

	return func(ctx context.Context) error {
		maxAge := deps.Config.Retention.MaxAge
		if maxAge <= 0 {
			log.InfoContext(ctx, "Retention disabled, skipping cleanup")
			return nil
		}

		log.InfoContext(ctx, "Starting scheduled retention cleanup task...", "max_age", maxAge)
		startTime := time.Now()

		cutoff := time.Now().UTC().Add(-maxAge)
		deleted, err := deps.Store.DeleteMessagesBefore(ctx, cutoff)

		duration := time.Since(startTime)

		if err != nil {
			log.ErrorContext(ctx, "Retention cleanup task failed", "error", err, "duration", duration)

			return fmt.Errorf("retention cleanup failed: %w", err)
		}

		log.InfoContext(ctx, "Scheduled retention cleanup task completed successfully",
			"deleted", deleted, "cutoff", cutoff, "duration", duration)
		return nil
	}
}
