package workers

import (
	"context"
	"log/slog"
	"time"

	"github.com/riverqueue/river"
	"gorm.io/gorm"

	"promptvault/internal/models"
	"promptvault/internal/stores"
)

// CleanupJobArgs is the payload for the periodic maintenance job.
type CleanupJobArgs struct{}

// Kind returns the job kind for River
func (CleanupJobArgs) Kind() string { return "cleanup" }

// CleanupWorker purges expired invite links and stale read notifications.
type CleanupWorker struct {
	river.WorkerDefaults[CleanupJobArgs]
	db *gorm.DB
}

// NewCleanupWorker creates a new cleanup worker
func NewCleanupWorker(db *gorm.DB) *CleanupWorker {
	return &CleanupWorker{db: db}
}

// Work runs one cleanup pass.
func (w *CleanupWorker) Work(ctx context.Context, job *river.Job[CleanupJobArgs]) error {
	logger := slog.With("worker", "cleanup", "job_id", job.ID)
	logger.Info("Starting periodic cleanup")

	purged, err := stores.PurgeExpiredInviteLinks(w.db)
	if err != nil {
		logger.Error("Failed to purge expired invite links", "error", err)
	} else if purged > 0 {
		logger.Info("Purged expired invite links", "count", purged)
	}

	cutoff := time.Now().Add(-90 * 24 * time.Hour)
	res := w.db.Unscoped().
		Where("read = ? AND created_at < ?", true, cutoff).
		Delete(&models.Notification{})
	if res.Error != nil {
		logger.Error("Failed to purge old notifications", "error", res.Error)
	} else if res.RowsAffected > 0 {
		logger.Info("Purged old read notifications", "count", res.RowsAffected)
	}

	logger.Info("Periodic cleanup completed")
	return nil
}
