package workers

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/rivertype"
	"gorm.io/gorm"
)

// QueueManager wraps the River client for job enqueueing and inspection.
type QueueManager struct {
	RiverClient *river.Client[pgx.Tx]
	db          *gorm.DB
}

// NewQueueManager creates a new queue manager
func NewQueueManager(riverClient *river.Client[pgx.Tx], db *gorm.DB) *QueueManager {
	return &QueueManager{RiverClient: riverClient, db: db}
}

// QueueVideoPoll enqueues background polling for a started video
// generation. Unique per operation so repeated client requests don't stack
// duplicate pollers.
func (qm *QueueManager) QueueVideoPoll(ctx context.Context, versionID, ownerID uint, operationName string) error {
	args := VideoPollJobArgs{
		VersionID:     versionID,
		OwnerID:       ownerID,
		OperationName: operationName,
	}
	opts := &river.InsertOpts{
		MaxAttempts: 10,
		Tags:        []string{"generation", "video"},
		UniqueOpts: river.UniqueOpts{
			ByArgs:   true,
			ByPeriod: 24 * time.Hour,
		},
	}
	if _, err := qm.RiverClient.Insert(ctx, args, opts); err != nil {
		slog.Error("Failed to enqueue video poll job",
			"version_id", versionID,
			"operation", operationName,
			"error", err)
		return err
	}
	slog.Info("Queued video poll job", "version_id", versionID, "operation", operationName)
	return nil
}

// PendingJobs lists queued and running jobs for the admin queue view.
func (qm *QueueManager) PendingJobs(ctx context.Context, limit int) ([]*rivertype.JobRow, error) {
	params := river.NewJobListParams().
		States(rivertype.JobStateAvailable, rivertype.JobStateRunning, rivertype.JobStateScheduled, rivertype.JobStateRetryable).
		First(limit)
	res, err := qm.RiverClient.JobList(ctx, params)
	if err != nil {
		return nil, err
	}
	return res.Jobs, nil
}
