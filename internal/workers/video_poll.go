package workers

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/riverqueue/river"
	"gorm.io/gorm"

	"promptvault/internal/generation"
	"promptvault/internal/models"
	"promptvault/internal/stores"
)

// VideoPollJobArgs is the payload for polling a video generation operation
// until it resolves.
type VideoPollJobArgs struct {
	VersionID     uint   `json:"version_id"`
	OwnerID       uint   `json:"owner_id"`
	OperationName string `json:"operation_name"`
}

// Kind returns the job kind for River
func (VideoPollJobArgs) Kind() string { return "video_poll" }

// VideoPollWorker drives pending video generations to completion in the
// background so a client that stops polling still gets its version updated.
type VideoPollWorker struct {
	river.WorkerDefaults[VideoPollJobArgs]
	db  *gorm.DB
	gen *generation.Client
}

// NewVideoPollWorker creates a new video poll worker
func NewVideoPollWorker(db *gorm.DB, gen *generation.Client) *VideoPollWorker {
	return &VideoPollWorker{db: db, gen: gen}
}

// Work polls the operation once; unfinished operations are snoozed rather
// than burning a retry attempt.
func (w *VideoPollWorker) Work(ctx context.Context, job *river.Job[VideoPollJobArgs]) error {
	args := job.Args
	logger := slog.With(
		"worker", "video_poll",
		"job_id", job.ID,
		"version_id", args.VersionID,
		"operation", args.OperationName,
	)

	status, err := w.gen.PollVideoOperation(ctx, args.OperationName)
	if err != nil {
		logger.Error("Operation poll failed", "error", err)
		return err
	}
	if !status.Done {
		logger.Info("Operation still running", "progress", status.Progress)
		return river.JobSnooze(15 * time.Second)
	}

	if status.Failed() {
		logger.Warn("Video generation finished without media", "filter_reasons", status.FilterReasons)
		return nil
	}

	owner, err := stores.GetUser(w.db, args.OwnerID)
	if err != nil {
		return err
	}
	if owner == nil {
		logger.Warn("Owner no longer exists, dropping result")
		return nil
	}

	now := time.Now()
	err = w.db.Transaction(func(tx *gorm.DB) error {
		var v models.Version
		if err := tx.First(&v, args.VersionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				logger.Warn("Version no longer exists, dropping result")
				return nil
			}
			return err
		}
		if err := tx.Model(&v).Updates(map[string]interface{}{
			"video_url":    status.VideoURL,
			"generated_at": now,
		}).Error; err != nil {
			return err
		}
		setID := v.PromptSetID
		_, _, err := stores.AddMediaImage(tx, owner, status.VideoURL, &setID, &args.VersionID)
		return err
	})
	if err != nil {
		logger.Error("Failed to store video result", "error", err)
		return err
	}

	logger.Info("Video generation completed", "video_url", status.VideoURL)
	return nil
}
