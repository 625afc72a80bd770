// Package jobs tracks discovery jobs through their state machine:
// processing, then completed or failed. Terminal states are immutable and
// progress can only move forward.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/scholarstream/scholarstream/internal/models"
	"github.com/scholarstream/scholarstream/internal/store"
)

var (
	ErrTerminalJob = errors.New("jobs: job is in a terminal state")
	ErrNotFound    = store.ErrNotFound
)

type Tracker struct {
	store  store.Store
	logger *zap.Logger
	now    func() time.Time
}

func NewTracker(s store.Store, logger *zap.Logger) *Tracker {
	return &Tracker{store: s, logger: logger.Named("jobs"), now: time.Now}
}

// Create registers a new job in the processing state with zero progress.
func (t *Tracker) Create(ctx context.Context, jobID, userID string) (models.DiscoveryJob, error) {
	now := t.now()
	job := models.DiscoveryJob{
		ID:        jobID,
		UserID:    userID,
		Status:    models.JobProcessing,
		Progress:  0,
		StartedAt: now,
		UpdatedAt: now,
	}
	if err := t.store.SaveJob(ctx, job); err != nil {
		return models.DiscoveryJob{}, fmt.Errorf("failed to create job: %w", err)
	}
	t.logger.Info("discovery job created",
		zap.String("job_id", jobID), zap.String("user_id", userID))
	return job, nil
}

// UpdateProgress advances a running job. Regressions are clamped rather than
// rejected: a late-arriving lower value keeps the previous progress.
func (t *Tracker) UpdateProgress(ctx context.Context, jobID string, progress float64, foundCount int) error {
	job, err := t.store.GetJob(ctx, jobID)
	if err != nil {
		return err
	}
	if job.Status.Terminal() {
		return ErrTerminalJob
	}

	if progress > 100 {
		progress = 100
	}
	if progress > job.Progress {
		job.Progress = progress
	}
	if foundCount > job.ScholarshipsFound {
		job.ScholarshipsFound = foundCount
	}
	job.UpdatedAt = t.now()

	return t.store.SaveJob(ctx, job)
}

// Complete moves the job to its completed terminal state.
func (t *Tracker) Complete(ctx context.Context, jobID string, foundCount int) error {
	return t.finish(ctx, jobID, models.JobCompleted, foundCount)
}

// Fail moves the job to its failed terminal state with a zero count.
func (t *Tracker) Fail(ctx context.Context, jobID string) error {
	return t.finish(ctx, jobID, models.JobFailed, 0)
}

func (t *Tracker) finish(ctx context.Context, jobID string, status models.JobStatus, foundCount int) error {
	job, err := t.store.GetJob(ctx, jobID)
	if err != nil {
		return err
	}
	if job.Status.Terminal() {
		return ErrTerminalJob
	}

	job.Status = status
	job.Progress = 100
	job.ScholarshipsFound = foundCount
	job.UpdatedAt = t.now()

	if err := t.store.SaveJob(ctx, job); err != nil {
		return fmt.Errorf("failed to finish job: %w", err)
	}
	t.logger.Info("discovery job finished",
		zap.String("job_id", jobID),
		zap.String("status", string(status)),
		zap.Int("found", foundCount))
	return nil
}

// Get returns the latest snapshot for polling.
func (t *Tracker) Get(ctx context.Context, jobID string) (models.DiscoveryJob, error) {
	return t.store.GetJob(ctx, jobID)
}
