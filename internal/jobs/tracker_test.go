package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/scholarstream/scholarstream/internal/models"
	"github.com/scholarstream/scholarstream/internal/store"
)

func newTestTracker() (*Tracker, *store.MemoryStore) {
	st := store.NewMemoryStore()
	return NewTracker(st, zap.NewNop()), st
}

func TestTrackerCreate(t *testing.T) {
	tracker, _ := newTestTracker()

	job, err := tracker.Create(context.Background(), "job-1", "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if job.Status != models.JobProcessing {
		t.Errorf("expected processing status, got %s", job.Status)
	}
	if job.Progress != 0 || job.ScholarshipsFound != 0 {
		t.Errorf("expected zeroed counters, got %+v", job)
	}
	if job.StartedAt.IsZero() {
		t.Error("expected StartedAt set")
	}
}

func TestTrackerProgressIsMonotonic(t *testing.T) {
	tracker, _ := newTestTracker()
	ctx := context.Background()
	tracker.Create(ctx, "job-1", "user-1")

	if err := tracker.UpdateProgress(ctx, "job-1", 60, 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// A stale lower update must not move progress backwards.
	if err := tracker.UpdateProgress(ctx, "job-1", 40, 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	job, _ := tracker.Get(ctx, "job-1")
	if job.Progress != 60 {
		t.Errorf("expected progress held at 60, got %v", job.Progress)
	}
	if job.ScholarshipsFound != 5 {
		t.Errorf("expected count held at 5, got %d", job.ScholarshipsFound)
	}
}

func TestTrackerProgressClampedTo100(t *testing.T) {
	tracker, _ := newTestTracker()
	ctx := context.Background()
	tracker.Create(ctx, "job-1", "user-1")

	if err := tracker.UpdateProgress(ctx, "job-1", 150, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	job, _ := tracker.Get(ctx, "job-1")
	if job.Progress != 100 {
		t.Errorf("expected clamp at 100, got %v", job.Progress)
	}
}

func TestTrackerComplete(t *testing.T) {
	tracker, _ := newTestTracker()
	ctx := context.Background()
	tracker.Create(ctx, "job-1", "user-1")

	if err := tracker.Complete(ctx, "job-1", 42); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	job, _ := tracker.Get(ctx, "job-1")
	if job.Status != models.JobCompleted {
		t.Errorf("expected completed, got %s", job.Status)
	}
	if job.Progress != 100 || job.ScholarshipsFound != 42 {
		t.Errorf("unexpected terminal snapshot %+v", job)
	}
}

func TestTrackerFail(t *testing.T) {
	tracker, _ := newTestTracker()
	ctx := context.Background()
	tracker.Create(ctx, "job-1", "user-1")
	tracker.UpdateProgress(ctx, "job-1", 40, 7)

	if err := tracker.Fail(ctx, "job-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	job, _ := tracker.Get(ctx, "job-1")
	if job.Status != models.JobFailed {
		t.Errorf("expected failed, got %s", job.Status)
	}
	if job.ScholarshipsFound != 0 {
		t.Errorf("failed jobs report zero found, got %d", job.ScholarshipsFound)
	}
}

func TestTrackerTerminalStatesAreImmutable(t *testing.T) {
	tracker, _ := newTestTracker()
	ctx := context.Background()
	tracker.Create(ctx, "job-1", "user-1")
	tracker.Complete(ctx, "job-1", 10)

	if err := tracker.UpdateProgress(ctx, "job-1", 50, 1); !errors.Is(err, ErrTerminalJob) {
		t.Errorf("expected ErrTerminalJob on progress update, got %v", err)
	}
	if err := tracker.Fail(ctx, "job-1"); !errors.Is(err, ErrTerminalJob) {
		t.Errorf("expected ErrTerminalJob on fail, got %v", err)
	}
	if err := tracker.Complete(ctx, "job-1", 99); !errors.Is(err, ErrTerminalJob) {
		t.Errorf("expected ErrTerminalJob on re-complete, got %v", err)
	}

	job, _ := tracker.Get(ctx, "job-1")
	if job.ScholarshipsFound != 10 {
		t.Errorf("terminal snapshot must not change, got %+v", job)
	}
}

func TestTrackerUnknownJob(t *testing.T) {
	tracker, _ := newTestTracker()

	if _, err := tracker.Get(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := tracker.UpdateProgress(context.Background(), "missing", 10, 0); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestTrackerUpdatedAtAdvances(t *testing.T) {
	tracker, _ := newTestTracker()
	current := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	tracker.now = func() time.Time { return current }

	ctx := context.Background()
	job, _ := tracker.Create(ctx, "job-1", "user-1")
	if !job.UpdatedAt.Equal(current) {
		t.Fatalf("unexpected UpdatedAt %v", job.UpdatedAt)
	}

	current = current.Add(5 * time.Second)
	tracker.UpdateProgress(ctx, "job-1", 40, 0)

	updated, _ := tracker.Get(ctx, "job-1")
	if !updated.UpdatedAt.Equal(current) {
		t.Errorf("expected UpdatedAt advanced, got %v", updated.UpdatedAt)
	}
	if !updated.StartedAt.Equal(job.StartedAt) {
		t.Errorf("StartedAt must not change, got %v", updated.StartedAt)
	}
}
