package store

import (
	"context"
	"errors"
	"testing"

	"github.com/scholarstream/scholarstream/internal/models"
)

func TestMemoryStoreOpportunities(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if _, err := s.GetOpportunity(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	for _, id := range []string{"a", "b", "c"} {
		if err := s.SaveOpportunity(ctx, models.Opportunity{ID: id, Name: "Opp " + id}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	got, err := s.GetOpportunity(ctx, "b")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name != "Opp b" {
		t.Errorf("unexpected opportunity %+v", got)
	}

	list, err := s.ListOpportunities(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 opportunities, got %d", len(list))
	}
	for i, id := range []string{"a", "b", "c"} {
		if list[i].ID != id {
			t.Errorf("expected insertion order, got %s at %d", list[i].ID, i)
		}
	}
}

func TestMemoryStoreUpsertKeepsOrder(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	s.SaveOpportunity(ctx, models.Opportunity{ID: "a", Name: "v1"})
	s.SaveOpportunity(ctx, models.Opportunity{ID: "b"})
	s.SaveOpportunity(ctx, models.Opportunity{ID: "a", Name: "v2"})

	list, _ := s.ListOpportunities(ctx)
	if len(list) != 2 {
		t.Fatalf("expected upsert, got %d entries", len(list))
	}
	if list[0].ID != "a" || list[0].Name != "v2" {
		t.Errorf("expected updated entry in original position, got %+v", list[0])
	}
}

func TestMemoryStoreJobs(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if _, err := s.GetJob(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	job := models.DiscoveryJob{ID: "job-1", UserID: "user-1", Status: models.JobProcessing}
	if err := s.SaveJob(ctx, job); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := s.GetJob(ctx, "job-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.UserID != "user-1" || got.Status != models.JobProcessing {
		t.Errorf("unexpected job %+v", got)
	}
}

func TestMemoryStoreUserMatches(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	ids, err := s.GetUserMatches(ctx, "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ids) != 0 {
		t.Fatalf("expected empty matches, got %v", ids)
	}

	s.SaveUserMatches(ctx, "user-1", []string{"a", "b"})
	s.SaveUserMatches(ctx, "user-1", []string{"c"})

	ids, _ = s.GetUserMatches(ctx, "user-1")
	if len(ids) != 1 || ids[0] != "c" {
		t.Errorf("expected matches replaced, got %v", ids)
	}
}

func TestMemoryStoreSavedOpportunities(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	s.AddSavedOpportunity(ctx, "user-1", "a")
	s.AddSavedOpportunity(ctx, "user-1", "b")
	// Array-union: duplicates are a no-op.
	s.AddSavedOpportunity(ctx, "user-1", "a")

	saved, err := s.GetSavedOpportunities(ctx, "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(saved) != 2 {
		t.Fatalf("expected 2 saved, got %v", saved)
	}

	s.RemoveSavedOpportunity(ctx, "user-1", "a")
	s.RemoveSavedOpportunity(ctx, "user-1", "never-saved")

	saved, _ = s.GetSavedOpportunities(ctx, "user-1")
	if len(saved) != 1 || saved[0] != "b" {
		t.Errorf("unexpected saved list %v", saved)
	}

	other, _ := s.GetSavedOpportunities(ctx, "user-2")
	if len(other) != 0 {
		t.Errorf("expected per-user isolation, got %v", other)
	}
}
