package store

import (
	"context"
	"sync"

	"github.com/scholarstream/scholarstream/internal/models"
)

// MemoryStore keeps everything in mutex-guarded maps. Opportunity listing
// preserves insertion order so ranked output stays deterministic.
type MemoryStore struct {
	mu            sync.RWMutex
	opportunities map[string]models.Opportunity
	order         []string
	jobs          map[string]models.DiscoveryJob
	matches       map[string][]string
	saved         map[string][]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		opportunities: make(map[string]models.Opportunity),
		jobs:          make(map[string]models.DiscoveryJob),
		matches:       make(map[string][]string),
		saved:         make(map[string][]string),
	}
}

func (s *MemoryStore) SaveOpportunity(_ context.Context, opp models.Opportunity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.opportunities[opp.ID]; !exists {
		s.order = append(s.order, opp.ID)
	}
	s.opportunities[opp.ID] = opp
	return nil
}

func (s *MemoryStore) GetOpportunity(_ context.Context, id string) (models.Opportunity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	opp, ok := s.opportunities[id]
	if !ok {
		return models.Opportunity{}, ErrNotFound
	}
	return opp, nil
}

func (s *MemoryStore) ListOpportunities(_ context.Context) ([]models.Opportunity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Opportunity, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.opportunities[id])
	}
	return out, nil
}

func (s *MemoryStore) SaveJob(_ context.Context, job models.DiscoveryJob) error {
	s.mu.Lock()
	s.jobs[job.ID] = job
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) GetJob(_ context.Context, id string) (models.DiscoveryJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.jobs[id]
	if !ok {
		return models.DiscoveryJob{}, ErrNotFound
	}
	return job, nil
}

func (s *MemoryStore) SaveUserMatches(_ context.Context, userID string, opportunityIDs []string) error {
	s.mu.Lock()
	s.matches[userID] = append([]string(nil), opportunityIDs...)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) GetUserMatches(_ context.Context, userID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.matches[userID]...), nil
}

func (s *MemoryStore) AddSavedOpportunity(_ context.Context, userID, opportunityID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range s.saved[userID] {
		if id == opportunityID {
			return nil
		}
	}
	s.saved[userID] = append(s.saved[userID], opportunityID)
	return nil
}

func (s *MemoryStore) RemoveSavedOpportunity(_ context.Context, userID, opportunityID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.saved[userID]
	for i, id := range list {
		if id == opportunityID {
			s.saved[userID] = append(list[:i], list[i+1:]...)
			return nil
		}
	}
	return nil
}

func (s *MemoryStore) GetSavedOpportunities(_ context.Context, userID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.saved[userID]...), nil
}
