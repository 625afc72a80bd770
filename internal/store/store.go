// Package store is the persistence boundary: a document-store-shaped
// interface with a Redis-backed implementation for deployment and an
// in-memory one for tests and single-process runs.
package store

import (
	"context"
	"errors"

	"github.com/scholarstream/scholarstream/internal/models"
)

var (
	ErrNotFound = errors.New("store: not found")
)

type Store interface {
	SaveOpportunity(ctx context.Context, opp models.Opportunity) error
	GetOpportunity(ctx context.Context, id string) (models.Opportunity, error)
	ListOpportunities(ctx context.Context) ([]models.Opportunity, error)

	SaveJob(ctx context.Context, job models.DiscoveryJob) error
	GetJob(ctx context.Context, id string) (models.DiscoveryJob, error)

	// SaveUserMatches replaces the user's ranked match list.
	SaveUserMatches(ctx context.Context, userID string, opportunityIDs []string) error
	GetUserMatches(ctx context.Context, userID string) ([]string, error)

	// AddSavedOpportunity appends to the user's favorites set (array-union:
	// adding an already-present ID is a no-op).
	AddSavedOpportunity(ctx context.Context, userID, opportunityID string) error
	RemoveSavedOpportunity(ctx context.Context, userID, opportunityID string) error
	GetSavedOpportunities(ctx context.Context, userID string) ([]string, error)
}
