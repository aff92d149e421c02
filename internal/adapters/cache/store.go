// Package cache persists per-venue leaderboard snapshots and decides when a
// cached copy is stale enough to recompute.
package cache

import (
	"context"

	"github.com/courtiq/skillrank/internal/domain/model"
)

// Store is the persistence backend for leaderboard snapshots. Snapshots are
// derived data: a failed write is recoverable by recomputing, so backends do
// not need transactional guarantees.
type Store interface {
	// Get returns the stored leaderboard for a venue.
	// Returns ErrNotFound if no snapshot was ever stored.
	Get(ctx context.Context, venueID string) (*model.Leaderboard, error)

	// Put replaces the stored leaderboard for a venue wholesale.
	Put(ctx context.Context, lb *model.Leaderboard) error

	// Venues lists venue ids with a stored snapshot.
	Venues(ctx context.Context) ([]string, error)
}
