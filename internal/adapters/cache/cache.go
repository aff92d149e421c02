package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/courtiq/skillrank/internal/domain/model"
	"github.com/courtiq/skillrank/internal/domain/rating"
	"github.com/courtiq/skillrank/pkg/metrics"
)

// DefaultMaxAge is the freshness window applied when none is configured.
const DefaultMaxAge = 10 * time.Minute

// Cache wraps a snapshot store with a freshness policy and the recompute
// path. The sort and rank assignment happen here, on the ranking fold's
// output, so a stored snapshot is always internally consistent.
type Cache struct {
	store      Store
	aggregator *rating.Aggregator
	maxAge     time.Duration
	now        func() time.Time
}

// Option applies a configuration option to the Cache.
type Option func(*Cache)

// WithMaxAge sets the freshness window for Get.
func WithMaxAge(d time.Duration) Option {
	return func(c *Cache) {
		if d > 0 {
			c.maxAge = d
		}
	}
}

// WithClock overrides the time source. Tests use this to age snapshots.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		if now != nil {
			c.now = now
		}
	}
}

// New creates a cache over the given store and aggregator.
func New(store Store, aggregator *rating.Aggregator, opts ...Option) *Cache {
	c := &Cache{
		store:      store,
		aggregator: aggregator,
		maxAge:     DefaultMaxAge,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the cached leaderboard and whether it is present and fresh.
// A present-but-stale snapshot comes back with fresh=false and no error:
// staleness is a signal for the caller to recompute, not a failure. A venue
// never computed returns ErrNotFound.
func (c *Cache) Get(ctx context.Context, venueID string) (*model.Leaderboard, bool, error) {
	lb, err := c.store.Get(ctx, venueID)
	if err != nil {
		metrics.RecordCacheMiss()
		return nil, false, err
	}
	if c.now().Sub(lb.UpdatedAt) > c.maxAge {
		metrics.RecordCacheStale()
		return lb, false, nil
	}
	metrics.RecordCacheHit()
	return lb, true, nil
}

// RecomputeAndStore folds outcomes into a fresh ranked leaderboard and
// persists it. The in-memory computation cannot fail; if the persistence
// write fails the computed leaderboard is returned together with a wrapped
// ErrStoreWrite, since the value is re-derivable and still safe to serve.
func (c *Cache) RecomputeAndStore(ctx context.Context, venueID string, outcomes []model.MatchOutcome) (*model.Leaderboard, error) {
	start := c.now()
	entries := rating.Rank(c.aggregator.Aggregate(ctx, venueID, outcomes))
	lb := &model.Leaderboard{
		VenueID:   venueID,
		Entries:   entries,
		UpdatedAt: c.now(),
	}
	metrics.RecordRecompute(float64(time.Since(start).Milliseconds()))

	if err := c.store.Put(ctx, lb); err != nil {
		return lb, fmt.Errorf("%w: %w", ErrStoreWrite, err)
	}
	return lb, nil
}

// Venues lists venue ids with a stored snapshot.
func (c *Cache) Venues(ctx context.Context) ([]string, error) {
	return c.store.Venues(ctx)
}
