package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/courtiq/skillrank/internal/domain/model"
	"github.com/courtiq/skillrank/internal/domain/rating"
)

type brokenStore struct{ MemoryStore }

func (b *brokenStore) Put(context.Context, *model.Leaderboard) error {
	return errors.New("disk on fire")
}

func outcomes(venue string) []model.MatchOutcome {
	now := time.Now()
	return []model.MatchOutcome{
		{ID: "m1", VenueID: venue, WinnerID: "a", LoserID: "b", RecordedAt: now},
		{ID: "m2", VenueID: venue, WinnerID: "a", LoserID: "c", RecordedAt: now},
		{ID: "m3", VenueID: venue, WinnerID: "b", LoserID: "c", RecordedAt: now},
		{ID: "m4", VenueID: venue, WinnerID: "a", LoserID: "b", Draw: true, RecordedAt: now},
	}
}

func TestCache_RecomputeAndStore(t *testing.T) {
	ctx := context.Background()
	c := New(NewMemoryStore(), rating.NewAggregator())

	lb, err := c.RecomputeAndStore(ctx, "v1", outcomes("v1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lb.VenueID != "v1" || len(lb.Entries) != 3 {
		t.Fatalf("unexpected leaderboard: %+v", lb)
	}
	if lb.UpdatedAt.IsZero() {
		t.Error("expected updatedAt to be stamped")
	}

	// skill desc, ranks dense and 1-based
	for i, e := range lb.Entries {
		if e.Rank != i+1 {
			t.Errorf("entry %d has rank %d", i, e.Rank)
		}
		if i > 0 && e.Skill > lb.Entries[i-1].Skill {
			t.Errorf("entries out of skill order at %d", i)
		}
	}
	if lb.Entries[0].PlayerID != "a" {
		t.Errorf("expected player a on top, got %s", lb.Entries[0].PlayerID)
	}

	got, fresh, err := c.Get(ctx, "v1")
	if err != nil || !fresh {
		t.Fatalf("expected fresh board, got fresh=%v err=%v", fresh, err)
	}
	if len(got.Entries) != 3 {
		t.Errorf("round-trip lost entries: %+v", got.Entries)
	}
}

func TestCache_GetNeverComputed(t *testing.T) {
	c := New(NewMemoryStore(), rating.NewAggregator())
	_, _, err := c.Get(context.Background(), "ghost")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCache_StaleSnapshot(t *testing.T) {
	ctx := context.Background()
	clock := time.Now()
	c := New(NewMemoryStore(), rating.NewAggregator(),
		WithMaxAge(time.Minute),
		WithClock(func() time.Time { return clock }),
	)

	if _, err := c.RecomputeAndStore(ctx, "v1", outcomes("v1")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	clock = clock.Add(2 * time.Minute)
	lb, fresh, err := c.Get(ctx, "v1")
	if err != nil {
		t.Fatalf("stale is not an error: %v", err)
	}
	if fresh {
		t.Error("expected the aged snapshot to be reported stale")
	}
	if lb == nil || len(lb.Entries) != 3 {
		t.Error("stale snapshot must still be returned for best-effort serving")
	}
}

func TestCache_StoreWriteFailureIsBestEffort(t *testing.T) {
	c := New(&brokenStore{}, rating.NewAggregator())

	lb, err := c.RecomputeAndStore(context.Background(), "v1", outcomes("v1"))
	if !errors.Is(err, ErrStoreWrite) {
		t.Fatalf("expected ErrStoreWrite, got %v", err)
	}
	if lb == nil || len(lb.Entries) != 3 {
		t.Error("the computed leaderboard must be returned despite the write failure")
	}
}

func TestCache_RecomputeReplacesWholesale(t *testing.T) {
	ctx := context.Background()
	c := New(NewMemoryStore(), rating.NewAggregator())

	if _, err := c.RecomputeAndStore(ctx, "v1", outcomes("v1")); err != nil {
		t.Fatal(err)
	}
	lb, err := c.RecomputeAndStore(ctx, "v1", []model.MatchOutcome{
		{ID: "m9", VenueID: "v1", WinnerID: "x", LoserID: "y", RecordedAt: time.Now()},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(lb.Entries) != 2 {
		t.Errorf("expected the old snapshot to be fully replaced, got %+v", lb.Entries)
	}

	venues, err := c.Venues(ctx)
	if err != nil || len(venues) != 1 || venues[0] != "v1" {
		t.Errorf("unexpected venue listing: %v %v", venues, err)
	}
}
