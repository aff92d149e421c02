// Package rating folds match outcomes into per-player rating entries.
package rating

import (
	"context"
	"math"
	"sort"

	"github.com/courtiq/skillrank/internal/domain/dedupe"
	"github.com/courtiq/skillrank/internal/domain/model"
)

// DefaultConfidenceConstant is the shrinkage constant C in
// skill = winRate * n/(n+C). Higher C penalizes low-sample players more.
const DefaultConfidenceConstant = 10.0

// Option applies a configuration option to the Aggregator.
type Option func(*Aggregator)

// WithConfidenceConstant sets the shrinkage constant C.
func WithConfidenceConstant(c float64) Option {
	return func(a *Aggregator) {
		if c > 0 {
			a.confidence = c
		}
	}
}

// WithDedupeCap bounds the per-fold seen set. Zero means unbounded, which
// is the right call for venue-sized inputs; the cap exists for folds over
// unboundedly duplicated feeds.
func WithDedupeCap(n int) Option {
	return func(a *Aggregator) {
		if n >= 0 {
			a.dedupeCap = n
		}
	}
}

// Aggregator computes per-player aggregates for one venue. It is a pure
// function of its input and safe for concurrent use across venues.
type Aggregator struct {
	confidence float64
	dedupeCap  int
}

// NewAggregator creates an aggregator with configuration options.
func NewAggregator(opts ...Option) *Aggregator {
	a := &Aggregator{confidence: DefaultConfidenceConstant}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// tally is the running counter for one player during a fold.
type tally struct {
	wins, losses, draws int
}

// Aggregate folds outcomes for a single venue into rating entries. All
// outcomes must share venueID (the outcome store guarantees this). Outcomes
// are de-duplicated by id before folding, so the same logical match arriving
// from more than one source counts once. Players with zero matches are
// omitted. The returned entries are unsorted and unranked; see Rank.
func (a *Aggregator) Aggregate(ctx context.Context, venueID string, outcomes []model.MatchOutcome) []model.RatingEntry {
	var seenOpts []dedupe.Option
	if a.dedupeCap > 0 {
		seenOpts = append(seenOpts, dedupe.WithMaxSize(a.dedupeCap))
	}
	seen := dedupe.NewSeenSet(seenOpts...)
	tallies := make(map[string]*tally)

	bump := func(id string) *tally {
		t, ok := tallies[id]
		if !ok {
			t = &tally{}
			tallies[id] = t
		}
		return t
	}

	for _, o := range outcomes {
		if o.ID != "" && seen.SeenAndRecord(ctx, o.ID) {
			continue
		}
		if o.Draw {
			p1, p2 := o.Participants()
			bump(p1).draws++
			bump(p2).draws++
			continue
		}
		bump(o.WinnerID).wins++
		bump(o.LoserID).losses++
	}

	entries := make([]model.RatingEntry, 0, len(tallies))
	for id, t := range tallies {
		n := t.wins + t.losses + t.draws
		if n == 0 {
			continue
		}
		winRate := float64(t.wins) / float64(n)
		entries = append(entries, model.RatingEntry{
			PlayerID:     id,
			Wins:         t.wins,
			Losses:       t.losses,
			Draws:        t.draws,
			TotalMatches: n,
			WinRate:      winRate,
			Skill:        winRate * float64(n) / (float64(n) + a.confidence),
		})
	}
	return entries
}

// Rank sorts entries into leaderboard order and assigns 1-based ranks.
// Ordering: skill desc, then totalMatches desc, then player id asc. The
// deterministic tie-break keeps recomputes reproducible.
func Rank(entries []model.RatingEntry) []model.RatingEntry {
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !floatEqual(a.Skill, b.Skill) {
			return a.Skill > b.Skill
		}
		if a.TotalMatches != b.TotalMatches {
			return a.TotalMatches > b.TotalMatches
		}
		return a.PlayerID < b.PlayerID
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

func floatEqual(a, b float64) bool {
	const tolerance = 1e-12
	return math.Abs(a-b) < tolerance
}
