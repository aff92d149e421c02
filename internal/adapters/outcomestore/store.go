// Package outcomestore loads a venue's match history through a tiered
// fallback chain: finalized results, then raw match documents, then booking
// co-occurrence heuristics.
package outcomestore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/courtiq/skillrank/internal/domain/dedupe"
	"github.com/courtiq/skillrank/internal/domain/model"
	"github.com/courtiq/skillrank/pkg/logger"
	"github.com/courtiq/skillrank/pkg/metrics"
)

// MatchDoc is a raw per-match document as stored by the booking application.
// Tier 2 reconstructs MatchOutcome values from these.
type MatchDoc struct {
	DocID      string
	VenueID    string
	WinnerID   string
	LoserID    string
	Draw       bool
	RecordedAt time.Time
	WinnerPts  *int
	LoserPts   *int
}

// BookingPair is a venue booking where two participants are known to have
// played together (a duo booking). Tier 3 synthesizes pseudo-outcomes from
// these when no real results exist yet.
type BookingPair struct {
	BookingID  string
	VenueID    string
	PlayerA    string
	PlayerB    string
	Status     string // confirmed, paid, pending, cancelled, ...
	RecordedAt time.Time
}

// ResultReader serves tier 1: structured, already-finalized match results.
type ResultReader interface {
	FinalizedOutcomes(ctx context.Context, venueID string) ([]model.MatchOutcome, error)
}

// MatchDocReader serves tier 2: raw match-result-like documents.
type MatchDocReader interface {
	MatchDocs(ctx context.Context, venueID string) ([]MatchDoc, error)
}

// BookingReader serves tier 3: duo-booking co-occurrence records.
type BookingReader interface {
	DuoBookings(ctx context.Context, venueID string) ([]BookingPair, error)
}

// Adapter runs the three tiers sequentially with early exit: tier 1 empty on
// hit is the common case, so parallel fan-out would mostly be wasted queries.
// A failing tier degrades to empty-for-this-tier; only when every tier fails
// does LoadOutcomes return an error.
type Adapter struct {
	results  ResultReader
	docs     MatchDocReader
	bookings BookingReader

	statusWeights map[string]float64
	minConfidence float64

	log logger.Logger
}

// NewAdapter creates an adapter over the three tier readers. Any reader may
// be nil, which makes its tier permanently empty.
func NewAdapter(results ResultReader, docs MatchDocReader, bookings BookingReader, opts ...Option) *Adapter {
	a := &Adapter{
		results:  results,
		docs:     docs,
		bookings: bookings,
		statusWeights: map[string]float64{
			"confirmed": 1.0,
			"paid":      1.0,
			"pending":   0.4,
		},
		minConfidence: defaultMinConfidence,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// LoadOutcomes returns the venue's outcomes and which tier satisfied the
// call. Heuristic outcomes are never mixed with real ones; the first
// non-empty tier wins outright.
func (a *Adapter) LoadOutcomes(ctx context.Context, venueID string) ([]model.MatchOutcome, model.Source, error) {
	var tierErrs []error

	outcomes, err := a.loadPrimary(ctx, venueID)
	if err != nil {
		tierErrs = append(tierErrs, fmt.Errorf("primary: %w", err))
		a.warn(ctx, venueID, model.SourcePrimary, err)
	} else if len(outcomes) > 0 {
		metrics.RecordTierHit(string(model.SourcePrimary))
		return outcomes, model.SourcePrimary, nil
	}

	outcomes, err = a.loadDerived(ctx, venueID)
	if err != nil {
		tierErrs = append(tierErrs, fmt.Errorf("derived: %w", err))
		a.warn(ctx, venueID, model.SourceDerived, err)
	} else if len(outcomes) > 0 {
		metrics.RecordTierHit(string(model.SourceDerived))
		return outcomes, model.SourceDerived, nil
	}

	outcomes, err = a.loadHeuristic(ctx, venueID)
	if err != nil {
		tierErrs = append(tierErrs, fmt.Errorf("heuristic: %w", err))
		a.warn(ctx, venueID, model.SourceHeuristic, err)
	} else if len(outcomes) > 0 {
		metrics.RecordTierHit(string(model.SourceHeuristic))
		return outcomes, model.SourceHeuristic, nil
	}

	if len(tierErrs) == 3 {
		return nil, "", fmt.Errorf("%w: %w", ErrAllTiersFailed, errors.Join(tierErrs...))
	}
	metrics.RecordTierHit("none")
	return nil, model.SourcePrimary, nil
}

func (a *Adapter) loadPrimary(ctx context.Context, venueID string) ([]model.MatchOutcome, error) {
	if a.results == nil {
		return nil, nil
	}
	outcomes, err := a.results.FinalizedOutcomes(ctx, venueID)
	if err != nil {
		return nil, err
	}
	for i := range outcomes {
		outcomes[i].Source = model.SourcePrimary
		if outcomes[i].Confidence == 0 {
			outcomes[i].Confidence = 1
		}
	}
	return outcomes, nil
}

// loadDerived reconstructs outcomes from raw match documents. The same
// logical match can surface from more than one underlying query (winner-side
// and loser-side indexes), so documents are de-duplicated by id here as well
// as in the aggregation fold.
func (a *Adapter) loadDerived(ctx context.Context, venueID string) ([]model.MatchOutcome, error) {
	if a.docs == nil {
		return nil, nil
	}
	docs, err := a.docs.MatchDocs(ctx, venueID)
	if err != nil {
		return nil, err
	}
	seen := dedupe.NewSeenSet()
	outcomes := make([]model.MatchOutcome, 0, len(docs))
	for _, d := range docs {
		if d.DocID == "" || seen.SeenAndRecord(ctx, d.DocID) {
			continue
		}
		if d.WinnerID == "" || d.LoserID == "" {
			continue
		}
		outcomes = append(outcomes, model.MatchOutcome{
			ID:          d.DocID,
			VenueID:     venueID,
			WinnerID:    d.WinnerID,
			LoserID:     d.LoserID,
			Draw:        d.Draw,
			RecordedAt:  d.RecordedAt,
			WinnerScore: d.WinnerPts,
			LoserScore:  d.LoserPts,
			Source:      model.SourceDerived,
			Confidence:  1,
		})
	}
	return outcomes, nil
}

// loadHeuristic synthesizes one neutral pseudo-outcome per player pair from
// duo bookings. The result is a draw signal, not a win/loss claim; its
// confidence comes from the booking status so downstream consumers can
// down-weight or drop it.
func (a *Adapter) loadHeuristic(ctx context.Context, venueID string) ([]model.MatchOutcome, error) {
	if a.bookings == nil {
		return nil, nil
	}
	pairs, err := a.bookings.DuoBookings(ctx, venueID)
	if err != nil {
		return nil, err
	}

	best := make(map[string]model.MatchOutcome)
	for _, p := range pairs {
		if p.PlayerA == "" || p.PlayerB == "" || p.PlayerA == p.PlayerB {
			continue
		}
		conf := a.statusWeights[p.Status]
		if conf <= 0 || conf < a.minConfidence {
			continue
		}
		id := pairID(venueID, p.PlayerA, p.PlayerB)
		if prev, ok := best[id]; ok && prev.Confidence >= conf {
			continue
		}
		low, high := orderPair(p.PlayerA, p.PlayerB)
		best[id] = model.MatchOutcome{
			ID:         id,
			VenueID:    venueID,
			WinnerID:   low,
			LoserID:    high,
			Draw:       true,
			RecordedAt: p.RecordedAt,
			Source:     model.SourceHeuristic,
			Confidence: conf,
		}
	}

	outcomes := make([]model.MatchOutcome, 0, len(best))
	for _, o := range best {
		outcomes = append(outcomes, o)
	}
	sort.Slice(outcomes, func(i, j int) bool { return outcomes[i].ID < outcomes[j].ID })
	return outcomes, nil
}

// pairID is deterministic per (venue, unordered pair) so repeated loads and
// repeated bookings of the same duo de-duplicate naturally.
func pairID(venueID, a, b string) string {
	low, high := orderPair(a, b)
	return "duo:" + venueID + ":" + low + ":" + high
}

func orderPair(a, b string) (string, string) {
	if a < b {
		return a, b
	}
	return b, a
}

func (a *Adapter) warn(ctx context.Context, venueID string, tier model.Source, err error) {
	if a.log == nil {
		return
	}
	a.log.Warn(ctx, "outcome tier query failed, falling through",
		logger.String("venue", venueID),
		logger.String("tier", string(tier)),
		logger.Error(err),
	)
}
