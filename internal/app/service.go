// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/courtiq/skillrank/internal/adapters/cache"
	"github.com/courtiq/skillrank/internal/adapters/refresh"
	"github.com/courtiq/skillrank/internal/domain/matchmake"
	"github.com/courtiq/skillrank/internal/domain/model"
	"github.com/courtiq/skillrank/internal/domain/predict"
	"github.com/courtiq/skillrank/internal/domain/types"
	"github.com/courtiq/skillrank/pkg/logger"
	"github.com/courtiq/skillrank/pkg/metrics"
)

// OutcomeLoader abstracts the tiered outcome store.
type OutcomeLoader interface {
	LoadOutcomes(ctx context.Context, venueID string) ([]model.MatchOutcome, model.Source, error)
}

// Service implements the API dependencies for the rating system.
type Service struct {
	mu sync.RWMutex

	// Core components
	outcomes   OutcomeLoader
	boards     *cache.Cache
	matchmaker *matchmake.Matchmaker
	predictor  *predict.Predictor
	refresher  *refresh.Refresher

	// Concurrent recomputes for the same venue coalesce onto one flight,
	// which also serializes writers per venue.
	recomputes singleflight.Group

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithMatchmaker replaces the default matchmaker.
func WithMatchmaker(m *matchmake.Matchmaker) Option {
	return func(s *Service) {
		if m != nil {
			s.matchmaker = m
		}
	}
}

// WithPredictor replaces the default predictor.
func WithPredictor(p *predict.Predictor) Option {
	return func(s *Service) {
		if p != nil {
			s.predictor = p
		}
	}
}

// WithRefresher attaches a background snapshot refresher.
func WithRefresher(r *refresh.Refresher) Option {
	return func(s *Service) {
		s.refresher = r
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.logger = log
		}
	}
}

// New constructs a Service over the outcome loader and leaderboard cache.
func New(outcomes OutcomeLoader, boards *cache.Cache, opts ...Option) *Service {
	s := &Service{
		outcomes:   outcomes,
		boards:     boards,
		matchmaker: matchmake.NewMatchmaker(),
		predictor:  predict.NewPredictor(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	if s.refresher != nil {
		s.refresher.Start(ctx)
	}
	s.started = true
	s.logger.Info(ctx, "rating service started")
	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	if s.refresher != nil {
		s.refresher.Stop()
	}
	s.started = false
	s.logger.Info(context.Background(), "rating service stopped")
}

// Leaderboard serves the venue's board. With force=false only the cache is
// consulted: a missing board is a not-found condition, a stale board is
// served flagged (recomputation is the caller's call, per the cache
// contract). With force=true the board is re-derived from outcomes.
func (s *Service) Leaderboard(ctx context.Context, venueID string, force bool) (types.Leaderboard, error) {
	if s.refresher != nil {
		s.refresher.Note(venueID)
	}

	if !force {
		lb, fresh, err := s.boards.Get(ctx, venueID)
		if err != nil {
			return types.Leaderboard{}, err
		}
		return toWireLeaderboard(lb, !fresh), nil
	}

	lb, err := s.recompute(ctx, venueID)
	if err != nil {
		return types.Leaderboard{}, err
	}
	return toWireLeaderboard(lb, false), nil
}

// Suggestions returns ranked opponent candidates plus the strong/balanced
// bands. A venue with no board yet is computed on the spot: cold-start
// venues must still yield suggestions rather than an empty screen.
func (s *Service) Suggestions(ctx context.Context, venueID, playerID string, limit int, withOutcome bool) (types.Suggestions, error) {
	if s.refresher != nil {
		s.refresher.Note(venueID)
	}

	lb, _, err := s.boards.Get(ctx, venueID)
	if errors.Is(err, cache.ErrNotFound) {
		lb, err = s.recompute(ctx, venueID)
	}
	if err != nil {
		return types.Suggestions{}, err
	}

	requesterSkill := s.skillOf(lb, playerID)
	baseline := s.matchmaker.Baseline(requesterSkill, *lb)
	ranked := s.matchmaker.Suggest(playerID, requesterSkill, *lb, limit)
	strong, balanced := s.matchmaker.Bands(playerID, *lb)

	out := types.Suggestions{
		VenueID:  venueID,
		PlayerID: playerID,
		Baseline: baseline,
		Ranked:   make([]types.Suggestion, 0, len(ranked)),
		Strong:   toWireEntries(strong),
		Balanced: toWireEntries(balanced),
	}
	for _, sg := range ranked {
		ws := types.Suggestion{Entry: toWireEntry(sg.Entry), Score: sg.Score}
		if withOutcome {
			p := s.predictor.Predict(baseline, sg.Entry.Skill)
			ws.Outcome = &types.Probabilities{PWin: p.PWin, PDraw: p.PDraw, PLoss: p.PLoss}
		}
		out.Ranked = append(out.Ranked, ws)
	}
	metrics.RecordSuggestionServed()
	return out, nil
}

// Predict returns the outcome distribution for two skills.
func (s *Service) Predict(_ context.Context, skillA, skillB float64) types.Probabilities {
	p := s.predictor.Predict(skillA, skillB)
	metrics.RecordPredictionServed()
	return types.Probabilities{PWin: p.PWin, PDraw: p.PDraw, PLoss: p.PLoss}
}

// recompute re-derives one venue's board. Flights for the same venue are
// coalesced; a cache write failure degrades to serving the computed value.
func (s *Service) recompute(ctx context.Context, venueID string) (*model.Leaderboard, error) {
	v, err, _ := s.recomputes.Do(venueID, func() (any, error) {
		outcomes, source, err := s.outcomes.LoadOutcomes(ctx, venueID)
		if err != nil {
			return nil, err
		}
		lb, err := s.boards.RecomputeAndStore(ctx, venueID, outcomes)
		if errors.Is(err, cache.ErrStoreWrite) {
			// Derived data: the computed board is still good, the next
			// recompute will retry the write.
			s.log().Warn(ctx, "leaderboard store write failed, serving computed value",
				logger.String("venue", venueID),
				logger.Error(err),
			)
			err = nil
		}
		if err == nil {
			s.log().Debug(ctx, "leaderboard recomputed",
				logger.String("venue", venueID),
				logger.String("source", string(source)),
				logger.Int("players", len(lb.Entries)),
			)
		}
		return lb, err
	})
	if err != nil {
		return nil, err
	}
	return v.(*model.Leaderboard), nil
}

// RecomputeVenue re-derives one venue's board, discarding the result. The
// background refresher uses this as its recompute hook.
func (s *Service) RecomputeVenue(ctx context.Context, venueID string) error {
	_, err := s.recompute(ctx, venueID)
	return err
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started": s.started,
	}
	if venues, err := s.boards.Venues(context.Background()); err == nil {
		stats["venues"] = len(venues)
		metrics.UpdateVenuesTracked(len(venues))
	}
	if s.refresher != nil {
		stats["refreshTracked"] = s.refresher.Tracked()
		stats["refreshQueued"] = s.refresher.QueueLen()
	}
	return stats
}

func (s *Service) skillOf(lb *model.Leaderboard, playerID string) *float64 {
	for _, e := range lb.Entries {
		if e.PlayerID == playerID {
			skill := e.Skill
			return &skill
		}
	}
	return nil
}

func (s *Service) log() logger.Logger {
	if s.logger != nil {
		return s.logger
	}
	return logger.Get()
}

func toWireEntry(e model.RatingEntry) types.Entry {
	return types.Entry{
		Rank:         e.Rank,
		PlayerID:     e.PlayerID,
		Wins:         e.Wins,
		Losses:       e.Losses,
		Draws:        e.Draws,
		TotalMatches: e.TotalMatches,
		WinRate:      e.WinRate,
		Skill:        e.Skill,
	}
}

func toWireEntries(entries []model.RatingEntry) []types.Entry {
	out := make([]types.Entry, len(entries))
	for i, e := range entries {
		out[i] = toWireEntry(e)
	}
	return out
}

func toWireLeaderboard(lb *model.Leaderboard, stale bool) types.Leaderboard {
	return types.Leaderboard{
		VenueID:   lb.VenueID,
		Entries:   toWireEntries(lb.Entries),
		UpdatedAt: lb.UpdatedAt.UTC().Format(time.RFC3339),
		Stale:     stale,
	}
}
