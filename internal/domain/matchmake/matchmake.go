// Package matchmake ranks candidate opponents for a requesting player.
package matchmake

import (
	"math"
	"sort"

	"github.com/courtiq/skillrank/internal/domain/model"
)

// Default matchmaking constants.
const (
	// DefaultLimit is used when the caller supplies a non-positive limit.
	DefaultLimit = 5
	// DefaultStrongThreshold splits candidates into strong vs balanced bands.
	DefaultStrongThreshold = 0.5
	// coldStartBaseline is the assumed skill when the leaderboard is empty.
	coldStartBaseline = 0.5
)

// Option applies a configuration option to the Matchmaker.
type Option func(*Matchmaker)

// WithStrongThreshold sets the skill cutoff of the strong band.
func WithStrongThreshold(t float64) Option {
	return func(m *Matchmaker) {
		if t > 0 && t < 1 {
			m.strongThreshold = t
		}
	}
}

// WithDefaultLimit sets the suggestion count used for non-positive limits.
func WithDefaultLimit(n int) Option {
	return func(m *Matchmaker) {
		if n > 0 {
			m.defaultLimit = n
		}
	}
}

// Matchmaker produces opponent suggestions from a leaderboard snapshot.
// Pure and safe for concurrent use.
type Matchmaker struct {
	strongThreshold float64
	defaultLimit    int
}

// NewMatchmaker creates a matchmaker with configuration options.
func NewMatchmaker(opts ...Option) *Matchmaker {
	m := &Matchmaker{
		strongThreshold: DefaultStrongThreshold,
		defaultLimit:    DefaultLimit,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Baseline resolves the skill the requester is matched against: the
// requester's own skill when known, else the median skill on the board
// (robust against low-sample outliers), else 0.5 on an empty board.
func (m *Matchmaker) Baseline(requesterSkill *float64, lb model.Leaderboard) float64 {
	if requesterSkill != nil {
		return clamp01(*requesterSkill)
	}
	if len(lb.Entries) == 0 {
		return coldStartBaseline
	}
	skills := make([]float64, len(lb.Entries))
	for i, e := range lb.Entries {
		skills[i] = e.Skill
	}
	sort.Float64s(skills)
	mid := len(skills) / 2
	if len(skills)%2 == 1 {
		return skills[mid]
	}
	return (skills[mid-1] + skills[mid]) / 2
}

// Suggest returns up to limit candidate opponents ranked by closeness of
// skill to the requester's baseline. The requester's own entry is excluded.
// A non-positive limit falls back to the default; a limit past the candidate
// count returns every candidate.
func (m *Matchmaker) Suggest(requesterID string, requesterSkill *float64, lb model.Leaderboard, limit int) []model.Suggestion {
	if limit <= 0 {
		limit = m.defaultLimit
	}
	baseline := m.Baseline(requesterSkill, lb)

	candidates := m.candidates(requesterID, lb)
	suggestions := make([]model.Suggestion, 0, len(candidates))
	for _, e := range candidates {
		suggestions = append(suggestions, model.Suggestion{
			Entry: e,
			Score: 1 - math.Abs(e.Skill-baseline),
		})
	}
	sort.Slice(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Entry.TotalMatches != b.Entry.TotalMatches {
			return a.Entry.TotalMatches > b.Entry.TotalMatches
		}
		return a.Entry.PlayerID < b.Entry.PlayerID
	})

	if limit < len(suggestions) {
		suggestions = suggestions[:limit]
	}
	return suggestions
}

// Bands partitions every non-requester candidate into the strong band
// (skill >= threshold) and the balanced band (the rest). The two bands are
// disjoint and together cover the whole candidate set, so no candidate is
// ever silently dropped between the two views.
func (m *Matchmaker) Bands(requesterID string, lb model.Leaderboard) (strong, balanced []model.RatingEntry) {
	strong = []model.RatingEntry{}
	balanced = []model.RatingEntry{}
	for _, e := range m.candidates(requesterID, lb) {
		if e.Skill >= m.strongThreshold {
			strong = append(strong, e)
		} else {
			balanced = append(balanced, e)
		}
	}
	return strong, balanced
}

func (m *Matchmaker) candidates(requesterID string, lb model.Leaderboard) []model.RatingEntry {
	out := make([]model.RatingEntry, 0, len(lb.Entries))
	for _, e := range lb.Entries {
		if e.PlayerID == requesterID {
			continue
		}
		out = append(out, e)
	}
	return out
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
