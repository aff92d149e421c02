package model

import "time"

// RatingEntry is the per (venue, player) aggregate produced by the rating
// fold. It is derived data: recomputed from outcomes, never stored as a
// primary record.
//
// Invariants: TotalMatches == Wins+Losses+Draws; WinRate == Wins/TotalMatches
// when TotalMatches > 0; Skill == WinRate * TotalMatches/(TotalMatches+C).
type RatingEntry struct {
	PlayerID     string
	Wins         int
	Losses       int
	Draws        int
	TotalMatches int
	WinRate      float64
	Skill        float64
	Rank         int // 1-based, assigned after sorting
}

// Leaderboard is the ranked snapshot of all rated players at a venue.
// It is replaced wholesale on recompute, never partially mutated.
type Leaderboard struct {
	VenueID   string
	Entries   []RatingEntry
	UpdatedAt time.Time
}

// OutcomeProbabilities is a win/draw/loss triple for a hypothetical match,
// from the perspective of the first player. Components sum to 1.
type OutcomeProbabilities struct {
	PWin  float64
	PDraw float64
	PLoss float64
}

// Suggestion is a candidate opponent for a requesting player. Ephemeral,
// computed per request.
type Suggestion struct {
	Entry RatingEntry
	Score float64
	// Outcome is populated in prediction mode, nil otherwise.
	Outcome *OutcomeProbabilities
}
