// Package types contains the wire shapes shared across the application.
package types

// Entry represents a leaderboard entry as served over the API.
type Entry struct {
	Rank         int     `json:"rank"`
	PlayerID     string  `json:"player_id"`
	Wins         int     `json:"wins"`
	Losses       int     `json:"losses"`
	Draws        int     `json:"draws"`
	TotalMatches int     `json:"total_matches"`
	WinRate      float64 `json:"win_rate"`
	Skill        float64 `json:"skill"`
}

// Leaderboard is the per-venue ranked snapshot as served over the API.
type Leaderboard struct {
	VenueID   string  `json:"venue_id"`
	Entries   []Entry `json:"entries"`
	UpdatedAt string  `json:"updated_at"`
	Stale     bool    `json:"stale,omitempty"`
}

// Probabilities is a win/draw/loss triple for a hypothetical matchup.
type Probabilities struct {
	PWin  float64 `json:"p_win"`
	PDraw float64 `json:"p_draw"`
	PLoss float64 `json:"p_loss"`
}

// Suggestion is one candidate opponent for a requesting player.
type Suggestion struct {
	Entry   Entry          `json:"entry"`
	Score   float64        `json:"score"`
	Outcome *Probabilities `json:"outcome,omitempty"`
}

// Suggestions bundles the ranked list with the two skill bands.
type Suggestions struct {
	VenueID  string       `json:"venue_id"`
	PlayerID string       `json:"player_id"`
	Baseline float64      `json:"baseline_skill"`
	Ranked   []Suggestion `json:"ranked"`
	Strong   []Entry      `json:"strong"`
	Balanced []Entry      `json:"balanced"`
}
