// Package model contains domain models passed between layers.
package model

import "time"

// Source identifies which tier of the outcome store produced a record.
type Source string

const (
	// SourcePrimary marks finalized, structured match results.
	SourcePrimary Source = "primary"
	// SourceDerived marks outcomes reconstructed from raw match documents.
	SourceDerived Source = "derived"
	// SourceHeuristic marks pseudo-outcomes synthesized from booking
	// co-occurrence; never real win/loss ground truth.
	SourceHeuristic Source = "heuristic"
)

// MatchOutcome is one resolved match at a venue. Records are immutable and
// owned by the outcome store; this core only reads them.
//
// If Draw is true both participant ids are set and neither is a winner
// (WinnerID/LoserID then just name the two participants). If Draw is false
// exactly one winner and one loser must be present.
type MatchOutcome struct {
	ID         string
	VenueID    string
	WinnerID   string
	LoserID    string
	Draw       bool
	RecordedAt time.Time

	// Optional score fields; nil when the source did not record a score.
	WinnerScore *int
	LoserScore  *int

	// Source tags which tier produced this record, Confidence how much it
	// should be trusted (1.0 for real results, status-derived for heuristic
	// pseudo-outcomes).
	Source     Source
	Confidence float64
}

// Participants returns the two player ids involved in the outcome.
func (o MatchOutcome) Participants() (string, string) {
	return o.WinnerID, o.LoserID
}
