// Package seed generates synthetic booking-app data, loads it into Postgres
// and checks the served leaderboard against the generated ground truth.
package seed

import "time"

// Config holds configuration for a seeding run.
type Config struct {
	DSN        string        // Postgres DSN of the booking database
	BaseURL    string        // Base URL of the skillrank service; empty skips verification
	VenueID    string        // Venue to seed
	NumPlayers int           // Number of distinct players to generate
	NumMatches int           // Number of finalized match results
	NumDocs    int           // Number of raw match docs
	NumDuos    int           // Number of duo bookings
	Timeout    time.Duration // HTTP request timeout
	Verbose    bool          // Enable verbose logging
}

// MatchRow is one finalized result destined for the match_results table.
type MatchRow struct {
	ID          string
	VenueID     string
	WinnerID    string
	LoserID     string
	Draw        bool
	RecordedAt  time.Time
	WinnerScore int
	LoserScore  int
}

// DocRow is one raw result destined for the match_docs table. Winner or
// loser may be blank to mimic partially indexed documents.
type DocRow struct {
	DocID      string
	VenueID    string
	WinnerID   string
	LoserID    string
	Draw       bool
	RecordedAt time.Time
}

// BookingRow is one duo booking destined for the bookings table.
type BookingRow struct {
	BookingID string
	VenueID   string
	PlayerA   string
	PlayerB   string
	Status    string
	CreatedAt time.Time
}

// Dataset is the full generated ground truth for one venue.
type Dataset struct {
	Players  []string
	Matches  []MatchRow
	Docs     []DocRow
	Bookings []BookingRow
}

// Stats holds seeding run statistics.
type Stats struct {
	PlayersGenerated int
	RowsInserted     int
	BoardEntries     int
	StartTime        time.Time
	EndTime          time.Time
	Duration         time.Duration
}
