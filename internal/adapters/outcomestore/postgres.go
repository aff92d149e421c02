package outcomestore

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq" // postgres driver

	"github.com/courtiq/skillrank/internal/domain/model"
)

// PostgresStore implements all three tier readers over one Postgres
// connection. Tables are owned by the booking application; this side only
// reads them.
type PostgresStore struct {
	DB *sql.DB
}

// OpenPostgres opens and pings a Postgres connection.
func OpenPostgres(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &PostgresStore{DB: db}, nil
}

// Close releases the underlying connection pool.
func (s *PostgresStore) Close() error {
	return s.DB.Close()
}

// FinalizedOutcomes serves tier 1 from the match_results table.
func (s *PostgresStore) FinalizedOutcomes(ctx context.Context, venueID string) ([]model.MatchOutcome, error) {
	const q = `
		SELECT id, venue_id, winner_id, loser_id, draw, recorded_at, winner_score, loser_score
		FROM match_results
		WHERE venue_id = $1
		ORDER BY recorded_at, id;
	`
	rows, err := s.DB.QueryContext(ctx, q, venueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.MatchOutcome
	for rows.Next() {
		var o model.MatchOutcome
		var winnerScore, loserScore sql.NullInt64
		if err := rows.Scan(&o.ID, &o.VenueID, &o.WinnerID, &o.LoserID, &o.Draw, &o.RecordedAt, &winnerScore, &loserScore); err != nil {
			return nil, err
		}
		if winnerScore.Valid {
			v := int(winnerScore.Int64)
			o.WinnerScore = &v
		}
		if loserScore.Valid {
			v := int(loserScore.Int64)
			o.LoserScore = &v
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// MatchDocs serves tier 2 from the raw match_docs table. The UNION mirrors
// the winner-side and loser-side indexes the booking app queries by, so the
// same doc can surface twice; the adapter de-duplicates by id.
func (s *PostgresStore) MatchDocs(ctx context.Context, venueID string) ([]MatchDoc, error) {
	const q = `
		SELECT doc_id, venue_id, winner_id, loser_id, draw, recorded_at, winner_points, loser_points
		FROM match_docs
		WHERE venue_id = $1 AND winner_id IS NOT NULL
		UNION
		SELECT doc_id, venue_id, winner_id, loser_id, draw, recorded_at, winner_points, loser_points
		FROM match_docs
		WHERE venue_id = $1 AND loser_id IS NOT NULL
		ORDER BY recorded_at, doc_id;
	`
	rows, err := s.DB.QueryContext(ctx, q, venueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []MatchDoc
	for rows.Next() {
		var d MatchDoc
		var winner, loser sql.NullString
		var winnerPts, loserPts sql.NullInt64
		if err := rows.Scan(&d.DocID, &d.VenueID, &winner, &loser, &d.Draw, &d.RecordedAt, &winnerPts, &loserPts); err != nil {
			return nil, err
		}
		d.WinnerID = winner.String
		d.LoserID = loser.String
		if winnerPts.Valid {
			v := int(winnerPts.Int64)
			d.WinnerPts = &v
		}
		if loserPts.Valid {
			v := int(loserPts.Int64)
			d.LoserPts = &v
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// DuoBookings serves tier 3 from the bookings table: bookings at the venue
// where two distinct participants are recorded.
func (s *PostgresStore) DuoBookings(ctx context.Context, venueID string) ([]BookingPair, error) {
	const q = `
		SELECT booking_id, venue_id, player_a, player_b, status, created_at
		FROM bookings
		WHERE venue_id = $1
		  AND player_a IS NOT NULL
		  AND player_b IS NOT NULL
		  AND player_a <> player_b
		ORDER BY created_at, booking_id;
	`
	rows, err := s.DB.QueryContext(ctx, q, venueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []BookingPair
	for rows.Next() {
		var p BookingPair
		if err := rows.Scan(&p.BookingID, &p.VenueID, &p.PlayerA, &p.PlayerB, &p.Status, &p.RecordedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
