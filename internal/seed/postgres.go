package seed

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq" // postgres driver

	"github.com/courtiq/skillrank/pkg/logger"
)

// schema creates the three source tables if the target database does not
// have them yet. Types mirror what the booking application writes.
const schema = `
CREATE TABLE IF NOT EXISTS match_results (
	id           TEXT PRIMARY KEY,
	venue_id     TEXT NOT NULL,
	winner_id    TEXT NOT NULL,
	loser_id     TEXT NOT NULL,
	draw         BOOLEAN NOT NULL DEFAULT FALSE,
	recorded_at  TIMESTAMPTZ NOT NULL,
	winner_score INTEGER,
	loser_score  INTEGER
);
CREATE INDEX IF NOT EXISTS match_results_venue_idx ON match_results (venue_id, recorded_at);

CREATE TABLE IF NOT EXISTS match_docs (
	doc_id        TEXT PRIMARY KEY,
	venue_id      TEXT NOT NULL,
	winner_id     TEXT,
	loser_id      TEXT,
	draw          BOOLEAN NOT NULL DEFAULT FALSE,
	recorded_at   TIMESTAMPTZ NOT NULL,
	winner_points INTEGER,
	loser_points  INTEGER
);
CREATE INDEX IF NOT EXISTS match_docs_venue_idx ON match_docs (venue_id, recorded_at);

CREATE TABLE IF NOT EXISTS bookings (
	booking_id TEXT PRIMARY KEY,
	venue_id   TEXT NOT NULL,
	player_a   TEXT,
	player_b   TEXT,
	status     TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS bookings_venue_idx ON bookings (venue_id, created_at);
`

// Load opens the database, ensures the schema and inserts the dataset in a
// single transaction.
func Load(ctx context.Context, config *Config, ds *Dataset, stats *Stats) error {
	log := logger.Get()

	db, err := sql.Open("postgres", config.DSN)
	if err != nil {
		return fmt.Errorf("open postgres: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	inserted, err := insertDataset(ctx, tx, ds)
	if err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	stats.RowsInserted = inserted
	log.Info(ctx, "dataset loaded", logger.Int("rows", inserted))
	return nil
}

func insertDataset(ctx context.Context, tx *sql.Tx, ds *Dataset) (int, error) {
	inserted := 0

	const insertResult = `
		INSERT INTO match_results (id, venue_id, winner_id, loser_id, draw, recorded_at, winner_score, loser_score)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO NOTHING;
	`
	for _, m := range ds.Matches {
		if _, err := tx.ExecContext(ctx, insertResult,
			m.ID, m.VenueID, m.WinnerID, m.LoserID, m.Draw, m.RecordedAt, m.WinnerScore, m.LoserScore); err != nil {
			return inserted, fmt.Errorf("insert match result %s: %w", m.ID, err)
		}
		inserted++
	}

	const insertDoc = `
		INSERT INTO match_docs (doc_id, venue_id, winner_id, loser_id, draw, recorded_at, winner_points, loser_points)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5, $6, NULL, NULL)
		ON CONFLICT (doc_id) DO NOTHING;
	`
	for _, d := range ds.Docs {
		if _, err := tx.ExecContext(ctx, insertDoc,
			d.DocID, d.VenueID, d.WinnerID, d.LoserID, d.Draw, d.RecordedAt); err != nil {
			return inserted, fmt.Errorf("insert match doc %s: %w", d.DocID, err)
		}
		inserted++
	}

	const insertBooking = `
		INSERT INTO bookings (booking_id, venue_id, player_a, player_b, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (booking_id) DO NOTHING;
	`
	for _, b := range ds.Bookings {
		if _, err := tx.ExecContext(ctx, insertBooking,
			b.BookingID, b.VenueID, b.PlayerA, b.PlayerB, b.Status, b.CreatedAt); err != nil {
			return inserted, fmt.Errorf("insert booking %s: %w", b.BookingID, err)
		}
		inserted++
	}

	return inserted, nil
}
