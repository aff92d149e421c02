package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/courtiq/skillrank/internal/seed"
	"github.com/courtiq/skillrank/pkg/logger"
)

// Default configuration constants.
const (
	defaultPlayers = 40
	defaultMatches = 400
	defaultDocs    = 100
	defaultDuos    = 60
	defaultTimeout = 30 * time.Second
	defaultRunTime = 10 * time.Minute
)

func main() {
	var (
		dsn        = flag.String("dsn", os.Getenv("SKILLRANK_POSTGRES_DSN"), "Postgres DSN of the booking database")
		baseURL    = flag.String("url", "http://localhost:9080", "Base URL of the service; empty skips verification")
		venueID    = flag.String("venue", "venue-demo", "Venue id to seed")
		numPlayers = flag.Int("players", defaultPlayers, "Number of distinct players")
		numMatches = flag.Int("matches", defaultMatches, "Number of finalized match results")
		numDocs    = flag.Int("docs", defaultDocs, "Number of raw match docs")
		numDuos    = flag.Int("duos", defaultDuos, "Number of duo bookings")
		timeout    = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if *dsn == "" {
		os.Stderr.WriteString("a Postgres DSN is required (-dsn or SKILLRANK_POSTGRES_DSN)\n")
		os.Exit(2)
	}
	if *numPlayers < 2 {
		os.Stderr.WriteString("need at least 2 players to generate matches\n")
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTime)
	defer cancel()

	config := &seed.Config{
		DSN:        *dsn,
		BaseURL:    *baseURL,
		VenueID:    *venueID,
		NumPlayers: *numPlayers,
		NumMatches: *numMatches,
		NumDocs:    *numDocs,
		NumDuos:    *numDuos,
		Timeout:    *timeout,
		Verbose:    *verbose,
	}

	if err := seed.Run(ctx, config); err != nil {
		os.Stderr.WriteString("seed run failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
