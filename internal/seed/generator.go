package seed

import (
	"context"
	"crypto/rand"
	"math/big"
	"time"

	"github.com/google/uuid"

	"github.com/courtiq/skillrank/pkg/logger"
)

// Player population shape: a few regulars account for most matches while the
// long tail plays rarely. The tiers bias winner selection so the generated
// venue has a meaningful skill spread instead of uniform noise.
const (
	tierCount      = 4
	tierRegular    = 0 // frequent, strong
	tierCompetent  = 1
	tierCasual     = 2
	tierNewcomer   = 3 // rare, weak
	drawOneIn      = 8
	pendingOneIn   = 3
	cancelledOneIn = 10
)

// randInt returns a random int in [0, n) using crypto/rand.
func randInt(n int) int {
	v, _ := rand.Int(rand.Reader, big.NewInt(int64(n)))
	return int(v.Int64())
}

// Generate builds a full synthetic dataset for the configured venue.
func Generate(ctx context.Context, config *Config, stats *Stats) (*Dataset, error) {
	log := logger.Get()
	log.Info(ctx, "generating dataset",
		logger.String("venue", config.VenueID),
		logger.Int("players", config.NumPlayers),
		logger.Int("matches", config.NumMatches),
		logger.Int("docs", config.NumDocs),
		logger.Int("duos", config.NumDuos))

	players := make([]string, config.NumPlayers)
	for i := range players {
		players[i] = uuid.New().String()
	}

	ds := &Dataset{Players: players}
	base := time.Now().UTC().Add(-30 * 24 * time.Hour)

	for i := 0; i < config.NumMatches; i++ {
		a, b := pickPair(players)
		winner, loser := orderBySkillTier(players, a, b)
		row := MatchRow{
			ID:          uuid.New().String(),
			VenueID:     config.VenueID,
			WinnerID:    winner,
			LoserID:     loser,
			Draw:        randInt(drawOneIn) == 0,
			RecordedAt:  base.Add(time.Duration(i) * time.Minute),
			WinnerScore: 11,
			LoserScore:  randInt(10),
		}
		ds.Matches = append(ds.Matches, row)
	}

	for i := 0; i < config.NumDocs; i++ {
		a, b := pickPair(players)
		winner, loser := orderBySkillTier(players, a, b)
		doc := DocRow{
			DocID:      uuid.New().String(),
			VenueID:    config.VenueID,
			WinnerID:   winner,
			LoserID:    loser,
			Draw:       randInt(drawOneIn) == 0,
			RecordedAt: base.Add(time.Duration(i) * time.Minute),
		}
		// Occasionally blank one side to mimic half-indexed docs that the
		// reader must skip.
		switch randInt(10) {
		case 0:
			doc.WinnerID = ""
		case 1:
			doc.LoserID = ""
		}
		ds.Docs = append(ds.Docs, doc)
	}

	for i := 0; i < config.NumDuos; i++ {
		a, b := pickPair(players)
		status := "confirmed"
		if randInt(pendingOneIn) == 0 {
			status = "pending"
		}
		if randInt(cancelledOneIn) == 0 {
			status = "cancelled"
		}
		ds.Bookings = append(ds.Bookings, BookingRow{
			BookingID: uuid.New().String(),
			VenueID:   config.VenueID,
			PlayerA:   a,
			PlayerB:   b,
			Status:    status,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		})
	}

	stats.PlayersGenerated = len(players)
	log.Info(ctx, "dataset generated", logger.Int("players", len(players)))
	return ds, nil
}

// pickPair returns two distinct players, biased toward the low-index
// regulars so the same names keep showing up like at a real venue.
func pickPair(players []string) (string, string) {
	a := pickPlayer(players)
	b := pickPlayer(players)
	for b == a {
		b = pickPlayer(players)
	}
	return a, b
}

func pickPlayer(players []string) string {
	// Square the draw to skew toward index 0.
	n := len(players)
	i := randInt(n) * randInt(n) / n
	if i >= n {
		i = n - 1
	}
	return players[i]
}

// orderBySkillTier decides the winner: the player from a stronger tier wins
// three times out of four, otherwise the win flips.
func orderBySkillTier(players []string, a, b string) (winner, loser string) {
	if tierOf(players, a) > tierOf(players, b) {
		a, b = b, a
	}
	if randInt(4) == 0 {
		return b, a
	}
	return a, b
}

// tierOf maps a player's position in the roster to a skill tier. Lower
// index means earlier signup, more play and a stronger tier.
func tierOf(players []string, id string) int {
	for i, p := range players {
		if p == id {
			return i * tierCount / len(players)
		}
	}
	return tierNewcomer
}
