package seed

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/courtiq/skillrank/internal/domain/types"
	"github.com/courtiq/skillrank/pkg/logger"
)

func TestMain(m *testing.M) {
	_ = logger.Init()
	os.Exit(m.Run())
}

func testDataset(t *testing.T, players, matches int) *Dataset {
	t.Helper()
	cfg := &Config{
		VenueID:    "v1",
		NumPlayers: players,
		NumMatches: matches,
		NumDocs:    10,
		NumDuos:    5,
	}
	ds, err := Generate(context.Background(), cfg, &Stats{StartTime: time.Now()})
	if err != nil {
		t.Fatal(err)
	}
	return ds
}

func TestGenerateShape(t *testing.T) {
	ds := testDataset(t, 10, 50)

	if len(ds.Players) != 10 {
		t.Fatalf("expected 10 players, got %d", len(ds.Players))
	}
	if len(ds.Matches) != 50 {
		t.Fatalf("expected 50 matches, got %d", len(ds.Matches))
	}
	seen := map[string]bool{}
	for _, p := range ds.Players {
		if seen[p] {
			t.Fatalf("duplicate player id %s", p)
		}
		seen[p] = true
	}
	for _, m := range ds.Matches {
		if m.WinnerID == m.LoserID {
			t.Errorf("match %s pairs a player with themselves", m.ID)
		}
		if !seen[m.WinnerID] || !seen[m.LoserID] {
			t.Errorf("match %s references an unknown player", m.ID)
		}
	}
	for _, b := range ds.Bookings {
		if b.PlayerA == b.PlayerB {
			t.Errorf("booking %s pairs a player with themselves", b.BookingID)
		}
	}
}

func TestVerifyOrdering(t *testing.T) {
	good := []types.Entry{
		{Rank: 1, PlayerID: "a", Skill: 0.6, TotalMatches: 8},
		{Rank: 2, PlayerID: "b", Skill: 0.4, TotalMatches: 8},
		{Rank: 3, PlayerID: "c", Skill: 0.4, TotalMatches: 4},
	}
	if err := verifyOrdering(good); err != nil {
		t.Errorf("expected valid ordering, got %v", err)
	}

	badSort := []types.Entry{
		{Rank: 1, PlayerID: "a", Skill: 0.4},
		{Rank: 2, PlayerID: "b", Skill: 0.6},
	}
	if err := verifyOrdering(badSort); err == nil {
		t.Error("expected an error for an unsorted board")
	}

	badRank := []types.Entry{
		{Rank: 1, PlayerID: "a", Skill: 0.6},
		{Rank: 3, PlayerID: "b", Skill: 0.4},
	}
	if err := verifyOrdering(badRank); err == nil {
		t.Error("expected an error for a rank gap")
	}
}

func TestVerifyTallies(t *testing.T) {
	now := time.Now()
	ds := &Dataset{
		Matches: []MatchRow{
			{ID: "m1", VenueID: "v1", WinnerID: "ana", LoserID: "bob", RecordedAt: now},
			{ID: "m2", VenueID: "v1", WinnerID: "ana", LoserID: "bob", RecordedAt: now},
			{ID: "m3", VenueID: "v1", WinnerID: "ana", LoserID: "bob", Draw: true, RecordedAt: now},
		},
	}

	good := []types.Entry{
		{Rank: 1, PlayerID: "ana", Wins: 2, Losses: 0, Draws: 1, TotalMatches: 3},
		{Rank: 2, PlayerID: "bob", Wins: 0, Losses: 2, Draws: 1, TotalMatches: 3},
	}
	if err := verifyTallies(ds, good); err != nil {
		t.Errorf("expected matching tallies, got %v", err)
	}

	wrongWins := []types.Entry{
		{Rank: 1, PlayerID: "ana", Wins: 3, Losses: 0, Draws: 0, TotalMatches: 3},
		{Rank: 2, PlayerID: "bob", Wins: 0, Losses: 2, Draws: 1, TotalMatches: 3},
	}
	if err := verifyTallies(ds, wrongWins); err == nil {
		t.Error("expected an error for a wins mismatch")
	}

	extraPlayer := append(append([]types.Entry{}, good...),
		types.Entry{Rank: 3, PlayerID: "ghost"})
	if err := verifyTallies(ds, extraPlayer); err == nil {
		t.Error("expected an error for an unknown player")
	}
}
