package seed

import (
	"context"
	"fmt"

	"github.com/courtiq/skillrank/internal/domain/types"
	"github.com/courtiq/skillrank/pkg/logger"
)

// tally is the ground-truth record for one player.
type tally struct {
	wins, losses, draws int
}

// Verify checks the served leaderboard against the generated dataset. The
// finalized results are the authoritative tier, so the board must reflect
// exactly the match_results rows that were loaded.
func Verify(ctx context.Context, config *Config, ds *Dataset, lb *types.Leaderboard) error {
	log := logger.Get()
	log.Info(ctx, "verifying leaderboard", logger.Int("entries", len(lb.Entries)))

	if lb.VenueID != config.VenueID {
		return fmt.Errorf("board is for venue %q, expected %q", lb.VenueID, config.VenueID)
	}

	if err := verifyOrdering(lb.Entries); err != nil {
		return err
	}
	if err := verifyTallies(ds, lb.Entries); err != nil {
		return err
	}

	if config.Verbose {
		displayTop(ctx, lb.Entries)
	}
	log.Info(ctx, "leaderboard verified")
	return nil
}

// verifyOrdering checks rank contiguity, sort order and skill bounds.
func verifyOrdering(entries []types.Entry) error {
	for i, e := range entries {
		if e.Rank != i+1 {
			return fmt.Errorf("entry %d has rank %d, expected %d", i, e.Rank, i+1)
		}
		if e.Skill < 0 || e.Skill > 1 {
			return fmt.Errorf("player %s has skill %f outside [0,1]", e.PlayerID, e.Skill)
		}
		if i == 0 {
			continue
		}
		prev := entries[i-1]
		switch {
		case e.Skill > prev.Skill:
			return fmt.Errorf("board not sorted: %s (%f) above %s (%f)",
				prev.PlayerID, prev.Skill, e.PlayerID, e.Skill)
		case e.Skill == prev.Skill && e.TotalMatches > prev.TotalMatches:
			return fmt.Errorf("tie between %s and %s not broken by match count",
				prev.PlayerID, e.PlayerID)
		case e.Skill == prev.Skill && e.TotalMatches == prev.TotalMatches && e.PlayerID < prev.PlayerID:
			return fmt.Errorf("tie between %s and %s not broken by player id",
				prev.PlayerID, e.PlayerID)
		}
	}
	return nil
}

// verifyTallies recomputes per-player counts from the generated finalized
// results and compares them to the served entries.
func verifyTallies(ds *Dataset, entries []types.Entry) error {
	want := map[string]*tally{}
	record := func(id string) *tally {
		t, ok := want[id]
		if !ok {
			t = &tally{}
			want[id] = t
		}
		return t
	}
	for _, m := range ds.Matches {
		if m.Draw {
			record(m.WinnerID).draws++
			record(m.LoserID).draws++
			continue
		}
		record(m.WinnerID).wins++
		record(m.LoserID).losses++
	}

	if len(entries) != len(want) {
		return fmt.Errorf("board has %d players, ground truth has %d", len(entries), len(want))
	}
	for _, e := range entries {
		t, ok := want[e.PlayerID]
		if !ok {
			return fmt.Errorf("board lists unknown player %s", e.PlayerID)
		}
		if e.Wins != t.wins || e.Losses != t.losses || e.Draws != t.draws {
			return fmt.Errorf("player %s served %d/%d/%d, ground truth %d/%d/%d",
				e.PlayerID, e.Wins, e.Losses, e.Draws, t.wins, t.losses, t.draws)
		}
		if e.TotalMatches != t.wins+t.losses+t.draws {
			return fmt.Errorf("player %s total %d does not match tallies", e.PlayerID, e.TotalMatches)
		}
	}
	return nil
}

func displayTop(ctx context.Context, entries []types.Entry) {
	log := logger.Get()
	top := len(entries)
	if top > 10 {
		top = 10
	}
	for _, e := range entries[:top] {
		log.Info(ctx, "leaderboard entry",
			logger.Int("rank", e.Rank),
			logger.String("player", e.PlayerID),
			logger.Float64("skill", e.Skill),
			logger.Int("matches", e.TotalMatches))
	}
}
