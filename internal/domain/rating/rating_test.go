package rating_test

import (
	"context"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/courtiq/skillrank/internal/domain/model"
	rating "github.com/courtiq/skillrank/internal/domain/rating"
	. "github.com/smartystreets/goconvey/convey"
)

func win(id, venue, winner, loser string) model.MatchOutcome {
	return model.MatchOutcome{
		ID:         id,
		VenueID:    venue,
		WinnerID:   winner,
		LoserID:    loser,
		RecordedAt: time.Now(),
		Source:     model.SourcePrimary,
		Confidence: 1,
	}
}

func draw(id, venue, p1, p2 string) model.MatchOutcome {
	o := win(id, venue, p1, p2)
	o.Draw = true
	return o
}

func entryFor(entries []model.RatingEntry, playerID string) (model.RatingEntry, bool) {
	for _, e := range entries {
		if e.PlayerID == playerID {
			return e, true
		}
	}
	return model.RatingEntry{}, false
}

func TestAggregator_Aggregate(t *testing.T) {
	ctx := context.Background()

	Convey("Given a default aggregator", t, func() {
		agg := rating.NewAggregator()

		Convey("When folding an empty outcome set", func() {
			entries := agg.Aggregate(ctx, "venue-1", nil)

			Convey("Then the result is empty", func() {
				So(entries, ShouldBeEmpty)
			})
		})

		Convey("When folding 3 wins and 1 loss for one player", func() {
			// Scenario: X wins three, loses one, at four matches total.
			outcomes := []model.MatchOutcome{
				win("m1", "venue-1", "X", "A"),
				win("m2", "venue-1", "X", "B"),
				win("m3", "venue-1", "X", "C"),
				win("m4", "venue-1", "A", "X"),
			}
			entries := agg.Aggregate(ctx, "venue-1", outcomes)

			Convey("Then X has winRate 0.75 and shrinkage-weighted skill 0.75*4/14", func() {
				x, ok := entryFor(entries, "X")
				So(ok, ShouldBeTrue)
				So(x.Wins, ShouldEqual, 3)
				So(x.Losses, ShouldEqual, 1)
				So(x.Draws, ShouldEqual, 0)
				So(x.TotalMatches, ShouldEqual, 4)
				So(x.WinRate, ShouldAlmostEqual, 0.75, 1e-12)
				So(x.Skill, ShouldAlmostEqual, 0.75*4.0/14.0, 1e-12)
			})

			Convey("Then the opponents carry their losses", func() {
				a, _ := entryFor(entries, "A")
				So(a.Wins, ShouldEqual, 1)
				So(a.Losses, ShouldEqual, 1)
				b, _ := entryFor(entries, "B")
				So(b.Losses, ShouldEqual, 1)
				So(b.WinRate, ShouldEqual, 0)
				So(b.Skill, ShouldEqual, 0)
			})
		})

		Convey("When folding a draw", func() {
			entries := agg.Aggregate(ctx, "venue-1", []model.MatchOutcome{
				draw("m1", "venue-1", "P", "Q"),
			})

			Convey("Then both participants get one draw and no wins", func() {
				for _, id := range []string{"P", "Q"} {
					e, ok := entryFor(entries, id)
					So(ok, ShouldBeTrue)
					So(e.Draws, ShouldEqual, 1)
					So(e.Wins, ShouldEqual, 0)
					So(e.TotalMatches, ShouldEqual, 1)
					So(e.WinRate, ShouldEqual, 0)
				}
			})
		})

		Convey("When the same outcome id appears twice", func() {
			outcomes := []model.MatchOutcome{
				win("m1", "venue-1", "X", "Y"),
				win("m1", "venue-1", "X", "Y"),
			}
			entries := agg.Aggregate(ctx, "venue-1", outcomes)

			Convey("Then the match is counted once", func() {
				x, _ := entryFor(entries, "X")
				So(x.Wins, ShouldEqual, 1)
				So(x.TotalMatches, ShouldEqual, 1)
			})
		})

		Convey("When the input is duplicated wholesale", func() {
			outcomes := []model.MatchOutcome{
				win("m1", "venue-1", "X", "Y"),
				draw("m2", "venue-1", "X", "Z"),
				win("m3", "venue-1", "Z", "Y"),
			}
			once := agg.Aggregate(ctx, "venue-1", outcomes)
			twice := agg.Aggregate(ctx, "venue-1", append(append([]model.MatchOutcome{}, outcomes...), outcomes...))

			Convey("Then the aggregation is idempotent", func() {
				So(rating.Rank(twice), ShouldResemble, rating.Rank(once))
			})
		})

		Convey("When folding an arbitrary outcome set", func() {
			var outcomes []model.MatchOutcome
			players := []string{"a", "b", "c", "d", "e"}
			for i := 0; i < 40; i++ {
				p1 := players[i%len(players)]
				p2 := players[(i+1+i%3)%len(players)]
				if p1 == p2 {
					p2 = players[(i+2)%len(players)]
				}
				o := win(fmt.Sprintf("m%d", i), "venue-1", p1, p2)
				if i%5 == 0 {
					o.Draw = true
				}
				outcomes = append(outcomes, o)
			}
			entries := agg.Aggregate(ctx, "venue-1", outcomes)

			Convey("Then every match contributes to exactly two tallies", func() {
				wins, losses, draws := 0, 0, 0
				for _, e := range entries {
					wins += e.Wins
					losses += e.Losses
					draws += e.Draws
				}
				So(wins, ShouldEqual, losses) // every decisive match has one of each
				So(wins+losses+draws, ShouldEqual, 2*len(outcomes))
			})

			Convey("Then skill is bounded and never inflates above winRate", func() {
				for _, e := range entries {
					So(e.Skill, ShouldBeBetweenOrEqual, 0, 1)
					So(e.Skill, ShouldBeLessThanOrEqualTo, e.WinRate+1e-12)
					So(e.TotalMatches, ShouldEqual, e.Wins+e.Losses+e.Draws)
				}
			})
		})

		Convey("When a higher confidence constant is configured", func() {
			strict := rating.NewAggregator(rating.WithConfidenceConstant(50))
			outcomes := []model.MatchOutcome{win("m1", "venue-1", "X", "Y")}

			Convey("Then low-sample skill shrinks harder", func() {
				loose, _ := entryFor(agg.Aggregate(ctx, "venue-1", outcomes), "X")
				hard, _ := entryFor(strict.Aggregate(ctx, "venue-1", outcomes), "X")
				So(hard.Skill, ShouldBeLessThan, loose.Skill)
			})
		})

		Convey("When a dedupe cap is configured", func() {
			capped := rating.NewAggregator(rating.WithDedupeCap(100))
			outcomes := []model.MatchOutcome{
				win("m1", "venue-1", "X", "Y"),
				win("m1", "venue-1", "X", "Y"),
			}

			Convey("Then duplicates within the cap still count once", func() {
				x, _ := entryFor(capped.Aggregate(ctx, "venue-1", outcomes), "X")
				So(x.Wins, ShouldEqual, 1)
			})
		})
	})
}

func TestRank(t *testing.T) {
	Convey("Given unranked entries", t, func() {
		entries := []model.RatingEntry{
			{PlayerID: "c", Skill: 0.4, TotalMatches: 10},
			{PlayerID: "a", Skill: 0.4, TotalMatches: 12},
			{PlayerID: "b", Skill: 0.8, TotalMatches: 3},
			{PlayerID: "e", Skill: 0.4, TotalMatches: 10},
			{PlayerID: "d", Skill: 0.1, TotalMatches: 20},
		}

		Convey("When ranking them", func() {
			ranked := rating.Rank(entries)

			Convey("Then skill is non-increasing with ties broken by matches then id", func() {
				var ids []string
				for _, e := range ranked {
					ids = append(ids, e.PlayerID)
				}
				So(ids, ShouldResemble, []string{"b", "a", "c", "e", "d"})
			})

			Convey("Then ranks are 1-based and dense", func() {
				for i, e := range ranked {
					So(e.Rank, ShouldEqual, i+1)
				}
			})

			Convey("Then ordering is monotone in skill", func() {
				for i := 1; i < len(ranked); i++ {
					So(ranked[i].Skill, ShouldBeLessThanOrEqualTo, ranked[i-1].Skill+math.SmallestNonzeroFloat64)
				}
			})
		})
	})
}
