package matchmake_test

import (
	"fmt"
	"testing"

	matchmake "github.com/courtiq/skillrank/internal/domain/matchmake"
	"github.com/courtiq/skillrank/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func board(venue string, entries ...model.RatingEntry) model.Leaderboard {
	return model.Leaderboard{VenueID: venue, Entries: entries}
}

func entry(id string, skill float64, matches int) model.RatingEntry {
	return model.RatingEntry{PlayerID: id, Skill: skill, TotalMatches: matches}
}

func TestMatchmaker_Suggest(t *testing.T) {
	Convey("Given a default matchmaker", t, func() {
		m := matchmake.NewMatchmaker()

		Convey("When the requester has no rating on a four-player board", func() {
			// Skills 0.8/0.6/0.4/0.2 put the median baseline at 0.5.
			lb := board("v1",
				entry("A", 0.8, 10),
				entry("B", 0.6, 10),
				entry("C", 0.4, 10),
				entry("D", 0.2, 10),
			)
			got := m.Suggest("newcomer", nil, lb, 2)

			Convey("Then the two entries closest to the median come first", func() {
				So(got, ShouldHaveLength, 2)
				ids := []string{got[0].Entry.PlayerID, got[1].Entry.PlayerID}
				So(ids, ShouldContain, "B")
				So(ids, ShouldContain, "C")
			})

			Convey("Then scores reflect closeness to the 0.5 baseline", func() {
				So(got[0].Score, ShouldAlmostEqual, 0.9, 1e-12)
				So(got[1].Score, ShouldAlmostEqual, 0.9, 1e-12)
			})
		})

		Convey("When the requester is on the board", func() {
			lb := board("v1",
				entry("me", 0.5, 8),
				entry("A", 0.55, 4),
				entry("B", 0.45, 4),
			)
			skill := 0.5
			got := m.Suggest("me", &skill, lb, 10)

			Convey("Then the requester is excluded from suggestions", func() {
				So(got, ShouldHaveLength, 2)
				for _, s := range got {
					So(s.Entry.PlayerID, ShouldNotEqual, "me")
				}
			})
		})

		Convey("When scores tie", func() {
			skill := 0.5
			lb := board("v1",
				entry("zed", 0.6, 4),
				entry("amy", 0.6, 4),
				entry("vet", 0.4, 20),
			)
			got := m.Suggest("me", &skill, lb, 3)

			Convey("Then more matches wins the tie, then lexicographic id", func() {
				So(got[0].Entry.PlayerID, ShouldEqual, "vet")
				So(got[1].Entry.PlayerID, ShouldEqual, "amy")
				So(got[2].Entry.PlayerID, ShouldEqual, "zed")
			})
		})

		Convey("When the limit is non-positive", func() {
			var entries []model.RatingEntry
			for i := 0; i < 9; i++ {
				entries = append(entries, entry(fmt.Sprintf("p%d", i), float64(i)/10, 5))
			}
			got := m.Suggest("me", nil, board("v1", entries...), -3)

			Convey("Then it clamps to the default of 5", func() {
				So(got, ShouldHaveLength, 5)
			})
		})

		Convey("When the limit exceeds the candidate count", func() {
			lb := board("v1", entry("A", 0.3, 2), entry("B", 0.7, 2))
			got := m.Suggest("me", nil, lb, 50)

			Convey("Then every candidate is returned without padding", func() {
				So(got, ShouldHaveLength, 2)
			})
		})

		Convey("When the leaderboard is empty", func() {
			got := m.Suggest("me", nil, board("v1"), 5)

			Convey("Then there are no suggestions", func() {
				So(got, ShouldBeEmpty)
			})
		})
	})
}

func TestMatchmaker_Baseline(t *testing.T) {
	Convey("Given a default matchmaker", t, func() {
		m := matchmake.NewMatchmaker()

		Convey("When the requester skill is known", func() {
			skill := 0.73
			So(m.Baseline(&skill, board("v1", entry("A", 0.1, 1))), ShouldEqual, 0.73)
		})

		Convey("When the requester skill is out of range", func() {
			skill := 1.8
			So(m.Baseline(&skill, board("v1")), ShouldEqual, 1)
		})

		Convey("When unrated on an odd-sized board", func() {
			lb := board("v1", entry("A", 0.9, 1), entry("B", 0.2, 1), entry("C", 0.3, 1))
			So(m.Baseline(nil, lb), ShouldAlmostEqual, 0.3, 1e-12)
		})

		Convey("When unrated on an even-sized board", func() {
			lb := board("v1", entry("A", 0.8, 1), entry("B", 0.6, 1), entry("C", 0.4, 1), entry("D", 0.2, 1))
			So(m.Baseline(nil, lb), ShouldAlmostEqual, 0.5, 1e-12)
		})

		Convey("When unrated on an empty board", func() {
			So(m.Baseline(nil, board("v1")), ShouldEqual, 0.5)
		})
	})
}

func TestMatchmaker_Bands(t *testing.T) {
	Convey("Given a matchmaker with the default strong threshold", t, func() {
		m := matchmake.NewMatchmaker()

		Convey("When partitioning a mixed board", func() {
			lb := board("v1",
				entry("A", 0.9, 5),
				entry("B", 0.5, 5),
				entry("C", 0.49, 5),
				entry("D", 0.1, 5),
				entry("me", 0.6, 5),
			)
			strong, balanced := m.Bands("me", lb)

			Convey("Then skill >= 0.5 lands in the strong band", func() {
				So(strong, ShouldHaveLength, 2)
				So(strong[0].PlayerID, ShouldEqual, "A")
				So(strong[1].PlayerID, ShouldEqual, "B")
			})

			Convey("Then the balanced band holds every remaining candidate", func() {
				So(balanced, ShouldHaveLength, 2)
				So(len(strong)+len(balanced), ShouldEqual, len(lb.Entries)-1)
			})
		})

		Convey("When partitioning boards of every small size", func() {
			for n := 0; n <= 6; n++ {
				var entries []model.RatingEntry
				for i := 0; i < n; i++ {
					entries = append(entries, entry(fmt.Sprintf("p%d", i), float64(i)/6, 3))
				}
				strong, balanced := m.Bands("outsider", board("v1", entries...))

				Convey(fmt.Sprintf("Then the %d-entry partition is complete and disjoint", n), func() {
					So(len(strong)+len(balanced), ShouldEqual, n)
					seen := map[string]bool{}
					for _, e := range append(append([]model.RatingEntry{}, strong...), balanced...) {
						So(seen[e.PlayerID], ShouldBeFalse)
						seen[e.PlayerID] = true
					}
				})
			}
		})

		Convey("When a custom threshold is configured", func() {
			tight := matchmake.NewMatchmaker(matchmake.WithStrongThreshold(0.8))
			strong, balanced := tight.Bands("me", board("v1", entry("A", 0.7, 3), entry("B", 0.85, 3)))

			Convey("Then the split follows the configured cutoff", func() {
				So(strong, ShouldHaveLength, 1)
				So(strong[0].PlayerID, ShouldEqual, "B")
				So(balanced, ShouldHaveLength, 1)
			})
		})
	})
}
