package predict_test

import (
	"fmt"
	"math"
	"testing"

	predict "github.com/courtiq/skillrank/internal/domain/predict"
	. "github.com/smartystreets/goconvey/convey"
)

func TestPredictor_Predict(t *testing.T) {
	Convey("Given a default predictor", t, func() {
		p := predict.NewPredictor()

		Convey("When the first player is clearly stronger", func() {
			got := p.Predict(0.7, 0.3)

			Convey("Then the favorite carries the larger win probability", func() {
				So(got.PWin, ShouldBeGreaterThan, got.PLoss)
				So(got.PWin, ShouldBeGreaterThan, 0.5)
			})
		})

		Convey("When skills are equal", func() {
			even := p.Predict(0.5, 0.5)

			Convey("Then win and loss probabilities match", func() {
				So(even.PWin, ShouldAlmostEqual, even.PLoss, 1e-12)
			})

			Convey("Then the draw band is at its widest", func() {
				skewed := p.Predict(0.8, 0.2)
				So(even.PDraw, ShouldBeGreaterThan, skewed.PDraw)
				So(even.PDraw, ShouldAlmostEqual, predict.DefaultDrawBase, 1e-12)
			})
		})

		Convey("When prediction is symmetric", func() {
			ab := p.Predict(0.65, 0.35)
			ba := p.Predict(0.35, 0.65)

			Convey("Then swapping players mirrors the distribution", func() {
				So(ab.PWin, ShouldAlmostEqual, ba.PLoss, 1e-12)
				So(ab.PLoss, ShouldAlmostEqual, ba.PWin, 1e-12)
				So(ab.PDraw, ShouldAlmostEqual, ba.PDraw, 1e-12)
			})
		})

		Convey("When sweeping the whole skill square", func() {
			for i := 0; i <= 10; i++ {
				for j := 0; j <= 10; j++ {
					a := float64(i) / 10
					b := float64(j) / 10
					got := p.Predict(a, b)

					Convey(fmt.Sprintf("Then probabilities for (%.1f, %.1f) conserve mass", a, b), func() {
						So(math.Abs(got.PWin+got.PDraw+got.PLoss-1), ShouldBeLessThan, 1e-9)
						So(got.PWin, ShouldBeBetweenOrEqual, 0, 1)
						So(got.PDraw, ShouldBeBetweenOrEqual, 0, 1)
						So(got.PLoss, ShouldBeBetweenOrEqual, 0, 1)
					})
				}
			}
		})

		Convey("When inputs fall outside the unit interval", func() {
			got := p.Predict(3.2, -1.5)
			ref := p.Predict(1, 0)

			Convey("Then they are clamped rather than rejected", func() {
				So(got, ShouldResemble, ref)
			})
		})
	})

	Convey("Given a predictor with custom calibration", t, func() {
		Convey("When sensitivity is raised", func() {
			sharp := predict.NewPredictor(predict.WithSensitivity(12))
			soft := predict.NewPredictor(predict.WithSensitivity(2))

			Convey("Then the same gap favors the stronger player harder", func() {
				So(sharp.Predict(0.6, 0.4).PWin, ShouldBeGreaterThan, soft.Predict(0.6, 0.4).PWin)
			})
		})

		Convey("When the draw base is zero", func() {
			nodraw := predict.NewPredictor(predict.WithDrawBase(0))
			got := nodraw.Predict(0.5, 0.5)

			Convey("Then all mass sits on win and loss", func() {
				So(got.PDraw, ShouldEqual, 0)
				So(got.PWin+got.PLoss, ShouldAlmostEqual, 1, 1e-12)
			})
		})

		Convey("When the draw decay is faster", func() {
			fast := predict.NewPredictor(predict.WithDrawDecay(10))
			slow := predict.NewPredictor(predict.WithDrawDecay(1))

			Convey("Then the draw band closes sooner as the gap widens", func() {
				So(fast.Predict(0.7, 0.4).PDraw, ShouldBeLessThan, slow.Predict(0.7, 0.4).PDraw)
			})
		})
	})
}
