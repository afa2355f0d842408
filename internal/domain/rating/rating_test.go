package rating_test

import (
	"errors"
	"math"
	"testing"

	"github.com/okian/flagrank/internal/domain/model"
	"github.com/okian/flagrank/internal/domain/rating"
	. "github.com/smartystreets/goconvey/convey"
)

const epsilon = 1e-9

func TestModel_Expected(t *testing.T) {
	Convey("Given the default model", t, func() {
		m := rating.New()

		Convey("When both sides are rated equally", func() {
			Convey("Then each expects half a point", func() {
				So(m.Expected(1500, 1500), ShouldAlmostEqual, 0.5, epsilon)
			})
		})

		Convey("When one side is 500 points stronger", func() {
			Convey("Then it should be ten times as likely to win", func() {
				So(m.Expected(2000, 1500), ShouldAlmostEqual, 10.0/11.0, epsilon)
				So(m.Expected(1500, 2000), ShouldAlmostEqual, 1.0/11.0, epsilon)
			})
		})

		Convey("When comparing with the q-score ratio", func() {
			qa, qb := m.QScore(1620), m.QScore(1485)

			Convey("Then the logistic form should agree", func() {
				So(m.Expected(1620, 1485), ShouldAlmostEqual, qa/(qa+qb), epsilon)
			})
		})

		Convey("When ratings are far beyond float range for q-scores", func() {
			e := m.Expected(500_000, 1500)

			Convey("Then the expectation should stay finite", func() {
				So(math.IsNaN(e), ShouldBeFalse)
				So(e, ShouldAlmostEqual, 1.0, epsilon)
			})
		})
	})
}

func TestModel_Deviation(t *testing.T) {
	Convey("Given the default model", t, func() {
		m := rating.New()

		Convey("Then an unplayed item should have deviation 250", func() {
			So(m.Deviation(0), ShouldEqual, 250.0)
		})

		Convey("Then deviation should shrink with games", func() {
			So(m.Deviation(8), ShouldEqual, 50.0)
			So(m.Deviation(98), ShouldEqual, 5.0)
		})

		Convey("Then the dampener should clamp into [1, 2]", func() {
			So(m.Dampener(250), ShouldEqual, 2.0)
			So(m.Dampener(75), ShouldEqual, 1.5)
			So(m.Dampener(5), ShouldEqual, 1.0)
		})
	})
}

func TestModel_Deltas(t *testing.T) {
	Convey("Given the default model", t, func() {
		m := rating.New()
		fresh := rating.Side{Rating: model.DefaultRating, Games: 0}

		Convey("When two unplayed items meet and A wins", func() {
			a, b, err := m.Deltas(fresh, fresh, model.OutcomeA)

			Convey("Then the swing should be 0.5 * 250 / 2 each way", func() {
				So(err, ShouldBeNil)
				So(a.Delta, ShouldAlmostEqual, 62.5, epsilon)
				So(b.Delta, ShouldAlmostEqual, -62.5, epsilon)
				So(a.Result, ShouldEqual, model.Win)
				So(b.Result, ShouldEqual, model.Loss)
			})
		})

		Convey("When game counts are equal", func() {
			x := rating.Side{Rating: 1610, Games: 12}
			y := rating.Side{Rating: 1440, Games: 12}

			Convey("Then every outcome should be zero-sum", func() {
				for _, o := range []model.Outcome{model.OutcomeA, model.OutcomeB, model.OutcomeDraw} {
					a, b, err := m.Deltas(x, y, o)
					So(err, ShouldBeNil)
					So(a.Delta+b.Delta, ShouldAlmostEqual, 0, epsilon)
				}
			})
		})

		Convey("When a newcomer beats an established item of equal rating", func() {
			newcomer := rating.Side{Rating: 1500, Games: 0}
			veteran := rating.Side{Rating: 1500, Games: 20}
			a, b, err := m.Deltas(newcomer, veteran, model.OutcomeA)

			Convey("Then the deltas should be asymmetric", func() {
				So(err, ShouldBeNil)
				// newcomer: 0.5 * 250 / clamp(22.7/50) = 0.5 * 250 / 1
				So(a.Delta, ShouldAlmostEqual, 125.0, epsilon)
				// veteran: -0.5 * (500/22) / clamp(250/50) = -0.5 * 22.727 / 2
				So(b.Delta, ShouldAlmostEqual, -0.5*(500.0/22.0)/2.0, epsilon)
				So(a.Delta+b.Delta, ShouldNotAlmostEqual, 0, 1e-3)
			})
		})

		Convey("When the outcome is a draw between unequal ratings", func() {
			strong := rating.Side{Rating: 1700, Games: 4}
			weak := rating.Side{Rating: 1400, Games: 4}
			a, b, err := m.Deltas(strong, weak, model.OutcomeDraw)

			Convey("Then the favourite should lose points and the underdog gain", func() {
				So(err, ShouldBeNil)
				So(a.Delta, ShouldBeLessThan, 0)
				So(b.Delta, ShouldBeGreaterThan, 0)
				So(a.Actual, ShouldEqual, 0.5)
			})
		})

		Convey("When B wins", func() {
			a, b, err := m.Deltas(rating.Side{Rating: 1550, Games: 3}, rating.Side{Rating: 1450, Games: 7}, model.OutcomeB)

			Convey("Then the victor's delta should be positive and the loser's negative", func() {
				So(err, ShouldBeNil)
				So(b.Delta, ShouldBeGreaterThan, 0)
				So(a.Delta, ShouldBeLessThan, 0)
			})
		})

		Convey("When the outcome is invalid", func() {
			_, _, err := m.Deltas(fresh, fresh, model.OutcomeUnknown)

			Convey("Then it should fail with ErrInvalidOutcome", func() {
				So(errors.Is(err, model.ErrInvalidOutcome), ShouldBeTrue)
			})
		})
	})
}

func TestModel_Options(t *testing.T) {
	Convey("Given a model with custom parameters", t, func() {
		m := rating.New(
			rating.WithScale(400),
			rating.WithDeviationBase(64),
			rating.WithDampener(10, 1, 1),
		)

		Convey("Then the parameters should be used", func() {
			So(m.Expected(1900, 1500), ShouldAlmostEqual, 10.0/11.0, epsilon)
			So(m.Deviation(0), ShouldEqual, 32.0)
			So(m.Dampener(1000), ShouldEqual, 1.0)
		})
	})

	Convey("Given options with invalid values", t, func() {
		m := rating.New(rating.WithScale(-1), rating.WithDeviationBase(0), rating.WithDampener(50, 3, 2))

		Convey("Then the defaults should be kept", func() {
			So(m.Expected(2000, 1500), ShouldAlmostEqual, 10.0/11.0, epsilon)
			So(m.Deviation(0), ShouldEqual, 250.0)
			So(m.Dampener(250), ShouldEqual, 2.0)
		})
	})
}
