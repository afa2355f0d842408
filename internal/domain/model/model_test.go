package model_test

import (
	"errors"
	"testing"

	"github.com/okian/flagrank/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestParseOutcome(t *testing.T) {
	Convey("Given wire outcome codes", t, func() {
		Convey("When parsing the three valid codes", func() {
			a, errA := model.ParseOutcome("A")
			b, errB := model.ParseOutcome("b")
			d, errD := model.ParseOutcome(" D ")

			Convey("Then they should map to outcomes", func() {
				So(errA, ShouldBeNil)
				So(errB, ShouldBeNil)
				So(errD, ShouldBeNil)
				So(a, ShouldEqual, model.OutcomeA)
				So(b, ShouldEqual, model.OutcomeB)
				So(d, ShouldEqual, model.OutcomeDraw)
				So(a.String(), ShouldEqual, "A")
				So(d.Label(), ShouldEqual, "draw")
			})
		})

		Convey("When parsing anything else", func() {
			for _, code := range []string{"", "C", "AB", "draw", "1"} {
				o, err := model.ParseOutcome(code)

				So(errors.Is(err, model.ErrInvalidOutcome), ShouldBeTrue)
				So(o, ShouldEqual, model.OutcomeUnknown)
				So(o.Valid(), ShouldBeFalse)
			}
		})
	})
}

func TestOutcomeResults(t *testing.T) {
	Convey("Given each outcome", t, func() {
		Convey("Then results should be mirrored between the sides", func() {
			a, b := model.OutcomeA.Results()
			So(a, ShouldEqual, model.Win)
			So(b, ShouldEqual, model.Loss)

			a, b = model.OutcomeB.Results()
			So(a, ShouldEqual, model.Loss)
			So(b, ShouldEqual, model.Win)

			a, b = model.OutcomeDraw.Results()
			So(a, ShouldEqual, model.Draw)
			So(b, ShouldEqual, model.Draw)
		})

		Convey("Then actual scores should be 1, 0.5 and 0", func() {
			So(model.Win.Score(), ShouldEqual, 1.0)
			So(model.Draw.Score(), ShouldEqual, 0.5)
			So(model.Loss.Score(), ShouldEqual, 0.0)
		})
	})
}

func TestItemRecord(t *testing.T) {
	Convey("Given a fresh item", t, func() {
		item := model.Item{Code: "FR", Name: "France", Rating: model.DefaultRating}

		Convey("When recording one of each result", func() {
			item.Record(model.Win)
			item.Record(model.Loss)
			item.Record(model.Draw)

			Convey("Then every counter and the game total should advance", func() {
				So(item.Wins, ShouldEqual, 1)
				So(item.Losses, ShouldEqual, 1)
				So(item.Draws, ShouldEqual, 1)
				So(item.Games(), ShouldEqual, 3)
			})
		})
	})
}
