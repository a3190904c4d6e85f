package model_test

import (
	"testing"

	model "github.com/okian/architect/internal/domain/model"
	"github.com/okian/architect/internal/domain/types"
	"github.com/smartystreets/goconvey/convey"
)

func TestDomainClone(t *testing.T) {
	convey.Convey("Given a domain with rated competencies", t, func() {
		d := model.Domain{
			ID:   "D1",
			Name: "Professional Preparation",
			Competencies: []model.Competency{
				{ID: "C1.1", Title: "Lesson Planning", Indicators: []string{"Clear objectives"}, Rating: 3},
			},
		}

		convey.Convey("When cloning and mutating the copy", func() {
			c := d.Clone()
			c.Competencies[0].Rating = 1
			c.Competencies[0].Indicators[0] = "changed"

			convey.Convey("Then the original should be untouched", func() {
				convey.So(d.Competencies[0].Rating, convey.ShouldEqual, 3)
				convey.So(d.Competencies[0].Indicators[0], convey.ShouldEqual, "Clear objectives")
			})
		})
	})
}

func TestObservationClone(t *testing.T) {
	convey.Convey("Given an observation", t, func() {
		o := model.Observation{
			ID: 7,
			Domains: []model.Domain{
				{ID: "D1", Competencies: []model.Competency{{ID: "C1.1", Rating: 4}}},
				{ID: "D2", Competencies: []model.Competency{{ID: "C2.1", Rating: 2}}},
			},
		}

		convey.Convey("When cloning", func() {
			c := o.Clone()
			c.Domains[1].Competencies[0].Evidence = "notes"

			convey.Convey("Then the copy should not share domains", func() {
				convey.So(o.Domains[1].Competencies[0].Evidence, convey.ShouldEqual, "")
				convey.So(c.ID, convey.ShouldEqual, 7)
			})
		})

		convey.Convey("When looking up a domain by id", func() {
			d, ok := o.Domain("D2")
			_, missing := o.Domain("D9")

			convey.Convey("Then only present domains should be found", func() {
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(d.Competencies[0].Rating, convey.ShouldEqual, 2)
				convey.So(missing, convey.ShouldBeFalse)
			})
		})
	})
}

func TestMeetingCompact(t *testing.T) {
	convey.Convey("Given a meeting with blank and filled entries", t, func() {
		m := model.Meeting{
			Areas: []model.MeetingArea{
				{ID: "A1", Name: "Goal Setting & Reflection", Notes: "   "},
				{ID: "A2", Name: "Instructional Practice & Pedagogy", Notes: "Try think-pair-share"},
			},
			ActionItems: []model.ActionItem{
				{ID: "x", Description: "", Status: types.StatusToDo},
				{ID: "y", Description: "Observe a peer lesson", Status: types.StatusInProgress},
			},
		}

		convey.Convey("When compacting", func() {
			m.Compact()

			convey.Convey("Then only non-blank areas should remain", func() {
				convey.So(len(m.Areas), convey.ShouldEqual, 1)
				convey.So(m.Areas[0].ID, convey.ShouldEqual, "A2")
			})

			convey.Convey("And only described action items should remain", func() {
				convey.So(len(m.ActionItems), convey.ShouldEqual, 1)
				convey.So(m.ActionItems[0].ID, convey.ShouldEqual, "y")
			})
		})
	})
}

func TestCompetencyRate(t *testing.T) {
	convey.Convey("Given an untouched competency", t, func() {
		c := model.Competency{ID: "C1.1"}

		convey.Convey("Then it should not count as assessed", func() {
			convey.So(c.Assessed(), convey.ShouldBeFalse)
		})

		convey.Convey("When marked N/A", func() {
			c.Rate(0)

			convey.Convey("Then it should be assessed with a zero rating", func() {
				convey.So(c.Assessed(), convey.ShouldBeTrue)
				convey.So(c.Rating, convey.ShouldEqual, 0)
				convey.So(c.NotApplicable, convey.ShouldBeTrue)
			})

			convey.Convey("And a later score should clear the N/A flag", func() {
				c.Rate(3)
				convey.So(c.NotApplicable, convey.ShouldBeFalse)
				convey.So(c.Assessed(), convey.ShouldBeTrue)
			})
		})
	})
}
