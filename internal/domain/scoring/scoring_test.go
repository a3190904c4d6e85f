package scoring_test

import (
	"math/rand"
	"testing"

	"github.com/okian/architect/internal/domain/model"
	"github.com/okian/architect/internal/domain/rubric"
	scoring "github.com/okian/architect/internal/domain/scoring"
	"github.com/okian/architect/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func rateAll(domains []model.Domain, r int) {
	for i := range domains {
		for j := range domains[i].Competencies {
			domains[i].Competencies[j].Rate(r)
		}
	}
}

func TestDomainScore(t *testing.T) {
	Convey("Given a domain", t, func() {
		d := model.Domain{ID: "D1", Competencies: []model.Competency{{Rating: 4}, {Rating: 3}, {Rating: 0}}}

		Convey("When some competencies are N/A", func() {
			Convey("Then only rated competencies should count", func() {
				So(scoring.DomainScore(d), ShouldEqual, 3.5)
			})
		})

		Convey("When nothing is rated", func() {
			for i := range d.Competencies {
				d.Competencies[i].Rating = 0
			}

			Convey("Then the score should be zero", func() {
				So(scoring.DomainScore(d), ShouldEqual, 0)
			})
		})

		Convey("When the domain has no competencies", func() {
			Convey("Then the score should be zero", func() {
				So(scoring.DomainScore(model.Domain{}), ShouldEqual, 0)
			})
		})
	})
}

func TestEvaluate(t *testing.T) {
	Convey("Given a fresh framework", t, func() {
		domains := rubric.Framework()

		Convey("When nothing has been touched", func() {
			res := scoring.Evaluate(domains)

			Convey("Then the observation should be unrated with no progress", func() {
				So(res.OverallScore, ShouldEqual, 0)
				So(res.PerformanceLevel, ShouldEqual, types.Unrated)
				So(res.Progress, ShouldEqual, 0)
				So(len(res.Domains), ShouldEqual, 10)
			})
		})

		Convey("When only domain 1 is rated {4,3,0}", func() {
			domains[0].Competencies[0].Rating = 4
			domains[0].Competencies[1].Rating = 3
			res := scoring.Evaluate(domains)

			Convey("Then the overall score should be the single valid domain score", func() {
				So(res.OverallScore, ShouldEqual, 3.5)
				So(res.PerformanceLevel, ShouldEqual, types.Exemplary)
				So(res.Domains[0].Score, ShouldEqual, 3.5)
				So(res.Domains[0].Rated, ShouldEqual, 2)
				So(res.Domains[0].Total, ShouldEqual, 3)
				So(res.Domains[1].Score, ShouldEqual, 0)
			})

			Convey("And progress should count the two rated competencies", func() {
				So(res.Progress, ShouldAlmostEqual, 2.0/37.0*100, 1e-9)
			})
		})

		Convey("When two domains average to 2.0 and 3.0", func() {
			domains[0].Competencies[0].Rating = 2
			domains[1].Competencies[0].Rating = 3
			domains[1].Competencies[1].Rating = 3

			Convey("Then the overall score should be the mean of domain scores", func() {
				So(scoring.Overall(domains), ShouldEqual, 2.5)
				So(scoring.Evaluate(domains).PerformanceLevel, ShouldEqual, types.Proficient)
			})
		})
	})
}

func TestAllNotApplicable(t *testing.T) {
	Convey("Given an observation where every competency is rated N/A", t, func() {
		domains := rubric.Framework()
		rateAll(domains, 0)
		res := scoring.Evaluate(domains)

		Convey("Then the form should be complete but unrated", func() {
			So(res.OverallScore, ShouldEqual, 0)
			So(res.PerformanceLevel, ShouldEqual, types.Unrated)
			So(res.Progress, ShouldEqual, 100)
		})
	})

	Convey("Given every competency rated at the maximum", t, func() {
		domains := rubric.Framework()
		rateAll(domains, 4)
		res := scoring.Evaluate(domains)

		Convey("Then progress should be complete and the level exemplary", func() {
			So(res.Progress, ShouldEqual, 100)
			So(res.OverallScore, ShouldEqual, 4)
			So(res.PerformanceLevel, ShouldEqual, types.Exemplary)
		})
	})
}

func TestScoringProperties(t *testing.T) {
	Convey("Given randomly rated frameworks", t, func() {
		rng := rand.New(rand.NewSource(7))

		Convey("Then the overall score should stay within [0,4] and match its level", func() {
			for i := 0; i < 200; i++ {
				domains := rubric.Framework()
				for d := range domains {
					for c := range domains[d].Competencies {
						domains[d].Competencies[c].Rating = rng.Intn(5)
					}
				}
				res := scoring.Evaluate(domains)
				So(res.OverallScore, ShouldBeBetweenOrEqual, 0, 4)
				So(res.PerformanceLevel, ShouldEqual, rubric.LevelOf(res.OverallScore))
			}
		})

		Convey("Then rating one more competency should never decrease progress", func() {
			domains := rubric.Framework()
			prev := scoring.Progress(domains)
			for d := range domains {
				for c := range domains[d].Competencies {
					domains[d].Competencies[c].Rate(rng.Intn(5))
					next := scoring.Progress(domains)
					So(next, ShouldBeGreaterThanOrEqualTo, prev)
					prev = next
				}
			}
			So(prev, ShouldEqual, 100)
		})
	})
}

func TestApply(t *testing.T) {
	Convey("Given an observation with hand-edited derived fields", t, func() {
		obs := model.Observation{
			Domains:          rubric.Framework(),
			OverallScore:     3.9,
			PerformanceLevel: types.Exemplary,
		}
		obs.Domains[4].Competencies[0].Rating = 1

		Convey("When applying the scoring engine", func() {
			scoring.Apply(&obs)

			Convey("Then the derived fields should be overwritten", func() {
				So(obs.OverallScore, ShouldEqual, 1)
				So(obs.PerformanceLevel, ShouldEqual, types.Intervention)
			})
		})
	})
}
