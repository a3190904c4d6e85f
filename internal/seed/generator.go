package seed

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/okian/architect/internal/domain/model"
	"github.com/okian/architect/internal/domain/rubric"
	"github.com/okian/architect/internal/domain/types"
)

// profile biases how a generated teacher tends to be rated.
type profile int

const (
	profileStrong profile = iota
	profileSolid
	profileGrowing
	profileStruggling
	profileCount
)

// Probability that a competency is skipped or marked N/A.
const (
	skipChance = 0.15
	naChance   = 0.05
)

var (
	firstNames = []string{"Amina", "Ben", "Chloe", "Daniel", "Elena", "Farid", "Grace", "Hugo", "Ines", "Jonas", "Kemi", "Liam"}         //nolint:gochecknoglobals // fixture names
	lastNames  = []string{"Adeyemi", "Brown", "Castillo", "Dubois", "Evans", "Fischer", "Garcia", "Haddad", "Ito", "Jensen", "Kowalski"} //nolint:gochecknoglobals // fixture names
	subjects   = []string{"Mathematics", "English", "Science", "History", "Geography", "Art", "Music", "Physical Education"}            //nolint:gochecknoglobals // fixture subjects
	lessons    = []string{"Introduction", "Practice", "Review", "Assessment", "Project"}                                                  //nolint:gochecknoglobals // fixture lesson types
)

// generator produces teachers and draft records from a seeded source.
type generator struct {
	rng *rand.Rand
	cfg Config
}

func newGenerator(cfg Config) *generator {
	return &generator{rng: rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)), cfg: cfg}
}

func (g *generator) pick(list []string) string {
	return list[g.rng.IntN(len(list))]
}

// teacher returns the i-th generated teacher and its rating profile.
func (g *generator) teacher(i int) (model.Teacher, profile) {
	subject := g.pick(subjects)
	return model.Teacher{
		Name:     fmt.Sprintf("%s %s", firstNames[i%len(firstNames)], g.pick(lastNames)),
		Classes:  fmt.Sprintf("%d%c", 7+i%6, 'A'+rune(g.rng.IntN(3))),
		Subjects: subject,
	}, profile(g.rng.IntN(int(profileCount)))
}

// rating draws a rating around the profile's centre.
func (g *generator) rating(p profile) int {
	var centre int
	switch p {
	case profileStrong:
		centre = 4
	case profileSolid:
		centre = 3
	case profileGrowing:
		centre = 2
	default:
		centre = 1
	}
	r := centre + g.rng.IntN(3) - 1
	return min(max(r, rubric.MinRating+1), rubric.MaxRating)
}

// observation fills draft for teacher t, the n-th visit.
func (g *generator) observation(draft model.Observation, t model.Teacher, p profile, n int) model.Observation {
	at := g.cfg.Start.Add(time.Duration(n) * g.cfg.Interval)
	draft.TeacherID = t.ID
	draft.ObserverName = "Demo Principal"
	draft.Date = at.Format("2006-01-02")
	draft.Time = fmt.Sprintf("%02d:%02d", 8+g.rng.IntN(7), 15*g.rng.IntN(4))
	draft.ClassName = t.Classes
	draft.SubjectTopic = fmt.Sprintf("%s: unit %d", t.Subjects, n+1)
	draft.LessonType = g.pick(lessons)
	for d := range draft.Domains {
		for c := range draft.Domains[d].Competencies {
			comp := &draft.Domains[d].Competencies[c]
			switch x := g.rng.Float64(); {
			case x < skipChance:
			case x < skipChance+naChance:
				comp.Rate(0)
			default:
				comp.Rate(g.rating(p))
			}
		}
	}
	draft.KeyStrengths = "Clear routines and positive rapport."
	draft.AreasForDevelopment = "Differentiate tasks for mixed ability groups."
	return draft
}

// meeting fills draft with notes and a couple of action items.
func (g *generator) meeting(draft model.Meeting, n int) model.Meeting {
	draft.Date = g.cfg.Start.Add(time.Duration(n)*g.cfg.Interval + 24*time.Hour).Format("2006-01-02")
	for i := range draft.Areas {
		if g.rng.IntN(2) == 0 {
			draft.Areas[i].Notes = fmt.Sprintf("Discussed %s.", draft.Areas[i].Name)
		}
	}
	statuses := types.AllStatuses()
	draft.ActionItems = []model.ActionItem{
		{Description: "Plan one lesson with peer feedback", Status: statuses[g.rng.IntN(len(statuses))]},
		{Description: "Observe a colleague", Status: statuses[g.rng.IntN(len(statuses))]},
	}
	return draft
}
