// Package reports derives school-wide, per-teacher and per-domain statistics
// from in-memory snapshots of teachers, observations and meetings.
//
// Nothing here is persisted. Empty input yields zero values, never an error.
package reports

import (
	"sort"
	"strings"
	"time"

	"github.com/okian/architect/internal/domain/model"
	"github.com/okian/architect/internal/domain/rubric"
	"github.com/okian/architect/internal/domain/scoring"
	"github.com/okian/architect/internal/domain/types"
)

const recentLimit = 5

// LevelCount is one bucket of the performance distribution.
type LevelCount struct {
	Level types.PerformanceLevel `json:"level"`
	Count int                    `json:"count"`
}

// SchoolSummary aggregates every observation in the school.
type SchoolSummary struct {
	Total        int          `json:"total"`
	Average      float64      `json:"average"`
	Distribution []LevelCount `json:"distribution"`
}

// TeacherSummary compares one teacher against the rest.
type TeacherSummary struct {
	TeacherID        int64                  `json:"teacherId"`
	Name             string                 `json:"name"`
	ObservationCount int                    `json:"observationCount"`
	AverageScore     float64                `json:"averageScore"`
	PerformanceLevel types.PerformanceLevel `json:"performanceLevel"`
}

// DomainSummary is the system-wide mean of one framework domain.
type DomainSummary struct {
	DomainID     string  `json:"domainId"`
	Name         string  `json:"name"`
	AverageScore float64 `json:"averageScore"`
	Samples      int     `json:"samples"`
}

// Dashboard is the landing-page overview.
type Dashboard struct {
	TotalObservations int                 `json:"totalObservations"`
	TotalTeachers     int                 `json:"totalTeachers"`
	SchoolAverage     float64             `json:"schoolAverage"`
	ThisMonth         int                 `json:"observationsThisMonth"`
	Distribution      []LevelCount        `json:"distribution"`
	Recent            []model.Observation `json:"recent"`
}

func mean(sum float64, n int) float64 {
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// SchoolWide returns the mean overall score and the count per performance level.
// All five levels are always present.
func SchoolWide(obs []model.Observation) SchoolSummary {
	counts := make(map[types.PerformanceLevel]int, len(types.AllLevels()))
	var sum float64
	for _, o := range obs {
		sum += o.OverallScore
		counts[o.PerformanceLevel]++
	}
	dist := make([]LevelCount, 0, len(types.AllLevels()))
	for _, l := range types.AllLevels() {
		dist = append(dist, LevelCount{Level: l, Count: counts[l]})
	}
	return SchoolSummary{Total: len(obs), Average: mean(sum, len(obs)), Distribution: dist}
}

// CompareTeachers summarizes every teacher, highest average first.
// Teachers without observations average 0 and sort last; ties break by name.
func CompareTeachers(teachers []model.Teacher, obs []model.Observation) []TeacherSummary {
	type acc struct {
		sum float64
		n   int
	}
	byTeacher := make(map[int64]*acc)
	for _, o := range obs {
		a, ok := byTeacher[o.TeacherID]
		if !ok {
			a = &acc{}
			byTeacher[o.TeacherID] = a
		}
		a.sum += o.OverallScore
		a.n++
	}

	out := make([]TeacherSummary, 0, len(teachers))
	for _, t := range teachers {
		s := TeacherSummary{TeacherID: t.ID, Name: t.Name}
		if a, ok := byTeacher[t.ID]; ok {
			s.ObservationCount = a.n
			s.AverageScore = mean(a.sum, a.n)
		}
		s.PerformanceLevel = rubric.LevelOf(s.AverageScore)
		out = append(out, s)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].AverageScore != out[j].AverageScore {
			return out[i].AverageScore > out[j].AverageScore
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// AnalyzeDomains averages each framework domain across all observations,
// skipping observations where the domain is unrated. Highest mean first.
func AnalyzeDomains(obs []model.Observation) []DomainSummary {
	framework := rubric.Framework()
	out := make([]DomainSummary, 0, len(framework))
	for _, fd := range framework {
		var sum float64
		n := 0
		for _, o := range obs {
			d, ok := o.Domain(fd.ID)
			if !ok {
				continue
			}
			if s := scoring.DomainScore(d); s > 0 {
				sum += s
				n++
			}
		}
		out = append(out, DomainSummary{DomainID: fd.ID, Name: fd.Name, AverageScore: mean(sum, n), Samples: n})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].AverageScore > out[j].AverageScore })
	return out
}

// ObservationsInMonth counts observations dated in the same calendar month as now.
func ObservationsInMonth(obs []model.Observation, now time.Time) int {
	prefix := now.Format("2006-01")
	n := 0
	for _, o := range obs {
		if strings.HasPrefix(o.Date, prefix) {
			n++
		}
	}
	return n
}

// BuildDashboard assembles the overview. Recent holds the five newest observations.
func BuildDashboard(teachers []model.Teacher, obs []model.Observation, now time.Time) Dashboard {
	school := SchoolWide(obs)
	sorted := append([]model.Observation(nil), obs...)
	SortObservationsNewestFirst(sorted)
	if len(sorted) > recentLimit {
		sorted = sorted[:recentLimit]
	}
	return Dashboard{
		TotalObservations: school.Total,
		TotalTeachers:     len(teachers),
		SchoolAverage:     school.Average,
		ThisMonth:         ObservationsInMonth(obs, now),
		Distribution:      school.Distribution,
		Recent:            sorted,
	}
}
