// Package export renders observations and teachers as CSV, XLSX and PDF
// documents.
package export

import (
	"regexp"
	"strconv"
	"time"

	"github.com/okian/architect/internal/domain/model"
	"github.com/okian/architect/internal/domain/rubric"
)

// UnknownTeacher names observations whose teacher is no longer on the roster.
const UnknownTeacher = "Unknown"

var baseColumns = []string{
	"observationId",
	"observerName",
	"date",
	"time",
	"teacherName",
	"className",
	"subjectTopic",
	"lessonType",
	"overallScore",
	"performanceLevel",
	"keyStrengths",
	"areasForDevelopment",
	"commendations",
	"recommendations",
	"followUpDate",
	"supportNeeded",
}

var whitespace = regexp.MustCompile(`\s+`)

// ratingColumn identifies one framework competency column.
type ratingColumn struct {
	header       string
	domainID     string
	competencyID string
}

func ratingColumns() []ratingColumn {
	var out []ratingColumn
	for _, d := range rubric.Framework() {
		for _, c := range d.Competencies {
			out = append(out, ratingColumn{
				header:       whitespace.ReplaceAllString(d.Name, "_") + "_" + whitespace.ReplaceAllString(c.Title, "_") + "_Rating",
				domainID:     d.ID,
				competencyID: c.ID,
			})
		}
	}
	return out
}

// Columns returns the header shared by the CSV and XLSX exports.
func Columns() []string {
	rc := ratingColumns()
	out := make([]string, 0, len(baseColumns)+len(rc))
	out = append(out, baseColumns...)
	for _, c := range rc {
		out = append(out, c.header)
	}
	return out
}

// teacherNames maps roster ids to current names.
func teacherNames(teachers []model.Teacher) map[int64]string {
	m := make(map[int64]string, len(teachers))
	for _, t := range teachers {
		m[t.ID] = t.Name
	}
	return m
}

// values flattens o into one row in Columns order. Ratings of competencies
// missing from o are nil.
func values(o model.Observation, names map[int64]string, rc []ratingColumn) []any {
	name, ok := names[o.TeacherID]
	if !ok {
		name = UnknownTeacher
	}
	row := []any{
		o.ID,
		o.ObserverName,
		o.Date,
		o.Time,
		name,
		o.ClassName,
		o.SubjectTopic,
		o.LessonType,
		o.OverallScore,
		string(o.PerformanceLevel),
		o.KeyStrengths,
		o.AreasForDevelopment,
		o.Commendations,
		o.Recommendations,
		o.FollowUpDate,
		o.SupportNeeded,
	}
	for _, c := range rc {
		row = append(row, rating(o, c))
	}
	return row
}

func rating(o model.Observation, c ratingColumn) any {
	d, ok := o.Domain(c.domainID)
	if !ok {
		return nil
	}
	for _, comp := range d.Competencies {
		if comp.ID == c.competencyID {
			return comp.Rating
		}
	}
	return nil
}

func text(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return ""
	}
}

// FileName returns the download name of an export taken at t, e.g.
// Observations_2026-03-10.csv.
func FileName(ext string, t time.Time) string {
	return "Observations_" + t.Format("2006-01-02") + "." + ext
}
