// Package model contains domain models passed between layers.
//
// JSON tags mirror the backup document format so records round-trip through
// export and import unchanged.
package model

import (
	"time"

	"github.com/okian/architect/internal/domain/types"
)

// Competency is a scored sub-criterion within a Domain.
type Competency struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Indicators []string `json:"indicators"`
	Rating     int      `json:"rating" validate:"min=0,max=4"` // 0 = N/A or not yet rated
	Evidence   string   `json:"evidence"`

	// NotApplicable marks a rating of 0 that the observer chose explicitly.
	NotApplicable bool `json:"notApplicable,omitempty"`
}

// Assessed reports whether the observer has rated c or marked it N/A.
func (c Competency) Assessed() bool {
	return c.Rating != 0 || c.NotApplicable
}

// Rate sets the rating. A rating of 0 records an explicit N/A.
func (c *Competency) Rate(r int) {
	c.Rating = r
	c.NotApplicable = r == 0
}

// Domain is one of the fixed observation categories.
type Domain struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Competencies []Competency `json:"competencies" validate:"dive"`
}

// Clone returns a deep copy of d.
func (d Domain) Clone() Domain {
	out := Domain{ID: d.ID, Name: d.Name}
	if d.Competencies != nil {
		out.Competencies = make([]Competency, len(d.Competencies))
		for i, c := range d.Competencies {
			c.Indicators = append([]string(nil), c.Indicators...)
			out.Competencies[i] = c
		}
	}
	return out
}

// CloneDomains deep copies a domain list.
func CloneDomains(domains []Domain) []Domain {
	if domains == nil {
		return nil
	}
	out := make([]Domain, len(domains))
	for i, d := range domains {
		out[i] = d.Clone()
	}
	return out
}

// Observation is a single recorded classroom observation.
//
// OverallScore and PerformanceLevel are derived from Domains at save time.
// TeacherName is captured at save time and is not re-synced on rename.
type Observation struct {
	ID           int64  `json:"id,omitempty"`
	ObserverName string `json:"observerName"`
	Date         string `json:"date" validate:"required,datetime=2006-01-02"`
	Time         string `json:"time"`
	TeacherID    int64  `json:"teacherId" validate:"required,gt=0"`
	TeacherName  string `json:"teacherName"`
	ClassName    string `json:"className" validate:"required"`
	SubjectTopic string `json:"subjectTopic" validate:"required"`
	LessonType   string `json:"lessonType"`

	Domains          []Domain               `json:"domains" validate:"dive"`
	OverallScore     float64                `json:"overallScore"`
	PerformanceLevel types.PerformanceLevel `json:"performanceLevel"`

	KeyStrengths        string `json:"keyStrengths"`
	AreasForDevelopment string `json:"areasForDevelopment"`
	Commendations       string `json:"commendations"`
	Recommendations     string `json:"recommendations"`
	FollowUpDate        string `json:"followUpDate"`
	SupportNeeded       string `json:"supportNeeded"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Clone returns a deep copy of o.
func (o Observation) Clone() Observation {
	o.Domains = CloneDomains(o.Domains)
	return o
}

// Domain returns the domain with the given id, if present.
func (o Observation) Domain(id string) (Domain, bool) {
	for _, d := range o.Domains {
		if d.ID == id {
			return d, true
		}
	}
	return Domain{}, false
}
