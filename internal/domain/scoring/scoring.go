// Package scoring computes domain scores, the overall score, the performance
// level and form-completion progress from rated competencies.
//
// Everything here is pure and recomputed from scratch on each call.
package scoring

import (
	"github.com/okian/architect/internal/domain/model"
	"github.com/okian/architect/internal/domain/rubric"
	"github.com/okian/architect/internal/domain/types"
)

const percent = 100

// DomainResult is the score of a single domain.
type DomainResult struct {
	DomainID string  `json:"domainId"`
	Name     string  `json:"name"`
	Score    float64 `json:"score"`
	Rated    int     `json:"rated"`
	Total    int     `json:"total"`
}

// Result is the full evaluation of a set of domains.
type Result struct {
	OverallScore     float64                `json:"overallScore"`
	PerformanceLevel types.PerformanceLevel `json:"performanceLevel"`
	Progress         float64                `json:"progress"`
	Domains          []DomainResult         `json:"domains"`
}

// DomainScore is the mean of the ratings above zero, or 0 when none are rated.
func DomainScore(d model.Domain) float64 {
	sum, n := 0, 0
	for _, c := range d.Competencies {
		if c.Rating > 0 {
			sum += c.Rating
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

// Overall is the mean of the non-zero domain scores, or 0 when nothing is rated.
func Overall(domains []model.Domain) float64 {
	var sum float64
	n := 0
	for _, d := range domains {
		if s := DomainScore(d); s > 0 {
			sum += s
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// Progress is the percentage of competencies that carry a rating or an explicit N/A.
// It measures form completion, not performance.
func Progress(domains []model.Domain) float64 {
	rated, total := 0, 0
	for _, d := range domains {
		for _, c := range d.Competencies {
			total++
			if c.Assessed() {
				rated++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(rated) / float64(total) * percent
}

// Evaluate scores every domain and derives the overall score, level and progress.
func Evaluate(domains []model.Domain) Result {
	res := Result{Domains: make([]DomainResult, 0, len(domains))}
	for _, d := range domains {
		dr := DomainResult{DomainID: d.ID, Name: d.Name, Score: DomainScore(d), Total: len(d.Competencies)}
		for _, c := range d.Competencies {
			if c.Rating > 0 {
				dr.Rated++
			}
		}
		res.Domains = append(res.Domains, dr)
	}
	res.OverallScore = Overall(domains)
	res.PerformanceLevel = rubric.LevelOf(res.OverallScore)
	res.Progress = Progress(domains)
	return res
}

// Apply stamps the derived score and level onto o.
func Apply(o *model.Observation) Result {
	res := Evaluate(o.Domains)
	o.OverallScore = res.OverallScore
	o.PerformanceLevel = res.PerformanceLevel
	return res
}
