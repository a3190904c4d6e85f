package rubric

import "github.com/okian/architect/internal/domain/types"

// Classification thresholds; each is the inclusive lower bound of its tier.
const (
	exemplaryMin  = 3.5
	proficientMin = 2.5
	developingMin = 1.5

	// MinRating and MaxRating bound a competency rating. 0 means N/A.
	MinRating = 0
	MaxRating = 4
)

// Tier is one step of the rating scale.
type Tier struct {
	Value int    `json:"value"`
	Label string `json:"label"`
}

// Scale returns the rating scale from highest to lowest.
func Scale() []Tier {
	return []Tier{
		{Value: 4, Label: "Exemplary"},
		{Value: 3, Label: "Proficient"},
		{Value: 2, Label: "Developing"},
		{Value: 1, Label: "Intervention"},
		{Value: 0, Label: "N/A"},
	}
}

// RatingLabel returns the scale label for r, or "N/A" when r is off the scale.
func RatingLabel(r int) string {
	for _, t := range Scale() {
		if t.Value == r {
			return t.Label
		}
	}
	return "N/A"
}

// ValidRating reports whether r is on the rating scale.
func ValidRating(r int) bool {
	return r >= MinRating && r <= MaxRating
}

// LevelOf classifies a score in [0,4]. Out-of-range input is not supported.
func LevelOf(score float64) types.PerformanceLevel {
	switch {
	case score == 0:
		return types.Unrated
	case score >= exemplaryMin:
		return types.Exemplary
	case score >= proficientMin:
		return types.Proficient
	case score >= developingMin:
		return types.Developing
	default:
		return types.Intervention
	}
}
