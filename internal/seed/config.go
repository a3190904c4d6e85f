// Package seed fills a record store with deterministic demo data.
package seed

import "time"

// Config holds the size and shape of a generated data set.
type Config struct {
	Teachers     int       // Number of teachers to add
	Observations int       // Observations per teacher
	Meetings     int       // Growth meetings per teacher
	Seed         uint64    // Random seed; equal seeds give equal data
	Start        time.Time // Date of the first observation
	Interval     time.Duration
}

// Stats holds the outcome of a run.
type Stats struct {
	Teachers     int
	Observations int
	Meetings     int
	Duration     time.Duration
}

// Defaults for a small demo school.
const (
	DefaultTeachers     = 6
	DefaultObservations = 3
	DefaultMeetings     = 1
	DefaultSeed         = 42
	DefaultInterval     = 7 * 24 * time.Hour
)

// DefaultConfig returns a Config for a small demo school starting at start.
func DefaultConfig(start time.Time) Config {
	return Config{
		Teachers:     DefaultTeachers,
		Observations: DefaultObservations,
		Meetings:     DefaultMeetings,
		Seed:         DefaultSeed,
		Start:        start,
		Interval:     DefaultInterval,
	}
}
