// Package types contains common enums shared across the application.
package types

// PerformanceLevel is the categorical bucket derived from a score.
type PerformanceLevel string

// Performance levels, from highest to lowest.
const (
	Exemplary    PerformanceLevel = "Exemplary"
	Proficient   PerformanceLevel = "Proficient"
	Developing   PerformanceLevel = "Developing"
	Intervention PerformanceLevel = "Needs Intervention"
	Unrated      PerformanceLevel = "Unrated"
)

// AllLevels returns every performance level in display order.
func AllLevels() []PerformanceLevel {
	return []PerformanceLevel{Exemplary, Proficient, Developing, Intervention, Unrated}
}

// Valid reports whether l is one of the known levels.
func (l PerformanceLevel) Valid() bool {
	switch l {
	case Exemplary, Proficient, Developing, Intervention, Unrated:
		return true
	}
	return false
}

// ActionStatus tracks the progress of a meeting action item.
type ActionStatus string

// Action item statuses.
const (
	StatusToDo       ActionStatus = "To Do"
	StatusInProgress ActionStatus = "In Progress"
	StatusCompleted  ActionStatus = "Completed"
)

// AllStatuses returns every action status in workflow order.
func AllStatuses() []ActionStatus {
	return []ActionStatus{StatusToDo, StatusInProgress, StatusCompleted}
}

// Valid reports whether s is one of the known statuses.
func (s ActionStatus) Valid() bool {
	switch s {
	case StatusToDo, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}
