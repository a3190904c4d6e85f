// Package repository persists teachers, observations and meetings.
package repository

import (
	"context"

	"github.com/okian/architect/internal/domain/model"
)

// Snapshot is the full contents of the store.
type Snapshot struct {
	Teachers     []model.Teacher
	Observations []model.Observation
	Meetings     []model.Meeting
}

// Counts reports how many records of each collection an operation touched.
type Counts struct {
	Teachers     int `json:"teachers"`
	Observations int `json:"observations"`
	Meetings     int `json:"meetings"`
}

// Total sums all collections.
func (c Counts) Total() int {
	return c.Teachers + c.Observations + c.Meetings
}

// Store provides durable access to the three record collections.
//
// AddX assigns a fresh identity when the record id is zero and inserts at
// the given id otherwise; an id already in use fails with ErrConstraint.
// Identities are never reused, not even after Clear.
// UpdateX replaces the whole record and fails with ErrNotFound for unknown ids.
// DeleteX of an absent id is a no-op.
type Store interface {
	AddTeacher(ctx context.Context, t *model.Teacher) (int64, error)
	Teachers(ctx context.Context) ([]model.Teacher, error)
	Teacher(ctx context.Context, id int64) (model.Teacher, error)
	UpdateTeacher(ctx context.Context, t model.Teacher) error
	DeleteTeacher(ctx context.Context, id int64) error

	AddObservation(ctx context.Context, o *model.Observation) (int64, error)
	Observations(ctx context.Context) ([]model.Observation, error)
	Observation(ctx context.Context, id int64) (model.Observation, error)
	UpdateObservation(ctx context.Context, o model.Observation) error
	DeleteObservation(ctx context.Context, id int64) error
	ObservationsForTeacher(ctx context.Context, teacherID int64) ([]model.Observation, error)

	AddMeeting(ctx context.Context, m *model.Meeting) (int64, error)
	Meetings(ctx context.Context) ([]model.Meeting, error)
	Meeting(ctx context.Context, id int64) (model.Meeting, error)
	UpdateMeeting(ctx context.Context, m model.Meeting) error
	DeleteMeeting(ctx context.Context, id int64) error
	MeetingsForTeacher(ctx context.Context, teacherID int64) ([]model.Meeting, error)

	// Snapshot reads every collection in one transaction.
	Snapshot(ctx context.Context) (Snapshot, error)
	// Restore appends every record of s under new identities in one
	// transaction. Teacher references inside s are rewritten to the new
	// teacher ids; references to teachers outside s are kept as they are.
	Restore(ctx context.Context, s Snapshot) (Counts, error)
	// Clear removes every record.
	Clear(ctx context.Context) error

	Close() error
}
