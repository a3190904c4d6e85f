package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/okian/architect/internal/domain/model"
	"github.com/okian/architect/pkg/logger"
)

func setTeacherID(t *model.Teacher, id int64)         { t.ID = id }
func setObservationID(o *model.Observation, id int64) { o.ID = id }
func setMeetingID(m *model.Meeting, id int64)         { m.ID = id }

// Teachers

// AddTeacher inserts t and stores the assigned id back into it.
func (s *SQLiteStore) AddTeacher(ctx context.Context, t *model.Teacher) (id int64, err error) {
	defer s.track(ctx, teachersTable, "add", time.Now(), &err)
	if err = s.begin(); err != nil {
		return 0, err
	}
	if id, err = addTeacher(ctx, s.db, t.ID, *t); err != nil {
		return 0, err
	}
	t.ID = id
	s.refreshCounts(ctx)
	s.log.Info(ctx, "teacher added", logger.Int64("id", id))
	return id, nil
}

func addTeacher(ctx context.Context, q sqlx.ExtContext, id int64, t model.Teacher) (int64, error) {
	t.ID = 0
	return insertDoc(ctx, q, teachersTable, id, t, 0, "")
}

// Teachers returns all teachers in id order.
func (s *SQLiteStore) Teachers(ctx context.Context) (out []model.Teacher, err error) {
	defer s.track(ctx, teachersTable, "list", time.Now(), &err)
	if err = s.begin(); err != nil {
		return nil, err
	}
	return selectDocs(ctx, s.db, teachersTable, "", setTeacherID)
}

// Teacher returns one teacher or ErrNotFound.
func (s *SQLiteStore) Teacher(ctx context.Context, id int64) (t model.Teacher, err error) {
	defer s.track(ctx, teachersTable, "get", time.Now(), &err)
	if err = s.begin(); err != nil {
		return t, err
	}
	return getDoc(ctx, s.db, teachersTable, id, setTeacherID)
}

// UpdateTeacher replaces the stored teacher with the same id.
func (s *SQLiteStore) UpdateTeacher(ctx context.Context, t model.Teacher) (err error) {
	defer s.track(ctx, teachersTable, "update", time.Now(), &err)
	if err = s.begin(); err != nil {
		return err
	}
	id := t.ID
	t.ID = 0
	if err = updateDoc(ctx, s.db, teachersTable, id, t, 0, ""); err != nil {
		return err
	}
	s.log.Info(ctx, "teacher updated", logger.Int64("id", id))
	return nil
}

// DeleteTeacher removes a teacher. Observations and meetings referencing it are kept.
func (s *SQLiteStore) DeleteTeacher(ctx context.Context, id int64) (err error) {
	defer s.track(ctx, teachersTable, "delete", time.Now(), &err)
	if err = s.begin(); err != nil {
		return err
	}
	if err = deleteDoc(ctx, s.db, teachersTable, id); err != nil {
		return err
	}
	s.refreshCounts(ctx)
	s.log.Info(ctx, "teacher deleted", logger.Int64("id", id))
	return nil
}

// Observations

// AddObservation inserts o and stores the assigned id back into it.
func (s *SQLiteStore) AddObservation(ctx context.Context, o *model.Observation) (id int64, err error) {
	defer s.track(ctx, observationsTable, "add", time.Now(), &err)
	if err = s.begin(); err != nil {
		return 0, err
	}
	if id, err = addObservation(ctx, s.db, o.ID, *o); err != nil {
		return 0, err
	}
	o.ID = id
	s.refreshCounts(ctx)
	s.log.Info(ctx, "observation added", logger.Int64("id", id), logger.Int64("teacher_id", o.TeacherID))
	return id, nil
}

func addObservation(ctx context.Context, q sqlx.ExtContext, id int64, o model.Observation) (int64, error) {
	o.ID = 0
	return insertDoc(ctx, q, observationsTable, id, o, o.TeacherID, o.Date)
}

// Observations returns all observations in id order.
func (s *SQLiteStore) Observations(ctx context.Context) (out []model.Observation, err error) {
	defer s.track(ctx, observationsTable, "list", time.Now(), &err)
	if err = s.begin(); err != nil {
		return nil, err
	}
	return selectDocs(ctx, s.db, observationsTable, "", setObservationID)
}

// Observation returns one observation or ErrNotFound.
func (s *SQLiteStore) Observation(ctx context.Context, id int64) (o model.Observation, err error) {
	defer s.track(ctx, observationsTable, "get", time.Now(), &err)
	if err = s.begin(); err != nil {
		return o, err
	}
	return getDoc(ctx, s.db, observationsTable, id, setObservationID)
}

// UpdateObservation replaces the stored observation with the same id.
func (s *SQLiteStore) UpdateObservation(ctx context.Context, o model.Observation) (err error) {
	defer s.track(ctx, observationsTable, "update", time.Now(), &err)
	if err = s.begin(); err != nil {
		return err
	}
	id := o.ID
	o.ID = 0
	if err = updateDoc(ctx, s.db, observationsTable, id, o, o.TeacherID, o.Date); err != nil {
		return err
	}
	s.log.Info(ctx, "observation updated", logger.Int64("id", id))
	return nil
}

// DeleteObservation removes an observation; absent ids are ignored.
func (s *SQLiteStore) DeleteObservation(ctx context.Context, id int64) (err error) {
	defer s.track(ctx, observationsTable, "delete", time.Now(), &err)
	if err = s.begin(); err != nil {
		return err
	}
	if err = deleteDoc(ctx, s.db, observationsTable, id); err != nil {
		return err
	}
	s.refreshCounts(ctx)
	s.log.Info(ctx, "observation deleted", logger.Int64("id", id))
	return nil
}

// ObservationsForTeacher returns the observations of one teacher in id order.
func (s *SQLiteStore) ObservationsForTeacher(ctx context.Context, teacherID int64) (out []model.Observation, err error) {
	defer s.track(ctx, observationsTable, "by_teacher", time.Now(), &err)
	if err = s.begin(); err != nil {
		return nil, err
	}
	return selectDocs(ctx, s.db, observationsTable, "teacher_id = ?", setObservationID, teacherID)
}

// Meetings

// AddMeeting inserts m and stores the assigned id back into it.
func (s *SQLiteStore) AddMeeting(ctx context.Context, m *model.Meeting) (id int64, err error) {
	defer s.track(ctx, meetingsTable, "add", time.Now(), &err)
	if err = s.begin(); err != nil {
		return 0, err
	}
	if id, err = addMeeting(ctx, s.db, m.ID, *m); err != nil {
		return 0, err
	}
	m.ID = id
	s.refreshCounts(ctx)
	s.log.Info(ctx, "meeting added", logger.Int64("id", id), logger.Int64("teacher_id", m.TeacherID))
	return id, nil
}

func addMeeting(ctx context.Context, q sqlx.ExtContext, id int64, m model.Meeting) (int64, error) {
	m.ID = 0
	return insertDoc(ctx, q, meetingsTable, id, m, m.TeacherID, m.Date)
}

// Meetings returns all meetings in id order.
func (s *SQLiteStore) Meetings(ctx context.Context) (out []model.Meeting, err error) {
	defer s.track(ctx, meetingsTable, "list", time.Now(), &err)
	if err = s.begin(); err != nil {
		return nil, err
	}
	return selectDocs(ctx, s.db, meetingsTable, "", setMeetingID)
}

// Meeting returns one meeting or ErrNotFound.
func (s *SQLiteStore) Meeting(ctx context.Context, id int64) (m model.Meeting, err error) {
	defer s.track(ctx, meetingsTable, "get", time.Now(), &err)
	if err = s.begin(); err != nil {
		return m, err
	}
	return getDoc(ctx, s.db, meetingsTable, id, setMeetingID)
}

// UpdateMeeting replaces the stored meeting with the same id.
func (s *SQLiteStore) UpdateMeeting(ctx context.Context, m model.Meeting) (err error) {
	defer s.track(ctx, meetingsTable, "update", time.Now(), &err)
	if err = s.begin(); err != nil {
		return err
	}
	id := m.ID
	m.ID = 0
	if err = updateDoc(ctx, s.db, meetingsTable, id, m, m.TeacherID, m.Date); err != nil {
		return err
	}
	s.log.Info(ctx, "meeting updated", logger.Int64("id", id))
	return nil
}

// DeleteMeeting removes a meeting; absent ids are ignored.
func (s *SQLiteStore) DeleteMeeting(ctx context.Context, id int64) (err error) {
	defer s.track(ctx, meetingsTable, "delete", time.Now(), &err)
	if err = s.begin(); err != nil {
		return err
	}
	if err = deleteDoc(ctx, s.db, meetingsTable, id); err != nil {
		return err
	}
	s.refreshCounts(ctx)
	s.log.Info(ctx, "meeting deleted", logger.Int64("id", id))
	return nil
}

// MeetingsForTeacher returns the meetings of one teacher in id order.
func (s *SQLiteStore) MeetingsForTeacher(ctx context.Context, teacherID int64) (out []model.Meeting, err error) {
	defer s.track(ctx, meetingsTable, "by_teacher", time.Now(), &err)
	if err = s.begin(); err != nil {
		return nil, err
	}
	return selectDocs(ctx, s.db, meetingsTable, "teacher_id = ?", setMeetingID, teacherID)
}

// Whole store

// Snapshot reads all three collections from one consistent view.
func (s *SQLiteStore) Snapshot(ctx context.Context) (snap Snapshot, err error) {
	defer s.track(ctx, "all", "snapshot", time.Now(), &err)
	if err = s.begin(); err != nil {
		return snap, err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return snap, translate(err)
	}
	defer func() { _ = tx.Rollback() }()

	if snap.Teachers, err = selectDocs(ctx, tx, teachersTable, "", setTeacherID); err != nil {
		return Snapshot{}, err
	}
	if snap.Observations, err = selectDocs(ctx, tx, observationsTable, "", setObservationID); err != nil {
		return Snapshot{}, err
	}
	if snap.Meetings, err = selectDocs(ctx, tx, meetingsTable, "", setMeetingID); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

// Restore appends snap under fresh identities. Either every record is
// written or none is.
func (s *SQLiteStore) Restore(ctx context.Context, snap Snapshot) (counts Counts, err error) {
	defer s.track(ctx, "all", "restore", time.Now(), &err)
	if err = s.begin(); err != nil {
		return counts, err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return counts, translate(err)
	}
	defer func() { _ = tx.Rollback() }()

	// References to teachers outside the snapshot keep their id unless that id
	// was just handed to an imported teacher; those become orphans (teacher id 0).
	teacherIDs := make(map[int64]int64, len(snap.Teachers))
	assigned := make(map[int64]bool, len(snap.Teachers))
	remap := func(old int64) int64 {
		if id, ok := teacherIDs[old]; ok {
			return id
		}
		if assigned[old] {
			return 0
		}
		return old
	}

	for _, t := range snap.Teachers {
		id, err := addTeacher(ctx, tx, 0, t)
		if err != nil {
			return Counts{}, fmt.Errorf("restore teacher %q: %w", t.Name, err)
		}
		if t.ID != 0 {
			teacherIDs[t.ID] = id
		}
		assigned[id] = true
		counts.Teachers++
	}
	for _, o := range snap.Observations {
		o.TeacherID = remap(o.TeacherID)
		if _, err := addObservation(ctx, tx, 0, o); err != nil {
			return Counts{}, fmt.Errorf("restore observation of %s: %w", o.Date, err)
		}
		counts.Observations++
	}
	for _, m := range snap.Meetings {
		m.TeacherID = remap(m.TeacherID)
		if _, err := addMeeting(ctx, tx, 0, m); err != nil {
			return Counts{}, fmt.Errorf("restore meeting of %s: %w", m.Date, err)
		}
		counts.Meetings++
	}

	if err = tx.Commit(); err != nil {
		return Counts{}, translate(err)
	}
	s.refreshCounts(ctx)
	s.log.Info(ctx, "store restored",
		logger.Int("teachers", counts.Teachers),
		logger.Int("observations", counts.Observations),
		logger.Int("meetings", counts.Meetings))
	return counts, nil
}

// Clear deletes every record. Identity sequences are kept, so ids are not reused.
func (s *SQLiteStore) Clear(ctx context.Context) (err error) {
	defer s.track(ctx, "all", "clear", time.Now(), &err)
	if err = s.begin(); err != nil {
		return err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return translate(err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{teachersTable, observationsTable, meetingsTable} {
		if _, err = tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return translate(err)
		}
	}
	if err = tx.Commit(); err != nil {
		return translate(err)
	}
	s.refreshCounts(ctx)
	s.log.Info(ctx, "store cleared")
	return nil
}
