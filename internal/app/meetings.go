package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/okian/architect/internal/domain/model"
	"github.com/okian/architect/internal/domain/reports"
	"github.com/okian/architect/internal/domain/rubric"
	"github.com/okian/architect/internal/domain/types"
	"github.com/okian/architect/pkg/logger"
)

func newActionItemID() string {
	return uuid.NewString()
}

// NewMeetingDraft returns a meeting for teacherID dated today with one blank
// entry per growth area.
func (s *Service) NewMeetingDraft(teacherID int64) model.Meeting {
	return model.Meeting{
		TeacherID:   teacherID,
		Date:        s.now().Format("2006-01-02"),
		Areas:       rubric.BlankMeetingAreas(),
		ActionItems: []model.ActionItem{},
	}
}

// SaveMeeting stores a meeting. Areas without notes and action items without
// a description are dropped; remaining items get an id and default to To Do.
func (s *Service) SaveMeeting(ctx context.Context, m model.Meeting) (model.Meeting, error) {
	m.Date = strings.TrimSpace(m.Date)
	m.Areas = append([]model.MeetingArea(nil), m.Areas...)
	m.ActionItems = append([]model.ActionItem(nil), m.ActionItems...)
	m.Compact()
	for i := range m.ActionItems {
		it := &m.ActionItems[i]
		it.Description = strings.TrimSpace(it.Description)
		it.DueDate = strings.TrimSpace(it.DueDate)
		if it.ID == "" {
			it.ID = s.newID()
		}
		if it.Status == "" {
			it.Status = types.StatusToDo
		}
	}

	if err := s.check("meeting", m); err != nil {
		return model.Meeting{}, err
	}
	teacher, err := s.existingTeacher(ctx, "meeting", m.TeacherID)
	if err != nil {
		return model.Meeting{}, err
	}
	m.TeacherName = teacher.Name

	now := s.now()
	if m.ID == 0 {
		m.CreatedAt, m.UpdatedAt = now, now
		if _, err := s.store.AddMeeting(ctx, &m); err != nil {
			return model.Meeting{}, fmt.Errorf("add meeting: %w", err)
		}
	} else {
		prev, err := s.store.Meeting(ctx, m.ID)
		if err != nil {
			return model.Meeting{}, fmt.Errorf("update meeting %d: %w", m.ID, err)
		}
		m.CreatedAt, m.UpdatedAt = prev.CreatedAt, now
		if err := s.store.UpdateMeeting(ctx, m); err != nil {
			return model.Meeting{}, fmt.Errorf("update meeting %d: %w", m.ID, err)
		}
	}

	s.logger.Info(ctx, "meeting saved",
		logger.Int64("id", m.ID),
		logger.Int64("teacher_id", m.TeacherID),
		logger.Int("areas", len(m.Areas)),
		logger.Int("action_items", len(m.ActionItems)))
	return m, nil
}

// Meetings lists every meeting, newest first.
func (s *Service) Meetings(ctx context.Context) ([]model.Meeting, error) {
	ms, err := s.store.Meetings(ctx)
	if err != nil {
		return nil, fmt.Errorf("list meetings: %w", err)
	}
	reports.SortMeetingsNewestFirst(ms)
	return ms, nil
}

// Meeting returns one meeting.
func (s *Service) Meeting(ctx context.Context, id int64) (model.Meeting, error) {
	m, err := s.store.Meeting(ctx, id)
	if err != nil {
		return model.Meeting{}, fmt.Errorf("get meeting %d: %w", id, err)
	}
	return m, nil
}

// MeetingsForTeacher lists one teacher's meetings, newest first.
func (s *Service) MeetingsForTeacher(ctx context.Context, teacherID int64) ([]model.Meeting, error) {
	ms, err := s.store.MeetingsForTeacher(ctx, teacherID)
	if err != nil {
		return nil, fmt.Errorf("list meetings of teacher %d: %w", teacherID, err)
	}
	reports.SortMeetingsNewestFirst(ms)
	return ms, nil
}

// DeleteMeeting removes a meeting; absent ids are not an error.
func (s *Service) DeleteMeeting(ctx context.Context, id int64) error {
	if err := s.store.DeleteMeeting(ctx, id); err != nil {
		return fmt.Errorf("delete meeting %d: %w", id, err)
	}
	s.logger.Info(ctx, "meeting deleted", logger.Int64("id", id))
	return nil
}
