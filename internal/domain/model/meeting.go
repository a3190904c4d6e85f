package model

import (
	"strings"
	"time"

	"github.com/okian/architect/internal/domain/types"
)

// MeetingArea holds the notes taken for one discussion area.
type MeetingArea struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Notes string `json:"notes"`
}

// ActionItem is a follow-up task owned by its meeting.
type ActionItem struct {
	ID          string             `json:"id"`
	Description string             `json:"description"`
	Status      types.ActionStatus `json:"status" validate:"actionstatus"`
	DueDate     string             `json:"dueDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// Meeting is a professional-growth meeting with a teacher.
type Meeting struct {
	ID          int64         `json:"id,omitempty"`
	TeacherID   int64         `json:"teacherId" validate:"required,gt=0"`
	TeacherName string        `json:"teacherName"`
	Date        string        `json:"date" validate:"required,datetime=2006-01-02"`
	Areas       []MeetingArea `json:"areas"`
	ActionItems []ActionItem  `json:"actionItems" validate:"dive"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// Compact drops areas without notes and action items without a description.
func (m *Meeting) Compact() {
	areas := make([]MeetingArea, 0, len(m.Areas))
	for _, a := range m.Areas {
		if strings.TrimSpace(a.Notes) != "" {
			areas = append(areas, a)
		}
	}
	m.Areas = areas

	items := make([]ActionItem, 0, len(m.ActionItems))
	for _, it := range m.ActionItems {
		if strings.TrimSpace(it.Description) != "" {
			items = append(items, it)
		}
	}
	m.ActionItems = items
}
