package reports

import (
	"github.com/okian/architect/internal/domain/model"
	"github.com/okian/architect/internal/domain/types"
)

// TrackedItem is an action item annotated with its originating meeting date.
type TrackedItem struct {
	model.ActionItem
	MeetingID   int64  `json:"meetingId"`
	MeetingDate string `json:"meetingDate"`
}

// Scoreboard buckets a teacher's action items by status.
type Scoreboard struct {
	ToDo        int           `json:"toDo"`
	InProgress  int           `json:"inProgress"`
	Completed   int           `json:"completed"`
	Outstanding []TrackedItem `json:"outstanding"`
	Done        []TrackedItem `json:"done"`
}

// ActionItems builds the scoreboard across meetings in the order given.
func ActionItems(meetings []model.Meeting) Scoreboard {
	sb := Scoreboard{Outstanding: []TrackedItem{}, Done: []TrackedItem{}}
	for _, m := range meetings {
		for _, it := range m.ActionItems {
			ti := TrackedItem{ActionItem: it, MeetingID: m.ID, MeetingDate: m.Date}
			switch it.Status {
			case types.StatusToDo:
				sb.ToDo++
			case types.StatusInProgress:
				sb.InProgress++
			case types.StatusCompleted:
				sb.Completed++
			}
			if it.Status == types.StatusCompleted {
				sb.Done = append(sb.Done, ti)
			} else {
				sb.Outstanding = append(sb.Outstanding, ti)
			}
		}
	}
	return sb
}
