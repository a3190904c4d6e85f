package reports

import (
	"sort"
	"strings"

	"github.com/okian/architect/internal/domain/model"
)

// SortTeachersByName orders teachers by name, case-insensitively.
func SortTeachersByName(ts []model.Teacher) {
	sort.SliceStable(ts, func(i, j int) bool {
		return strings.ToLower(ts[i].Name) < strings.ToLower(ts[j].Name)
	})
}

// SortObservationsNewestFirst orders by date desc, then by id desc.
// ISO dates compare correctly as strings.
func SortObservationsNewestFirst(obs []model.Observation) {
	sort.SliceStable(obs, func(i, j int) bool {
		if obs[i].Date != obs[j].Date {
			return obs[i].Date > obs[j].Date
		}
		return obs[i].ID > obs[j].ID
	})
}

// SortMeetingsNewestFirst orders by date desc, then by id desc.
func SortMeetingsNewestFirst(ms []model.Meeting) {
	sort.SliceStable(ms, func(i, j int) bool {
		if ms[i].Date != ms[j].Date {
			return ms[i].Date > ms[j].Date
		}
		return ms[i].ID > ms[j].ID
	})
}
