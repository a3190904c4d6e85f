package api

import (
	"net/http"

	"github.com/okian/architect/internal/domain/model"
)

// MeetingsHandler serves growth meetings.
type MeetingsHandler struct {
	responder
	deps Meetings
}

// HandleList handles GET /meetings, optionally filtered by ?teacherId=.
func (h *MeetingsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	tid, filtered, ok := teacherFilter(w, r)
	if !ok {
		return
	}
	var (
		ms  []model.Meeting
		err error
	)
	if filtered {
		ms, err = h.deps.MeetingsForTeacher(r.Context(), tid)
	} else {
		ms, err = h.deps.Meetings(r.Context())
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ms)
}

// HandleDraft handles GET /meetings/new?teacherId=.
func (h *MeetingsHandler) HandleDraft(w http.ResponseWriter, r *http.Request) {
	tid, _, ok := teacherFilter(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.deps.NewMeetingDraft(tid))
}

// HandleCreate handles POST /meetings.
func (h *MeetingsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var m model.Meeting
	if !h.decode(w, r, &m) {
		return
	}
	m.ID = 0
	saved, err := h.deps.SaveMeeting(r.Context(), m)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

// HandleGet handles GET /meetings/{id}.
func (h *MeetingsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	m, err := h.deps.Meeting(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// HandleUpdate handles PUT /meetings/{id}.
func (h *MeetingsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var m model.Meeting
	if !h.decode(w, r, &m) {
		return
	}
	m.ID = id
	saved, err := h.deps.SaveMeeting(r.Context(), m)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

// HandleDelete handles DELETE /meetings/{id}.
func (h *MeetingsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.deps.DeleteMeeting(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
