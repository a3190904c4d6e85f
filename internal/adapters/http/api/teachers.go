package api

import (
	"bytes"
	"net/http"
	"time"

	"github.com/okian/architect/internal/adapters/export"
	"github.com/okian/architect/internal/domain/model"
)

// TeachersHandler serves the roster.
type TeachersHandler struct {
	responder
	deps Roster
	obs  Observations
	now  func() time.Time
}

// HandleList handles GET /teachers.
func (h *TeachersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ts, err := h.deps.Teachers(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ts)
}

// HandleCreate handles POST /teachers.
func (h *TeachersHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var t model.Teacher
	if !h.decode(w, r, &t) {
		return
	}
	t.ID = 0
	saved, err := h.deps.AddTeacher(r.Context(), t)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

// HandleGet handles GET /teachers/{id}.
func (h *TeachersHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	t, err := h.deps.Teacher(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// HandleUpdate handles PUT /teachers/{id}.
func (h *TeachersHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var t model.Teacher
	if !h.decode(w, r, &t) {
		return
	}
	t.ID = id
	saved, err := h.deps.UpdateTeacher(r.Context(), t)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

// HandleDelete handles DELETE /teachers/{id}.
func (h *TeachersHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.deps.DeleteTeacher(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleProfile handles GET /teachers/{id}/profile.
func (h *TeachersHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	p, err := h.deps.TeacherProfile(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// HandleReportPDF handles GET /teachers/{id}/report.pdf.
func (h *TeachersHandler) HandleReportPDF(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	t, err := h.deps.Teacher(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	obs, err := h.obs.ObservationsForTeacher(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := export.TeacherSummaryPDF(&buf, t, obs, h.now()); err != nil {
		h.fail(w, r, err)
		return
	}
	attachment(w, "application/pdf", export.TeacherSummaryPDFName(t))
	_, _ = w.Write(buf.Bytes())
}
