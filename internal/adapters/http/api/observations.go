package api

import (
	"bytes"
	"net/http"
	"time"

	"github.com/okian/architect/internal/adapters/export"
	"github.com/okian/architect/internal/domain/model"
)

// ObservationsHandler serves observation records and their exports.
type ObservationsHandler struct {
	responder
	deps   Observations
	roster Roster
	now    func() time.Time
}

// HandleList handles GET /observations, optionally filtered by ?teacherId=.
func (h *ObservationsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	tid, filtered, ok := teacherFilter(w, r)
	if !ok {
		return
	}
	var (
		obs []model.Observation
		err error
	)
	if filtered {
		obs, err = h.deps.ObservationsForTeacher(r.Context(), tid)
	} else {
		obs, err = h.deps.Observations(r.Context())
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, obs)
}

// HandleDraft handles GET /observations/new.
func (h *ObservationsHandler) HandleDraft(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.NewObservationDraft())
}

// HandleScore handles POST /observations/score. It scores a draft without saving it.
func (h *ObservationsHandler) HandleScore(w http.ResponseWriter, r *http.Request) {
	var o model.Observation
	if !h.decode(w, r, &o) {
		return
	}
	writeJSON(w, http.StatusOK, h.deps.ScoreDraft(o.Domains))
}

// HandleCreate handles POST /observations.
func (h *ObservationsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var o model.Observation
	if !h.decode(w, r, &o) {
		return
	}
	o.ID = 0
	saved, err := h.deps.SaveObservation(r.Context(), o)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

// HandleGet handles GET /observations/{id}.
func (h *ObservationsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	o, err := h.deps.Observation(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

// HandleUpdate handles PUT /observations/{id}.
func (h *ObservationsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var o model.Observation
	if !h.decode(w, r, &o) {
		return
	}
	o.ID = id
	saved, err := h.deps.SaveObservation(r.Context(), o)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

// HandleDelete handles DELETE /observations/{id}.
func (h *ObservationsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.deps.DeleteObservation(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleReportPDF handles GET /observations/{id}/report.pdf.
func (h *ObservationsHandler) HandleReportPDF(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	o, err := h.deps.Observation(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := export.ObservationPDF(&buf, o, h.now()); err != nil {
		h.fail(w, r, err)
		return
	}
	attachment(w, "application/pdf", export.ObservationPDFName(o))
	_, _ = w.Write(buf.Bytes())
}

func (h *ObservationsHandler) everything(r *http.Request) ([]model.Observation, []model.Teacher, error) {
	obs, err := h.deps.Observations(r.Context())
	if err != nil {
		return nil, nil, err
	}
	ts, err := h.roster.Teachers(r.Context())
	if err != nil {
		return nil, nil, err
	}
	return obs, ts, nil
}

// HandleCSV handles GET /observations/export.csv.
func (h *ObservationsHandler) HandleCSV(w http.ResponseWriter, r *http.Request) {
	obs, ts, err := h.everything(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := export.WriteObservationsCSV(&buf, obs, ts); err != nil {
		h.fail(w, r, err)
		return
	}
	attachment(w, "text/csv; charset=utf-8", export.FileName("csv", h.now()))
	_, _ = w.Write(buf.Bytes())
}

// HandleXLSX handles GET /observations/export.xlsx.
func (h *ObservationsHandler) HandleXLSX(w http.ResponseWriter, r *http.Request) {
	obs, ts, err := h.everything(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	data, err := export.ObservationsWorkbook(obs, ts)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	attachment(w, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", export.FileName("xlsx", h.now()))
	_, _ = w.Write(data)
}
