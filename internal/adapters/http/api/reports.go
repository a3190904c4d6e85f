package api

import (
	"net/http"
)

// ReportsHandler serves the read-only report views.
type ReportsHandler struct {
	responder
	deps Reporter
}

// HandleDashboard handles GET /reports/dashboard.
func (h *ReportsHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.deps.Dashboard(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// HandleSchool handles GET /reports/school.
func (h *ReportsHandler) HandleSchool(w http.ResponseWriter, r *http.Request) {
	s, err := h.deps.SchoolWide(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// HandleTeachers handles GET /reports/teachers.
func (h *ReportsHandler) HandleTeachers(w http.ResponseWriter, r *http.Request) {
	s, err := h.deps.TeacherComparison(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// HandleDomains handles GET /reports/domains.
func (h *ReportsHandler) HandleDomains(w http.ResponseWriter, r *http.Request) {
	s, err := h.deps.DomainAnalysis(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}
