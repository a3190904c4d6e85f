// Package api exposes the record service as a local JSON API.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/okian/architect/internal/adapters/repository"
	service "github.com/okian/architect/internal/app"
	"github.com/okian/architect/internal/domain/model"
	"github.com/okian/architect/internal/domain/reports"
	"github.com/okian/architect/internal/domain/scoring"
	"github.com/okian/architect/pkg/logger"
)

// Roster covers teacher management.
type Roster interface {
	Teachers(ctx context.Context) ([]model.Teacher, error)
	Teacher(ctx context.Context, id int64) (model.Teacher, error)
	AddTeacher(ctx context.Context, t model.Teacher) (model.Teacher, error)
	UpdateTeacher(ctx context.Context, t model.Teacher) (model.Teacher, error)
	DeleteTeacher(ctx context.Context, id int64) error
	TeacherProfile(ctx context.Context, id int64) (service.TeacherProfile, error)
}

// Observations covers observation records.
type Observations interface {
	NewObservationDraft() model.Observation
	ScoreDraft(domains []model.Domain) scoring.Result
	SaveObservation(ctx context.Context, o model.Observation) (model.Observation, error)
	Observations(ctx context.Context) ([]model.Observation, error)
	Observation(ctx context.Context, id int64) (model.Observation, error)
	ObservationsForTeacher(ctx context.Context, teacherID int64) ([]model.Observation, error)
	DeleteObservation(ctx context.Context, id int64) error
}

// Meetings covers growth meetings.
type Meetings interface {
	NewMeetingDraft(teacherID int64) model.Meeting
	SaveMeeting(ctx context.Context, m model.Meeting) (model.Meeting, error)
	Meetings(ctx context.Context) ([]model.Meeting, error)
	Meeting(ctx context.Context, id int64) (model.Meeting, error)
	MeetingsForTeacher(ctx context.Context, teacherID int64) ([]model.Meeting, error)
	DeleteMeeting(ctx context.Context, id int64) error
}

// Reporter covers the read models.
type Reporter interface {
	Dashboard(ctx context.Context) (reports.Dashboard, error)
	SchoolWide(ctx context.Context) (reports.SchoolSummary, error)
	TeacherComparison(ctx context.Context) ([]reports.TeacherSummary, error)
	DomainAnalysis(ctx context.Context) ([]reports.DomainSummary, error)
}

// Backups covers the backup pipeline.
type Backups interface {
	ExportJSON(ctx context.Context) ([]byte, error)
	Import(ctx context.Context, data []byte) (repository.Counts, error)
	ClearAll(ctx context.Context, confirm string) error
}

// Dependencies required by HTTP handlers. *service.Service satisfies it.
type Dependencies interface {
	Roster
	Observations
	Meetings
	Reporter
	Backups
}

var _ Dependencies = (*service.Service)(nil)

// Server wires HTTP routes for the record API.
type Server struct {
	healthHandler      *HealthHandler
	frameworkHandler   *FrameworkHandler
	teachersHandler    *TeachersHandler
	observationHandler *ObservationsHandler
	meetingsHandler    *MeetingsHandler
	reportsHandler     *ReportsHandler
	backupHandler      *BackupHandler
}

// Option configures the Server.
type Option func(*settings)

type settings struct {
	now          func() time.Time
	log          logger.Logger
	maxBodyBytes int64
}

// WithClock sets the time used for download names and report footers.
func WithClock(now func() time.Time) Option {
	return func(s *settings) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets the logger used for failed requests.
func WithLogger(l logger.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.log = l
		}
	}
}

// WithMaxBodyBytes bounds request bodies, backups included.
func WithMaxBodyBytes(n int64) Option {
	return func(s *settings) {
		if n > 0 {
			s.maxBodyBytes = n
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...Option) *Server {
	st := settings{now: time.Now, log: logger.Nop(), maxBodyBytes: 32 << 20}
	for _, opt := range opts {
		opt(&st)
	}
	rw := responder{log: st.log, maxBodyBytes: st.maxBodyBytes}
	return &Server{
		healthHandler:      NewHealthHandler(),
		frameworkHandler:   NewFrameworkHandler(),
		teachersHandler:    &TeachersHandler{responder: rw, deps: deps, obs: deps, now: st.now},
		observationHandler: &ObservationsHandler{responder: rw, deps: deps, roster: deps, now: st.now},
		meetingsHandler:    &MeetingsHandler{responder: rw, deps: deps},
		reportsHandler:     &ReportsHandler{responder: rw, deps: deps},
		backupHandler:      &BackupHandler{responder: rw, deps: deps, now: st.now},
	}
}

type route struct {
	pattern  string
	endpoint string
	handler  http.HandlerFunc
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(mux *http.ServeMux) {
	t, o, m, rp, b := s.teachersHandler, s.observationHandler, s.meetingsHandler, s.reportsHandler, s.backupHandler
	routes := []route{
		{"GET /healthz", "healthz", s.healthHandler.HandleHealth},
		{"GET /metrics", "metrics", s.healthHandler.HandleMetrics},
		{"GET /framework", "framework", s.frameworkHandler.HandleFramework},

		{"GET /teachers", "teachers", t.HandleList},
		{"POST /teachers", "teachers", t.HandleCreate},
		{"GET /teachers/{id}", "teacher", t.HandleGet},
		{"PUT /teachers/{id}", "teacher", t.HandleUpdate},
		{"DELETE /teachers/{id}", "teacher", t.HandleDelete},
		{"GET /teachers/{id}/profile", "teacher_profile", t.HandleProfile},
		{"GET /teachers/{id}/report.pdf", "teacher_report", t.HandleReportPDF},

		{"GET /observations", "observations", o.HandleList},
		{"POST /observations", "observations", o.HandleCreate},
		{"GET /observations/new", "observation_draft", o.HandleDraft},
		{"POST /observations/score", "observation_score", o.HandleScore},
		{"GET /observations/export.csv", "observations_csv", o.HandleCSV},
		{"GET /observations/export.xlsx", "observations_xlsx", o.HandleXLSX},
		{"GET /observations/{id}", "observation", o.HandleGet},
		{"PUT /observations/{id}", "observation", o.HandleUpdate},
		{"DELETE /observations/{id}", "observation", o.HandleDelete},
		{"GET /observations/{id}/report.pdf", "observation_report", o.HandleReportPDF},

		{"GET /meetings", "meetings", m.HandleList},
		{"POST /meetings", "meetings", m.HandleCreate},
		{"GET /meetings/new", "meeting_draft", m.HandleDraft},
		{"GET /meetings/{id}", "meeting", m.HandleGet},
		{"PUT /meetings/{id}", "meeting", m.HandleUpdate},
		{"DELETE /meetings/{id}", "meeting", m.HandleDelete},

		{"GET /reports/dashboard", "report_dashboard", rp.HandleDashboard},
		{"GET /reports/school", "report_school", rp.HandleSchool},
		{"GET /reports/teachers", "report_teachers", rp.HandleTeachers},
		{"GET /reports/domains", "report_domains", rp.HandleDomains},

		{"GET /backup", "backup", b.HandleExport},
		{"POST /backup", "backup", b.HandleImport},
		{"DELETE /data", "data", b.HandleClear},
	}
	for _, rt := range routes {
		mux.HandleFunc(rt.pattern, MetricsMiddleware(rt.handler, rt.endpoint))
	}
}

// Handler returns a mux with every route registered.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.Register(mux)
	return mux
}

type errorResponse struct {
	Code    string               `json:"code"`
	Message string               `json:"message"`
	Fields  []service.FieldError `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// responder holds what every handler needs to decode requests and report failures.
type responder struct {
	log          logger.Logger
	maxBodyBytes int64
}

// fail maps service errors onto status codes.
func (rw responder) fail(w http.ResponseWriter, r *http.Request, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Code: "validation_error", Message: verr.Error(), Fields: verr.Fields})
	case errors.Is(err, service.ErrInvalidFormat):
		writeError(w, http.StatusBadRequest, "invalid_format", err)
	case errors.Is(err, service.ErrNotConfirmed):
		writeError(w, http.StatusBadRequest, "not_confirmed", err)
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, service.ErrConstraint):
		writeError(w, http.StatusConflict, "conflict", err)
	case errors.Is(err, service.ErrStorageUnavailable):
		rw.log.Error(r.Context(), "storage unavailable", logger.String("path", r.URL.Path), logger.Error(err))
		writeError(w, http.StatusServiceUnavailable, "storage_unavailable", err)
	default:
		rw.log.Error(r.Context(), "request failed", logger.String("path", r.URL.Path), logger.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", nil)
	}
}

func (rw responder) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, rw.maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		readFailed(w, err)
		return false
	}
	return true
}

func (rw responder) body(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	b, err := io.ReadAll(http.MaxBytesReader(w, r.Body, rw.maxBodyBytes))
	if err != nil {
		readFailed(w, err)
		return nil, false
	}
	return b, true
}

// readFailed reports an oversized body as 413 and any other read or decode failure as 400.
func readFailed(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, "too_large", err)
		return
	}
	writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %w", ErrBadRequest, err))
}

// pathID parses the {id} wildcard.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_id", fmt.Errorf("%w: %q", ErrInvalidID, r.PathValue("id")))
		return 0, false
	}
	return id, true
}

// teacherFilter parses the optional ?teacherId= query parameter.
func teacherFilter(w http.ResponseWriter, r *http.Request) (int64, bool, bool) {
	raw := r.URL.Query().Get("teacherId")
	if raw == "" {
		return 0, false, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_id", fmt.Errorf("%w: teacherId %q", ErrInvalidID, raw))
		return 0, false, false
	}
	return id, true, true
}

func attachment(w http.ResponseWriter, contentType, name string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
}
