package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/okian/architect/internal/domain/model"
	"github.com/okian/architect/internal/domain/rubric"
	"github.com/okian/architect/pkg/metrics"
)

// HealthHandler serves liveness and metrics.
type HealthHandler struct {
	metrics http.Handler
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{
		metrics: promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}),
	}
}

// HandleHealth handles GET /healthz requests.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HandleMetrics handles GET /metrics requests from our custom registry.
func (h *HealthHandler) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	h.metrics.ServeHTTP(w, r)
}

// FrameworkHandler serves the static rubric.
type FrameworkHandler struct{}

// NewFrameworkHandler creates a new framework handler.
func NewFrameworkHandler() *FrameworkHandler {
	return &FrameworkHandler{}
}

type frameworkResponse struct {
	Domains      []model.Domain      `json:"domains"`
	Scale        []rubric.Tier       `json:"scale"`
	MeetingAreas []rubric.GrowthArea `json:"meetingAreas"`
}

// HandleFramework handles GET /framework requests.
func (h *FrameworkHandler) HandleFramework(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, frameworkResponse{
		Domains:      rubric.Framework(),
		Scale:        rubric.Scale(),
		MeetingAreas: rubric.MeetingAreas(),
	})
}
