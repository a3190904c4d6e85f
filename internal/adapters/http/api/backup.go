package api

import (
	"net/http"
	"time"

	"github.com/okian/architect/internal/domain/backup"
)

// BackupHandler serves backup export, import and the destructive clear.
type BackupHandler struct {
	responder
	deps Backups
	now  func() time.Time
}

// HandleExport handles GET /backup.
func (h *BackupHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	data, err := h.deps.ExportJSON(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	attachment(w, "application/json", backup.FileName(h.now()))
	_, _ = w.Write(data)
}

// HandleImport handles POST /backup. Records are added, never replaced.
func (h *BackupHandler) HandleImport(w http.ResponseWriter, r *http.Request) {
	data, ok := h.body(w, r)
	if !ok {
		return
	}
	counts, err := h.deps.Import(r.Context(), data)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, counts)
}

// HandleClear handles DELETE /data?confirm=DELETE.
func (h *BackupHandler) HandleClear(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.ClearAll(r.Context(), r.URL.Query().Get("confirm")); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
