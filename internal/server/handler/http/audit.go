package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/clipsentry/clipsentry/internal/audit"
	"github.com/clipsentry/clipsentry/internal/models"
)

// AuditService defines the audit log operations required by the handlers.
type AuditService interface {
	// List returns recent audit entries newest first.
	List(ctx context.Context, limit, offset int) ([]models.AuditLogEntry, error)
	// Verify walks the full chain and reports the first broken entry.
	Verify(ctx context.Context) (audit.VerificationResult, error)
}

// AuditHandler serves the audit log to the dashboard.
type AuditHandler struct {
	AuditService AuditService
}

// List handles GET /api/audit?limit=&offset= requests.
func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r, 50)

	entries, err := h.AuditService.List(r.Context(), limit, offset)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []models.AuditLogEntry{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(entries)
}

// Verify handles GET /api/audit/verify requests.
func (h *AuditHandler) Verify(w http.ResponseWriter, r *http.Request) {
	result, err := h.AuditService.Verify(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(result)
}
