package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/clipsentry/clipsentry/internal/middleware"
	"github.com/clipsentry/clipsentry/internal/models"
	"github.com/clipsentry/clipsentry/internal/policy"
	"github.com/clipsentry/clipsentry/internal/service"
)

// ValidationService defines the paste-validation operations required by the
// handlers.
type ValidationService interface {
	// ValidatePaste evaluates the destination and audits the decision.
	ValidatePaste(ctx context.Context, id service.Identity, dest policy.Destination, contentHash string) (policy.Verdict, error)
	// ActiveRules returns the organization's active rule sets.
	ActiveRules(ctx context.Context, orgID string) ([]models.DomainRule, []models.ApplicationRule, error)
}

// PasteHandler handles paste validation and rule listing.
type PasteHandler struct {
	ValidationService ValidationService
	Validate          *validator.Validate
}

// ValidateRequest is the JSON payload for POST /api/paste/validate.
// At least the content hash is required; domain and application are each
// optional dimensions.
type ValidateRequest struct {
	Domain      string `json:"domain,omitempty"`
	Application string `json:"application,omitempty"`
	ContentHash string `json:"content_hash" validate:"required"`
}

// ValidatePaste handles POST /api/paste/validate requests.
func (h *PasteHandler) ValidatePaste(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := middleware.GetIdentityFromContext(ctx)

	var req ValidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if err := h.Validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	verdict, err := h.ValidationService.ValidatePaste(ctx,
		service.Identity{UserID: id.UserID, OrgID: id.OrgID, DeviceID: id.DeviceID},
		policy.Destination{Domain: req.Domain, Application: req.Application},
		req.ContentHash)
	if err != nil {
		// The decision could not be audited; do not report a verdict.
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(verdict)
}

// Rules handles GET /api/rules requests for the dashboard.
func (h *PasteHandler) Rules(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := middleware.GetIdentityFromContext(ctx)

	domainRules, appRules, err := h.ValidationService.ActiveRules(ctx, id.OrgID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := struct {
		DomainRules      []models.DomainRule      `json:"domain_rules"`
		ApplicationRules []models.ApplicationRule `json:"application_rules"`
	}{domainRules, appRules}
	if resp.DomainRules == nil {
		resp.DomainRules = []models.DomainRule{}
	}
	if resp.ApplicationRules == nil {
		resp.ApplicationRules = []models.ApplicationRule{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}
