// Package http provides the HTTP handlers for clipboard sync, paste
// validation, and audit log access.
package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/clipsentry/clipsentry/internal/middleware"
	"github.com/clipsentry/clipsentry/internal/models"
)

// EntryService defines the clipboard operations required by the handlers.
type EntryService interface {
	// Upload persists a new entry and audits the copy.
	Upload(ctx context.Context, e *models.ClipboardEntry) (*models.ClipboardEntry, error)
	// Latest returns the newest unexpired entry for the user, or nil.
	Latest(ctx context.Context, ownerID string) (*models.ClipboardEntry, error)
	// History returns recent entries newest first.
	History(ctx context.Context, ownerID string, limit, offset int) ([]models.ClipboardEntry, error)
}

// ClipboardHandler handles clipboard entry requests.
type ClipboardHandler struct {
	EntryService EntryService
	Validate     *validator.Validate
}

// UploadRequest is the JSON payload for POST /api/clipboard. The ciphertext
// arrives already encrypted; the server stores it opaque.
type UploadRequest struct {
	Ciphertext         string                    `json:"ciphertext" validate:"required"`
	ContentType        string                    `json:"content_type" validate:"required"`
	EncryptionMetadata models.EncryptionMetadata `json:"encryption_metadata" validate:"required"`
	ExpiresAt          *time.Time                `json:"expires_at,omitempty"`
}

// Upload handles POST /api/clipboard requests.
func (h *ClipboardHandler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := middleware.GetIdentityFromContext(ctx)

	var req UploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if err := h.Validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	entry := &models.ClipboardEntry{
		OwnerID:            id.UserID,
		DeviceID:           id.DeviceID,
		Ciphertext:         req.Ciphertext,
		ContentType:        req.ContentType,
		EncryptionMetadata: req.EncryptionMetadata,
		ExpiresAt:          req.ExpiresAt,
	}

	created, err := h.EntryService.Upload(ctx, entry)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(created)
}

// Latest handles GET /api/clipboard/latest requests. Responds 204 when the
// user has no unexpired entries.
func (h *ClipboardHandler) Latest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := middleware.GetIdentityFromContext(ctx)

	entry, err := h.EntryService.Latest(ctx, id.UserID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if entry == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(entry)
}

// History handles GET /api/clipboard/history?limit=&offset= requests.
func (h *ClipboardHandler) History(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := middleware.GetIdentityFromContext(ctx)
	limit, offset := pageParams(r, 20)

	entries, err := h.EntryService.History(ctx, id.UserID, limit, offset)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []models.ClipboardEntry{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(entries)
}

// pageParams parses limit/offset query parameters with a default page size.
func pageParams(r *http.Request, defaultLimit int) (limit, offset int) {
	limit = defaultLimit
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 && v <= 100 {
		limit = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && v >= 0 {
		offset = v
	}
	return limit, offset
}
