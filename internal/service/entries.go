// Package service implements the backend business logic: clipboard entry
// storage, paste validation, and audit log access. Persistence is delegated
// to repository interfaces.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/clipsentry/clipsentry/internal/audit"
	"github.com/clipsentry/clipsentry/internal/hash"
	"github.com/clipsentry/clipsentry/internal/models"
)

// EntryRepository defines the persistence operations needed by the EntryService.
type EntryRepository interface {
	// CreateEntry persists a new entry, assigning ID and creation time.
	CreateEntry(ctx context.Context, e *models.ClipboardEntry) (*models.ClipboardEntry, error)
	// LatestEntry returns the newest unexpired entry for the owner, or nil.
	LatestEntry(ctx context.Context, ownerID string, now time.Time) (*models.ClipboardEntry, error)
	// EntriesByOwner returns the owner's unexpired entries newest first.
	EntriesByOwner(ctx context.Context, ownerID string, now time.Time, limit, offset int) ([]models.ClipboardEntry, error)
}

// EntryService stores clipboard entries and records a copy audit entry for
// every upload.
type EntryService struct {
	repo  EntryRepository
	chain *audit.Chain
}

// NewEntryService constructs an EntryService.
func NewEntryService(repo EntryRepository, chain *audit.Chain) *EntryService {
	return &EntryService{repo: repo, chain: chain}
}

// Upload persists the entry and appends a copy record to the audit chain.
// The recorded content hash fingerprints the ciphertext; the server never
// sees plaintext. If the audit append fails the upload is reported as
// failed: the log write is mandatory, not best-effort.
func (s *EntryService) Upload(ctx context.Context, e *models.ClipboardEntry) (*models.ClipboardEntry, error) {
	created, err := s.repo.CreateEntry(ctx, e)
	if err != nil {
		return nil, err
	}

	_, err = s.chain.Append(ctx, audit.Draft{
		ActorUserID: created.OwnerID,
		DeviceID:    created.DeviceID,
		Action:      models.ActionCopy,
		ContentHash: hash.SumString(created.Ciphertext),
		Status:      models.StatusSuccess,
	})
	if err != nil {
		return nil, fmt.Errorf("audit copy: %w", err)
	}
	return created, nil
}

// Latest returns the newest unexpired entry for the user, or nil.
func (s *EntryService) Latest(ctx context.Context, ownerID string) (*models.ClipboardEntry, error) {
	return s.repo.LatestEntry(ctx, ownerID, time.Now().UTC())
}

// History returns the user's recent entries newest first.
func (s *EntryService) History(ctx context.Context, ownerID string, limit, offset int) ([]models.ClipboardEntry, error) {
	return s.repo.EntriesByOwner(ctx, ownerID, time.Now().UTC(), limit, offset)
}
