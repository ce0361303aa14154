package service

import (
	"context"

	"github.com/clipsentry/clipsentry/internal/audit"
	"github.com/clipsentry/clipsentry/internal/models"
)

// AuditReader defines the read-side persistence operations for the audit log.
type AuditReader interface {
	// ListEntries returns audit entries newest first.
	ListEntries(ctx context.Context, limit, offset int) ([]models.AuditLogEntry, error)
	// AllEntriesAsc returns the full log oldest first.
	AllEntriesAsc(ctx context.Context) ([]models.AuditLogEntry, error)
}

// AuditService exposes the audit log to the dashboard and runs chain
// verification.
type AuditService struct {
	reader AuditReader
	signer *audit.Signer
}

// NewAuditService constructs an AuditService.
func NewAuditService(reader AuditReader, signer *audit.Signer) *AuditService {
	return &AuditService{reader: reader, signer: signer}
}

// List returns recent audit entries, newest first.
func (s *AuditService) List(ctx context.Context, limit, offset int) ([]models.AuditLogEntry, error) {
	return s.reader.ListEntries(ctx, limit, offset)
}

// Verify walks the entire stored chain and reports the first broken entry,
// if any.
func (s *AuditService) Verify(ctx context.Context) (audit.VerificationResult, error) {
	entries, err := s.reader.AllEntriesAsc(ctx)
	if err != nil {
		return audit.VerificationResult{}, err
	}
	return s.signer.VerifyChain(entries), nil
}
