package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/clipsentry/clipsentry/internal/audit"
	"github.com/clipsentry/clipsentry/internal/models"
	"github.com/clipsentry/clipsentry/internal/service"
)

type mockEntryRepo struct {
	CreateEntryFunc    func(ctx context.Context, e *models.ClipboardEntry) (*models.ClipboardEntry, error)
	LatestEntryFunc    func(ctx context.Context, ownerID string, now time.Time) (*models.ClipboardEntry, error)
	EntriesByOwnerFunc func(ctx context.Context, ownerID string, now time.Time, limit, offset int) ([]models.ClipboardEntry, error)
}

func (m *mockEntryRepo) CreateEntry(ctx context.Context, e *models.ClipboardEntry) (*models.ClipboardEntry, error) {
	return m.CreateEntryFunc(ctx, e)
}
func (m *mockEntryRepo) LatestEntry(ctx context.Context, ownerID string, now time.Time) (*models.ClipboardEntry, error) {
	return m.LatestEntryFunc(ctx, ownerID, now)
}
func (m *mockEntryRepo) EntriesByOwner(ctx context.Context, ownerID string, now time.Time, limit, offset int) ([]models.ClipboardEntry, error) {
	return m.EntriesByOwnerFunc(ctx, ownerID, now, limit, offset)
}

// memAuditStore backs an audit.Chain in tests.
type memAuditStore struct {
	mu      sync.Mutex
	entries []models.AuditLogEntry
	failPut bool
}

func (m *memAuditStore) LatestEntry(ctx context.Context) (*models.AuditLogEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.entries) == 0 {
		return nil, nil
	}
	e := m.entries[len(m.entries)-1]
	return &e, nil
}

func (m *memAuditStore) CreateEntry(ctx context.Context, e *models.AuditLogEntry) (*models.AuditLogEntry, error) {
	if m.failPut {
		return nil, errors.New("audit db down")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, *e)
	return e, nil
}

func newTestChain(t *testing.T) (*audit.Chain, *memAuditStore) {
	t.Helper()
	signer, err := audit.NewSigner([]byte("service-test-secret"))
	if err != nil {
		t.Fatalf("NewSigner: %v", err)
	}
	store := &memAuditStore{}
	return audit.NewChain(signer, store), store
}

func TestUpload_AppendsCopyAudit(t *testing.T) {
	chain, store := newTestChain(t)
	repo := &mockEntryRepo{
		CreateEntryFunc: func(ctx context.Context, e *models.ClipboardEntry) (*models.ClipboardEntry, error) {
			out := *e
			out.ID = "e1"
			out.CreatedAt = time.Now().UTC()
			return &out, nil
		},
	}
	svc := service.NewEntryService(repo, chain)

	created, err := svc.Upload(context.Background(), &models.ClipboardEntry{
		OwnerID: "u1", DeviceID: "d1", Ciphertext: "cafe", ContentType: "text",
	})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if created.ID != "e1" {
		t.Errorf("created ID = %q", created.ID)
	}

	if len(store.entries) != 1 {
		t.Fatalf("audit entries = %d; want 1", len(store.entries))
	}
	got := store.entries[0]
	if got.Action != models.ActionCopy || got.Status != models.StatusSuccess {
		t.Errorf("audit entry = %+v; want copy/success", got)
	}
	if got.ContentHash == "" || got.ContentHash == "cafe" {
		t.Errorf("content hash %q must fingerprint the ciphertext, not repeat it", got.ContentHash)
	}
}

func TestUpload_RepoError(t *testing.T) {
	chain, store := newTestChain(t)
	wantErr := errors.New("insert failed")
	repo := &mockEntryRepo{
		CreateEntryFunc: func(ctx context.Context, e *models.ClipboardEntry) (*models.ClipboardEntry, error) {
			return nil, wantErr
		},
	}
	svc := service.NewEntryService(repo, chain)

	_, err := svc.Upload(context.Background(), &models.ClipboardEntry{OwnerID: "u1", DeviceID: "d1"})
	if !errors.Is(err, wantErr) {
		t.Errorf("err = %v; want %v", err, wantErr)
	}
	if len(store.entries) != 0 {
		t.Error("failed upload still produced an audit entry")
	}
}

func TestUpload_AuditFailureNotCommitted(t *testing.T) {
	chain, store := newTestChain(t)
	store.failPut = true
	repo := &mockEntryRepo{
		CreateEntryFunc: func(ctx context.Context, e *models.ClipboardEntry) (*models.ClipboardEntry, error) {
			out := *e
			out.ID = "e1"
			return &out, nil
		},
	}
	svc := service.NewEntryService(repo, chain)

	if _, err := svc.Upload(context.Background(), &models.ClipboardEntry{OwnerID: "u1", DeviceID: "d1"}); err == nil {
		t.Fatal("expected error when the audit append fails")
	}
}

func TestLatest_Delegates(t *testing.T) {
	chain, _ := newTestChain(t)
	want := &models.ClipboardEntry{ID: "e9", OwnerID: "u1"}
	repo := &mockEntryRepo{
		LatestEntryFunc: func(ctx context.Context, ownerID string, now time.Time) (*models.ClipboardEntry, error) {
			if ownerID != "u1" {
				t.Errorf("ownerID = %q; want u1", ownerID)
			}
			return want, nil
		},
	}
	svc := service.NewEntryService(repo, chain)

	got, err := svc.Latest(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if got != want {
		t.Errorf("got %+v; want %+v", got, want)
	}
}
