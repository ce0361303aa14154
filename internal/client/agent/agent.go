package agent

import (
	"context"
	"encoding/hex"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/clipsentry/clipsentry/internal/client/crypto"
	"github.com/clipsentry/clipsentry/internal/hash"
	"github.com/clipsentry/clipsentry/internal/models"
	"github.com/clipsentry/clipsentry/internal/policy"
)

// SyncStatus describes what the coordinator is currently doing.
type SyncStatus string

const (
	StatusIdle    SyncStatus = "idle"
	StatusSyncing SyncStatus = "syncing"
	StatusError   SyncStatus = "error"
)

// ClipboardState is the coordinator's view of the shared clipboard.
type ClipboardState struct {
	Content      string
	ContentType  string
	LastSyncedAt time.Time
	SyncStatus   SyncStatus
}

// Backend is the server API surface the coordinator needs.
type Backend interface {
	CreateEntry(ctx context.Context, e *models.ClipboardEntry) (*models.ClipboardEntry, error)
	LatestEntry(ctx context.Context) (*models.ClipboardEntry, error)
	ValidatePaste(ctx context.Context, dest policy.Destination, contentHash string) (policy.Verdict, error)
}

// Notifier receives paste verdicts so a UI can surface blocked pastes.
type Notifier interface {
	Notify(dest policy.Destination, verdict policy.Verdict)
}

type logNotifier struct{ log *zap.Logger }

func (n logNotifier) Notify(dest policy.Destination, verdict policy.Verdict) {
	if verdict.Allowed {
		return
	}
	n.log.Warn("paste blocked",
		zap.String("domain", dest.Domain),
		zap.String("application", dest.Application),
		zap.String("reason", verdict.Reason))
}

// Coordinator watches the OS clipboard, uploads changes encrypted, and pulls
// newer entries from the backend. A single mutex serializes the watch and
// pull paths, so local state never sees interleaved updates.
type Coordinator struct {
	api      Backend
	clip     Clipboard
	key      *crypto.Key
	log      *zap.Logger
	notifier Notifier

	pollInterval time.Duration
	pullInterval time.Duration
	entryTTL     time.Duration
	callTimeout  time.Duration

	mu           sync.Mutex
	state        ClipboardState
	lastRemoteAt time.Time
}

// NewCoordinator builds a coordinator. Pass a nil notifier to get the
// default one that logs blocked pastes.
func NewCoordinator(
	api Backend,
	clip Clipboard,
	key *crypto.Key,
	log *zap.Logger,
	notifier Notifier,
	pollInterval, pullInterval, entryTTL time.Duration,
) *Coordinator {
	if notifier == nil {
		notifier = logNotifier{log: log}
	}
	return &Coordinator{
		api:          api,
		clip:         clip,
		key:          key,
		log:          log,
		notifier:     notifier,
		pollInterval: pollInterval,
		pullInterval: pullInterval,
		entryTTL:     entryTTL,
		callTimeout:  10 * time.Second,
		state:        ClipboardState{SyncStatus: StatusIdle},
	}
}

// State returns a snapshot of the coordinator's clipboard state.
func (c *Coordinator) State() ClipboardState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Run pulls once immediately, then drives the watch and pull loops until the
// context is cancelled.
func (c *Coordinator) Run(ctx context.Context) {
	c.PullLatest(ctx)

	pollTicker := time.NewTicker(c.pollInterval)
	pullTicker := time.NewTicker(c.pullInterval)
	defer pollTicker.Stop()
	defer pullTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-pollTicker.C:
			c.CheckLocal(ctx)
		case <-pullTicker.C:
			c.PullLatest(ctx)
		}
	}
}

// CheckLocal reads the OS clipboard and uploads the content if it changed
// since the last sync.
func (c *Coordinator) CheckLocal(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	content, err := c.clip.Read()
	if err != nil {
		c.log.Warn("clipboard read failed", zap.Error(err))
		c.state.SyncStatus = StatusError
		return
	}
	if content == "" || content == c.state.Content {
		return
	}

	c.state.SyncStatus = StatusSyncing

	ciphertext, nonce, err := c.key.Encrypt([]byte(content))
	if err != nil {
		c.log.Error("encrypt clipboard content", zap.Error(err))
		c.state.SyncStatus = StatusError
		return
	}

	ivHex := hex.EncodeToString(nonce)
	expires := time.Now().UTC().Add(c.entryTTL)
	entry := &models.ClipboardEntry{
		Ciphertext:         hex.EncodeToString(ciphertext),
		ContentType:        "text",
		EncryptionMetadata: crypto.Metadata(ivHex),
		ExpiresAt:          &expires,
	}

	callCtx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()
	created, err := c.api.CreateEntry(callCtx, entry)
	if err != nil {
		c.log.Error("upload clipboard entry", zap.Error(err))
		c.state.SyncStatus = StatusError
		return
	}

	c.state = ClipboardState{
		Content:      content,
		ContentType:  entry.ContentType,
		LastSyncedAt: time.Now().UTC(),
		SyncStatus:   StatusIdle,
	}
	// Our own upload is now the newest remote entry; the next pull must not
	// treat it, or anything older, as new.
	if created.CreatedAt.After(c.lastRemoteAt) {
		c.lastRemoteAt = created.CreatedAt
	}
	c.log.Info("clipboard uploaded", zap.String("entry_id", created.ID))
}

// PullLatest fetches the newest remote entry and applies it to the OS
// clipboard, but only when it is strictly newer than everything already
// seen. A stale remote entry never overwrites fresher local content.
func (c *Coordinator) PullLatest(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	callCtx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()
	entry, err := c.api.LatestEntry(callCtx)
	if err != nil {
		c.log.Warn("pull latest entry", zap.Error(err))
		c.state.SyncStatus = StatusError
		return
	}
	if entry == nil || entry.Expired(time.Now().UTC()) || !entry.CreatedAt.After(c.lastRemoteAt) {
		return
	}

	ciphertext, err := hex.DecodeString(entry.Ciphertext)
	if err != nil {
		c.log.Error("malformed remote ciphertext", zap.String("entry_id", entry.ID), zap.Error(err))
		c.state.SyncStatus = StatusError
		return
	}
	nonce, err := hex.DecodeString(entry.EncryptionMetadata.IV)
	if err != nil {
		c.log.Error("malformed remote iv", zap.String("entry_id", entry.ID), zap.Error(err))
		c.state.SyncStatus = StatusError
		return
	}

	plaintext, err := c.key.Decrypt(ciphertext, nonce)
	if err != nil {
		// Fails closed: nothing reaches the clipboard.
		c.log.Error("decrypt remote entry", zap.String("entry_id", entry.ID), zap.Error(err))
		c.state.SyncStatus = StatusError
		return
	}

	if err := c.clip.Write(string(plaintext)); err != nil {
		c.log.Warn("clipboard write failed", zap.Error(err))
		c.state.SyncStatus = StatusError
		return
	}

	c.state = ClipboardState{
		Content:      string(plaintext),
		ContentType:  entry.ContentType,
		LastSyncedAt: time.Now().UTC(),
		SyncStatus:   StatusIdle,
	}
	c.lastRemoteAt = entry.CreatedAt
}

// ValidateDestination asks the server whether the current clipboard content
// may be pasted into the destination, and notifies on a denial.
func (c *Coordinator) ValidateDestination(ctx context.Context, dest policy.Destination) (policy.Verdict, error) {
	c.mu.Lock()
	content := c.state.Content
	c.mu.Unlock()

	if content == "" {
		return policy.Verdict{Allowed: true, Reason: "no content"}, nil
	}

	callCtx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()
	verdict, err := c.api.ValidatePaste(callCtx, dest, hash.SumString(content))
	if err != nil {
		return policy.Verdict{}, err
	}

	c.notifier.Notify(dest, verdict)
	return verdict, nil
}
