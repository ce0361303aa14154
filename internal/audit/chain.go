// Package audit implements the tamper-evident audit log chain.
//
// Each entry carries an HMAC-SHA256 signature over the canonical
// serialization of its fields plus the signature of the chronologically
// previous entry, forming a hash chain where retroactive tampering with any
// entry breaks verification from that point forward.
package audit

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/clipsentry/clipsentry/internal/models"
)

// GenesisHash is the previous-log-hash of the first entry in a chain.
const GenesisHash = "genesis"

// ErrEmptySecret is returned when a signer is constructed without a secret.
// The secret must come from configuration; there is no built-in default.
var ErrEmptySecret = errors.New("audit secret must not be empty")

// Store is the persistence collaborator the chain appends through.
type Store interface {
	// LatestEntry returns the most recent entry by timestamp, or nil if the
	// chain is empty.
	LatestEntry(ctx context.Context) (*models.AuditLogEntry, error)
	// CreateEntry persists a fully signed entry and returns it.
	CreateEntry(ctx context.Context, e *models.AuditLogEntry) (*models.AuditLogEntry, error)
}

// Draft holds the caller-supplied fields of an entry before it is chained
// and signed. ID, timestamp, previous hash and signature are filled in by
// Append.
type Draft struct {
	ActorUserID       string
	DeviceID          string
	Action            models.AuditAction
	TargetDomain      string
	TargetApplication string
	ContentHash       string
	Status            models.AuditStatus
}

// Signer computes and checks entry signatures with a secret key.
type Signer struct {
	secret []byte
}

// NewSigner creates a Signer from the configured secret.
func NewSigner(secret []byte) (*Signer, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}
	s := &Signer{secret: make([]byte, len(secret))}
	copy(s.secret, secret)
	return s, nil
}

// canonicalPayload is the serialization the signature covers. Field order is
// fixed by struct declaration, which encoding/json preserves.
type canonicalPayload struct {
	ActorUserID       string `json:"actor_user_id"`
	DeviceID          string `json:"device_id"`
	Action            string `json:"action"`
	TargetDomain      string `json:"target_domain,omitempty"`
	TargetApplication string `json:"target_application,omitempty"`
	ContentHash       string `json:"content_hash"`
	Status            string `json:"status"`
	PreviousLogHash   string `json:"previous_log_hash"`
	Timestamp         string `json:"timestamp"`
}

// Sign returns the hex HMAC-SHA256 signature for the entry's canonical
// serialization. The entry ID is excluded: it is assigned by persistence
// after signing.
func (s *Signer) Sign(e *models.AuditLogEntry) string {
	payload := canonicalPayload{
		ActorUserID:       e.ActorUserID,
		DeviceID:          e.DeviceID,
		Action:            string(e.Action),
		TargetDomain:      e.TargetDomain,
		TargetApplication: e.TargetApplication,
		ContentHash:       e.ContentHash,
		Status:            string(e.Status),
		PreviousLogHash:   e.PreviousLogHash,
		Timestamp:         e.Timestamp.UTC().Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(payload)
	mac := hmac.New(sha256.New, s.secret)
	mac.Write(b)
	return hex.EncodeToString(mac.Sum(nil))
}

// Chain appends entries to one logical audit chain.
//
// Append is serialized through an in-process mutex: two concurrent appends
// reading the same "latest entry" would otherwise both claim it as their
// predecessor and fork the chain. All writers must go through one Chain
// instance.
type Chain struct {
	signer *Signer
	store  Store

	mu sync.Mutex
}

// NewChain wires a signer to its persistence collaborator.
func NewChain(signer *Signer, store Store) *Chain {
	return &Chain{signer: signer, store: store}
}

// Append links the draft to the current chain head, signs it and persists
// it. If persisting fails the entry is not part of the chain and the caller
// must not treat the audited action as committed.
func (c *Chain) Append(ctx context.Context, d Draft) (*models.AuditLogEntry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	prev, err := c.store.LatestEntry(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch latest audit entry: %w", err)
	}
	prevHash := GenesisHash
	if prev != nil {
		prevHash = prev.IntegritySignature
	}

	entry := &models.AuditLogEntry{
		ID:                uuid.NewString(),
		Timestamp:         time.Now().UTC().Truncate(time.Microsecond),
		ActorUserID:       d.ActorUserID,
		DeviceID:          d.DeviceID,
		Action:            d.Action,
		TargetDomain:      d.TargetDomain,
		TargetApplication: d.TargetApplication,
		ContentHash:       d.ContentHash,
		Status:            d.Status,
		PreviousLogHash:   prevHash,
	}
	entry.IntegritySignature = c.signer.Sign(entry)

	created, err := c.store.CreateEntry(ctx, entry)
	if err != nil {
		return nil, fmt.Errorf("append audit entry: %w", err)
	}
	return created, nil
}
