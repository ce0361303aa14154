// Package models defines the core data structures shared by the agent
// and the backend: clipboard entries, audit log rows, and paste rules.
package models

import "time"

// ClipboardEntry is a single encrypted clipboard payload stored on the server.
// The ciphertext is opaque to every component except a holder of the content key.
type ClipboardEntry struct {
	// ID is assigned by the persistence layer on creation.
	ID string `json:"id"`
	// OwnerID identifies the user the entry belongs to.
	OwnerID string `json:"owner_id"`
	// DeviceID identifies the originating device.
	DeviceID string `json:"device_id"`
	// Ciphertext is the hex-encoded AES-GCM output. Never plaintext.
	Ciphertext string `json:"ciphertext"`
	// ContentType tags the payload ("text", "code", "password"). Informational only.
	ContentType string `json:"content_type"`
	// EncryptionMetadata describes how the ciphertext was produced,
	// sufficient for any holder of the matching key to decrypt.
	EncryptionMetadata EncryptionMetadata `json:"encryption_metadata"`
	// CreatedAt is set by the persistence layer.
	CreatedAt time.Time `json:"created_at"`
	// ExpiresAt, when set, marks the point past which readers treat
	// the entry as absent.
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// Expired reports whether the entry should be treated as absent at the given time.
func (e *ClipboardEntry) Expired(now time.Time) bool {
	return e.ExpiresAt != nil && !e.ExpiresAt.After(now)
}

// EncryptionMetadata is self-describing: algorithm plus nonce, never the key.
type EncryptionMetadata struct {
	// Algorithm identifies the AEAD algorithm, e.g. "AES-GCM".
	Algorithm string `json:"algorithm"`
	// IV is the hex-encoded nonce used for this ciphertext.
	IV string `json:"iv"`
	// KeyLength is the key size in bits.
	KeyLength int `json:"key_length"`
}

// AuditAction is the closed set of auditable actions.
type AuditAction string

const (
	ActionCopy            AuditAction = "copy"
	ActionAllow           AuditAction = "allow"
	ActionBlock           AuditAction = "block"
	ActionKeyRotation     AuditAction = "key_rotation"
	ActionLogin           AuditAction = "login"
	ActionPolicyViolation AuditAction = "policy_violation"
)

// AuditStatus is the outcome recorded with an audit entry.
type AuditStatus string

const (
	StatusSuccess AuditStatus = "success"
	StatusBlocked AuditStatus = "blocked"
	StatusDenied  AuditStatus = "denied"
)

// AuditLogEntry is one row of the tamper-evident audit log. Rows form a
// singly linked hash chain ordered by timestamp: each entry carries the
// integrity signature of its predecessor, and its own keyed signature over
// all fields including that predecessor hash. Append-only.
type AuditLogEntry struct {
	ID          string      `json:"id"`
	Timestamp   time.Time   `json:"timestamp"`
	ActorUserID string      `json:"actor_user_id"`
	DeviceID    string      `json:"device_id"`
	Action      AuditAction `json:"action"`
	// TargetDomain and TargetApplication are set for paste-validation actions.
	TargetDomain      string      `json:"target_domain,omitempty"`
	TargetApplication string      `json:"target_application,omitempty"`
	ContentHash       string      `json:"content_hash"`
	Status            AuditStatus `json:"status"`
	// PreviousLogHash is the integrity signature of the chronologically
	// previous entry, or the genesis marker for the first entry.
	PreviousLogHash string `json:"previous_log_hash"`
	// IntegritySignature is the HMAC over the canonical serialization of
	// this entry's fields and PreviousLogHash.
	IntegritySignature string `json:"integrity_signature"`
}

// RuleType distinguishes whitelist from blacklist rules.
type RuleType string

const (
	RuleWhitelist RuleType = "whitelist"
	RuleBlacklist RuleType = "blacklist"
)

// DomainRule restricts paste destinations by domain. Pattern matches the
// destination exactly or as a substring.
type DomainRule struct {
	ID             string   `json:"id"`
	OrganizationID string   `json:"organization_id"`
	Pattern        string   `json:"pattern"`
	RuleType       RuleType `json:"rule_type"`
	IsActive       bool     `json:"is_active"`
}

// ApplicationRule restricts paste destinations by application name.
// Matching is case-insensitive substring.
type ApplicationRule struct {
	ID             string   `json:"id"`
	OrganizationID string   `json:"organization_id"`
	Pattern        string   `json:"pattern"`
	RuleType       RuleType `json:"rule_type"`
	IsActive       bool     `json:"is_active"`
}
