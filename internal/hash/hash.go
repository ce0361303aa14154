// Package hash computes content fingerprints used for audit linkage and
// policy dedup. The digest is one-way; plaintext never leaves the caller.
package hash

import (
	"crypto/sha256"
	"encoding/hex"
)

// Sum returns the lowercase hex SHA-256 digest of content.
// Deterministic: the same input always yields the same output.
func Sum(content []byte) string {
	digest := sha256.Sum256(content)
	return hex.EncodeToString(digest[:])
}

// SumString is a convenience wrapper for string content.
func SumString(content string) string {
	return Sum([]byte(content))
}
