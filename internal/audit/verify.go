package audit

import "github.com/clipsentry/clipsentry/internal/models"

// VerificationResult reports the outcome of a chain walk.
type VerificationResult struct {
	OK bool `json:"ok"`
	// Entries is the number of entries checked.
	Entries int `json:"entries"`
	// FirstMismatch is the index of the first entry whose linkage or
	// signature does not verify, or -1 when the chain is intact.
	FirstMismatch int `json:"first_mismatch"`
}

// VerifyChain walks entries oldest to newest, checking that each entry
// links to its predecessor's stored signature and that its own signature
// recomputes from its stored fields. Read-only.
//
// An entry is checked against the predecessor's *stored* signature, so a
// tampered entry k is reported at index k: entry k+1 was signed over the
// stored value and still verifies.
func (s *Signer) VerifyChain(entries []models.AuditLogEntry) VerificationResult {
	prevHash := GenesisHash
	for i := range entries {
		e := &entries[i]
		if e.PreviousLogHash != prevHash {
			return VerificationResult{OK: false, Entries: len(entries), FirstMismatch: i}
		}
		if s.Sign(e) != e.IntegritySignature {
			return VerificationResult{OK: false, Entries: len(entries), FirstMismatch: i}
		}
		prevHash = e.IntegritySignature
	}
	return VerificationResult{OK: true, Entries: len(entries), FirstMismatch: -1}
}
