// Package crypto implements authenticated encryption of clipboard payloads
// with AES-256-GCM. Key material stays inside the process; the only way to
// extract it is the explicit Export call used for key backup.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/clipsentry/clipsentry/internal/models"
)

const (
	// Algorithm is the identifier recorded in encryption metadata.
	Algorithm = "AES-GCM"
	// KeyBits is the key size recorded in encryption metadata.
	KeyBits = 256

	keyBytes  = KeyBits / 8
	nonceSize = 12
)

var (
	// ErrEncryption indicates the payload could not be encrypted.
	ErrEncryption = errors.New("encryption failed")
	// ErrDecryption indicates authentication or decryption failed.
	// Decryption fails closed: no partial plaintext is ever returned.
	ErrDecryption = errors.New("decryption failed")
)

// Key is a symmetric content key together with its AEAD cipher.
// The raw material is unexported and only reachable through Export.
type Key struct {
	aead cipher.AEAD
	raw  []byte
}

// GenerateKey creates a fresh random 256-bit content key.
func GenerateKey() (*Key, error) {
	raw := make([]byte, keyBytes)
	if _, err := rand.Read(raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncryption, err)
	}
	return KeyFromBytes(raw)
}

// KeyFromBytes wraps existing 256-bit key material, e.g. a team content key
// loaded from configuration.
func KeyFromBytes(raw []byte) (*Key, error) {
	if len(raw) != keyBytes {
		return nil, fmt.Errorf("%w: key must be %d bytes, got %d", ErrEncryption, keyBytes, len(raw))
	}
	block, err := aes.NewCipher(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncryption, err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncryption, err)
	}
	k := &Key{aead: aead, raw: make([]byte, keyBytes)}
	copy(k.raw, raw)
	return k, nil
}

// Export returns a copy of the raw key material. Exporting is an explicit,
// separately invoked operation; nothing else exposes the key.
func (k *Key) Export() []byte {
	out := make([]byte, len(k.raw))
	copy(out, k.raw)
	return out
}

// Encrypt seals plaintext with a fresh random nonce and returns the
// ciphertext and nonce separately.
func (k *Key) Encrypt(plaintext []byte) (ciphertext, nonce []byte, err error) {
	nonce = make([]byte, nonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrEncryption, err)
	}
	ciphertext = k.aead.Seal(nil, nonce, plaintext, nil)
	return ciphertext, nonce, nil
}

// Decrypt opens ciphertext produced by any holder of the same key.
// Any tag mismatch, corrupted ciphertext, or wrong nonce yields ErrDecryption.
func (k *Key) Decrypt(ciphertext, nonce []byte) ([]byte, error) {
	if len(nonce) != nonceSize {
		return nil, fmt.Errorf("%w: bad nonce length %d", ErrDecryption, len(nonce))
	}
	plaintext, err := k.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecryption, err)
	}
	return plaintext, nil
}

// Metadata builds the self-describing encryption metadata for a ciphertext
// sealed with the given hex-encoded nonce.
func Metadata(ivHex string) models.EncryptionMetadata {
	return models.EncryptionMetadata{
		Algorithm: Algorithm,
		IV:        ivHex,
		KeyLength: KeyBits,
	}
}
