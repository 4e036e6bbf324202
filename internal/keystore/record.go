package keystore

import (
	"encoding/hex"
	"fmt"

	"github.com/skralg/shardvault/internal/kdf"
)

// saltLength pins the salt size records are written with.
const saltLength = kdf.SaltLength

// RecordVersion is written into every new record. Readers use it together
// with Algorithm to pick the decrypt path, so old records stay readable
// after format changes.
const RecordVersion = 2

// Algorithms a record can name.
const (
	AlgorithmAESGCM      = "AES-GCM"
	AlgorithmXORFallback = "XOR-FALLBACK"
)

// SecureRecord is the at-rest representation of a protected master key.
// It is persisted as one JSON document and written atomically; a concurrent
// reader sees either the whole record or none of it.
type SecureRecord struct {
	EncryptedKey string `json:"encryptedKey"`
	IV           string `json:"iv"`
	Salt         string `json:"salt"`
	Version      int    `json:"version"`
	Algorithm    string `json:"algorithm"`
	Iterations   int    `json:"iterations"`
	KeyEncoding  string `json:"keyEncoding"`
	CreatedAt    string `json:"createdAt"`
}

// validate checks the structural invariants of a record read from storage.
func (r *SecureRecord) validate() error {
	if r.Version <= 0 || r.Version > RecordVersion {
		return fmt.Errorf("%w: unsupported version %d", ErrBadRecord, r.Version)
	}
	if r.Algorithm != AlgorithmAESGCM && r.Algorithm != AlgorithmXORFallback {
		return fmt.Errorf("%w: unknown algorithm %q", ErrBadRecord, r.Algorithm)
	}
	if r.Iterations <= 0 {
		return fmt.Errorf("%w: nonpositive iteration count", ErrBadRecord)
	}
	for field, value := range map[string]string{
		"encryptedKey": r.EncryptedKey,
		"iv":           r.IV,
		"salt":         r.Salt,
	} {
		if value == "" {
			return fmt.Errorf("%w: missing %s", ErrBadRecord, field)
		}
		if _, err := hex.DecodeString(value); err != nil {
			return fmt.Errorf("%w: %s is not valid hex", ErrBadRecord, field)
		}
	}
	if len(r.Salt) != 2*saltLength {
		return fmt.Errorf("%w: salt must be %d bytes", ErrBadRecord, saltLength)
	}
	return nil
}
