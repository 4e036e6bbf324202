// Package keystore protects master keys at rest. A key is encrypted under a
// password-derived key and persisted as a single SecureRecord through the
// tiered record store. AES-GCM is the primary cipher; a byte-wise XOR
// keystream keeps protect available when the AEAD cannot run, at the cost of
// every guarantee AEAD gives — records name the algorithm that actually
// protected them so Reveal never guesses.
package keystore

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/skralg/shardvault/internal/kdf"
	"github.com/skralg/shardvault/internal/provider"
	"github.com/skralg/shardvault/internal/store"
)

// DefaultKeyName is the logical name the vault facade protects the master
// key under.
const DefaultKeyName = "master"

// fallbackIVLength sizes the keystream IV on the XOR path.
const fallbackIVLength = 16

var (
	// ErrValidation reports unusable protect input.
	ErrValidation = errors.New("keystore: invalid input")

	// ErrBadRecord reports a stored record that fails structural checks.
	ErrBadRecord = errors.New("keystore: malformed secure record")

	// ErrWrongPassword is the single condition Reveal reports for a wrong
	// password or an absent record. It deliberately hides which internal
	// check failed so callers cannot be used as a password oracle.
	ErrWrongPassword = errors.New("keystore: wrong password or missing key")
)

// Store encrypts master keys and persists the resulting records.
type Store struct {
	records store.RecordStore
	crypto  provider.Provider
	log     *logrus.Logger
	now     func() time.Time
}

// New builds a keystore over the given record store and crypto provider.
// now supplies record timestamps; nil selects time.Now.
func New(records store.RecordStore, crypto provider.Provider, log *logrus.Logger, now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{records: records, crypto: crypto, log: log, now: now}
}

// Protect derives a key from password under a fresh salt, encrypts
// masterKey with it and persists the record under name as one atomic write.
// Provider failures degrade to the documented fallbacks and are recorded in
// the persisted algorithm and iteration fields; a successful provider call
// is never re-done with weaker cryptography.
func (s *Store) Protect(name string, masterKey []byte, password string) error {
	if len(masterKey) == 0 {
		return fmt.Errorf("%w: master key must not be empty", ErrValidation)
	}
	if password == "" {
		return fmt.Errorf("%w: password must not be empty", ErrValidation)
	}
	if name == "" {
		return fmt.Errorf("%w: record name must not be empty", ErrValidation)
	}

	material, err := kdf.Derive(s.crypto, password, nil)
	if err != nil {
		return fmt.Errorf("deriving record key: %w", err)
	}
	if material.Method == kdf.MethodFallback {
		s.log.WithField("record", name).
			Warn("primary key derivation unavailable, record protected with fallback hash")
	}

	record := SecureRecord{
		Salt:        material.SaltHex(),
		Version:     RecordVersion,
		Iterations:  material.Iterations(),
		KeyEncoding: "hex",
		CreatedAt:   s.now().UTC().Format(time.RFC3339),
	}

	ciphertext, nonce, err := s.crypto.Seal(material.Key, masterKey)
	if err == nil {
		record.Algorithm = AlgorithmAESGCM
		record.EncryptedKey = hex.EncodeToString(ciphertext)
		record.IV = hex.EncodeToString(nonce)
	} else {
		s.log.WithError(err).WithField("record", name).
			Warn("AEAD unavailable, record protected with XOR fallback")
		iv, ivErr := s.crypto.RandomBytes(fallbackIVLength)
		if ivErr != nil {
			return fmt.Errorf("generating fallback iv: %w", ivErr)
		}
		record.Algorithm = AlgorithmXORFallback
		record.EncryptedKey = hex.EncodeToString(xorKeystream(masterKey, material.Key, iv))
		record.IV = hex.EncodeToString(iv)
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encoding secure record: %w", err)
	}
	if err := s.records.Put(name, data); err != nil {
		return fmt.Errorf("persisting secure record: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"record":    name,
		"algorithm": record.Algorithm,
	}).Debug("protected master key")
	return nil
}

// Reveal loads the record for name, re-derives its key from password with
// the stored salt and method, and decrypts with exactly the algorithm the
// record names.
//
// With AES-GCM a wrong password fails authentication and surfaces as
// ErrWrongPassword. The XOR fallback cannot detect a wrong key: it returns
// garbage bytes without error. That asymmetry is inherent to the fallback
// and documented here rather than papered over.
func (s *Store) Reveal(name, password string) ([]byte, error) {
	data, err := s.records.Get(name)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrWrongPassword
		}
		return nil, fmt.Errorf("loading secure record: %w", err)
	}

	var record SecureRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadRecord, err)
	}
	if err := record.validate(); err != nil {
		return nil, err
	}

	salt, _ := hex.DecodeString(record.Salt) // hex checked by validate

	method := kdf.MethodPrimary
	if record.Iterations == kdf.FallbackRounds {
		method = kdf.MethodFallback
	}
	material, err := kdf.DeriveWithMethod(s.crypto, password, salt, method)
	if err != nil {
		return nil, ErrWrongPassword
	}

	encrypted, _ := hex.DecodeString(record.EncryptedKey)
	iv, _ := hex.DecodeString(record.IV)

	switch record.Algorithm {
	case AlgorithmAESGCM:
		masterKey, err := s.crypto.Open(material.Key, iv, encrypted)
		if err != nil {
			return nil, ErrWrongPassword
		}
		return masterKey, nil
	case AlgorithmXORFallback:
		return xorKeystream(encrypted, material.Key, iv), nil
	default:
		return nil, fmt.Errorf("%w: unknown algorithm %q", ErrBadRecord, record.Algorithm)
	}
}

// Delete removes the record for name from storage.
func (s *Store) Delete(name string) error {
	return s.records.Delete(name)
}

// List returns the names of all stored records.
func (s *Store) List() ([]string, error) {
	return s.records.List()
}

// xorKeystream XORs data with the key and iv bytes cycled over its length.
// Self-inverse and unauthenticated.
func xorKeystream(data, key, iv []byte) []byte {
	out := make([]byte, len(data))
	for i, b := range data {
		out[i] = b ^ key[i%len(key)] ^ iv[i%len(iv)]
	}
	return out
}
