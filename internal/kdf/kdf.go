// Package kdf derives symmetric keys from passwords. The primary path is
// PBKDF2-SHA256 through the platform provider; when that provider cannot
// derive, a deterministic xxhash construction keeps the store available.
// The fallback is clearly weaker and every result is tagged with the method
// that produced it so the record written to disk names the algorithm that
// actually protected it.
package kdf

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/cespare/xxhash/v2"

	"github.com/skralg/shardvault/internal/provider"
)

const (
	// Iterations is the PBKDF2 iteration count on the primary path.
	Iterations = 100000
	// FallbackRounds is the xxhash round count on the fallback path. It
	// doubles as the iterations value in persisted records, which is how
	// a later Reveal knows which derivation produced the record's key.
	FallbackRounds = 1000
	// KeyLength is the derived key size in bytes.
	KeyLength = 32
	// SaltLength is the required salt size in bytes.
	SaltLength = 16
)

// ErrSaltLength reports a caller-supplied salt of the wrong size.
var ErrSaltLength = errors.New("kdf: salt must be 16 bytes")

// Method records which derivation path produced a key.
type Method string

const (
	MethodPrimary  Method = "primary"
	MethodFallback Method = "fallback"
)

// Material is the outcome of a derivation. Given identical password, salt
// and method, the key bytes are identical.
type Material struct {
	Key    []byte
	Salt   []byte
	Method Method
}

// KeyHex returns the key as lowercase hex.
func (m Material) KeyHex() string { return hex.EncodeToString(m.Key) }

// SaltHex returns the salt as lowercase hex.
func (m Material) SaltHex() string { return hex.EncodeToString(m.Salt) }

// Iterations returns the round count belonging to the material's method,
// suitable for persisting into a secure record.
func (m Material) Iterations() int {
	if m.Method == MethodFallback {
		return FallbackRounds
	}
	return Iterations
}

// Derive produces key material for password. A nil salt draws a fresh
// 16-byte salt from the provider; salt generation failures are fatal since
// a predictable salt defeats the derivation. If the provider cannot run
// PBKDF2, Derive degrades to the fallback construction and tags the result
// MethodFallback — it never substitutes silently.
func Derive(p provider.Provider, password string, salt []byte) (Material, error) {
	if salt == nil {
		fresh, err := p.RandomBytes(SaltLength)
		if err != nil {
			return Material{}, fmt.Errorf("generating salt: %w", err)
		}
		salt = fresh
	} else if len(salt) != SaltLength {
		return Material{}, fmt.Errorf("%w: got %d", ErrSaltLength, len(salt))
	}

	key, err := p.DeriveKey([]byte(password), salt, Iterations, KeyLength)
	if err == nil {
		return Material{Key: key, Salt: salt, Method: MethodPrimary}, nil
	}
	return Material{Key: fallbackKey(password, salt), Salt: salt, Method: MethodFallback}, nil
}

// DeriveWithMethod re-derives a key with a known method, as recorded in a
// persisted record. Unlike Derive it never switches paths: a primary-method
// record whose provider is broken must fail rather than produce a key that
// cannot match.
func DeriveWithMethod(p provider.Provider, password string, salt []byte, method Method) (Material, error) {
	if len(salt) != SaltLength {
		return Material{}, fmt.Errorf("%w: got %d", ErrSaltLength, len(salt))
	}
	switch method {
	case MethodPrimary:
		key, err := p.DeriveKey([]byte(password), salt, Iterations, KeyLength)
		if err != nil {
			return Material{}, fmt.Errorf("re-deriving key: %w", err)
		}
		return Material{Key: key, Salt: salt, Method: MethodPrimary}, nil
	case MethodFallback:
		return Material{Key: fallbackKey(password, salt), Salt: salt, Method: MethodFallback}, nil
	default:
		return Material{}, fmt.Errorf("kdf: unknown method %q", method)
	}
}

// fallbackKey runs FallbackRounds rounds of xxhash over password||salt and
// expands the final state into 32 bytes. Deterministic and availability-only;
// it offers nowhere near PBKDF2's resistance to offline guessing.
func fallbackKey(password string, salt []byte) []byte {
	seed := make([]byte, 0, len(password)+len(salt))
	seed = append(seed, password...)
	seed = append(seed, salt...)
	state := xxhash.Sum64(seed)

	buf := make([]byte, 8+len(salt))
	copy(buf[8:], salt)
	for round := 1; round < FallbackRounds; round++ {
		binary.BigEndian.PutUint64(buf[:8], state)
		state = xxhash.Sum64(buf)
	}

	key := make([]byte, KeyLength)
	block := make([]byte, 9)
	for i := 0; i < KeyLength/8; i++ {
		binary.BigEndian.PutUint64(block[:8], state)
		block[8] = byte(i)
		binary.BigEndian.PutUint64(key[i*8:], xxhash.Sum64(block))
	}
	return key
}
