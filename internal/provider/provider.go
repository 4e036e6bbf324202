// Package provider abstracts the platform cryptography the key-storage
// pipeline depends on: random bytes, password-based key derivation and
// AEAD encryption. Consumers decide once per operation whether a provider
// call succeeded and record any fallback they took; they never retry a
// successful call with weaker cryptography.
package provider

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

// ErrUnavailable signals that a provider capability cannot be used. Callers
// with a documented fallback degrade on it; everyone else propagates it.
var ErrUnavailable = errors.New("provider: cryptographic provider unavailable")

// Provider is the cryptographic capability injected into the key derivation
// and secure key store components.
type Provider interface {
	// RandomBytes returns n cryptographically strong random bytes.
	RandomBytes(n int) ([]byte, error)
	// DeriveKey runs PBKDF2-SHA256 over password and salt.
	DeriveKey(password, salt []byte, iterations, keyLen int) ([]byte, error)
	// Seal encrypts plaintext under key with AES-256-GCM and a fresh
	// nonce, returning the ciphertext and the nonce it generated.
	Seal(key, plaintext []byte) (ciphertext, nonce []byte, err error)
	// Open decrypts and authenticates a Seal result.
	Open(key, nonce, ciphertext []byte) ([]byte, error)
}

// Platform implements Provider with the Go standard crypto stack. Rand is
// injectable for deterministic tests and defaults to crypto/rand.Reader.
type Platform struct {
	Rand io.Reader
}

// NewPlatform returns a Platform backed by crypto/rand.
func NewPlatform() *Platform {
	return &Platform{Rand: rand.Reader}
}

func (p *Platform) reader() io.Reader {
	if p.Rand != nil {
		return p.Rand
	}
	return rand.Reader
}

func (p *Platform) RandomBytes(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(p.reader(), buf); err != nil {
		return nil, fmt.Errorf("%w: reading random bytes: %v", ErrUnavailable, err)
	}
	return buf, nil
}

func (p *Platform) DeriveKey(password, salt []byte, iterations, keyLen int) ([]byte, error) {
	if iterations <= 0 || keyLen <= 0 {
		return nil, fmt.Errorf("%w: bad derivation parameters", ErrUnavailable)
	}
	return pbkdf2.Key(password, salt, iterations, keyLen, sha256.New), nil
}

func (p *Platform) Seal(key, plaintext []byte) ([]byte, []byte, error) {
	gcm, err := p.aead(key)
	if err != nil {
		return nil, nil, err
	}
	nonce, err := p.RandomBytes(gcm.NonceSize())
	if err != nil {
		return nil, nil, err
	}
	return gcm.Seal(nil, nonce, plaintext, nil), nonce, nil
}

func (p *Platform) Open(key, nonce, ciphertext []byte) ([]byte, error) {
	gcm, err := p.aead(key)
	if err != nil {
		return nil, err
	}
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("opening sealed data: %w", err)
	}
	return plaintext, nil
}

func (p *Platform) aead(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return gcm, nil
}
