package kdf

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/skralg/shardvault/internal/provider"
)

// brokenKDFProvider can still produce randomness but fails every PBKDF2
// call, forcing the fallback path.
type brokenKDFProvider struct {
	*provider.Platform
}

func (b brokenKDFProvider) DeriveKey(password, salt []byte, iterations, keyLen int) ([]byte, error) {
	return nil, provider.ErrUnavailable
}

func TestDeriveGeneratesFreshSalt(t *testing.T) {
	p := provider.NewPlatform()

	m1, err := Derive(p, "password", nil)
	require.NoError(t, err)
	m2, err := Derive(p, "password", nil)
	require.NoError(t, err)

	require.Len(t, m1.Salt, SaltLength)
	require.Len(t, m1.Key, KeyLength)
	require.Equal(t, MethodPrimary, m1.Method)
	require.NotEqual(t, m1.Salt, m2.Salt, "fresh salts must differ")
	require.NotEqual(t, m1.Key, m2.Key, "different salts must give different keys")
}

func TestDeriveDeterministicForFixedSalt(t *testing.T) {
	p := provider.NewPlatform()
	salt := bytes.Repeat([]byte{0x5a}, SaltLength)

	m1, err := Derive(p, "correct horse", salt)
	require.NoError(t, err)
	m2, err := Derive(p, "correct horse", salt)
	require.NoError(t, err)
	require.Equal(t, m1.Key, m2.Key)

	m3, err := Derive(p, "wrong horse", salt)
	require.NoError(t, err)
	require.NotEqual(t, m1.Key, m3.Key)
}

func TestDeriveRejectsBadSaltLength(t *testing.T) {
	_, err := Derive(provider.NewPlatform(), "pw", []byte{1, 2, 3})
	require.ErrorIs(t, err, ErrSaltLength)
}

func TestDeriveFallsBackAndTags(t *testing.T) {
	p := brokenKDFProvider{provider.NewPlatform()}
	salt := bytes.Repeat([]byte{0x17}, SaltLength)

	m, err := Derive(p, "pw", salt)
	require.NoError(t, err)
	require.Equal(t, MethodFallback, m.Method)
	require.Len(t, m.Key, KeyLength)
	require.Equal(t, FallbackRounds, m.Iterations())

	// Fallback derivation is deterministic too.
	again, err := Derive(p, "pw", salt)
	require.NoError(t, err)
	require.Equal(t, m.Key, again.Key)

	// And it still separates passwords and salts.
	other, err := Derive(p, "pw2", salt)
	require.NoError(t, err)
	require.NotEqual(t, m.Key, other.Key)
}

func TestFallbackAndPrimaryDisagree(t *testing.T) {
	salt := bytes.Repeat([]byte{0x33}, SaltLength)
	primary, err := Derive(provider.NewPlatform(), "pw", salt)
	require.NoError(t, err)
	fallback, err := Derive(brokenKDFProvider{provider.NewPlatform()}, "pw", salt)
	require.NoError(t, err)
	require.NotEqual(t, primary.Key, fallback.Key)
}

func TestDeriveWithMethodNeverSwitchesPaths(t *testing.T) {
	salt := bytes.Repeat([]byte{0x41}, SaltLength)

	// Fallback method reproduces the fallback key even on a healthy provider.
	degraded, err := Derive(brokenKDFProvider{provider.NewPlatform()}, "pw", salt)
	require.NoError(t, err)
	replay, err := DeriveWithMethod(provider.NewPlatform(), "pw", salt, MethodFallback)
	require.NoError(t, err)
	require.Equal(t, degraded.Key, replay.Key)

	// Primary method on a broken provider fails instead of degrading.
	_, err = DeriveWithMethod(brokenKDFProvider{provider.NewPlatform()}, "pw", salt, MethodPrimary)
	require.Error(t, err)
	require.True(t, errors.Is(err, provider.ErrUnavailable))
}

func TestMaterialHexAccessors(t *testing.T) {
	salt := bytes.Repeat([]byte{0xff}, SaltLength)
	m, err := Derive(provider.NewPlatform(), "pw", salt)
	require.NoError(t, err)
	require.Len(t, m.KeyHex(), 2*KeyLength)
	require.Equal(t, "ffffffffffffffffffffffffffffffff", m.SaltHex())
	require.Equal(t, Iterations, m.Iterations())
}
