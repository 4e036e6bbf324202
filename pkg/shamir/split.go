package shamir

import (
	"crypto/rand"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/skralg/shardvault/pkg/gf256"
)

// MaxShares is the largest usable share count: x coordinates are nonzero
// bytes, so at most 255 distinct evaluation points exist.
const MaxShares = 255

// Split divides secret into total shares such that any threshold of them
// reconstruct it exactly and any fewer are information-theoretically
// independent of it. Each secret byte gets its own random polynomial of
// degree threshold-1 whose constant term is the byte; share i holds the
// evaluations at x = i+1.
//
// rng supplies the polynomial coefficients and must be cryptographically
// strong; nil selects crypto/rand.Reader.
func Split(secret Secret, total, threshold int, rng io.Reader) ([]*Share, error) {
	if threshold < 2 {
		return nil, fmt.Errorf("%w: threshold must be at least 2, got %d", ErrValidation, threshold)
	}
	if total < threshold {
		return nil, fmt.Errorf("%w: total shares (%d) must be >= threshold (%d)", ErrValidation, total, threshold)
	}
	if total > MaxShares {
		return nil, fmt.Errorf("%w: total shares cannot exceed %d, got %d", ErrValidation, MaxShares, total)
	}
	if len(secret.Bytes) == 0 {
		return nil, fmt.Errorf("%w: secret must not be empty", ErrValidation)
	}
	if !secret.Encoding.valid() {
		return nil, fmt.Errorf("%w: unknown encoding %q", ErrValidation, secret.Encoding)
	}
	if rng == nil {
		rng = rand.Reader
	}

	shares := make([]*Share, total)
	for i := range shares {
		shares[i] = &Share{
			ID:       uuid.NewString(),
			X:        byte(i + 1),
			Y:        make([]byte, len(secret.Bytes)),
			Encoding: secret.Encoding,
		}
	}

	// One polynomial per secret byte; coefficients are discarded once the
	// byte has been evaluated at every share's x.
	coeffs := make([]byte, threshold-1)
	for pos, b := range secret.Bytes {
		if _, err := io.ReadFull(rng, coeffs); err != nil {
			return nil, fmt.Errorf("drawing polynomial coefficients for byte %d: %w", pos, err)
		}
		for _, share := range shares {
			share.Y[pos] = evalPoly(b, coeffs, share.X)
		}
	}

	for _, share := range shares {
		share.SerializedValue = share.serialize()
	}
	return shares, nil
}

// evalPoly evaluates constant + coeffs[0]*x + coeffs[1]*x^2 + ... at x with
// Horner's method over GF(2^8).
func evalPoly(constant byte, coeffs []byte, x byte) byte {
	var y byte
	for i := len(coeffs) - 1; i >= 0; i-- {
		y = gf256.Add(gf256.Mul(y, x), coeffs[i])
	}
	return gf256.Add(gf256.Mul(y, x), constant)
}
