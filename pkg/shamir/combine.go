package shamir

import (
	"fmt"

	"github.com/skralg/shardvault/pkg/gf256"
)

// Combine reconstructs the secret from the supplied shares by Lagrange
// interpolation at x = 0 for every byte position.
//
// The engine cannot know the threshold chosen at split time: given fewer
// shares than that threshold it returns a well-formed but wrong secret
// rather than an error. This is inherent to the scheme; callers must track
// the threshold out of band. Only the text decoding step (Secret.Text) may
// catch the mistake, as ErrDecode.
func Combine(shares []*Share) (Secret, error) {
	if len(shares) < 2 {
		return Secret{}, fmt.Errorf("%w: need at least 2 shares, got %d", ErrArity, len(shares))
	}

	enc := shares[0].Encoding
	length := len(shares[0].Y)
	seen := make(map[byte]bool, len(shares))
	for i, share := range shares {
		if share == nil {
			return Secret{}, fmt.Errorf("%w: share %d is nil", ErrFormat, i)
		}
		if share.X == 0 {
			return Secret{}, fmt.Errorf("%w: share %d has x = 0", ErrFormat, i)
		}
		if len(share.Y) == 0 {
			return Secret{}, fmt.Errorf("%w: share %d has an empty value", ErrFormat, i)
		}
		if share.Encoding != enc {
			return Secret{}, fmt.Errorf("%w: share %d reports %q, share 0 reports %q", ErrEncodingMismatch, i, share.Encoding, enc)
		}
		if len(share.Y) != length {
			return Secret{}, fmt.Errorf("%w: share %d has %d bytes, share 0 has %d", ErrLengthMismatch, i, len(share.Y), length)
		}
		if seen[share.X] {
			return Secret{}, fmt.Errorf("%w: x = %d appears more than once", ErrDuplicateShare, share.X)
		}
		seen[share.X] = true
	}

	secret := make([]byte, length)
	for pos := range secret {
		b, err := interpolateAtZero(shares, pos)
		if err != nil {
			return Secret{}, err
		}
		secret[pos] = b
	}
	return Secret{Bytes: secret, Encoding: enc}, nil
}

// CombineText reconstructs the secret and decodes it through the shares'
// encoding tag in one step.
func CombineText(shares []*Share) (string, error) {
	secret, err := Combine(shares)
	if err != nil {
		return "", err
	}
	return secret.Text()
}

// interpolateAtZero evaluates the reconstruction polynomial at 0 for one
// byte position. The Lagrange basis numerator for point i is the product of
// the other x coordinates: 0 - x_j equals x_j here because subtraction in
// GF(2^8) is XOR. That identity does not hold in other fields.
func interpolateAtZero(shares []*Share, pos int) (byte, error) {
	var acc byte
	for i, si := range shares {
		basis := byte(1)
		for j, sj := range shares {
			if j == i {
				continue
			}
			den := gf256.Sub(si.X, sj.X)
			term, err := gf256.Div(sj.X, den)
			if err != nil {
				return 0, fmt.Errorf("%w: shares %d and %d both have x = %d", ErrDuplicateShare, i, j, si.X)
			}
			basis = gf256.Mul(basis, term)
		}
		acc = gf256.Add(acc, gf256.Mul(basis, si.Y[pos]))
	}
	return acc, nil
}
