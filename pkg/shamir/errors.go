package shamir

import "errors"

var (
	// ErrValidation reports unusable split parameters: bad threshold, bad
	// share count or an empty secret.
	ErrValidation = errors.New("shamir: invalid parameter")

	// ErrFormat reports a serialized share that cannot be decoded: wrong
	// marker, odd length, truncated payload or non-hex characters.
	ErrFormat = errors.New("shamir: malformed share")

	// ErrArity reports too few shares to even attempt reconstruction.
	ErrArity = errors.New("shamir: not enough shares")

	// ErrDuplicateShare reports two shares with the same x coordinate.
	// Interpolation divides by x_i - x_j, which is zero for duplicates.
	ErrDuplicateShare = errors.New("shamir: duplicate share x coordinate")

	// ErrLengthMismatch reports shares whose value vectors disagree in
	// length and therefore cannot come from the same split.
	ErrLengthMismatch = errors.New("shamir: share length mismatch")

	// ErrEncodingMismatch reports shares that disagree on the secret's
	// text encoding tag.
	ErrEncodingMismatch = errors.New("shamir: share encoding mismatch")

	// ErrDecode reports that interpolation produced bytes that fail text
	// decoding. This signals wrong shares, too few shares, or a corrupted
	// share rather than a structural problem.
	ErrDecode = errors.New("shamir: reconstructed secret failed text decoding")
)
