package shamir

import (
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
)

// FormatMarker is the first byte of every serialized share. It versions the
// wire format so future readers can pick the right decode path.
const FormatMarker = 0x80

// Share is one fragment of a split secret. X is the polynomial evaluation
// point, never 0 since 0 is reserved for the secret itself; Y holds one
// evaluation per secret byte. Shares are created in bulk by Split and
// consumed read-only by Combine.
type Share struct {
	ID              string
	X               byte
	Y               []byte
	Encoding        Encoding
	SerializedValue string
}

// serialize renders the share as lowercase hex: marker, x, then the value
// bytes. The encoding tag travels in the structured Share, not the payload.
func (s *Share) serialize() string {
	buf := make([]byte, 0, 2+len(s.Y))
	buf = append(buf, FormatMarker, s.X)
	buf = append(buf, s.Y...)
	return hex.EncodeToString(buf)
}

// ParseShare decodes a serialized share string produced by Split. The
// encoding tag is supplied out of band because the payload does not carry
// it; see Encoding.
func ParseShare(value string, enc Encoding) (*Share, error) {
	if len(value)%2 != 0 {
		return nil, fmt.Errorf("%w: odd-length share string", ErrFormat)
	}
	raw, err := hex.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	if len(raw) < 3 {
		return nil, fmt.Errorf("%w: share too short (%d bytes)", ErrFormat, len(raw))
	}
	if raw[0] != FormatMarker {
		return nil, fmt.Errorf("%w: unexpected format marker %#x", ErrFormat, raw[0])
	}
	if raw[1] == 0 {
		return nil, fmt.Errorf("%w: share x coordinate must not be 0", ErrFormat)
	}
	if !enc.valid() {
		return nil, fmt.Errorf("%w: unknown encoding %q", ErrFormat, enc)
	}
	y := make([]byte, len(raw)-2)
	copy(y, raw[2:])
	return &Share{
		ID:              uuid.NewString(),
		X:               raw[1],
		Y:               y,
		Encoding:        enc,
		SerializedValue: value,
	}, nil
}
