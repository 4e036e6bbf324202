package shamir

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"unicode/utf8"
)

// Encoding tags how a secret's bytes map to and from a human-readable
// string. All shares produced by one split carry the same tag, and the
// structured Share metadata is the single authoritative source for it; the
// serialized hex payload never embeds it.
type Encoding string

const (
	EncodingUTF8   Encoding = "utf-8"
	EncodingHex    Encoding = "hex"
	EncodingBase64 Encoding = "base64"
)

func (e Encoding) valid() bool {
	switch e {
	case EncodingUTF8, EncodingHex, EncodingBase64:
		return true
	}
	return false
}

// Secret is the cleartext input of the splitting engine and output of the
// reconstruction engine. It exists only transiently in memory.
type Secret struct {
	Bytes    []byte
	Encoding Encoding
}

// NewSecret converts text to secret bytes according to enc.
func NewSecret(text string, enc Encoding) (Secret, error) {
	switch enc {
	case EncodingUTF8:
		return Secret{Bytes: []byte(text), Encoding: enc}, nil
	case EncodingHex:
		b, err := hex.DecodeString(text)
		if err != nil {
			return Secret{}, fmt.Errorf("%w: secret is not valid hex: %v", ErrValidation, err)
		}
		return Secret{Bytes: b, Encoding: enc}, nil
	case EncodingBase64:
		b, err := base64.StdEncoding.DecodeString(text)
		if err != nil {
			return Secret{}, fmt.Errorf("%w: secret is not valid base64: %v", ErrValidation, err)
		}
		return Secret{Bytes: b, Encoding: enc}, nil
	default:
		return Secret{}, fmt.Errorf("%w: unknown encoding %q", ErrValidation, enc)
	}
}

// Text renders the secret bytes back through the encoding tag. A failure
// here after reconstruction means the wrong shares, too few shares, or a
// corrupted share were combined, and is reported as ErrDecode.
func (s Secret) Text() (string, error) {
	switch s.Encoding {
	case EncodingUTF8:
		if !utf8.Valid(s.Bytes) {
			return "", fmt.Errorf("%w: bytes are not valid UTF-8", ErrDecode)
		}
		return string(s.Bytes), nil
	case EncodingHex:
		return hex.EncodeToString(s.Bytes), nil
	case EncodingBase64:
		return base64.StdEncoding.EncodeToString(s.Bytes), nil
	default:
		return "", fmt.Errorf("%w: unknown encoding %q", ErrDecode, s.Encoding)
	}
}
