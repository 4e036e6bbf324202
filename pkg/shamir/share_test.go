package shamir

import (
	"crypto/rand"
	"errors"
	"strings"
	"testing"
)

func TestSerializedShareFormat(t *testing.T) {
	secret, err := NewSecret("hi", EncodingUTF8)
	if err != nil {
		t.Fatalf("NewSecret failed: %v", err)
	}
	shares, err := Split(secret, 3, 2, rand.Reader)
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}

	for i, share := range shares {
		v := share.SerializedValue
		if !strings.HasPrefix(v, "80") {
			t.Errorf("share %d does not start with the format marker: %q", i, v)
		}
		if v != strings.ToLower(v) {
			t.Errorf("share %d is not lowercase hex: %q", i, v)
		}
		// marker + x + one byte per secret byte
		if wantLen := 2 * (2 + len(secret.Bytes)); len(v) != wantLen {
			t.Errorf("share %d serialized length = %d, want %d", i, len(v), wantLen)
		}
	}
}

func TestParseShareRoundTrip(t *testing.T) {
	secret, _ := NewSecret("round trip me", EncodingUTF8)
	shares, err := Split(secret, 4, 2, rand.Reader)
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}

	parsed := make([]*Share, len(shares))
	for i, share := range shares {
		p, err := ParseShare(share.SerializedValue, share.Encoding)
		if err != nil {
			t.Fatalf("ParseShare failed for share %d: %v", i, err)
		}
		if p.X != share.X {
			t.Errorf("share %d: parsed x = %d, want %d", i, p.X, share.X)
		}
		if string(p.Y) != string(share.Y) {
			t.Errorf("share %d: parsed value bytes differ", i)
		}
		if p.ID == "" || p.ID == share.ID {
			t.Errorf("share %d: parsed share should get a fresh nonempty id", i)
		}
		parsed[i] = p
	}

	got, err := CombineText(parsed[:2])
	if err != nil {
		t.Fatalf("CombineText failed: %v", err)
	}
	if got != "round trip me" {
		t.Errorf("combined %q, want %q", got, "round trip me")
	}
}

func TestParseShareRejectsBadInput(t *testing.T) {
	cases := []struct {
		name  string
		value string
	}{
		{"odd length", "80012"},
		{"not hex", "80zz01"},
		{"too short", "8001"},
		{"wrong marker", "7f010203"},
		{"zero x", "80000102"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseShare(tc.value, EncodingUTF8); !errors.Is(err, ErrFormat) {
				t.Errorf("ParseShare(%q) error = %v, want ErrFormat", tc.value, err)
			}
		})
	}
}

func TestParseShareRejectsUnknownEncoding(t *testing.T) {
	if _, err := ParseShare("80010203", Encoding("utf-16")); !errors.Is(err, ErrFormat) {
		t.Errorf("error = %v, want ErrFormat", err)
	}
}

func TestSecretTextRoundTrip(t *testing.T) {
	cases := []struct {
		enc  Encoding
		text string
	}{
		{EncodingUTF8, "hello wörld"},
		{EncodingHex, "deadbeef00"},
		{EncodingBase64, "aGVsbG8="},
	}
	for _, tc := range cases {
		secret, err := NewSecret(tc.text, tc.enc)
		if err != nil {
			t.Fatalf("NewSecret(%q, %q) failed: %v", tc.text, tc.enc, err)
		}
		got, err := secret.Text()
		if err != nil {
			t.Fatalf("Text failed for %q: %v", tc.enc, err)
		}
		if got != tc.text {
			t.Errorf("%s: round trip got %q, want %q", tc.enc, got, tc.text)
		}
	}
}

func TestSecretTextRejectsInvalidUTF8(t *testing.T) {
	secret := Secret{Bytes: []byte{0xff, 0xfe, 0xfd}, Encoding: EncodingUTF8}
	if _, err := secret.Text(); !errors.Is(err, ErrDecode) {
		t.Errorf("Text error = %v, want ErrDecode", err)
	}
}

func TestNewSecretRejectsBadText(t *testing.T) {
	if _, err := NewSecret("not hex!", EncodingHex); !errors.Is(err, ErrValidation) {
		t.Errorf("hex error = %v, want ErrValidation", err)
	}
	if _, err := NewSecret("%%%", EncodingBase64); !errors.Is(err, ErrValidation) {
		t.Errorf("base64 error = %v, want ErrValidation", err)
	}
	if _, err := NewSecret("x", Encoding("ascii")); !errors.Is(err, ErrValidation) {
		t.Errorf("unknown encoding error = %v, want ErrValidation", err)
	}
}
