package credential

import (
	"encoding/base32"
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// MinSecretSize is the smallest decoded secret (128 bits) the strict parser
// accepts.
const MinSecretSize = 16

var (
	b32 = base32.StdEncoding.WithPadding(base32.NoPadding)

	errEmptySecret = errors.New("secret is empty")
)

// normalizeSecret upper-cases and strips whitespace and padding
func normalizeSecret(secret string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '=' {
			return -1
		}
		return unicode.ToUpper(r)
	}, secret)
}

// decodeSecret is the strict decoder, the unpadded length must be a valid
// base32 length.
func decodeSecret(secret string) ([]byte, error) {
	secret = normalizeSecret(secret)
	switch len(secret) % 8 {
	case 1, 3, 6:
		return nil, fmt.Errorf("secret length %d is not a valid base32 length", len(secret))
	}

	raw, err := b32.DecodeString(secret)
	if err != nil {
		return nil, fmt.Errorf("secret is not valid base32: %w", err)
	}
	if len(raw) == 0 {
		return nil, errEmptySecret
	}

	return raw, nil
}

// decodeSecretLenient decodes secrets that many provisioning uris produce
// with the wrong length. Separators are skipped and bits that do not fill a
// whole byte at the end are dropped.
func decodeSecretLenient(secret string) ([]byte, error) {
	out := make([]byte, 0, len(secret)*5/8)

	var acc uint32
	var bits uint
	for _, r := range secret {
		var v uint32
		switch r = unicode.ToUpper(r); {
		case r >= 'A' && r <= 'Z':
			v = uint32(r - 'A')
		case r >= '2' && r <= '7':
			v = uint32(r-'2') + 26
		case r == '=' || r == '-' || unicode.IsSpace(r):
			continue
		default:
			return nil, fmt.Errorf("secret has invalid base32 character %q", r)
		}

		acc = acc<<5 | v
		bits += 5
		if bits >= 8 {
			bits -= 8
			out = append(out, byte(acc>>bits))
			acc &= 1<<bits - 1
		}
	}

	if len(out) == 0 {
		return nil, errEmptySecret
	}

	return out, nil
}

// encodeSecret is the canonical stored form: upper case, no padding
func encodeSecret(raw []byte) string {
	return b32.EncodeToString(raw)
}
