// Package credential holds the TOTP credential model stored inside a vault.
//
// A credential is everything needed to produce a one-time code for a single
// account:
//
//    otpauth://totp/GitHub:alice@example.com?secret=KRSXG5CT...&issuer=GitHub
//
// becomes
//
//    {ID: "GitHubalice@example.com", Issuer: "GitHub",
//     Name: "alice@example.com", Secret: "KRSXG5CT...",
//     Algorithm: SHA1, Digits: 6, Period: 30}
package credential

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/pquerna/otp"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Defaults for fields an otpauth uri may omit
const (
	DefaultDigits = 6
	DefaultPeriod = 30
)

// Algorithm is the hmac hash used to compute codes. Values match the order
// the on-disk format has always used.
type Algorithm uint32

// Supported algorithms
const (
	SHA1 Algorithm = iota
	SHA256
	SHA512
)

// String returns the otpauth name of the algorithm
func (a Algorithm) String() string {
	switch a {
	case SHA1:
		return "SHA1"
	case SHA256:
		return "SHA256"
	case SHA512:
		return "SHA512"
	default:
		return fmt.Sprintf("Algorithm(%d)", uint32(a))
	}
}

// Valid reports whether a is one of the known algorithms
func (a Algorithm) Valid() bool {
	return a <= SHA512
}

// ParseAlgorithm reads an otpauth algorithm name, case insensitive.
// The empty string is SHA1.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch strings.ToUpper(s) {
	case "", "SHA1":
		return SHA1, nil
	case "SHA256":
		return SHA256, nil
	case "SHA512":
		return SHA512, nil
	}

	return 0, fmt.Errorf("unknown algorithm %q", s)
}

func (a Algorithm) otp() (otp.Algorithm, error) {
	switch a {
	case SHA1:
		return otp.AlgorithmSHA1, nil
	case SHA256:
		return otp.AlgorithmSHA256, nil
	case SHA512:
		return otp.AlgorithmSHA512, nil
	}

	return 0, fmt.Errorf("unknown algorithm %s", a)
}

// Credential is a single TOTP account
type Credential struct {
	// ID is Issuer+Name, see MakeID
	ID     string
	Issuer string
	Name   string
	// Secret is base32 text
	Secret    string
	Algorithm Algorithm
	Digits    int
	Period    uint64
	// Icon is a url, it is cosmetic only
	Icon string
}

// MakeID creates the registry key for a credential. It is a plain
// concatenation so "AB"+"C" and "A"+"BC" collide, existing vaults are keyed
// this way.
func MakeID(issuer, name string) string {
	return issuer + name
}

// New creates a credential with default algorithm, digits and period.
func New(issuer, name, secret string) Credential {
	return Credential{
		ID:        MakeID(issuer, name),
		Issuer:    issuer,
		Name:      name,
		Secret:    secret,
		Algorithm: SHA1,
		Digits:    DefaultDigits,
		Period:    DefaultPeriod,
	}
}

// ErrInvalid is wrapped by every error Validate returns
var ErrInvalid = errors.New("invalid credential")

// Validate checks that c can be stored and later decoded: text fields must be
// utf8, the algorithm known, digits within 1..MaxDigits and period non-zero.
func (c Credential) Validate() error {
	fields := []struct {
		name  string
		value string
	}{
		{"id", c.ID},
		{"issuer", c.Issuer},
		{"name", c.Name},
		{"secret", c.Secret},
		{"icon", c.Icon},
	}
	for _, f := range fields {
		if !utf8.ValidString(f.value) {
			return fmt.Errorf("%w: %s is not valid utf8", ErrInvalid, f.name)
		}
	}

	if !c.Algorithm.Valid() {
		return fmt.Errorf("%w: unknown algorithm %d", ErrInvalid, uint32(c.Algorithm))
	}
	if c.Digits < 1 || c.Digits > MaxDigits {
		return fmt.Errorf("%w: digits must be between 1 and %d", ErrInvalid, MaxDigits)
	}
	if c.Period == 0 {
		return fmt.Errorf("%w: period must be at least one second", ErrInvalid)
	}

	return nil
}

// DisplayName is "issuer (name)" or just name when there's no issuer
func (c Credential) DisplayName() string {
	if len(c.Issuer) == 0 {
		return c.Name
	}
	return fmt.Sprintf("%s (%s)", c.Issuer, c.Name)
}

// Map of credentials keyed by ID
type Map map[string]Credential

// Put inserts or replaces the credential under its ID, deriving the ID first
// if it's empty. The previous value is returned if there was one.
func (m Map) Put(c Credential) (prev Credential, existed bool) {
	if len(c.ID) == 0 {
		c.ID = MakeID(c.Issuer, c.Name)
	}

	prev, existed = m[c.ID]
	m[c.ID] = c
	return prev, existed
}

// Remove deletes id, returning what was removed.
func (m Map) Remove(id string) (Credential, bool) {
	c, ok := m[id]
	if !ok {
		return Credential{}, false
	}

	delete(m, id)
	return c, true
}

// Clone makes a shallow copy, credentials are values so this is safe to hand
// out.
func (m Map) Clone() Map {
	out := make(Map, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// IDs returns all ids sorted
func (m Map) IDs() []string {
	ids := maps.Keys(m)
	slices.Sort(ids)
	return ids
}
