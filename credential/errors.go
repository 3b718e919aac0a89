package credential

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// DecodeError occurs when a decrypted registry is malformed. Since the
// payload was authenticated this indicates a bug or bit-rot, not a bad
// password.
type DecodeError struct {
	Offset int
	Reason string
}

// Error interface
func (d *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode credentials at byte %d: %s", d.Offset, d.Reason)
}

// ParseError occurs when an otpauth uri cannot be turned into a credential.
type ParseError struct {
	Reason string
	Err    error
}

// Error interface
func (p *ParseError) Error() string {
	if p.Err != nil {
		return fmt.Sprintf("invalid otpauth uri: %s: %v", p.Reason, p.Err)
	}
	return "invalid otpauth uri: " + p.Reason
}

// Unwrap the underlying cause
func (p *ParseError) Unwrap() error {
	return p.Err
}

// TokenErrors maps credential ids to the reason their code could not be
// computed.
type TokenErrors map[string]error

// Error interface
func (t TokenErrors) Error() string {
	ids := make([]string, 0, len(t))
	for id := range t {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("%s: %v", id, t[id])
	}

	return fmt.Sprintf("failed to compute %d token(s): %s", len(t), strings.Join(parts, "; "))
}

// IsDecodeError checks if the error is a decode error
func IsDecodeError(err error) bool {
	var d *DecodeError
	return errors.As(err, &d)
}

// IsParseError checks if the error is a uri parse error
func IsParseError(err error) bool {
	var p *ParseError
	return errors.As(err, &p)
}
