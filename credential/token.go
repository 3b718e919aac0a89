package credential

import (
	"encoding/base32"
	"errors"
	"fmt"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"

	"github.com/aarondl/rauthy/crypt"
)

// MaxDigits is the longest code that can be produced
const MaxDigits = 10

// Token is the code for the current time step
type Token struct {
	Code string `json:"token"`
	// NextStep is the unix time (seconds) at which Code stops being valid
	NextStep uint64 `json:"next_step_time"`
}

// Token computes the one-time code for the step that now falls in.
//
// Secrets are first handed to the otp library as-is. If it refuses them
// (typically a base32 length that isn't valid) the secret is decoded leniently
// and re-encoded before trying once more.
func (c Credential) Token(now time.Time) (Token, error) {
	if len(normalizeSecret(c.Secret)) == 0 {
		return Token{}, errEmptySecret
	}
	if c.Period == 0 {
		return Token{}, errors.New("period must be at least one second")
	}
	if c.Digits < 1 || c.Digits > MaxDigits {
		return Token{}, fmt.Errorf("digits must be between 1 and %d", MaxDigits)
	}
	unix := now.Unix()
	if unix < 0 {
		return Token{}, errors.New("time is before the unix epoch")
	}

	alg, err := c.Algorithm.otp()
	if err != nil {
		return Token{}, err
	}

	opts := totp.ValidateOpts{
		Period:    uint(c.Period),
		Digits:    otp.Digits(c.Digits),
		Algorithm: alg,
	}

	code, err := totp.GenerateCodeCustom(c.Secret, now, opts)
	if err != nil {
		raw, lerr := decodeSecretLenient(c.Secret)
		if lerr != nil {
			return Token{}, fmt.Errorf("failed to generate code: %w", lerr)
		}
		secret := base32.StdEncoding.EncodeToString(raw)
		crypt.Wipe(raw)

		code, err = totp.GenerateCodeCustom(secret, now, opts)
		if err != nil {
			return Token{}, fmt.Errorf("failed to generate code: %w", err)
		}
	}

	counter := uint64(unix) / c.Period
	return Token{
		Code:     code,
		NextStep: (counter + 1) * c.Period,
	}, nil
}

// Tokens computes the current code of every credential. The returned map
// always holds every code that could be computed, if any failed the error is
// a TokenErrors naming them.
func (m Map) Tokens(now time.Time) (map[string]Token, error) {
	tokens := make(map[string]Token, len(m))
	var errs TokenErrors

	for id, c := range m {
		token, err := c.Token(now)
		if err != nil {
			if errs == nil {
				errs = make(TokenErrors)
			}
			errs[id] = err
			continue
		}

		tokens[id] = token
	}

	if len(errs) != 0 {
		return tokens, errs
	}
	return tokens, nil
}
