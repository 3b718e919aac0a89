package credential

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/pquerna/otp"

	"github.com/aarondl/rauthy/crypt"
)

// ParseURI creates a credential from a provisioning uri of the form:
//
//   otpauth://totp/{issuer}:{name}?secret={secret}&issuer={issuer}&algorithm={algorithm}&digits={digits}&period={period}
//
// Only secret is required. The issuer query parameter wins over the label's
// issuer, a label with no colon is just the account name.
//
// Parsing is strict first: a well formed base32 secret of at least
// MinSecretSize bytes and 6-8 digits. Should that fail the uri is parsed again
// unchecked, which accepts any decodable secret and digits up to MaxDigits.
//
// Reference for format:
// https://github.com/google/google-authenticator/wiki/Key-Uri-Format
func ParseURI(uri string) (Credential, error) {
	c, err := parseURI(uri, true)
	if err == nil {
		return c, nil
	}

	return parseURI(uri, false)
}

func parseURI(uri string, strict bool) (Credential, error) {
	key, err := otp.NewKeyFromURL(uri)
	if err != nil {
		return Credential{}, &ParseError{Reason: "not a url", Err: err}
	}

	u, err := url.Parse(key.String())
	if err != nil {
		return Credential{}, &ParseError{Reason: "not a url", Err: err}
	}
	if !strings.EqualFold(u.Scheme, "otpauth") {
		return Credential{}, &ParseError{Reason: "scheme must be otpauth, got " + strconv.Quote(u.Scheme)}
	}
	if !strings.EqualFold(key.Type(), "totp") {
		return Credential{}, &ParseError{Reason: "type must be totp, got " + strconv.Quote(key.Type())}
	}

	query := u.Query()
	if len(query.Get("secret")) == 0 {
		return Credential{}, &ParseError{Reason: "secret is missing"}
	}

	issuer, name := splitLabel(strings.TrimPrefix(u.Path, "/"), query.Get("issuer"))
	c := New(issuer, name, "")
	if len(c.Name) == 0 {
		return Credential{}, &ParseError{Reason: "account name is missing"}
	}

	decode := decodeSecret
	if !strict {
		decode = decodeSecretLenient
	}
	raw, err := decode(key.Secret())
	if err != nil {
		return Credential{}, &ParseError{Reason: "bad secret", Err: err}
	}
	defer crypt.Wipe(raw)
	if strict && len(raw) < MinSecretSize {
		return Credential{}, &ParseError{Reason: "secret must be at least " + strconv.Itoa(MinSecretSize*8) + " bits"}
	}
	c.Secret = encodeSecret(raw)

	if c.Algorithm, err = ParseAlgorithm(query.Get("algorithm")); err != nil {
		return Credential{}, &ParseError{Reason: "bad algorithm", Err: err}
	}

	if digits := query.Get("digits"); len(digits) != 0 {
		minDigits, maxDigits := 6, 8
		if !strict {
			minDigits, maxDigits = 1, MaxDigits
		}
		n, err := strconv.Atoi(digits)
		if err != nil || n < minDigits || n > maxDigits {
			return Credential{}, &ParseError{Reason: "digits must be an integer between " +
				strconv.Itoa(minDigits) + " and " + strconv.Itoa(maxDigits)}
		}
		c.Digits = n
	}

	if period := query.Get("period"); len(period) != 0 {
		n, err := strconv.ParseUint(period, 10, 64)
		if err != nil || n == 0 {
			return Credential{}, &ParseError{Reason: "period must be a positive integer"}
		}
		c.Period = n
	}

	if err = c.Validate(); err != nil {
		return Credential{}, &ParseError{Reason: "unusable credential", Err: err}
	}

	return c, nil
}

// splitLabel separates "issuer:name". A label starting with the issuer
// parameter followed by a colon is split after it so issuers containing a
// colon survive, otherwise the first colon separates the two. The issuer
// parameter always wins over the label's issuer.
func splitLabel(label, issuer string) (string, string) {
	if len(issuer) != 0 && strings.HasPrefix(label, issuer+":") {
		return issuer, label[len(issuer)+1:]
	}

	i := strings.IndexByte(label, ':')
	if i < 0 {
		return issuer, label
	}
	if len(issuer) == 0 {
		issuer = label[:i]
	}
	return issuer, label[i+1:]
}

// URI renders the credential as an otpauth uri that ParseURI accepts.
func (c Credential) URI() string {
	label := c.Name
	switch {
	case len(c.Issuer) != 0:
		label = c.Issuer + ":" + c.Name
	case strings.Contains(c.Name, ":"):
		// an empty issuer prefix keeps the name's colons out of the split
		label = ":" + c.Name
	}

	vals := make(url.Values)
	vals.Set("secret", c.Secret)
	if len(c.Issuer) != 0 {
		vals.Set("issuer", c.Issuer)
	}
	vals.Set("algorithm", c.Algorithm.String())
	vals.Set("digits", strconv.Itoa(c.Digits))
	vals.Set("period", strconv.FormatUint(c.Period, 10))

	u := url.URL{
		Scheme:   "otpauth",
		Host:     "totp",
		Path:     "/" + label,
		RawQuery: vals.Encode(),
	}
	return u.String()
}
