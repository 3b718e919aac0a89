package credential

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

const (
	rfcSecretSHA1   = "GEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQ"
	rfcSecretSHA256 = "GEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQGEZA"
	rfcSecretSHA512 = "GEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQGEZDGNA"
)

func TestAlgorithm(t *testing.T) {
	t.Parallel()

	tests := []struct {
		In   string
		Want Algorithm
	}{
		{"", SHA1},
		{"SHA1", SHA1},
		{"sha256", SHA256},
		{"Sha512", SHA512},
	}

	for _, test := range tests {
		got, err := ParseAlgorithm(test.In)
		if err != nil {
			t.Errorf("%q) %v", test.In, err)
			continue
		}
		if got != test.Want {
			t.Errorf("%q) want: %s, got: %s", test.In, test.Want, got)
		}
		if got.String() != test.Want.String() {
			t.Error("string was wrong:", got.String())
		}
	}

	if _, err := ParseAlgorithm("MD5"); err == nil {
		t.Error("md5 should not be supported")
	}
	if Algorithm(3).Valid() {
		t.Error("algorithm 3 should not be valid")
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	c := New("GitHub", "alice", "SECRET")
	if c.ID != "GitHubalice" {
		t.Error("id was wrong:", c.ID)
	}
	if c.Algorithm != SHA1 {
		t.Error("algorithm was wrong:", c.Algorithm)
	}
	if c.Digits != 6 {
		t.Error("digits was wrong:", c.Digits)
	}
	if c.Period != 30 {
		t.Error("period was wrong:", c.Period)
	}
}

func TestMakeIDCollides(t *testing.T) {
	t.Parallel()

	// Concatenation without a separator is how existing vaults are keyed
	if MakeID("AB", "C") != MakeID("A", "BC") {
		t.Error("ids are expected to collide")
	}
}

func TestMap(t *testing.T) {
	t.Parallel()

	m := make(Map)
	c := New("GitHub", "alice", rfcSecretSHA1)

	if _, existed := m.Put(c); existed {
		t.Error("should not have existed")
	}

	updated := c
	updated.Digits = 8
	prev, existed := m.Put(updated)
	if !existed {
		t.Error("should have existed")
	}
	if prev.Digits != 6 {
		t.Error("prev was wrong")
	}
	if len(m) != 1 {
		t.Error("put with the same id should overwrite, len:", len(m))
	}

	noID := Credential{Issuer: "Other", Name: "bob"}
	m.Put(noID)
	if _, ok := m["Otherbob"]; !ok {
		t.Error("id should be derived when empty")
	}

	if ids := m.IDs(); !reflect.DeepEqual(ids, []string{"GitHubalice", "Otherbob"}) {
		t.Error("ids were wrong:", ids)
	}

	clone := m.Clone()
	clone.Remove("Otherbob")
	if len(m) != 2 {
		t.Error("clone should not share storage")
	}

	if _, ok := m.Remove("nothere"); ok {
		t.Error("should not remove missing id")
	}
	if removed, ok := m.Remove("GitHubalice"); !ok || removed.Digits != 8 {
		t.Error("remove was wrong:", removed, ok)
	}
}

func TestTokenRFC6238(t *testing.T) {
	t.Parallel()

	tests := []struct {
		Secret    string
		Algorithm Algorithm
		Time      int64
		Digits    int
		Want      string
	}{
		{rfcSecretSHA1, SHA1, 59, 8, "94287082"},
		{rfcSecretSHA256, SHA256, 59, 8, "46119246"},
		{rfcSecretSHA512, SHA512, 59, 8, "90693936"},
		{rfcSecretSHA1, SHA1, 1111111109, 8, "07081804"},
		{rfcSecretSHA1, SHA1, 59, 6, "287082"},
	}

	for i, test := range tests {
		c := New("", "rfc", test.Secret)
		c.Algorithm = test.Algorithm
		c.Digits = test.Digits

		token, err := c.Token(time.Unix(test.Time, 0))
		if err != nil {
			t.Errorf("%d) %v", i, err)
			continue
		}
		if token.Code != test.Want {
			t.Errorf("%d) want: %s, got: %s", i, test.Want, token.Code)
		}
	}
}

func TestTokenNextStep(t *testing.T) {
	t.Parallel()

	c := New("", "rfc", rfcSecretSHA1)
	token, err := c.Token(time.Unix(59, 0))
	if err != nil {
		t.Fatal(err)
	}
	if token.NextStep != 60 {
		t.Error("next step was wrong:", token.NextStep)
	}

	c.Period = 60
	token, err = c.Token(time.Unix(60, 0))
	if err != nil {
		t.Fatal(err)
	}
	if token.NextStep != 120 {
		t.Error("next step was wrong:", token.NextStep)
	}
}

func TestTokenLenientSecret(t *testing.T) {
	t.Parallel()

	// 33 characters is never a valid base32 length, the dangling 5 bits are
	// dropped which leaves the RFC secret.
	c := New("", "rfc", rfcSecretSHA1+"A")
	c.Digits = 8
	token, err := c.Token(time.Unix(59, 0))
	if err != nil {
		t.Fatal(err)
	}
	if token.Code != "94287082" {
		t.Error("code was wrong:", token.Code)
	}

	lower := New("", "rfc", "gezd gnbv gy3t qojq gezd gnbv gy3t qojq")
	lower.Digits = 8
	token, err = lower.Token(time.Unix(59, 0))
	if err != nil {
		t.Fatal(err)
	}
	if token.Code != "94287082" {
		t.Error("code was wrong:", token.Code)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	good := New("Acme", "bob", rfcSecretSHA1)
	if err := good.Validate(); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		Name   string
		Modify func(c *Credential)
	}{
		{"ID", func(c *Credential) { c.ID = "\xff" }},
		{"Issuer", func(c *Credential) { c.Issuer = "\xc3" }},
		{"Name", func(c *Credential) { c.Name = "b\xffb" }},
		{"Secret", func(c *Credential) { c.Secret = "\xfe" }},
		{"Icon", func(c *Credential) { c.Icon = "\xff" }},
		{"Algorithm", func(c *Credential) { c.Algorithm = SHA512 + 1 }},
		{"NegativeDigits", func(c *Credential) { c.Digits = -1 }},
		{"ZeroDigits", func(c *Credential) { c.Digits = 0 }},
		{"TooManyDigits", func(c *Credential) { c.Digits = MaxDigits + 1 }},
		{"Period", func(c *Credential) { c.Period = 0 }},
	}

	for _, test := range tests {
		test := test
		t.Run(test.Name, func(t *testing.T) {
			t.Parallel()

			c := good
			test.Modify(&c)
			if err := c.Validate(); !errors.Is(err, ErrInvalid) {
				t.Error("wrong error:", err)
			}
		})
	}
}

func TestValidateDecodes(t *testing.T) {
	t.Parallel()

	edges := []Credential{
		New("Café Co", "josé@example.com", rfcSecretSHA1),
		New("", "no:issuer", rfcSecretSHA1),
		{ID: "MaxDigits", Name: "MaxDigits", Secret: rfcSecretSHA1, Algorithm: SHA256, Digits: MaxDigits, Period: 1},
		{ID: "HugePeriod", Name: "HugePeriod", Secret: rfcSecretSHA1, Digits: 1, Period: ^uint64(0)},
	}

	m := make(Map)
	for _, c := range edges {
		if err := c.Validate(); err != nil {
			t.Fatalf("%q) %v", c.ID, err)
		}
		m.Put(c)
	}

	got, err := Decode(Encode(m))
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(m, got) {
		t.Errorf("want: %#v\ngot: %#v", m, got)
	}
}

func TestTokenErrors(t *testing.T) {
	t.Parallel()

	good := New("", "good", rfcSecretSHA1)

	tests := []struct {
		Name   string
		Modify func(c *Credential)
	}{
		{"BadSecret", func(c *Credential) { c.Secret = "!!!!" }},
		{"EmptySecret", func(c *Credential) { c.Secret = "" }},
		{"ZeroPeriod", func(c *Credential) { c.Period = 0 }},
		{"ZeroDigits", func(c *Credential) { c.Digits = 0 }},
		{"TooManyDigits", func(c *Credential) { c.Digits = MaxDigits + 1 }},
		{"BadAlgorithm", func(c *Credential) { c.Algorithm = 9 }},
	}

	for _, test := range tests {
		test := test
		t.Run(test.Name, func(t *testing.T) {
			t.Parallel()

			c := good
			test.Modify(&c)
			if _, err := c.Token(time.Unix(59, 0)); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestMapTokens(t *testing.T) {
	t.Parallel()

	m := make(Map)
	m.Put(New("A", "a", rfcSecretSHA1))
	m.Put(New("B", "b", rfcSecretSHA256))

	tokens, err := m.Tokens(time.Unix(59, 0))
	if err != nil {
		t.Fatal(err)
	}
	if len(tokens) != 2 {
		t.Error("wrong number of tokens:", len(tokens))
	}
	if tokens["Aa"].Code != "287082" {
		t.Error("code was wrong:", tokens["Aa"].Code)
	}

	broken := New("C", "c", "!!!!")
	m.Put(broken)
	tokens, err = m.Tokens(time.Unix(59, 0))
	if err == nil {
		t.Fatal("expected an error")
	}

	var terrs TokenErrors
	if !errors.As(err, &terrs) {
		t.Fatalf("wrong error type: %T", err)
	}
	if _, ok := terrs["Cc"]; !ok || len(terrs) != 1 {
		t.Error("errors were wrong:", terrs)
	}
	if len(tokens) != 2 {
		t.Error("successful tokens should still be returned:", len(tokens))
	}
}
