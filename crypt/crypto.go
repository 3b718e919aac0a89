// Package crypt derives vault keys from passwords and seals vault payloads
// with an authenticated cipher.
package crypt

import (
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

// Error returns from decryption and key handling
var (
	ErrAuthentication = errors.New("could not unlock: wrong password or corrupt data")
	ErrInvalidKey     = errors.New("key size is wrong for the cipher")
	ErrInvalidSalt    = errors.New("salt size is wrong")
)

const (
	// KeySize is the size of every derived key (AES-256)
	KeySize = sha256.Size
	// SaltSize is the size of salts generated for new vaults
	SaltSize = 32
	// Iterations of PBKDF2-HMAC-SHA256
	Iterations = 100000
)

// legacySalt was hard-coded into vaults written before salts were stored
// alongside the ciphertext. It is the ASCII text of the hex string, not the
// decoded bytes.
const legacySalt = "E3D0C30656C194272C7B6AD2ED0B7F8078FF2921F777A142A045D45931BC2771"

// LegacySalt returns a copy of the fixed salt used by legacy vaults. It must
// only ever be used to read old files.
func LegacySalt() []byte {
	return []byte(legacySalt)
}

// DeriveKey stretches the password into a KeySize key. An empty salt selects
// the legacy fixed salt, any other salt must be SaltSize bytes.
func DeriveKey(password, salt []byte) ([]byte, error) {
	switch len(salt) {
	case 0:
		salt = LegacySalt()
	case SaltSize:
	default:
		return nil, ErrInvalidSalt
	}

	return pbkdf2.Key(password, salt, Iterations, KeySize, sha256.New), nil
}

// DeriveLegacyKey derives the key that legacy vaults were sealed with.
func DeriveLegacyKey(password []byte) ([]byte, error) {
	return DeriveKey(password, nil)
}

// GenerateSalt returns SaltSize bytes from a cryptographically secure source.
func GenerateSalt() ([]byte, error) {
	salt := make([]byte, SaltSize)
	if n, err := rand.Read(salt); n != SaltSize || err != nil {
		return nil, fmt.Errorf("failed to get randomness for salt: %w", err)
	}

	return salt, nil
}

// NewKey generates a fresh salt and derives a key from it in one step, which
// is what every write path needs.
func NewKey(password []byte) (key, salt []byte, err error) {
	salt, err = GenerateSalt()
	if err != nil {
		return nil, nil, err
	}

	key, err = DeriveKey(password, salt)
	if err != nil {
		Wipe(salt)
		return nil, nil, err
	}

	return key, salt, nil
}
