package vault

import (
	"github.com/aarondl/rauthy/crypt"
)

// Format is the on-disk layout of a vault file
type Format int

// Formats a vault can be in. FormatNone means nothing has been written yet.
const (
	FormatNone Format = iota
	FormatLegacy
	FormatCurrent
)

// String returns a human name for the format
func (f Format) String() string {
	switch f {
	case FormatNone:
		return "none"
	case FormatLegacy:
		return "legacy"
	case FormatCurrent:
		return "current"
	default:
		return "unknown"
	}
}

// These are the functions each entry in the formats table needs. detect is a
// cheap size check, unlock derives a key and attempts decryption.
//
// A format that unlocks without a stored salt returns a nil salt.
type (
	detectFn func(size int) bool
	unlockFn func(password, file []byte) (pt, key, salt []byte, err error)
)

type format struct {
	format Format
	detect detectFn
	unlock unlockFn
}

// formats are tried in order, the first to unlock wins. Current must stay
// ahead of legacy: a current file always passes the legacy size check.
var formats = []format{
	{format: FormatCurrent, detect: detectCurrent, unlock: unlockCurrent},
	{format: FormatLegacy, detect: detectLegacy, unlock: unlockLegacy},
}

// current: nonce || ciphertext+tag || salt
func detectCurrent(size int) bool {
	return size >= crypt.Overhead+crypt.SaltSize
}

func unlockCurrent(password, file []byte) (pt, key, salt []byte, err error) {
	split := len(file) - crypt.SaltSize
	salt = make([]byte, crypt.SaltSize)
	copy(salt, file[split:])

	key, err = crypt.DeriveKey(password, salt)
	if err != nil {
		crypt.Wipe(salt)
		return nil, nil, nil, err
	}

	pt, err = crypt.Decrypt(key, file[:split])
	if err != nil {
		crypt.Wipe(key, salt)
		return nil, nil, nil, err
	}

	return pt, key, salt, nil
}

// legacy: nonce || ciphertext+tag, sealed with the fixed salt
func detectLegacy(size int) bool {
	return size >= crypt.Overhead
}

func unlockLegacy(password, file []byte) (pt, key, salt []byte, err error) {
	key, err = crypt.DeriveLegacyKey(password)
	if err != nil {
		return nil, nil, nil, err
	}

	pt, err = crypt.Decrypt(key, file)
	if err != nil {
		crypt.Wipe(key)
		return nil, nil, nil, err
	}

	return pt, key, nil, nil
}

// unlock runs through the formats table. When nothing unlocks the file the
// error is always crypt.ErrAuthentication, which check failed is not exposed.
func unlock(password, file []byte) (pt, key, salt []byte, f Format, err error) {
	for _, candidate := range formats {
		if !candidate.detect(len(file)) {
			continue
		}

		pt, key, salt, err = candidate.unlock(password, file)
		if err != nil {
			continue
		}

		return pt, key, salt, candidate.format, nil
	}

	return nil, nil, nil, FormatNone, crypt.ErrAuthentication
}

// seal produces a file in the current format
func seal(key, salt, pt []byte) ([]byte, error) {
	if len(key) != crypt.KeySize || len(salt) != crypt.SaltSize {
		return nil, ErrNoKey
	}

	blob, err := crypt.Encrypt(key, pt)
	if err != nil {
		return nil, err
	}

	return append(blob, salt...), nil
}
