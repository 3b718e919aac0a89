package crypt

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
)

const (
	// NonceSize is the size of the random nonce prepended to every ciphertext
	NonceSize = 12
	// Overhead is the number of bytes Encrypt adds to a plaintext
	Overhead = NonceSize + 16
)

// Encrypt seals plaintext with AES-256-GCM. A fresh random nonce is generated
// for every call and prepended to the output:
//
//   12:nonce|ciphertext|16:tag
//
// Nonces are never accepted from the caller.
func Encrypt(key, plaintext []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, NonceSize, NonceSize+len(plaintext)+gcm.Overhead())
	if n, err := rand.Read(nonce); n != NonceSize || err != nil {
		return nil, fmt.Errorf("failed to get randomness for nonce: %w", err)
	}

	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

// Decrypt opens a blob produced by Encrypt. Every failure, including a short
// blob or a wrongly sized key, is reported as ErrAuthentication.
func Decrypt(key, blob []byte) ([]byte, error) {
	if len(blob) < Overhead {
		return nil, ErrAuthentication
	}

	gcm, err := newGCM(key)
	if err != nil {
		return nil, ErrAuthentication
	}

	plaintext, err := gcm.Open(nil, blob[:NonceSize], blob[NonceSize:], nil)
	if err != nil {
		return nil, ErrAuthentication
	}

	return plaintext, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != KeySize {
		return nil, ErrInvalidKey
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create aes cipher: %w", err)
	}

	gcm, err := cipher.NewGCMWithNonceSize(block, NonceSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create gcm: %w", err)
	}

	return gcm, nil
}
