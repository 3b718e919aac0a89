package vault

import (
	"errors"
	"fmt"
)

// Errors returned by vault operations
var (
	// ErrNoKey means the vault does not hold a complete key and salt, it
	// cannot be written.
	ErrNoKey = errors.New("vault has no key to save with")
	// ErrClosed is returned by every operation after Close
	ErrClosed = errors.New("vault is closed")
)

// IOError occurs when the vault file or its directory can't be read or
// written.
type IOError struct {
	Op   string
	Path string
	Err  error
}

// Error interface
func (i *IOError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", i.Op, i.Path, i.Err)
}

// Unwrap the underlying cause
func (i *IOError) Unwrap() error {
	return i.Err
}

// IsIOError checks if the error is an io error
func IsIOError(err error) bool {
	var i *IOError
	return errors.As(err, &i)
}
