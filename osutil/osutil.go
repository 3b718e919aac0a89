// Package osutil has the small amount of platform specific behavior rauthy
// needs.
package osutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// AppName is the directory name used inside the platform's data directory
const AppName = "rauthy"

// ErrNoHome is returned when neither the environment nor the user database
// can tell us where to keep files.
var ErrNoHome = errors.New("could not determine the home directory")

// DataDir returns the per-user, app-private directory the vault file lives
// in. It is not created.
func DataDir() (string, error) {
	base, err := dataHome()
	if err != nil {
		return "", err
	}

	return filepath.Join(base, AppName), nil
}

// EnsureDir creates dir, readable only by the current user, if it doesn't
// exist yet.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}
	return nil
}

func home() (string, error) {
	dir, err := os.UserHomeDir()
	if err != nil || len(dir) == 0 {
		return "", ErrNoHome
	}
	return dir, nil
}
