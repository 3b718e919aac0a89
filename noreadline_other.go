//go:build !liner && !linux && !darwin && !windows

package main

import (
	"errors"
)

// readHidden has no portable implementation here, pinentry is required
func readHidden() ([]byte, error) {
	return nil, errors.New("hidden input is not supported on this platform, install a pinentry program")
}
