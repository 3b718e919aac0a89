//go:build !linux && !darwin && !windows

package osutil

import (
	"os"
	"path/filepath"
)

func dataHome() (string, error) {
	if dir := os.Getenv("XDG_DATA_HOME"); filepath.IsAbs(dir) {
		return dir, nil
	}

	h, err := home()
	if err != nil {
		return "", err
	}

	return filepath.Join(h, ".local", "share"), nil
}
