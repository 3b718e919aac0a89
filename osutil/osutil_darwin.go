package osutil

import (
	"path/filepath"
)

// dataHome is ~/Library/Application Support on darwin
func dataHome() (string, error) {
	h, err := home()
	if err != nil {
		return "", err
	}

	return filepath.Join(h, "Library", "Application Support"), nil
}
