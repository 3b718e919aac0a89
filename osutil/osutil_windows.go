package osutil

import (
	"os"

	"golang.org/x/sys/windows"
)

// dataHome is the roaming app data folder on windows
func dataHome() (string, error) {
	if dir := os.Getenv("APPDATA"); len(dir) != 0 {
		return dir, nil
	}

	dir, err := windows.KnownFolderPath(windows.FOLDERID_RoamingAppData, 0)
	if err != nil || len(dir) == 0 {
		return "", ErrNoHome
	}

	return dir, nil
}
