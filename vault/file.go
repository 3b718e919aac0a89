package vault

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gofrs/uuid"
)

const (
	fileMode = 0600
	dirMode  = 0700
)

// readFile returns the vault file's contents, exists is false when there is
// no file at path.
func readFile(path string) (data []byte, exists bool, err error) {
	data, err = os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, &IOError{Op: "read", Path: path, Err: err}
	}

	return data, true, nil
}

// writeFile replaces path with data. A temporary file is written and synced
// next to path before being renamed over it so a crash leaves either the old
// or the new file, never a mix.
func writeFile(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	if err = os.MkdirAll(dir, dirMode); err != nil {
		return &IOError{Op: "create directory", Path: dir, Err: err}
	}

	id, err := uuid.NewV4()
	if err != nil {
		return &IOError{Op: "name temp file for", Path: path, Err: err}
	}
	tmp := filepath.Join(dir, "."+filepath.Base(path)+"."+id.String()+".tmp")

	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, fileMode)
	if err != nil {
		return &IOError{Op: "create", Path: tmp, Err: err}
	}

	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(tmp)
		}
	}()

	if _, err = f.Write(data); err != nil {
		return &IOError{Op: "write", Path: tmp, Err: err}
	}
	if err = f.Sync(); err != nil {
		return &IOError{Op: "sync", Path: tmp, Err: err}
	}
	if err = f.Chmod(fileMode); err != nil {
		return &IOError{Op: "chmod", Path: tmp, Err: err}
	}
	if err = f.Close(); err != nil {
		return &IOError{Op: "close", Path: tmp, Err: err}
	}
	if err = os.Rename(tmp, path); err != nil {
		return &IOError{Op: "rename", Path: tmp, Err: err}
	}

	return nil
}
