package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// export writes one otpauth uri per line. The file holds every secret in the
// clear so it is only readable by the current user and never overwritten.
func (u *uiContext) export(filename string) error {
	creds, err := u.vault.Credentials()
	if err != nil {
		return err
	}

	ids := maps.Keys(creds)
	slices.Sort(ids)

	f, err := os.OpenFile(filename, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			u.errorf("%s already exists, refusing to overwrite it\n", filename)
			return nil
		}
		return fmt.Errorf("failed to create file (%s): %w", filename, err)
	}
	defer f.Close()

	out := bufio.NewWriter(f)
	for _, id := range ids {
		fmt.Fprintln(out, creds[id].URI())
	}

	if err = out.Flush(); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("failed to close export file: %w", err)
	}

	u.infof("exported %d credentials to %s\n", len(ids), filename)
	return nil
}
