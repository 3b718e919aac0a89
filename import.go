package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/aarondl/rauthy/credential"
)

// importFile reads otpauth uris one per line. Blank lines and lines starting
// with # are skipped, lines that fail to parse are reported and skipped.
func (u *uiContext) importFile(filename string) error {
	if !u.created && u.vault.Len() != 0 {
		u.infoln("this vault already has credentials, ones with the same id will be replaced")
		ok, err := u.confirm("proceed")
		if err != nil {
			return err
		}
		if !ok {
			u.errorln("aborting")
			return nil
		}
	}

	f, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open import file: %w", err)
	}
	defer f.Close()

	var imported, skipped int
	scanner := bufio.NewScanner(f)
	for n := 1; scanner.Scan(); n++ {
		line := strings.TrimSpace(scanner.Text())
		if len(line) == 0 || strings.HasPrefix(line, "#") {
			continue
		}

		c, err := credential.ParseURI(line)
		if err != nil {
			u.errorf("line %d: %v\n", n, err)
			skipped++
			continue
		}

		c.Icon = u.lookupIcon(c.Issuer)
		if err = u.vault.Put(c); err != nil {
			return err
		}

		u.infoln("importing:", c.ID)
		imported++
	}
	if err = scanner.Err(); err != nil {
		return fmt.Errorf("failed to read import file: %w", err)
	}

	u.infof("import complete, %d imported, %d skipped\n", imported, skipped)
	return nil
}
