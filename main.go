package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/gookit/color"
	"github.com/mattn/go-colorable"
	"github.com/rs/zerolog"

	"github.com/aarondl/rauthy/brand"
	"github.com/aarondl/rauthy/crypt"
	"github.com/aarondl/rauthy/osutil"
	"github.com/aarondl/rauthy/vault"
)

var (
	version = "0.1.0"
)

func main() {
	parseCli()

	if versionCmd.Used {
		fmt.Println(version)
		return
	}

	if flagNoColor {
		color.Disable()
	}

	ctx := &uiContext{
		out: colorable.NewColorableStdout(),
		log: newLogger(flagVerbose, flagNoColor),
		now: time.Now,
	}
	if !flagNoIcons {
		if clientID := os.Getenv("RAUTHY_BRANDFETCH_CLIENT"); len(clientID) != 0 {
			ctx.brands = brand.New(clientID, brand.WithLogger(ctx.log))
		}
	}

	if err := setupLineEditor(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "failed to setup terminal:", err)
		os.Exit(1)
	}

	err := run(ctx)
	ctx.in.Close()
	ctx.clearClipboard()

	switch {
	case err == nil, errors.Is(err, ErrEnd):
	case errors.Is(err, ErrInterrupt):
		os.Exit(1)
	case errors.Is(err, crypt.ErrAuthentication):
		fmt.Fprintln(os.Stderr, errColor.Sprint("wrong password or corrupt vault"))
		os.Exit(1)
	default:
		fmt.Fprintln(os.Stderr, errColor.Sprint("error occurred: ", err))
		os.Exit(1)
	}
}

func newLogger(verbose, noColor bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	w := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		NoColor:    noColor,
		TimeFormat: time.Kitchen,
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

func run(u *uiContext) error {
	if err := u.openVault(); err != nil {
		return err
	}
	defer u.vault.Close()

	switch {
	case codesCmd.Used:
		return u.codes(flagQuery)
	case addCmd.Used:
		return u.add(flagURI)
	case rmCmd.Used:
		return u.removeExact(flagID)
	case importCmd.Used:
		return u.importFile(flagImportFile)
	case exportCmd.Used:
		return u.export(flagExportFile)
	}

	r := repl{ctx: u}
	return r.run()
}

func (u *uiContext) openVault() error {
	var err error
	u.dir = flagDir
	if len(u.dir) == 0 {
		if u.dir, err = osutil.DataDir(); err != nil {
			return err
		}
	}
	if u.dir, err = filepath.Abs(u.dir); err != nil {
		return err
	}
	if err = osutil.EnsureDir(u.dir); err != nil {
		return err
	}

	filename := filepath.Join(u.dir, vault.DefaultFileName)
	u.shortFilename = shortPath(filename)

	_, err = os.Stat(filename)
	switch {
	case os.IsNotExist(err):
		u.created = true
	case err != nil:
		return err
	}

	var password []byte
	if u.created {
		u.infof("creating new vault at %s\n", filename)
		password, err = u.newPassword()
	} else {
		password, err = u.promptPassword(inputPromptColor.Sprintf("%s password: ", u.shortFilename))
	}
	if err != nil {
		return err
	}

	u.vault, err = vault.Open(u.dir, password, vault.WithLogger(u.log))
	if err != nil {
		return err
	}

	u.in.SetEntryCompleter(u.completeIDs)
	return nil
}

func (u *uiContext) completeIDs(prefix string) []string {
	creds, err := u.vault.Credentials()
	if err != nil {
		return nil
	}

	var out []string
	for _, id := range creds.IDs() {
		if strings.HasPrefix(id, prefix) {
			out = append(out, id)
		}
	}
	return out
}

// clearClipboard removes a copied code unless it was since replaced by
// something else
func (u *uiContext) clearClipboard() {
	if flagNoClearClip || len(u.copied) == 0 {
		return
	}

	current, err := clipboard.ReadAll()
	if err != nil || current != u.copied {
		return
	}
	if err = clipboard.WriteAll(""); err != nil {
		u.log.Warn().Err(err).Msg("failed to clear clipboard")
	}
}

func shortPath(filename string) string {
	parts := strings.Split(filename, string(filepath.Separator))
	if len(parts) == 1 {
		return filename
	}

	var newParts []string
	for _, p := range parts[:len(parts)-1] {
		if len(p) == 0 {
			newParts = append(newParts, p)
			continue
		}
		newParts = append(newParts, string(p[0]))
	}
	newParts = append(newParts, parts[len(parts)-1])

	return strings.Join(newParts, string(filepath.Separator))
}
