package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/aarondl/rauthy/brand"
	"github.com/aarondl/rauthy/vault"
)

// iconTimeout bounds how long adding a credential waits on an icon lookup
const iconTimeout = 5 * time.Second

type uiContext struct {
	// Input
	in LineEditor
	// Output
	out io.Writer

	log zerolog.Logger

	dir           string
	shortFilename string
	created       bool

	vault  *vault.Vault
	brands *brand.Client
	now    func() time.Time

	// the last thing copied so it can be cleared on exit
	copied string
}

// lookupIcon returns "" when icons are off or nothing was found
func (u *uiContext) lookupIcon(issuer string) string {
	if u.brands == nil {
		return ""
	}

	ctx, cancel := context.WithTimeout(context.Background(), iconTimeout)
	defer cancel()

	return u.brands.Icon(ctx, issuer)
}

func (u *uiContext) println(a ...interface{}) {
	fmt.Fprintln(u.out, a...)
}

func (u *uiContext) printf(format string, a ...interface{}) {
	fmt.Fprintf(u.out, format, a...)
}

func (u *uiContext) errorln(a ...interface{}) {
	fmt.Fprintln(u.out, errColor.Sprint(a...))
}

func (u *uiContext) errorf(format string, a ...interface{}) {
	fmt.Fprint(u.out, errColor.Sprintf(format, a...))
}

func (u *uiContext) infoln(a ...interface{}) {
	fmt.Fprintln(u.out, infoColor.Sprint(a...))
}

func (u *uiContext) infof(format string, a ...interface{}) {
	fmt.Fprint(u.out, infoColor.Sprintf(format, a...))
}
