package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/gookit/color"

	"github.com/aarondl/rauthy/credential"
	"github.com/aarondl/rauthy/fuzzy"
)

var (
	errColor         = color.FgLightRed
	infoColor        = color.FgLightMagenta
	inputPromptColor = color.FgYellow
	keyColor         = color.FgLightGreen
	codeColor        = color.New(color.FgLightCyan, color.OpBold)
	secretColor      = color.New(color.FgBlue, color.BgBlue)
)

func (u *uiContext) passwd() error {
	password, err := u.newPassword()
	if err != nil {
		return err
	}

	if err = u.vault.Rekey(password); err != nil {
		return err
	}

	u.infoln("Password updated")
	return nil
}

// add parses uri and stores the credential, asking before replacing one
func (u *uiContext) add(uri string) error {
	c, err := credential.ParseURI(strings.TrimSpace(uri))
	if err != nil {
		u.errorln(err)
		return nil
	}

	if _, exists := u.vault.Get(c.ID); exists {
		ok, err := u.confirm(fmt.Sprintf("%q already exists, replace it?", c.ID))
		if err != nil {
			return err
		}
		if !ok {
			u.errorln("Aborted")
			return nil
		}
	}

	c.Icon = u.lookupIcon(c.Issuer)
	if err = u.vault.Put(c); err != nil {
		return err
	}

	u.infof("added %s\n", c.ID)
	return nil
}

func (u *uiContext) remove(query string) error {
	id, ok := u.findOne(query)
	if !ok {
		return nil
	}

	u.errorf("WARNING: This will delete %q, the secret cannot be recovered\n", id)
	line, err := u.prompt(inputPromptColor.Sprintf("type %q to proceed: ", id))
	if err != nil {
		u.errorln("Aborted")
		return nil
	}

	if line != id {
		u.errorln("Aborted")
		return nil
	}

	return u.removeExact(id)
}

// removeExact does no searching or confirmation
func (u *uiContext) removeExact(id string) error {
	removed, err := u.vault.Remove(id)
	if err != nil {
		return err
	}

	if !removed {
		u.errorf("%q not found\n", id)
		return nil
	}

	u.errorln("DELETED", id)
	return nil
}

func (u *uiContext) list(query string) error {
	creds, err := u.vault.Credentials()
	if err != nil {
		return err
	}

	ids := fuzzy.Find(query, creds.IDs())
	if len(ids) == 0 {
		u.println("No entries found")
		return nil
	}

	for _, id := range ids {
		u.printf("%s %s\n", keyColor.Sprint(id), creds[id].DisplayName())
	}
	return nil
}

// codes prints the current code of every credential matching query
func (u *uiContext) codes(query string) error {
	creds, err := u.vault.Credentials()
	if err != nil {
		return err
	}

	ids := fuzzy.Find(query, creds.IDs())
	if len(ids) == 0 {
		u.println("No entries found")
		return nil
	}

	now := u.now()
	tokens, err := u.vault.Tokens(now)
	var terrs credential.TokenErrors
	if err != nil && !errors.As(err, &terrs) {
		return err
	}

	width := 0
	for _, id := range ids {
		if len(id) > width {
			width = len(id)
		}
	}

	for _, id := range ids {
		token, ok := tokens[id]
		if !ok {
			u.printf("%s %s\n", keyColor.Sprintf("%-*s", width, id), errColor.Sprint(terrs[id]))
			continue
		}

		left := int64(token.NextStep) - now.Unix()
		u.printf("%s %s %s\n",
			keyColor.Sprintf("%-*s", width, id),
			codeColor.Sprint(token.Code),
			infoColor.Sprintf("%2ds", left),
		)
	}

	return nil
}

func (u *uiContext) show(query string) error {
	id, ok := u.findOne(query)
	if !ok {
		return nil
	}
	c, ok := u.vault.Get(id)
	if !ok {
		return nil
	}

	width := -10
	indent := 2

	u.showKeyValue("id", c.ID, width, indent)
	u.showKeyValue("issuer", c.Issuer, width, indent)
	u.showKeyValue("name", c.Name, width, indent)
	u.showHidden("secret", c.Secret, width, indent)
	u.showKeyValue("algorithm", c.Algorithm.String(), width, indent)
	u.showKeyValue("digits", strconv.Itoa(c.Digits), width, indent)
	u.showKeyValue("period", strconv.FormatUint(c.Period, 10)+"s", width, indent)
	if len(c.Icon) != 0 {
		u.showKeyValue("icon", c.Icon, width, indent)
	}

	token, err := c.Token(u.now())
	if err != nil {
		u.showKeyValue("code", errColor.Sprint(err), width, indent)
		return nil
	}
	u.showKeyValue("code", codeColor.Sprint(token.Code), width, indent)

	return nil
}

// copyCode puts the current code on the clipboard
func (u *uiContext) copyCode(query string) error {
	id, ok := u.findOne(query)
	if !ok {
		return nil
	}
	c, ok := u.vault.Get(id)
	if !ok {
		return nil
	}

	token, err := c.Token(u.now())
	if err != nil {
		u.errorln(err)
		return nil
	}

	u.copyToClipboard(token.Code)
	return nil
}

// showURI prints the provisioning uri so the credential can be moved to
// another authenticator
func (u *uiContext) showURI(query string) error {
	id, ok := u.findOne(query)
	if !ok {
		return nil
	}
	c, ok := u.vault.Get(id)
	if !ok {
		return nil
	}

	u.println(secretColor.Sprint(c.URI()))
	return nil
}

// refreshIcon looks the icon up again and stores whatever was found
func (u *uiContext) refreshIcon(query string) error {
	if u.brands == nil {
		u.errorln("icon lookups are off, set $RAUTHY_BRANDFETCH_CLIENT")
		return nil
	}

	id, ok := u.findOne(query)
	if !ok {
		return nil
	}
	c, ok := u.vault.Get(id)
	if !ok {
		return nil
	}

	c.Icon = u.lookupIcon(c.Issuer)
	if err := u.vault.Put(c); err != nil {
		return err
	}

	if len(c.Icon) == 0 {
		u.errorln("no icon found for", c.DisplayName())
		return nil
	}
	u.showKeyValue("icon", c.Icon, 0, 0)
	return nil
}

func (u *uiContext) showKeyValue(key, value string, width, indent int) {
	ind := strings.Repeat(" ", indent)
	u.printf("%s%s %s\n", ind, keyColor.Sprintf("%*s", width, key+":"), value)
}

func (u *uiContext) showHidden(key, value string, width, indent int) {
	ind := strings.Repeat(" ", indent)
	u.printf("%s%s %s\n", ind, keyColor.Sprintf("%*s", width, key+":"), secretColor.Sprint(value))
}

func (u *uiContext) copyToClipboard(txt string) {
	err := clipboard.WriteAll(txt)
	if err != nil {
		u.errorln("Failed to copy text to clipboard")
		return
	}

	u.copied = txt
	u.infoln("Copied value to clipboard")
}
