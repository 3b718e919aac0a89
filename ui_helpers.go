package main

import (
	"bytes"
	"errors"
	"strings"

	"github.com/gookit/color"

	"github.com/aarondl/rauthy/crypt"
	"github.com/aarondl/rauthy/fuzzy"
	"github.com/aarondl/rauthy/pinentry"
)

// promptPassword asks pinentry first and falls back to hidden terminal input
func (u *uiContext) promptPassword(prompt string) ([]byte, error) {
	password, err := pinentry.Password(color.ClearCode(prompt))
	switch {
	case err == nil:
		return password, nil
	case errors.Is(err, pinentry.ErrCancelled):
		return nil, ErrInterrupt
	case !errors.Is(err, pinentry.ErrNotFound):
		u.log.Debug().Err(err).Msg("pinentry failed, using terminal")
	}

	return u.in.LineHidden(prompt)
}

// newPassword asks for a password twice and insists they match
func (u *uiContext) newPassword() ([]byte, error) {
	for {
		initial, err := u.promptPassword(inputPromptColor.Sprint("new password: "))
		if err != nil {
			return nil, err
		}
		if len(initial) == 0 {
			u.errorln("password cannot be empty")
			continue
		}

		verify, err := u.promptPassword(inputPromptColor.Sprint("verify password: "))
		if err != nil {
			crypt.Wipe(initial)
			return nil, err
		}

		match := bytes.Equal(initial, verify)
		crypt.Wipe(verify)
		if match {
			return initial, nil
		}

		crypt.Wipe(initial)
		u.errorln("passwords did not match")
	}
}

func (u *uiContext) prompt(prompt string) (string, error) {
	line, err := u.in.Line(prompt)
	if err != nil {
		return "", err
	}

	return line, nil
}

// confirm is a y/N question
func (u *uiContext) confirm(question string) (bool, error) {
	line, err := u.prompt(inputPromptColor.Sprintf("%s (y/N): ", question))
	if err != nil {
		return false, err
	}

	switch strings.TrimSpace(line) {
	case "Y", "y":
		return true, nil
	}
	return false, nil
}

// findOne returns an id iff a single one could be found, else an error
// message will have been printed to the user.
func (u *uiContext) findOne(query string) (string, bool) {
	creds, err := u.vault.Credentials()
	if err != nil {
		u.errorln(err)
		return "", false
	}

	matches := fuzzy.Find(query, creds.IDs())
	switch len(matches) {
	case 0:
		u.errorf("No matches for query (%q)\n", query)
		return "", false
	case 1:
		if query != matches[0] {
			u.infof("using: %s\n", matches[0])
		}
		return matches[0], true
	}

	u.errorf("Multiple matches for query (%q):\n  ", query)
	u.println(strings.Join(matches, "\n  "))

	return "", false
}
