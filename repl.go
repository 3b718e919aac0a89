package main

import (
	"strings"

	"github.com/gookit/color"
)

const replHelp = `Rauthy repl keeps the vault unlocked while you work with it, every change
is written to disk immediately.

Vault Commands:
 passwd          - Change the vault's password
 import <file>   - Add every otpauth uri in a file (one per line)
 export <file>   - Write every credential as an otpauth uri

Credential Commands:
 add <uri>       - Add a credential from an otpauth://totp/ uri
 rm  <query>     - Delete a credential
 ls  [query]     - Lists credentials, query restricts to a fuzzy match
 codes [query]   - Show current codes and seconds until they change

 show <query>    - Show everything about a credential
 cp   <query>    - Copy the current code to the clipboard
 uri  <query>    - Print the otpauth uri (contains the secret)
 icon <query>    - Look the credential's icon up again

 help            - This help
 exit            - Leave (ctrl-d works too)

Common Arguments:
  query:  a fuzzy search on the credential id (issuer+name), an exact id
          always wins
`

const (
	promptColor  = color.FgLightBlue
	normalPrompt = "(%s)> "
)

type repl struct {
	ctx *uiContext

	prompt string
}

func (r *repl) run() error {
	r.prompt = promptColor.Sprintf(normalPrompt, r.ctx.shortFilename)

	for {
		line, err := r.ctx.in.Line(r.prompt)
		switch err {
		case ErrInterrupt:
			return err
		case ErrEnd:
			// All done
			return nil
		case nil:
			// Allow through
		default:
			return err
		}

		quit, err := r.exec(line)
		if err != nil {
			return err
		}
		if quit {
			return nil
		}
	}
}

// exec runs a single line, quit is true when the user asked to leave
func (r *repl) exec(line string) (quit bool, err error) {
	line = strings.TrimSpace(line)
	splits := strings.Fields(line)
	if len(splits) == 0 {
		return false, nil
	}

	cmd := splits[0]
	splits = splits[1:]

	// arg is everything after the command, queries may contain spaces
	arg := strings.TrimSpace(strings.TrimPrefix(line, cmd))

	unknownCmd := false
	switch cmd {
	case "passwd":
		err = r.ctx.passwd()

	case "import":
		if len(splits) < 1 {
			r.ctx.errorln("syntax: import <file>")
			return false, nil
		}
		err = r.ctx.importFile(arg)

	case "export":
		if len(splits) < 1 {
			r.ctx.errorln("syntax: export <file>")
			return false, nil
		}
		err = r.ctx.export(arg)

	case "add":
		if len(splits) < 1 {
			r.ctx.errorln("syntax: add <uri>")
			return false, nil
		}
		err = r.ctx.add(splits[0])

	case "rm":
		if len(splits) < 1 {
			r.ctx.errorln("syntax: rm <query>")
			return false, nil
		}
		err = r.ctx.remove(arg)

	case "ls":
		err = r.ctx.list(arg)

	case "codes":
		err = r.ctx.codes(arg)

	case "show", "cp", "uri", "icon":
		if len(splits) < 1 {
			r.ctx.errorf("syntax: %s <query>\n", cmd)
			return false, nil
		}

		switch cmd {
		case "show":
			err = r.ctx.show(arg)
		case "cp":
			err = r.ctx.copyCode(arg)
		case "uri":
			err = r.ctx.showURI(arg)
		case "icon":
			err = r.ctx.refreshIcon(arg)
		}

	case "help":
		r.ctx.printf("%s", replHelp)

	case "exit", "quit":
		return true, nil

	default:
		unknownCmd = true
	}

	if err != nil {
		return false, err
	}

	if unknownCmd {
		r.ctx.println(`unknown command, try "help"`)
	} else {
		r.ctx.in.AddHistory(line)
	}

	return false, nil
}
