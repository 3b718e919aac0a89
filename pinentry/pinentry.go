// Package pinentry finds a pinentry program and attempts to use it
package pinentry

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/aarondl/rauthy/crypt"
)

var (
	// ErrNotFound is returned when pinentry programs cannot be located.
	ErrNotFound = errors.New("pinentry program not found")
	// ErrCancelled is returned when the user closes the pinentry dialog
	ErrCancelled = errors.New("pinentry was cancelled")

	errRogue = errors.New("rogue pinentry program")

	pinEntryPrograms = []string{
		"pinentry",
		"pinentry-gnome3",
		"pinentry-kde",
		"pinentry-x11",
		"pinentry-curses",
		"pinentry-tty",
	}

	cachedPinEntry string
)

// Title is shown in the pinentry window
const Title = "Rauthy vault password"

// Program returns the pinentry program to use. $PINENTRY wins, "none" turns
// pinentry off.
func Program() (string, error) {
	program := os.Getenv("PINENTRY")
	if program == "none" {
		return "", ErrNotFound
	}
	if len(program) != 0 {
		return program, nil
	}

	if len(cachedPinEntry) == 0 {
		for _, p := range pinEntryPrograms {
			if _, err := exec.LookPath(p); err == nil {
				cachedPinEntry = p
				break
			}
		}
	}

	if len(cachedPinEntry) == 0 {
		return "", ErrNotFound
	}
	return cachedPinEntry, nil
}

// Password retrieves a password from a pinentry program if it exists.
// If a pinentry program could not be found it returns ErrNotFound.
//
// The password is returned as bytes so the caller can wipe it.
func Password(prompt string) ([]byte, error) {
	program, err := Program()
	if err != nil {
		return nil, err
	}

	cmd := exec.Command(program, "--ttyname", "/dev/tty")
	cmd.Stderr = os.Stderr

	in, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open pinentry stdin: %w", err)
	}
	out, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open pinentry stdout: %w", err)
	}

	if err = cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start pinentry: %w", err)
	}

	password, err := converse(in, out, prompt, environment())
	in.Close()
	if werr := cmd.Wait(); werr != nil && err == nil {
		err = werr
	}
	if err != nil {
		crypt.Wipe(password)
		return nil, err
	}

	return password, nil
}

func environment() map[string]string {
	env := map[string]string{"lc-ctype": "UTF-8"}
	if term := os.Getenv("TERM"); len(term) != 0 {
		env["ttytype"] = term
	}
	if display := os.Getenv("DISPLAY"); len(display) != 0 {
		env["display"] = display
	}
	return env
}

// converse speaks the assuan protocol to a pinentry
func converse(in io.Writer, out io.Reader, prompt string, options map[string]string) ([]byte, error) {
	scanner := bufio.NewScanner(out)
	getLine := func() ([]byte, error) {
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return nil, fmt.Errorf("failed to read from pinentry: %w", err)
			}
			return nil, fmt.Errorf("failed to read from pinentry: %w", io.ErrUnexpectedEOF)
		}
		return scanner.Bytes(), nil
	}

	line, err := getLine()
	if err != nil {
		return nil, err
	}
	if !bytes.HasPrefix(line, []byte("OK")) {
		return nil, errRogue
	}

	setup := []string{
		fmt.Sprintf("SETTITLE %s", escape(Title)),
		fmt.Sprintf("SETDESC %s", escape(prompt)),
	}
	for _, name := range []string{"lc-ctype", "ttytype", "display"} {
		if val, ok := options[name]; ok {
			setup = append(setup, fmt.Sprintf("OPTION %s=%s", name, val))
		}
	}

	for _, s := range setup {
		if _, err = fmt.Fprintln(in, s); err != nil {
			return nil, fmt.Errorf("failed to write to pinentry: %w", err)
		}
		if line, err = getLine(); err != nil {
			return nil, err
		}
		if string(line) != "OK" {
			return nil, fmt.Errorf("failed setting option (%s): %s", s, line)
		}
	}

	if _, err = fmt.Fprintln(in, "GETPIN"); err != nil {
		return nil, fmt.Errorf("failed to write to pinentry: %w", err)
	}

	var password []byte
	if line, err = getLine(); err != nil {
		return nil, err
	}
	if bytes.HasPrefix(line, []byte("D ")) {
		password = unescape(line[2:])
		crypt.Wipe(line)
		if line, err = getLine(); err != nil {
			crypt.Wipe(password)
			return nil, err
		}
	} else if bytes.HasPrefix(line, []byte("ERR")) && bytes.Contains(bytes.ToLower(line), []byte("cancel")) {
		return nil, ErrCancelled
	}
	if string(line) != "OK" {
		crypt.Wipe(password)
		return nil, errRogue
	}

	// Nothing useful can be done if BYE fails, the pin is already read
	_, _ = fmt.Fprintln(in, "BYE")

	if password == nil {
		password = []byte{}
	}
	return password, nil
}

// escape percent encodes the characters assuan can't carry on a line
func escape(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '%', '\r', '\n':
			fmt.Fprintf(&b, "%%%02X", c)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// unescape decodes %XX sequences into a new slice
func unescape(data []byte) []byte {
	out := make([]byte, 0, len(data))
	for i := 0; i < len(data); i++ {
		if data[i] == '%' && i+2 < len(data) {
			if n, err := strconv.ParseUint(string(data[i+1:i+3]), 16, 8); err == nil {
				out = append(out, byte(n))
				i += 2
				continue
			}
		}
		out = append(out, data[i])
	}
	return out
}
