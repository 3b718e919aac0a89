//go:build !liner && !linux && !darwin

package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

func setupLineEditor(u *uiContext) error {
	u.in = newScanEditor(os.Stdin, u.out)
	return nil
}

type scanEditor struct {
	*bufio.Scanner
	io.Writer
}

func newScanEditor(in io.Reader, out io.Writer) *scanEditor {
	return &scanEditor{
		Scanner: bufio.NewScanner(in),
		Writer:  out,
	}
}

// Line implements LineEditor.Line
func (s *scanEditor) Line(prompt string) (string, error) {
	fmt.Fprint(s, prompt)
	if !s.Scanner.Scan() {
		if err := s.Scanner.Err(); err != nil {
			return "", err
		}
		return "", ErrEnd
	}

	return s.Scanner.Text(), nil
}

// LineHidden implements LineEditor.LineHidden
func (s *scanEditor) LineHidden(prompt string) ([]byte, error) {
	fmt.Fprint(s, prompt)
	return readHidden()
}

// AddHistory adds a line to history
func (s *scanEditor) AddHistory(line string) {}

// SetEntryCompleter sets a completion function for entries.
func (s *scanEditor) SetEntryCompleter(entryCompleter func(string) []string) {}

// Close the scan editor
func (s *scanEditor) Close() error { return nil }
