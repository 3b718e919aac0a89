//go:build liner

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/peterh/liner"
)

func setupLineEditor(u *uiContext) error {
	u.in = newLinerEditor(u.out)
	return nil
}

type linerEditor struct {
	state *liner.State
	out   io.Writer
}

func newLinerEditor(out io.Writer) linerEditor {
	state := liner.NewLiner()
	state.SetTabCompletionStyle(liner.TabPrints)
	state.SetCtrlCAborts(true)

	return linerEditor{
		state: state,
		out:   out,
	}
}

// Line implements LineEditor.Line
func (l linerEditor) Line(prompt string) (string, error) {
	s, err := l.state.Prompt(prompt)
	switch err {
	case nil:
		return s, nil
	case io.EOF:
		fmt.Fprintln(l.out)
		return s, ErrEnd
	case liner.ErrPromptAborted:
		return s, ErrInterrupt
	default:
		return "", err
	}
}

// LineHidden implements LineEditor.LineHidden
func (l linerEditor) LineHidden(prompt string) ([]byte, error) {
	s, err := l.state.PasswordPrompt(prompt)
	switch err {
	case nil:
		return []byte(s), nil
	case io.EOF:
		fmt.Fprintln(l.out)
		return nil, ErrEnd
	case liner.ErrPromptAborted:
		return nil, ErrInterrupt
	default:
		return nil, err
	}
}

// AddHistory adds a line to history
func (l linerEditor) AddHistory(line string) {
	l.state.AppendHistory(line)
}

// SetEntryCompleter sets a completion function for entries. liner completes
// whole lines so the command is kept as a prefix of each candidate.
func (l linerEditor) SetEntryCompleter(fn func(string) []string) {
	l.state.SetCompleter(func(line string) []string {
		space := strings.LastIndexByte(line, ' ')
		if space < 0 {
			return nil
		}

		var out []string
		for _, id := range fn(line[space+1:]) {
			out = append(out, line[:space+1]+id)
		}
		return out
	})
}

// Close the liner editor
func (l linerEditor) Close() error {
	return l.state.Close()
}
