//go:build (linux || darwin) && !liner

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/chzyer/readline"
)

func setupLineEditor(u *uiContext) error {
	var err error
	u.in, err = newReadlineEditor(u.out)
	return err
}

type readlineEditor struct {
	currentPrompt    string
	promptNeedsReset bool
	instance         *readline.Instance
	out              io.Writer
	errOut           io.Writer
}

func newReadlineEditor(out io.Writer) (*readlineEditor, error) {
	instance, err := readline.NewEx(readlineConfig(out, nil))
	if err != nil {
		return nil, err
	}

	return &readlineEditor{instance: instance, out: out, errOut: os.Stderr}, nil
}

func readlineConfig(out io.Writer, entryCompleter func(string) []string) *readline.Config {
	var completer readline.AutoCompleter
	if entryCompleter != nil {
		completer = readlineAutocompleter(entryCompleter)
	}

	return &readline.Config{
		Prompt: "> ",

		AutoComplete: completer,

		HistoryFile:            "",
		HistoryLimit:           1000,
		DisableAutoSaveHistory: true,

		InterruptPrompt: "interrupt",
		EOFPrompt:       "exit",

		Stdin:  os.Stdin,
		Stdout: out,
		Stderr: os.Stderr,

		UniqueEditLine: false,
	}
}

// Line implements LineEditor.Line
func (r *readlineEditor) Line(prompt string) (string, error) {
	if r.currentPrompt != prompt || r.promptNeedsReset {
		r.currentPrompt = prompt
		r.promptNeedsReset = false
		r.instance.SetPrompt(prompt)
	}

	s, err := r.instance.Readline()
	switch err {
	case nil:
		return s, nil
	case io.EOF:
		r.promptNeedsReset = true
		return "", ErrEnd
	case readline.ErrInterrupt:
		return "", ErrInterrupt
	default:
		return "", err
	}
}

// LineHidden implements LineEditor.LineHidden
func (r *readlineEditor) LineHidden(prompt string) ([]byte, error) {
	byt, err := r.instance.ReadPassword(prompt)
	r.promptNeedsReset = true
	switch err {
	case nil:
		return byt, nil
	case io.EOF:
		return nil, ErrEnd
	case readline.ErrInterrupt:
		return nil, ErrInterrupt
	default:
		return nil, err
	}
}

// AddHistory adds a line to history
func (r *readlineEditor) AddHistory(line string) {
	if err := r.instance.SaveHistory(line); err != nil {
		fmt.Fprintln(r.errOut, "failed to save history line:", err)
	}
}

// SetEntryCompleter sets a completion function for entries.
func (r *readlineEditor) SetEntryCompleter(entryCompleter func(string) []string) {
	r.instance.SetConfig(readlineConfig(r.out, entryCompleter))
}

func readlineAutocompleter(entryCompleter func(string) []string) readline.AutoCompleter {
	return readline.NewPrefixCompleter(
		readline.PcItem("add"),
		readline.PcItem("rm", readline.PcItemDynamic(entryCompleter)),
		readline.PcItem("ls"),
		readline.PcItem("codes", readline.PcItemDynamic(entryCompleter)),
		readline.PcItem("show", readline.PcItemDynamic(entryCompleter)),
		readline.PcItem("cp", readline.PcItemDynamic(entryCompleter)),
		readline.PcItem("uri", readline.PcItemDynamic(entryCompleter)),
		readline.PcItem("icon", readline.PcItemDynamic(entryCompleter)),
		readline.PcItem("import"),
		readline.PcItem("export"),
		readline.PcItem("passwd"),
		readline.PcItem("help"),
		readline.PcItem("exit"),
	)
}

// Close the readline editor
func (r *readlineEditor) Close() error {
	return r.instance.Close()
}
