//go:build !liner

package main

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf16"

	"golang.org/x/sys/windows"
)

// readHidden turns off console echo while the password is typed
func readHidden() ([]byte, error) {
	stdinHandle, err := windows.GetStdHandle(windows.STD_INPUT_HANDLE)
	if err != nil {
		return nil, err
	}
	var oldMode uint32
	err = windows.GetConsoleMode(stdinHandle, &oldMode)
	if err != nil {
		return nil, err
	}

	newMode := oldMode &^ windows.ENABLE_ECHO_INPUT
	err = windows.SetConsoleMode(stdinHandle, newMode)
	if err != nil {
		return nil, err
	}

	defer func() {
		err := windows.SetConsoleMode(stdinHandle, oldMode)
		if err != nil {
			fmt.Fprintln(os.Stderr, "error resetting console:", err)
		}
		fmt.Println()
	}()

	var builder strings.Builder
	var buf [256]uint16
	var nRead uint32
Loop:
	for {
		err = windows.ReadConsole(stdinHandle, &buf[0], uint32(len(buf)), &nRead, nil)
		if err != nil {
			return nil, err
		}

		for i, c := range buf[:nRead] {
			switch c {
			case 0x0D, 0x0A:
				// Newline
				builder.WriteString(string(utf16.Decode(buf[:i])))
				break Loop
			case 0x04:
				// CTRL+D
				return nil, ErrEnd
			case 0x03:
				// CTRL+C
				return nil, ErrInterrupt
			}
		}

		builder.WriteString(string(utf16.Decode(buf[:nRead])))
	}

	// Ignore carriage return that hangs on the end
	// why ReadConsole returns \r and not \r\n is beyond me
	return []byte(strings.TrimSpace(builder.String())), nil
}
