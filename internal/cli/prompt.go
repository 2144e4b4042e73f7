// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"
	"golang.org/x/term"
)

// errNoPassword is returned when input ends before a password was read.
var errNoPassword = errors.New("no password entered")

// promptPassword writes label to out and reads a password from in. A
// terminal reads without echo; anything else reads one line, so passwords
// can be piped in.
func promptPassword(in io.Reader, out io.Writer, label string) (string, error) {
	f, isFile := in.(*os.File)
	if isFile && f == os.Stdin && term.IsTerminal(int(f.Fd())) {
		return linerPassword(label)
	}

	fmt.Fprintf(out, "%s: ", label)
	if isFile && term.IsTerminal(int(f.Fd())) {
		pw, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(out)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(pw), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		if errors.Is(err, io.EOF) {
			return "", errNoPassword
		}
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// linerPassword reads from the controlling terminal with liner, which
// restores the terminal mode on Ctrl-C.
func linerPassword(label string) (string, error) {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	pw, err := line.PasswordPrompt(label + ": ")
	switch {
	case errors.Is(err, liner.ErrPromptAborted), errors.Is(err, io.EOF):
		return "", errNoPassword
	case err != nil:
		return "", fmt.Errorf("read password: %w", err)
	}
	return pw, nil
}
