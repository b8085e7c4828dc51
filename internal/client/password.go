// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"fmt"
	"io"
	"os"
	"runtime"

	"golang.org/x/term"
)

type terminalPasswordReader struct {
	prompts io.Writer
}

// NewTerminalPasswordReader reads passwords from the controlling terminal
// and writes prompts to prompts. When stdin is redirected the password is
// read from /dev/tty (CON on Windows), so entry text may still be piped in.
func NewTerminalPasswordReader(prompts io.Writer) PasswordReader {
	return &terminalPasswordReader{prompts: prompts}
}

func (r *terminalPasswordReader) ReadPassword(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		return r.readFrom(fd, prompt)
	}

	ttyPath := "/dev/tty"
	if runtime.GOOS == "windows" {
		ttyPath = "CON"
	}

	tty, err := os.Open(ttyPath)
	if err != nil {
		return "", usagef("cannot read password: no terminal available")
	}
	defer tty.Close()

	ttyFD := int(tty.Fd())
	if !term.IsTerminal(ttyFD) {
		return "", usagef("cannot read password: %s is not a terminal", ttyPath)
	}
	return r.readFrom(ttyFD, prompt)
}

func (r *terminalPasswordReader) readFrom(fd int, prompt string) (string, error) {
	fmt.Fprint(r.prompts, prompt)
	secret, err := term.ReadPassword(fd)
	fmt.Fprintln(r.prompts) // hidden input leaves the cursor on the prompt line
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	password := string(secret)
	for i := range secret {
		secret[i] = 0
	}
	return password, nil
}
