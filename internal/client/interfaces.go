// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

// Client is a runnable command-line front end. [App] implements it.
type Client interface {
	// Run executes the process arguments and returns the command error,
	// already reported to the user.
	Run() error
}

var _ Client = (*App)(nil)

// PasswordReader obtains a secret from the user without echoing it. The
// terminal implementation is [NewTerminalPasswordReader]; tests script it.
type PasswordReader interface {
	ReadPassword(prompt string) (string, error)
}
