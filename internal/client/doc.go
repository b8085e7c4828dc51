// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the journal command-line application.
//
// It wires configuration, the record store and the journal services into a
// cobra command tree. Every command that touches entry content prompts for
// the master password, unlocks the vault for the duration of the command
// and locks it again before returning.
package client
