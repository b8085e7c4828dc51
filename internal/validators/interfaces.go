// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package validators checks user input before it reaches the vault.
//
// [PasswordValidator] enforces the master password policy on
// [models.MasterPassword] values. [EntryValidator] bounds the size of a
// [models.PlainEntry] and rejects blank bodies. Both return the sentinel
// errors of this package so callers can map them to user messages with
// errors.Is.
package validators

import "context"

// Validator checks obj and returns the first rule it breaks. When fields
// are given, only those fields are checked.
type Validator interface {
	Validate(ctx context.Context, obj any, fields ...string) error
}
