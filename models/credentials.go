// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// MasterPassword is a password typed at a prompt together with its
// confirmation. It exists only long enough to be validated and handed to
// the vault; it is never stored.
type MasterPassword struct {
	Password     string
	Confirmation string
}
