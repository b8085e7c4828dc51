// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import "errors"

// Vault lifecycle errors.
var (
	// ErrVaultAlreadyExists is returned by Setup when vault metadata is
	// already stored.
	ErrVaultAlreadyExists = errors.New("vault already exists")

	// ErrNoVault is returned when an operation needs vault metadata and none
	// is stored.
	ErrNoVault = errors.New("no vault")

	// ErrInvalidPassword is the single failure signal of Unlock and
	// ChangePassword. It does not distinguish a wrong password from
	// corrupted metadata.
	ErrInvalidPassword = errors.New("invalid password")

	// ErrEmptyPassword is returned when an empty master password is given
	// to Setup or ChangePassword.
	ErrEmptyPassword = errors.New("empty password")

	// ErrVaultLocked is returned when a session has been locked, or no
	// session was given, and a key is needed.
	ErrVaultLocked = errors.New("vault is locked")
)

// Record and backup errors.
var (
	// ErrRecordUndecryptable marks an entry that failed authentication under
	// the current DEK.
	ErrRecordUndecryptable = errors.New("record could not be decrypted")

	// ErrBackupFormat is returned when a backup is not well-formed: not JSON,
	// missing members, bad base64 or timestamps, unsupported version.
	ErrBackupFormat = errors.New("invalid backup format")

	// ErrBackupIntegrity is returned when a well-formed backup's checksum
	// does not match its content.
	ErrBackupIntegrity = errors.New("backup integrity check failed")
)
