// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app contains shared application-layer constants used across the
// journal services and the command-line front end.
//
// All Msg* constants are human-readable message strings shown to the user
// to describe the outcome of an operation. Keeping them in one place ensures
// consistent wording, and keeps raw cryptographic error text away from the
// terminal.
package app

const (
	// MsgIncorrectPassword is shown for every failed unlock. It never says
	// whether the password or the stored data was at fault.
	MsgIncorrectPassword = "incorrect password"

	// MsgNoAccountFound is shown when an unlock is attempted before a vault
	// has been set up.
	MsgNoAccountFound = "no account found"

	// MsgVaultAlreadyExists is shown when setup is attempted on an
	// installation that already has a vault.
	MsgVaultAlreadyExists = "a vault already exists, reset it first"

	// MsgVaultLocked is shown when an operation needs the vault unlocked.
	MsgVaultLocked = "vault is locked"

	// MsgEmptyPassword is shown when an empty master password is supplied.
	MsgEmptyPassword = "password must not be empty"

	// MsgPasswordTooShort is shown when a new master password is shorter
	// than the policy minimum.
	MsgPasswordTooShort = "password must be at least 8 characters"

	// MsgPasswordMismatch is shown when the confirmation differs.
	MsgPasswordMismatch = "passwords do not match"

	// MsgEntryInvalid is shown when an entry is rejected before saving.
	MsgEntryInvalid = "entry is empty or too long"

	// MsgDecryptionError is the placeholder title of an entry that could not
	// be decrypted.
	MsgDecryptionError = "Decryption Error"

	// MsgEntryNotFound is shown when an entry id does not exist.
	MsgEntryNotFound = "entry not found"

	// MsgBackupCorrupted is shown when a backup's checksum does not match
	// its content.
	MsgBackupCorrupted = "backup file is corrupted or was modified"

	// MsgBackupInvalid is shown when a file is not a readable backup.
	MsgBackupInvalid = "file is not a valid journal backup"

	// MsgInternalError is shown for any failure the user cannot resolve.
	MsgInternalError = "internal error, see the log file for details"
)
