// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"errors"

	"github.com/MKhiriev/go-journal-vault/internal/app"
	"github.com/MKhiriev/go-journal-vault/internal/store"
	"github.com/MKhiriev/go-journal-vault/internal/validators"
)

// UserMessage translates a service error into the message shown to the
// user. Errors without a dedicated message map to [app.MsgInternalError].
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidPassword):
		return app.MsgIncorrectPassword
	case errors.Is(err, ErrNoVault):
		return app.MsgNoAccountFound
	case errors.Is(err, ErrVaultAlreadyExists):
		return app.MsgVaultAlreadyExists
	case errors.Is(err, ErrVaultLocked):
		return app.MsgVaultLocked
	case errors.Is(err, ErrEmptyPassword):
		return app.MsgEmptyPassword
	case errors.Is(err, validators.ErrPasswordTooShort):
		return app.MsgPasswordTooShort
	case errors.Is(err, validators.ErrPasswordMismatch):
		return app.MsgPasswordMismatch
	case errors.Is(err, validators.ErrEmptyBody),
		errors.Is(err, validators.ErrTitleTooLong),
		errors.Is(err, validators.ErrBodyTooLong):
		return app.MsgEntryInvalid
	case errors.Is(err, ErrRecordUndecryptable):
		return app.MsgDecryptionError
	case errors.Is(err, store.ErrEntryNotFound):
		return app.MsgEntryNotFound
	case errors.Is(err, ErrBackupIntegrity):
		return app.MsgBackupCorrupted
	case errors.Is(err, ErrBackupFormat):
		return app.MsgBackupInvalid
	}
	return app.MsgInternalError
}
