// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"context"
	"unicode/utf8"

	"github.com/MKhiriev/go-journal-vault/models"
)

const (
	FieldPassword     = "password"
	FieldConfirmation = "confirmation"
)

// MinPasswordLength is the shortest master password accepted at setup or
// password change, counted in characters.
const MinPasswordLength = 8

// PasswordValidator enforces the master password policy on
// [models.MasterPassword] values.
type PasswordValidator struct {
}

func NewPasswordValidator() Validator {
	return &PasswordValidator{}
}

func (v *PasswordValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.MasterPassword:
		return v.validateMasterPassword(ctx, value, fields...)
	case *models.MasterPassword:
		return v.validateMasterPassword(ctx, *value, fields...)
	default:
		return ErrUnsupportedType
	}
}

func (v *PasswordValidator) validateMasterPassword(_ context.Context, pw models.MasterPassword, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldPassword, FieldConfirmation}
	}

	for _, f := range fields {
		switch f {
		case FieldPassword:
			if utf8.RuneCountInString(pw.Password) < MinPasswordLength {
				return ErrPasswordTooShort
			}
		case FieldConfirmation:
			if pw.Password != pw.Confirmation {
				return ErrPasswordMismatch
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}
