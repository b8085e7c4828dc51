// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrPasswordTooShort = errors.New("password is too short")
	ErrPasswordMismatch = errors.New("passwords do not match")

	ErrEmptyBody    = errors.New("entry body is required")
	ErrTitleTooLong = errors.New("entry title is too long")
	ErrBodyTooLong  = errors.New("entry body is too long")
)
