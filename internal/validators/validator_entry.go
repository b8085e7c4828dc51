// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/MKhiriev/go-journal-vault/models"
)

const (
	FieldTitle = "title"
	FieldBody  = "body"
)

const (
	// MaxTitleLength limits an entry title, in characters.
	MaxTitleLength = 512
	// MaxBodyLength limits an entry body, in bytes.
	MaxBodyLength = 4 << 20
)

// EntryValidator checks [models.PlainEntry] values before they are
// encrypted.
type EntryValidator struct {
}

func NewEntryValidator() Validator {
	return &EntryValidator{}
}

func (v *EntryValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.PlainEntry:
		return v.validatePlainEntry(ctx, value, fields...)
	case *models.PlainEntry:
		return v.validatePlainEntry(ctx, *value, fields...)
	default:
		return ErrUnsupportedType
	}
}

func (v *EntryValidator) validatePlainEntry(_ context.Context, entry models.PlainEntry, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldTitle, FieldBody}
	}

	for _, f := range fields {
		switch f {
		case FieldTitle:
			if utf8.RuneCountInString(entry.Title) > MaxTitleLength {
				return ErrTitleTooLong
			}
		case FieldBody:
			if strings.TrimSpace(entry.Body) == "" {
				return ErrEmptyBody
			}
			if len(entry.Body) > MaxBodyLength {
				return ErrBodyTooLong
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}
