// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-journal-vault/internal/validators"
	"github.com/MKhiriev/go-journal-vault/models"
)

// JournalServiceWrapper defines middleware composition for JournalService.
// Implementations wrap an existing JournalService to add behavior such as
// validation.
type JournalServiceWrapper interface {
	Wrap(JournalService) JournalService // returns a decorated JournalService applying additional behavior
}

// JournalValidationService rejects malformed entries before they reach the
// codec. Reads pass straight through.
type JournalValidationService struct {
	inner     JournalService
	validator validators.Validator
}

func NewJournalValidationService() JournalServiceWrapper {
	return &JournalValidationService{
		validator: validators.NewEntryValidator(),
	}
}

func (v *JournalValidationService) Save(ctx context.Context, sess *Session, id string, plain models.PlainEntry) (string, error) {
	if err := v.validator.Validate(ctx, plain); err != nil {
		return "", fmt.Errorf("error during entry validation before saving: %w", err)
	}

	return v.inner.Save(ctx, sess, id, plain)
}

func (v *JournalValidationService) Get(ctx context.Context, sess *Session, id string) (models.DecryptedEntry, error) {
	return v.inner.Get(ctx, sess, id)
}

func (v *JournalValidationService) Delete(ctx context.Context, sess *Session, id string) error {
	return v.inner.Delete(ctx, sess, id)
}

func (v *JournalValidationService) List(ctx context.Context, sess *Session) ([]models.DecryptedEntry, error) {
	return v.inner.List(ctx, sess)
}

func (v *JournalValidationService) Timeline(ctx context.Context, sess *Session) ([]models.TimelineYear, error) {
	return v.inner.Timeline(ctx, sess)
}

func (v *JournalValidationService) Count(ctx context.Context) (int, error) {
	return v.inner.Count(ctx)
}

func (v *JournalValidationService) Wrap(wrapped JournalService) JournalService {
	v.inner = wrapped
	return v
}
