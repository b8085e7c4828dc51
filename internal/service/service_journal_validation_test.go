// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-journal-vault/internal/config"
	"github.com/MKhiriev/go-journal-vault/internal/validators"
	"github.com/MKhiriev/go-journal-vault/models"
)

func TestJournalValidationService(t *testing.T) {
	env := newTestEnv(t, config.DriverFile)
	ctx := context.Background()

	journal := NewJournalValidationService().Wrap(env.journal)

	sess, err := env.vault.Setup(ctx, "Sunflower88")
	require.NoError(t, err)

	_, err = journal.Save(ctx, sess, "", models.PlainEntry{Title: "empty"})
	require.ErrorIs(t, err, validators.ErrEmptyBody)

	count, err := journal.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	id, err := journal.Save(ctx, sess, "", models.PlainEntry{Title: "t", Body: "b"})
	require.NoError(t, err)

	got, err := journal.Get(ctx, sess, id)
	require.NoError(t, err)
	assert.Equal(t, "b", got.Body)

	list, err := journal.List(ctx, sess)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	years, err := journal.Timeline(ctx, sess)
	require.NoError(t, err)
	assert.Len(t, years, 1)

	require.NoError(t, journal.Delete(ctx, sess, id))
}
