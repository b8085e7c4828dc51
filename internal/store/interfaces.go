// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"

	"github.com/MKhiriev/go-journal-vault/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/record_store_mock.go -package=mock

// RecordStore persists encrypted entries and the single vault metadata
// record. It never sees a key or a plaintext: every value it holds is either
// ciphertext or non-secret metadata.
type RecordStore interface {
	// Get returns the entry with id or [ErrEntryNotFound].
	Get(ctx context.Context, id string) (models.EncryptedEntry, error)
	// Put inserts or replaces the entry with entry.ID and returns that id.
	// An entry without an id is inserted under a new UUIDv7 id. The stored
	// creation time of an existing entry is kept.
	Put(ctx context.Context, entry models.EncryptedEntry) (string, error)
	// Delete removes the entry with id or returns [ErrEntryNotFound].
	Delete(ctx context.Context, id string) error
	// List returns every entry, newest first.
	List(ctx context.Context) ([]models.EncryptedEntry, error)

	// GetVaultMetadata returns the vault record or [ErrVaultMetadataNotFound].
	GetVaultMetadata(ctx context.Context) (models.VaultMetadata, error)
	// CreateVaultMetadata inserts the vault record. It returns
	// [ErrVaultMetadataExists] when one is already stored, including one
	// written concurrently by another process sharing the database.
	CreateVaultMetadata(ctx context.Context, meta models.VaultMetadata) error
	// PutVaultMetadata inserts or replaces the vault record.
	PutVaultMetadata(ctx context.Context, meta models.VaultMetadata) error

	// Clear removes all entries and the vault record.
	Clear(ctx context.Context) error
	// Restore atomically replaces all content with meta and entries. On
	// failure the previous content is left untouched.
	Restore(ctx context.Context, meta models.VaultMetadata, entries []models.EncryptedEntry) error

	Close() error
}

// ErrorClassificator decides whether a failed driver call may be retried.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}
