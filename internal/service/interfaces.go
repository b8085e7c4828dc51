// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"io"

	"github.com/MKhiriev/go-journal-vault/internal/crypto"
	"github.com/MKhiriev/go-journal-vault/models"
)

// VaultService owns the vault lifecycle and is the only component that ever
// holds the master password or the KEK. All state transitions are
// serialized.
//
// State machine:
//
//	NoVault --Setup--> Unlocked
//	Locked  --Unlock--> Unlocked
//	Unlocked --Lock--> Locked
//	any --Reset--> NoVault
type VaultService interface {
	// State reports the current lifecycle state.
	State(ctx context.Context) (models.VaultState, error)

	// Setup creates a new vault protected by password and returns its
	// unlocked session. It fails with [ErrVaultAlreadyExists] if a vault is
	// already stored.
	Setup(ctx context.Context, password string) (*Session, error)

	// Unlock re-derives the KEK from password and unwraps the DEK. Any live
	// session is destroyed first. Every failure to recover the DEK is
	// reported as [ErrInvalidPassword].
	Unlock(ctx context.Context, password string) (*Session, error)

	// Lock destroys the live session, if any.
	Lock()

	// Reset destroys the live session and deletes every entry and the vault
	// record. The data is unrecoverable afterwards.
	Reset(ctx context.Context) error

	// ChangePassword re-wraps the existing DEK under a key derived from next
	// and a fresh salt. Entries are not re-encrypted.
	ChangePassword(ctx context.Context, current, next string) error

	// Restore replaces all stored content with meta and entries in one
	// atomic step. The vault is Locked afterwards.
	Restore(ctx context.Context, meta models.VaultMetadata, entries []models.EncryptedEntry) error
}

// RecordCodec converts entries between plaintext and their encrypted form.
// It never sees a password and does not touch storage.
type RecordCodec interface {
	// EncryptRecord seals each field of plain under dek with its own random
	// IV. An empty title produces a nil Title.
	EncryptRecord(plain models.PlainEntry, dek crypto.Key) (models.EncryptedEntry, error)

	// DecryptRecord opens rec. Authentication failures are wrapped as
	// [ErrRecordUndecryptable].
	DecryptRecord(rec models.EncryptedEntry, dek crypto.Key) (models.PlainEntry, error)

	// DecryptAll opens recs in parallel. A record that fails is returned as a
	// placeholder; the batch itself never fails. Output order matches input.
	DecryptAll(ctx context.Context, recs []models.EncryptedEntry, dek crypto.Key) []models.DecryptedEntry
}

// JournalService reads and writes journal entries through an unlocked
// session.
type JournalService interface {
	// Save encrypts and stores plain. An empty id creates a new entry; an
	// existing id replaces it and keeps its creation time.
	Save(ctx context.Context, sess *Session, id string, plain models.PlainEntry) (string, error)
	Get(ctx context.Context, sess *Session, id string) (models.DecryptedEntry, error)
	Delete(ctx context.Context, sess *Session, id string) error
	// List returns every entry, newest first, with placeholders for entries
	// that could not be decrypted.
	List(ctx context.Context, sess *Session) ([]models.DecryptedEntry, error)
	// Timeline groups List by year, month and day, newest first.
	Timeline(ctx context.Context, sess *Session) ([]models.TimelineYear, error)
	// Count returns the number of stored entries. It needs no session.
	Count(ctx context.Context) (int, error)
}

// BackupService exports and imports the encrypted vault. Neither direction
// decrypts anything: a backup is exactly as confidential as the store.
type BackupService interface {
	// Export writes a checksummed backup document to w and returns it.
	Export(ctx context.Context, w io.Writer) (models.BackupDocument, error)

	// Import verifies and applies a backup read from r as a full replace of
	// the current vault. A malformed document is [ErrBackupFormat], a
	// checksum mismatch is [ErrBackupIntegrity]; neither mutates state.
	Import(ctx context.Context, r io.Reader) (models.ImportResult, error)
}

// IDGenerator produces new entry identifiers.
type IDGenerator interface {
	Generate() string
}
