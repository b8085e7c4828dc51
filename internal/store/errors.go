// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import "errors"

// Sentinel errors returned by store methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrEntryNotFound is returned when a read or delete targets an entry id
	// that is not stored.
	ErrEntryNotFound = errors.New("entry was not found")

	// ErrVaultMetadataNotFound is returned when no vault has been set up.
	ErrVaultMetadataNotFound = errors.New("vault metadata was not found")
	// ErrVaultMetadataExists is returned by CreateVaultMetadata when a vault
	// record is already stored.
	ErrVaultMetadataExists = errors.New("vault metadata already exists")

	// ErrEmptyEntryID is returned when Restore receives an entry without an id.
	ErrEmptyEntryID = errors.New("entry id is empty")

	// ErrUnsupportedDriver is returned for a storage driver name that has no
	// implementation.
	ErrUnsupportedDriver = errors.New("unsupported storage driver")
)

// Low-level storage operation errors. These are returned (or wrapped) when a
// SQL or file operation fails before any domain logic can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT against the
	// database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrBeginningTransaction is returned when the database driver cannot
	// start a new transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommitingTransaction is returned when committing an open transaction
	// fails. The transaction is considered rolled back at this point.
	ErrCommitingTransaction = errors.New("failed to commit transaction")

	// ErrExecutingStatement is returned when executing a DML statement
	// (INSERT, UPDATE, DELETE) fails.
	ErrExecutingStatement = errors.New("failed to execute statement")

	// ErrScanningRow is returned when scanning a result row fails, including
	// rows whose stored timestamps cannot be parsed.
	ErrScanningRow = errors.New("failed to scan row")

	// ErrPersistingState is returned when the file store cannot write its
	// state file.
	ErrPersistingState = errors.New("failed to persist store state")
)
