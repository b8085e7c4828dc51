// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-journal-vault/internal/logger"
	"github.com/MKhiriev/go-journal-vault/internal/utils"
	"github.com/MKhiriev/go-journal-vault/models"
)

// restoreBatchSize bounds the rows of one multi-row INSERT so a restore
// stays under SQLite's bound-variable limit.
const restoreBatchSize = 500

type sqliteRecordStore struct {
	*DB
	logger *logger.Logger
	newID  func() string
}

// NewSQLiteRecordStore returns a [RecordStore] backed by db. The schema must
// already be migrated.
func NewSQLiteRecordStore(db *DB, logger *logger.Logger) RecordStore {
	return &sqliteRecordStore{
		DB:     db,
		logger: logger,
		newID:  utils.NewUUIDGenerator().Generate,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (models.EncryptedEntry, error) {
	var (
		entry              models.EncryptedEntry
		titleCT, titleIV   []byte
		createdAt, updated string
	)

	if err := row.Scan(
		&entry.ID,
		&titleCT,
		&titleIV,
		&entry.Body.Ciphertext,
		&entry.Body.IV,
		&createdAt,
		&updated,
	); err != nil {
		return models.EncryptedEntry{}, err
	}

	if titleCT != nil {
		entry.Title = &models.CipheredField{Ciphertext: titleCT, IV: titleIV}
	}

	var err error
	if entry.CreatedAt, err = parseTime(createdAt); err != nil {
		return models.EncryptedEntry{}, err
	}
	if entry.UpdatedAt, err = parseTime(updated); err != nil {
		return models.EncryptedEntry{}, err
	}
	return entry, nil
}

func (s *sqliteRecordStore) Get(ctx context.Context, id string) (models.EncryptedEntry, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildGetEntryQuery(id)
	if err != nil {
		return models.EncryptedEntry{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	entry, err := scanEntry(s.DB.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.EncryptedEntry{}, ErrEntryNotFound
	}
	if err != nil {
		log.Err(err).
			Str("func", "sqliteRecordStore.Get").
			Str("id", id).
			Msg("failed to read entry")
		return models.EncryptedEntry{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return entry, nil
}

func (s *sqliteRecordStore) Put(ctx context.Context, entry models.EncryptedEntry) (string, error) {
	log := logger.FromContext(ctx)

	if entry.ID == "" {
		entry.ID = s.newID()
	}

	query, args, err := buildInsertEntryQuery(true, entry)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	err = s.withRetry(ctx, func() error {
		_, execErr := s.DB.ExecContext(ctx, query, args...)
		return execErr
	})
	if err != nil {
		log.Err(err).
			Str("func", "sqliteRecordStore.Put").
			Str("id", entry.ID).
			Msg("failed to execute upsert for entry")
		return "", fmt.Errorf("%w (id=%s): %w", ErrExecutingStatement, entry.ID, err)
	}

	return entry.ID, nil
}

func (s *sqliteRecordStore) Delete(ctx context.Context, id string) error {
	log := logger.FromContext(ctx)

	query, args, err := buildDeleteEntryQuery(id)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var res sql.Result
	err = s.withRetry(ctx, func() error {
		var execErr error
		res, execErr = s.DB.ExecContext(ctx, query, args...)
		return execErr
	})
	if err != nil {
		log.Err(err).
			Str("func", "sqliteRecordStore.Delete").
			Str("id", id).
			Msg("failed to delete entry")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		return ErrEntryNotFound
	}

	return nil
}

func (s *sqliteRecordStore) List(ctx context.Context) ([]models.EncryptedEntry, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildListEntriesQuery()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "sqliteRecordStore.List").
			Msg("failed to execute query for listing entries")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	entries := make([]models.EncryptedEntry, 0)
	for rows.Next() {
		entry, scanErr := scanEntry(rows)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "sqliteRecordStore.List").
				Msg("failed to scan entry row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		entries = append(entries, entry)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", "sqliteRecordStore.List").
			Msg("error during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRow, rowsErr)
	}

	return entries, nil
}

func (s *sqliteRecordStore) GetVaultMetadata(ctx context.Context) (models.VaultMetadata, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildGetVaultMetaQuery()
	if err != nil {
		return models.VaultMetadata{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var (
		meta               models.VaultMetadata
		createdAt, updated string
	)
	err = s.DB.QueryRowContext(ctx, query, args...).Scan(
		&meta.Salt,
		&meta.EncryptedDEK,
		&meta.DEKIV,
		&meta.Iterations,
		&createdAt,
		&updated,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.VaultMetadata{}, ErrVaultMetadataNotFound
	}
	if err != nil {
		log.Err(err).
			Str("func", "sqliteRecordStore.GetVaultMetadata").
			Msg("failed to read vault metadata")
		return models.VaultMetadata{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	if meta.CreatedAt, err = parseTime(createdAt); err != nil {
		return models.VaultMetadata{}, err
	}
	if meta.UpdatedAt, err = parseTime(updated); err != nil {
		return models.VaultMetadata{}, err
	}

	return meta, nil
}

func (s *sqliteRecordStore) CreateVaultMetadata(ctx context.Context, meta models.VaultMetadata) error {
	log := logger.FromContext(ctx)

	query, args, err := buildCreateVaultMetaQuery(meta)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	err = s.withRetry(ctx, func() error {
		_, execErr := s.DB.ExecContext(ctx, query, args...)
		return execErr
	})
	if isConstraintViolation(err) {
		return ErrVaultMetadataExists
	}
	if err != nil {
		log.Err(err).
			Str("func", "sqliteRecordStore.CreateVaultMetadata").
			Msg("failed to create vault metadata")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

func (s *sqliteRecordStore) PutVaultMetadata(ctx context.Context, meta models.VaultMetadata) error {
	log := logger.FromContext(ctx)

	query, args, err := buildPutVaultMetaQuery(meta)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	err = s.withRetry(ctx, func() error {
		_, execErr := s.DB.ExecContext(ctx, query, args...)
		return execErr
	})
	if err != nil {
		log.Err(err).
			Str("func", "sqliteRecordStore.PutVaultMetadata").
			Msg("failed to write vault metadata")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

func (s *sqliteRecordStore) Clear(ctx context.Context) error {
	return s.inTx(ctx, "sqliteRecordStore.Clear", func(tx *sql.Tx) error {
		return clearTx(ctx, tx)
	})
}

func (s *sqliteRecordStore) Restore(ctx context.Context, meta models.VaultMetadata, entries []models.EncryptedEntry) error {
	return s.inTx(ctx, "sqliteRecordStore.Restore", func(tx *sql.Tx) error {
		if err := clearTx(ctx, tx); err != nil {
			return err
		}

		query, args, err := buildPutVaultMetaQuery(meta)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
		}
		if _, err = tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}

		for start := 0; start < len(entries); start += restoreBatchSize {
			batch := entries[start:min(start+restoreBatchSize, len(entries))]
			for _, e := range batch {
				if e.ID == "" {
					return ErrEmptyEntryID
				}
			}

			query, args, err = buildInsertEntryQuery(false, batch...)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
			}
			if _, err = tx.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
			}
		}
		return nil
	})
}

func clearTx(ctx context.Context, tx *sql.Tx) error {
	queries, err := buildClearQueries()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	for _, q := range queries {
		if _, err := tx.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
	}
	return nil
}

// inTx runs fn in a transaction, committing on success and rolling back on
// any error.
func (s *sqliteRecordStore) inTx(ctx context.Context, funcName string, fn func(tx *sql.Tx) error) error {
	log := logger.FromContext(ctx)

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", funcName).Msg("failed to begin transaction")
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}

	if err = fn(tx); err != nil {
		log.Err(err).Str("func", funcName).Msg("transaction failed, rolling back")
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Err(rbErr).Str("func", funcName).Msg("rollback failed")
		}
		return err
	}

	if err = tx.Commit(); err != nil {
		log.Err(err).Str("func", funcName).Msg("failed to commit transaction")
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}
	return nil
}

func (s *sqliteRecordStore) Close() error {
	return s.DB.Close()
}
