// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-journal-vault/models"
)

const (
	entriesTable   = "entries"
	vaultMetaTable = "vault_meta"

	// vaultMetaID is the fixed primary key of the single vault record.
	vaultMetaID = "master"

	// timeLayout keeps a fixed number of fractional digits so that stored
	// timestamps sort lexicographically in time order.
	timeLayout = "2006-01-02T15:04:05.000000000Z"
)

var builder = sq.StatementBuilder.PlaceholderFormat(sq.Question)

var entryColumns = []string{
	"id",
	"title_ciphertext",
	"title_iv",
	"body_ciphertext",
	"body_iv",
	"created_at",
	"updated_at",
}

var vaultMetaColumns = []string{
	"salt",
	"encrypted_dek",
	"dek_iv",
	"iterations",
	"created_at",
	"updated_at",
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: bad timestamp %q: %w", ErrScanningRow, s, err)
	}
	return t.UTC(), nil
}

func buildGetEntryQuery(id string) (string, []any, error) {
	return builder.Select(entryColumns...).
		From(entriesTable).
		Where(sq.Eq{"id": id}).
		ToSql()
}

func buildListEntriesQuery() (string, []any, error) {
	return builder.Select(entryColumns...).
		From(entriesTable).
		OrderBy("created_at DESC", "id").
		ToSql()
}

// buildInsertEntryQuery builds an insert of entries; with upsert set, a
// conflicting id overwrites everything except the creation time.
func buildInsertEntryQuery(upsert bool, entries ...models.EncryptedEntry) (string, []any, error) {
	q := builder.Insert(entriesTable).Columns(entryColumns...)
	for _, e := range entries {
		var titleCT, titleIV any
		if e.Title != nil {
			titleCT, titleIV = e.Title.Ciphertext, e.Title.IV
		}
		q = q.Values(
			e.ID,
			titleCT,
			titleIV,
			e.Body.Ciphertext,
			e.Body.IV,
			formatTime(e.CreatedAt),
			formatTime(e.UpdatedAt),
		)
	}

	if upsert {
		q = q.Suffix(`ON CONFLICT(id) DO UPDATE SET
			title_ciphertext = excluded.title_ciphertext,
			title_iv         = excluded.title_iv,
			body_ciphertext  = excluded.body_ciphertext,
			body_iv          = excluded.body_iv,
			updated_at       = excluded.updated_at`)
	}

	return q.ToSql()
}

func buildDeleteEntryQuery(id string) (string, []any, error) {
	return builder.Delete(entriesTable).
		Where(sq.Eq{"id": id}).
		ToSql()
}

func buildGetVaultMetaQuery() (string, []any, error) {
	return builder.Select(vaultMetaColumns...).
		From(vaultMetaTable).
		Where(sq.Eq{"id": vaultMetaID}).
		ToSql()
}

func insertVaultMeta(meta models.VaultMetadata) sq.InsertBuilder {
	return builder.Insert(vaultMetaTable).
		Columns(append([]string{"id"}, vaultMetaColumns...)...).
		Values(
			vaultMetaID,
			meta.Salt,
			meta.EncryptedDEK,
			meta.DEKIV,
			meta.Iterations,
			formatTime(meta.CreatedAt),
			formatTime(meta.UpdatedAt),
		)
}

// buildCreateVaultMetaQuery inserts the vault record without an upsert, so
// a second vault fails on the primary key.
func buildCreateVaultMetaQuery(meta models.VaultMetadata) (string, []any, error) {
	return insertVaultMeta(meta).ToSql()
}

func buildPutVaultMetaQuery(meta models.VaultMetadata) (string, []any, error) {
	return insertVaultMeta(meta).
		Suffix(`ON CONFLICT(id) DO UPDATE SET
			salt          = excluded.salt,
			encrypted_dek = excluded.encrypted_dek,
			dek_iv        = excluded.dek_iv,
			iterations    = excluded.iterations,
			updated_at    = excluded.updated_at`).
		ToSql()
}

func buildClearQueries() ([]string, error) {
	entries, _, err := builder.Delete(entriesTable).ToSql()
	if err != nil {
		return nil, err
	}
	meta, _, err := builder.Delete(vaultMetaTable).ToSql()
	if err != nil {
		return nil, err
	}
	return []string{entries, meta}, nil
}
