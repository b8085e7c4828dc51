// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-journal-vault/internal/config"
	"github.com/MKhiriev/go-journal-vault/internal/crypto"
	"github.com/MKhiriev/go-journal-vault/internal/mock"
	"github.com/MKhiriev/go-journal-vault/internal/store"
	"github.com/MKhiriev/go-journal-vault/internal/utils"
	"github.com/MKhiriev/go-journal-vault/models"
)

// seedVault sets up a vault with two entries and returns the exported bytes.
func seedVault(t *testing.T, env *testEnv) []byte {
	t.Helper()
	ctx := context.Background()

	sess, err := env.vault.Setup(ctx, "Sunflower88")
	require.NoError(t, err)

	_, err = env.journal.Save(ctx, sess, "", models.PlainEntry{Title: "Day One", Body: "Hello vault"})
	require.NoError(t, err)
	_, err = env.journal.Save(ctx, sess, "", models.PlainEntry{Body: "untitled <b>&</b>"})
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = env.backup.Export(ctx, &buf)
	require.NoError(t, err)
	return buf.Bytes()
}

// resign recomputes the checksum of a modified document.
func resign(t *testing.T, obj map[string]any) []byte {
	t.Helper()

	delete(obj, "checksum")
	canonical, err := utils.CanonicalJSON(obj)
	require.NoError(t, err)
	obj["checksum"] = crypto.NewEngine().Hash(canonical)

	out, err := json.Marshal(obj)
	require.NoError(t, err)
	return out
}

func decodeObject(t *testing.T, data []byte) map[string]any {
	t.Helper()
	obj, err := utils.DecodeJSONObject(bytes.NewReader(data))
	require.NoError(t, err)
	return obj
}

func TestBackup_ExportDocument(t *testing.T) {
	env := newTestEnv(t, config.DriverFile)
	data := seedVault(t, env)

	var doc models.BackupDocument
	require.NoError(t, json.Unmarshal(data, &doc))

	assert.Equal(t, models.BackupVersion, doc.Version)
	require.NotNil(t, doc.Vault)
	assert.Equal(t, testIterations, doc.Vault.Iterations)
	require.Len(t, doc.Entries, 2)
	assert.Len(t, doc.Checksum, 64)

	// the untitled entry is newest, and carries no title members
	assert.Empty(t, doc.Entries[0].TitleCiphertext)
	assert.Empty(t, doc.Entries[0].TitleIV)
	assert.NotEmpty(t, doc.Entries[1].TitleCiphertext)

	raw := decodeObject(t, data)
	first := raw["entries"].([]any)[0].(map[string]any)
	assert.NotContains(t, first, "titleIv")

	assert.NotContains(t, string(data), "Hello vault")
	assert.NotContains(t, string(data), "Day One")
}

func TestBackup_ExportEmptyVault(t *testing.T) {
	env := newTestEnv(t, config.DriverFile)
	ctx := context.Background()

	_, err := env.vault.Setup(ctx, "Sunflower88")
	require.NoError(t, err)

	var buf bytes.Buffer
	doc, err := env.backup.Export(ctx, &buf)
	require.NoError(t, err)
	assert.NotNil(t, doc.Entries)
	assert.Contains(t, buf.String(), `"entries": []`)
}

func TestBackup_ExportWithoutVault(t *testing.T) {
	env := newTestEnv(t, config.DriverFile)

	var buf bytes.Buffer
	_, err := env.backup.Export(context.Background(), &buf)
	require.ErrorIs(t, err, ErrNoVault)
	assert.Zero(t, buf.Len())
}

func TestBackup_RoundTrip(t *testing.T) {
	for _, driver := range storeDrivers {
		t.Run(driver, func(t *testing.T) {
			src := newTestEnv(t, driver)
			ctx := context.Background()
			data := seedVault(t, src)

			wantMeta, err := src.store.GetVaultMetadata(ctx)
			require.NoError(t, err)
			wantEntries, err := src.store.List(ctx)
			require.NoError(t, err)

			require.NoError(t, src.vault.Reset(ctx))

			res, err := src.backup.Import(ctx, bytes.NewReader(data))
			require.NoError(t, err)
			assert.Equal(t, models.BackupVersion, res.Version)
			assert.Equal(t, 2, res.Entries)

			gotMeta, err := src.store.GetVaultMetadata(ctx)
			require.NoError(t, err)
			assert.Equal(t, wantMeta.Salt, gotMeta.Salt)
			assert.Equal(t, wantMeta.EncryptedDEK, gotMeta.EncryptedDEK)
			assert.Equal(t, wantMeta.DEKIV, gotMeta.DEKIV)
			assert.Equal(t, wantMeta.Iterations, gotMeta.Iterations)

			gotEntries, err := src.store.List(ctx)
			require.NoError(t, err)
			require.Len(t, gotEntries, len(wantEntries))
			for i := range wantEntries {
				assert.Equal(t, wantEntries[i].ID, gotEntries[i].ID)
				assert.Equal(t, wantEntries[i].Title, gotEntries[i].Title)
				assert.Equal(t, wantEntries[i].Body, gotEntries[i].Body)
				assert.True(t, wantEntries[i].CreatedAt.Equal(gotEntries[i].CreatedAt))
				assert.True(t, wantEntries[i].UpdatedAt.Equal(gotEntries[i].UpdatedAt))
			}

			state, err := src.vault.State(ctx)
			require.NoError(t, err)
			assert.Equal(t, models.VaultStateLocked, state)

			sess, err := src.vault.Unlock(ctx, "Sunflower88")
			require.NoError(t, err)
			entries, err := src.journal.List(ctx, sess)
			require.NoError(t, err)
			assert.Equal(t, "Day One", entries[1].Title)
			assert.Equal(t, "untitled <b>&</b>", entries[0].Body)
		})
	}
}

func TestBackup_ImportOnAnotherDevice(t *testing.T) {
	data := seedVault(t, newTestEnv(t, config.DriverSQLite))

	dst := newTestEnv(t, config.DriverFile)
	ctx := context.Background()

	_, err := dst.backup.Import(ctx, bytes.NewReader(data))
	require.NoError(t, err)

	sess, err := dst.vault.Unlock(ctx, "Sunflower88")
	require.NoError(t, err)

	entries, err := dst.journal.List(ctx, sess)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Hello vault", entries[1].Body)
}

func TestBackup_ImportReplacesExistingVault(t *testing.T) {
	data := seedVault(t, newTestEnv(t, config.DriverFile))

	dst := newTestEnv(t, config.DriverFile)
	ctx := context.Background()

	sess, err := dst.vault.Setup(ctx, "local-password")
	require.NoError(t, err)
	_, err = dst.journal.Save(ctx, sess, "", models.PlainEntry{Body: "local only"})
	require.NoError(t, err)

	_, err = dst.backup.Import(ctx, bytes.NewReader(data))
	require.NoError(t, err)
	assert.False(t, sess.Active())

	_, err = dst.vault.Unlock(ctx, "local-password")
	require.ErrorIs(t, err, ErrInvalidPassword)

	count, err := dst.journal.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestBackup_TamperDetection(t *testing.T) {
	env := newTestEnv(t, config.DriverFile)
	ctx := context.Background()
	data := seedVault(t, env)

	beforeEntries, err := env.store.List(ctx)
	require.NoError(t, err)
	beforeMeta, err := env.store.GetVaultMetadata(ctx)
	require.NoError(t, err)

	marker := []byte(`"bodyCiphertext": "`)
	pos := bytes.Index(data, marker)
	require.Positive(t, pos)
	pos += len(marker)

	tampered := bytes.Clone(data)
	if tampered[pos] == 'A' {
		tampered[pos] = 'B'
	} else {
		tampered[pos] = 'A'
	}

	_, err = env.backup.Import(ctx, bytes.NewReader(tampered))
	require.ErrorIs(t, err, ErrBackupIntegrity)
	assert.NotErrorIs(t, err, ErrBackupFormat)

	afterEntries, err := env.store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, beforeEntries, afterEntries)
	afterMeta, err := env.store.GetVaultMetadata(ctx)
	require.NoError(t, err)
	assert.Equal(t, beforeMeta, afterMeta)
}

func TestBackup_TamperedChecksumOrCreatedAt(t *testing.T) {
	env := newTestEnv(t, config.DriverFile)
	data := seedVault(t, env)

	t.Run("checksum", func(t *testing.T) {
		obj := decodeObject(t, data)
		obj["checksum"] = strings.Repeat("0", 64)
		out, err := json.Marshal(obj)
		require.NoError(t, err)

		_, err = env.backup.Import(context.Background(), bytes.NewReader(out))
		require.ErrorIs(t, err, ErrBackupIntegrity)
	})

	t.Run("createdAt", func(t *testing.T) {
		obj := decodeObject(t, data)
		obj["createdAt"] = "2000-01-01T00:00:00Z"
		out, err := json.Marshal(obj)
		require.NoError(t, err)

		_, err = env.backup.Import(context.Background(), bytes.NewReader(out))
		require.ErrorIs(t, err, ErrBackupIntegrity)
	})
}

func TestBackup_ChecksumIgnoresKeyOrderAndWhitespace(t *testing.T) {
	env := newTestEnv(t, config.DriverFile)
	data := seedVault(t, env)

	// compact encoding with keys in a different order
	compact, err := json.Marshal(decodeObject(t, data))
	require.NoError(t, err)
	require.NotEqual(t, data, compact)

	res, err := env.backup.Import(context.Background(), bytes.NewReader(compact))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Entries)
}

func TestBackup_FormatErrors(t *testing.T) {
	env := newTestEnv(t, config.DriverFile)
	data := seedVault(t, env)

	mutate := func(fn func(obj map[string]any)) []byte {
		obj := decodeObject(t, data)
		fn(obj)
		return resign(t, obj)
	}
	firstEntry := func(obj map[string]any) map[string]any {
		return obj["entries"].([]any)[0].(map[string]any)
	}

	tests := []struct {
		name  string
		input []byte
	}{
		{name: "empty input", input: nil},
		{name: "not json", input: []byte("definitely not a backup")},
		{name: "json array", input: []byte(`[1,2,3]`)},
		{name: "truncated", input: data[:len(data)/2]},
		{name: "missing checksum", input: func() []byte {
			obj := decodeObject(t, data)
			delete(obj, "checksum")
			out, _ := json.Marshal(obj)
			return out
		}()},
		{name: "numeric checksum", input: func() []byte {
			obj := decodeObject(t, data)
			obj["checksum"] = 42
			out, _ := json.Marshal(obj)
			return out
		}()},
		{name: "null vault", input: mutate(func(obj map[string]any) { obj["vault"] = nil })},
		{name: "unsupported version", input: mutate(func(obj map[string]any) { obj["version"] = "2.0.0" })},
		{name: "bad salt base64", input: mutate(func(obj map[string]any) {
			obj["vault"].(map[string]any)["salt"] = "!!!not-base64!!!"
		})},
		{name: "short dek iv", input: mutate(func(obj map[string]any) {
			obj["vault"].(map[string]any)["dekIv"] = "AAAA"
		})},
		{name: "negative iterations", input: mutate(func(obj map[string]any) {
			obj["vault"].(map[string]any)["iterations"] = -5
		})},
		{name: "bad entry timestamp", input: mutate(func(obj map[string]any) {
			firstEntry(obj)["createdAt"] = "yesterday"
		})},
		{name: "empty entry id", input: mutate(func(obj map[string]any) {
			firstEntry(obj)["id"] = ""
		})},
		{name: "fractional entry id", input: mutate(func(obj map[string]any) {
			firstEntry(obj)["id"] = 1.5
		})},
		{name: "duplicate entry id", input: mutate(func(obj map[string]any) {
			entries := obj["entries"].([]any)
			entries[1].(map[string]any)["id"] = entries[0].(map[string]any)["id"]
		})},
		{name: "title iv without ciphertext", input: mutate(func(obj map[string]any) {
			firstEntry(obj)["titleIv"] = "AAAAAAAAAAAAAAAA"
		})},
		{name: "entries not an array", input: mutate(func(obj map[string]any) { obj["entries"] = "none" })},
		{name: "entries missing", input: mutate(func(obj map[string]any) { delete(obj, "entries") })},
		{name: "entries null", input: mutate(func(obj map[string]any) { obj["entries"] = nil })},
		{name: "createdAt missing", input: mutate(func(obj map[string]any) { delete(obj, "createdAt") })},
		{name: "createdAt garbage", input: mutate(func(obj map[string]any) { obj["createdAt"] = "last tuesday" })},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.backup.Import(context.Background(), bytes.NewReader(tt.input))
			require.ErrorIs(t, err, ErrBackupFormat)
			assert.NotErrorIs(t, err, ErrBackupIntegrity)

			stored, err := env.store.List(context.Background())
			require.NoError(t, err)
			assert.Len(t, stored, 2, "a rejected backup must leave the journal untouched")
		})
	}

	count, err := env.journal.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count, "failed imports must not touch the store")
}

func TestBackup_ImportAcceptsLegacyShapes(t *testing.T) {
	env := newTestEnv(t, config.DriverFile)
	data := seedVault(t, env)
	ctx := context.Background()

	obj := decodeObject(t, data)
	delete(obj["vault"].(map[string]any), "iterations")
	obj["entries"].([]any)[0].(map[string]any)["id"] = json.Number("17")

	_, err := env.backup.Import(ctx, bytes.NewReader(resign(t, obj)))
	require.NoError(t, err)

	meta, err := env.store.GetVaultMetadata(ctx)
	require.NoError(t, err)
	assert.Equal(t, crypto.DefaultIterations, meta.Iterations)

	_, err = env.store.Get(ctx, "17")
	require.NoError(t, err)
}

func TestBackup_ImportApplyError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	data := seedVault(t, newTestEnv(t, config.DriverFile))

	mockStore := mock.NewMockRecordStore(ctrl)
	engine := crypto.NewEngine()
	vault := NewVaultService(mockStore, engine)
	svc := NewBackupService(mockStore, vault, engine)

	mockStore.EXPECT().Restore(gomock.Any(), gomock.Any(), gomock.Len(2)).Return(store.ErrPersistingState)

	_, err := svc.Import(context.Background(), bytes.NewReader(data))
	require.ErrorIs(t, err, store.ErrPersistingState)
}

func TestBackup_ExportStoreError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := mock.NewMockRecordStore(ctrl)
	mockEngine := mock.NewMockEngine(ctrl)
	svc := NewBackupService(mockStore, nil, mockEngine)
	ctx := context.Background()

	mockStore.EXPECT().GetVaultMetadata(ctx).Return(storedMeta(), nil)
	mockStore.EXPECT().List(ctx).Return(nil, errors.New("io error"))

	var buf bytes.Buffer
	_, err := svc.Export(ctx, &buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list entries")
}

func TestBackup_ExportChecksumOverCanonicalForm(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := mock.NewMockRecordStore(ctrl)
	mockEngine := mock.NewMockEngine(ctrl)
	svc := NewBackupService(mockStore, nil, mockEngine).(*backupService)
	svc.now = func() time.Time { return fixedNow }
	ctx := context.Background()

	mockStore.EXPECT().GetVaultMetadata(ctx).Return(models.VaultMetadata{
		Salt:         []byte{1},
		EncryptedDEK: []byte{2},
		DEKIV:        []byte{3},
		Iterations:   10,
	}, nil)
	mockStore.EXPECT().List(ctx).Return(nil, nil)

	want := `{"createdAt":"2026-03-14T09:26:53Z","entries":[],"vault":{"dekIv":"Aw==","encryptedDEK":"Ag==","iterations":10,"salt":"AQ=="},"version":"1.0.0"}`
	mockEngine.EXPECT().Hash([]byte(want)).Return("abc123")

	var buf bytes.Buffer
	doc, err := svc.Export(ctx, &buf)
	require.NoError(t, err)
	assert.Equal(t, "abc123", doc.Checksum)
	assert.Contains(t, buf.String(), `"checksum": "abc123"`)
}
