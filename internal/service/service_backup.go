// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/MKhiriev/go-journal-vault/internal/crypto"
	"github.com/MKhiriev/go-journal-vault/internal/logger"
	"github.com/MKhiriev/go-journal-vault/internal/store"
	"github.com/MKhiriev/go-journal-vault/internal/utils"
	"github.com/MKhiriev/go-journal-vault/models"
)

const (
	maxBackupSize         = 256 << 20
	supportedMajorVersion = "1"
	checksumField         = "checksum"
)

type backupService struct {
	store  store.RecordStore
	vault  VaultService
	engine crypto.Engine
	now    func() time.Time
}

func NewBackupService(recordStore store.RecordStore, vault VaultService, engine crypto.Engine) BackupService {
	return &backupService{
		store:  recordStore,
		vault:  vault,
		engine: engine,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (b *backupService) Export(ctx context.Context, w io.Writer) (models.BackupDocument, error) {
	log := logger.FromContext(ctx)

	meta, err := b.store.GetVaultMetadata(ctx)
	if errors.Is(err, store.ErrVaultMetadataNotFound) {
		return models.BackupDocument{}, ErrNoVault
	}
	if err != nil {
		return models.BackupDocument{}, fmt.Errorf("read vault metadata: %w", err)
	}

	recs, err := b.store.List(ctx)
	if err != nil {
		return models.BackupDocument{}, fmt.Errorf("list entries: %w", err)
	}

	doc := models.BackupDocument{
		Version:   models.BackupVersion,
		CreatedAt: b.now().Format(time.RFC3339),
		Vault: &models.BackupVault{
			Salt:         encodeB64(meta.Salt),
			EncryptedDEK: encodeB64(meta.EncryptedDEK),
			DEKIV:        encodeB64(meta.DEKIV),
			Iterations:   meta.Iterations,
		},
		Entries: make([]models.BackupEntry, 0, len(recs)),
	}
	for _, rec := range recs {
		doc.Entries = append(doc.Entries, toBackupEntry(rec))
	}

	canonical, err := utils.CanonicalJSON(doc)
	if err != nil {
		return models.BackupDocument{}, fmt.Errorf("canonicalize backup: %w", err)
	}
	doc.Checksum = b.engine.Hash(canonical)

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err = enc.Encode(doc); err != nil {
		return models.BackupDocument{}, fmt.Errorf("write backup: %w", err)
	}

	log.Info().
		Str("func", "backupService.Export").
		Int("entries", len(doc.Entries)).
		Msg("backup exported")
	return doc, nil
}

func (b *backupService) Import(ctx context.Context, r io.Reader) (models.ImportResult, error) {
	log := logger.FromContext(ctx)

	data, err := io.ReadAll(io.LimitReader(r, maxBackupSize+1))
	if err != nil {
		return models.ImportResult{}, fmt.Errorf("read backup: %w", err)
	}
	if len(data) > maxBackupSize {
		return models.ImportResult{}, fmt.Errorf("%w: file exceeds %d bytes", ErrBackupFormat, maxBackupSize)
	}

	obj, err := b.verifyChecksum(data)
	if err != nil {
		return models.ImportResult{}, err
	}
	// a missing entries member would decode to nil and the full replace
	// would then wipe every local entry
	if _, ok := obj["entries"].([]any); !ok {
		return models.ImportResult{}, fmt.Errorf("%w: entries must be an array", ErrBackupFormat)
	}

	var doc models.BackupDocument
	if err = json.Unmarshal(data, &doc); err != nil {
		return models.ImportResult{}, fmt.Errorf("%w: %w", ErrBackupFormat, err)
	}

	meta, entries, err := b.fromDocument(doc)
	if err != nil {
		return models.ImportResult{}, err
	}

	if err = b.vault.Restore(ctx, meta, entries); err != nil {
		return models.ImportResult{}, fmt.Errorf("apply backup: %w", err)
	}

	log.Info().
		Str("func", "backupService.Import").
		Str("version", doc.Version).
		Int("entries", len(entries)).
		Msg("backup imported")

	return models.ImportResult{Version: doc.Version, Entries: len(entries)}, nil
}

// verifyChecksum recomputes the checksum over the document exactly as
// received, minus the checksum member, and returns the verified object.
func (b *backupService) verifyChecksum(data []byte) (map[string]any, error) {
	obj, err := utils.DecodeJSONObject(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBackupFormat, err)
	}

	expected, ok := obj[checksumField].(string)
	if !ok || expected == "" {
		return nil, fmt.Errorf("%w: missing checksum", ErrBackupFormat)
	}
	delete(obj, checksumField)

	canonical, err := utils.CanonicalJSON(obj)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBackupFormat, err)
	}

	if !strings.EqualFold(b.engine.Hash(canonical), expected) {
		return nil, ErrBackupIntegrity
	}
	return obj, nil
}

func (b *backupService) fromDocument(doc models.BackupDocument) (models.VaultMetadata, []models.EncryptedEntry, error) {
	if major, _, _ := strings.Cut(doc.Version, "."); major != supportedMajorVersion {
		return models.VaultMetadata{}, nil, fmt.Errorf("%w: unsupported version %q", ErrBackupFormat, doc.Version)
	}
	if _, err := time.Parse(time.RFC3339Nano, doc.CreatedAt); err != nil {
		return models.VaultMetadata{}, nil, fmt.Errorf("%w: createdAt: %w", ErrBackupFormat, err)
	}
	if doc.Vault == nil {
		return models.VaultMetadata{}, nil, fmt.Errorf("%w: vault is missing", ErrBackupFormat)
	}

	meta, err := b.toVaultMetadata(*doc.Vault)
	if err != nil {
		return models.VaultMetadata{}, nil, err
	}

	entries := make([]models.EncryptedEntry, 0, len(doc.Entries))
	seen := make(map[string]struct{}, len(doc.Entries))
	for i, be := range doc.Entries {
		rec, err := toEncryptedEntry(be)
		if err != nil {
			return models.VaultMetadata{}, nil, fmt.Errorf("%w: entry %d: %w", ErrBackupFormat, i, err)
		}
		if _, dup := seen[rec.ID]; dup {
			return models.VaultMetadata{}, nil, fmt.Errorf("%w: duplicate entry id %q", ErrBackupFormat, rec.ID)
		}
		seen[rec.ID] = struct{}{}
		entries = append(entries, rec)
	}

	return meta, entries, nil
}

func (b *backupService) toVaultMetadata(v models.BackupVault) (models.VaultMetadata, error) {
	salt, err := decodeB64(v.Salt, "salt")
	if err != nil {
		return models.VaultMetadata{}, err
	}
	encryptedDEK, err := decodeB64(v.EncryptedDEK, "encryptedDEK")
	if err != nil {
		return models.VaultMetadata{}, err
	}
	dekIV, err := decodeIV(v.DEKIV, "dekIv")
	if err != nil {
		return models.VaultMetadata{}, err
	}

	iterations := v.Iterations
	switch {
	case iterations == 0:
		iterations = crypto.DefaultIterations
	case iterations < 0:
		return models.VaultMetadata{}, fmt.Errorf("%w: negative iterations", ErrBackupFormat)
	}

	now := b.now()
	return models.VaultMetadata{
		Salt:         salt,
		EncryptedDEK: encryptedDEK,
		DEKIV:        dekIV,
		Iterations:   iterations,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func toBackupEntry(rec models.EncryptedEntry) models.BackupEntry {
	be := models.BackupEntry{
		ID:             models.BackupEntryID(rec.ID),
		CreatedAt:      rec.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:      rec.UpdatedAt.UTC().Format(time.RFC3339Nano),
		BodyCiphertext: encodeB64(rec.Body.Ciphertext),
		BodyIV:         encodeB64(rec.Body.IV),
	}
	if rec.Title != nil {
		be.TitleCiphertext = encodeB64(rec.Title.Ciphertext)
		be.TitleIV = encodeB64(rec.Title.IV)
	}
	return be
}

func toEncryptedEntry(be models.BackupEntry) (models.EncryptedEntry, error) {
	if be.ID == "" {
		return models.EncryptedEntry{}, errors.New("empty id")
	}

	createdAt, err := time.Parse(time.RFC3339Nano, be.CreatedAt)
	if err != nil {
		return models.EncryptedEntry{}, fmt.Errorf("createdAt: %w", err)
	}
	updatedAt, err := time.Parse(time.RFC3339Nano, be.UpdatedAt)
	if err != nil {
		return models.EncryptedEntry{}, fmt.Errorf("updatedAt: %w", err)
	}

	body, err := decodeB64(be.BodyCiphertext, "bodyCiphertext")
	if err != nil {
		return models.EncryptedEntry{}, err
	}
	bodyIV, err := decodeIV(be.BodyIV, "bodyIv")
	if err != nil {
		return models.EncryptedEntry{}, err
	}

	rec := models.EncryptedEntry{
		ID:        string(be.ID),
		Body:      models.CipheredField{Ciphertext: body, IV: bodyIV},
		CreatedAt: createdAt.UTC(),
		UpdatedAt: updatedAt.UTC(),
	}

	switch {
	case be.TitleCiphertext == "" && be.TitleIV == "":
	case be.TitleCiphertext == "" || be.TitleIV == "":
		return models.EncryptedEntry{}, errors.New("title ciphertext and iv must be set together")
	default:
		title, err := decodeB64(be.TitleCiphertext, "titleCiphertext")
		if err != nil {
			return models.EncryptedEntry{}, err
		}
		titleIV, err := decodeIV(be.TitleIV, "titleIv")
		if err != nil {
			return models.EncryptedEntry{}, err
		}
		rec.Title = &models.CipheredField{Ciphertext: title, IV: titleIV}
	}

	return rec, nil
}

func encodeB64(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}

func decodeB64(s, field string) ([]byte, error) {
	if s == "" {
		return nil, fmt.Errorf("%w: %s is empty", ErrBackupFormat, field)
	}
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrBackupFormat, field, err)
	}
	return b, nil
}

func decodeIV(s, field string) ([]byte, error) {
	iv, err := decodeB64(s, field)
	if err != nil {
		return nil, err
	}
	if len(iv) != crypto.NonceSize {
		return nil, fmt.Errorf("%w: %s must be %d bytes", ErrBackupFormat, field, crypto.NonceSize)
	}
	return iv, nil
}
