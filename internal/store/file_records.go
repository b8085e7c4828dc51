// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/natefinch/atomic"

	"github.com/MKhiriev/go-journal-vault/internal/config"
	"github.com/MKhiriev/go-journal-vault/internal/logger"
	"github.com/MKhiriev/go-journal-vault/internal/utils"
	"github.com/MKhiriev/go-journal-vault/models"
)

const fileStateVersion = 1

// fileRecordStore keeps the whole store in one JSON state file that is
// rewritten atomically on every mutation, or only in memory for
// [config.MemoryDSN].
type fileRecordStore struct {
	path     string
	inMemory bool
	logger   *logger.Logger
	newID    func() string

	mu      sync.RWMutex
	vault   *models.VaultMetadata
	entries map[string]models.EncryptedEntry
}

type filePersistedState struct {
	Version int                              `json:"version"`
	Vault   *models.VaultMetadata            `json:"vault,omitempty"`
	Entries map[string]models.EncryptedEntry `json:"entries"`
}

// NewFileRecordStore opens the state file at path, or starts empty when it
// does not exist yet.
func NewFileRecordStore(path string, log *logger.Logger) (RecordStore, error) {
	if path == "" {
		path = config.MemoryDSN
	}

	s := &fileRecordStore{
		path:     path,
		inMemory: path == config.MemoryDSN,
		logger:   log,
		newID:    utils.NewUUIDGenerator().Generate,
		entries:  make(map[string]models.EncryptedEntry),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *fileRecordStore) load() error {
	if s.inMemory {
		return nil
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read store file: %w", err)
	}

	var st filePersistedState
	if err = json.Unmarshal(data, &st); err != nil {
		return fmt.Errorf("decode store file: %w", err)
	}
	if st.Version > fileStateVersion {
		return fmt.Errorf("decode store file: unsupported state version %d", st.Version)
	}

	if st.Entries != nil {
		s.entries = st.Entries
	}
	s.vault = st.Vault

	return nil
}

// persist writes the given state and only then installs it, so a failed
// write leaves memory and disk consistent.
func (s *fileRecordStore) persist(vault *models.VaultMetadata, entries map[string]models.EncryptedEntry) error {
	if !s.inMemory {
		dir := filepath.Dir(s.path)
		if dir != "." {
			if err := os.MkdirAll(dir, 0o700); err != nil {
				return fmt.Errorf("%w: create store dir: %w", ErrPersistingState, err)
			}
		}

		state := filePersistedState{Version: fileStateVersion, Vault: vault, Entries: entries}
		payload, err := json.MarshalIndent(state, "", "  ")
		if err != nil {
			return fmt.Errorf("%w: encode store: %w", ErrPersistingState, err)
		}

		if err = atomic.WriteFile(s.path, bytes.NewReader(payload)); err != nil {
			return fmt.Errorf("%w: write store file: %w", ErrPersistingState, err)
		}
	}

	s.vault = vault
	s.entries = entries
	return nil
}

func (s *fileRecordStore) Get(_ context.Context, id string) (models.EncryptedEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[id]
	if !ok {
		return models.EncryptedEntry{}, ErrEntryNotFound
	}
	return cloneEntry(entry), nil
}

func (s *fileRecordStore) Put(ctx context.Context, entry models.EncryptedEntry) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry = cloneEntry(entry)
	if entry.ID == "" {
		entry.ID = s.newID()
	}
	if existing, ok := s.entries[entry.ID]; ok {
		entry.CreatedAt = existing.CreatedAt
	}

	next := cloneEntries(s.entries)
	next[entry.ID] = entry

	if err := s.persist(s.vault, next); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "fileRecordStore.Put").
			Str("id", entry.ID).
			Msg("failed to persist entry")
		return "", err
	}
	return entry.ID, nil
}

func (s *fileRecordStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[id]; !ok {
		return ErrEntryNotFound
	}

	next := cloneEntries(s.entries)
	delete(next, id)

	if err := s.persist(s.vault, next); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "fileRecordStore.Delete").
			Str("id", id).
			Msg("failed to persist deletion")
		return err
	}
	return nil
}

func (s *fileRecordStore) List(_ context.Context) ([]models.EncryptedEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.EncryptedEntry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, cloneEntry(e))
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *fileRecordStore) GetVaultMetadata(_ context.Context) (models.VaultMetadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.vault == nil {
		return models.VaultMetadata{}, ErrVaultMetadataNotFound
	}
	return cloneMeta(*s.vault), nil
}

func (s *fileRecordStore) CreateVaultMetadata(ctx context.Context, meta models.VaultMetadata) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.vault != nil {
		return ErrVaultMetadataExists
	}

	meta = cloneMeta(meta)
	if err := s.persist(&meta, s.entries); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "fileRecordStore.CreateVaultMetadata").
			Msg("failed to persist vault metadata")
		return err
	}
	return nil
}

func (s *fileRecordStore) PutVaultMetadata(ctx context.Context, meta models.VaultMetadata) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	meta = cloneMeta(meta)
	if s.vault != nil {
		meta.CreatedAt = s.vault.CreatedAt
	}

	if err := s.persist(&meta, s.entries); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "fileRecordStore.PutVaultMetadata").
			Msg("failed to persist vault metadata")
		return err
	}
	return nil
}

func (s *fileRecordStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.persist(nil, make(map[string]models.EncryptedEntry)); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "fileRecordStore.Clear").
			Msg("failed to persist cleared store")
		return err
	}
	return nil
}

func (s *fileRecordStore) Restore(ctx context.Context, meta models.VaultMetadata, entries []models.EncryptedEntry) error {
	next := make(map[string]models.EncryptedEntry, len(entries))
	for _, e := range entries {
		if e.ID == "" {
			return ErrEmptyEntryID
		}
		next[e.ID] = cloneEntry(e)
	}
	meta = cloneMeta(meta)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.persist(&meta, next); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "fileRecordStore.Restore").
			Int("entries", len(entries)).
			Msg("failed to persist restored store")
		return err
	}
	return nil
}

func (s *fileRecordStore) Close() error {
	return nil
}

func cloneEntries(in map[string]models.EncryptedEntry) map[string]models.EncryptedEntry {
	out := make(map[string]models.EncryptedEntry, len(in)+1)
	for k, v := range in {
		out[k] = v
	}
	return out
}

func cloneEntry(e models.EncryptedEntry) models.EncryptedEntry {
	if e.Title != nil {
		e.Title = &models.CipheredField{
			Ciphertext: bytes.Clone(e.Title.Ciphertext),
			IV:         bytes.Clone(e.Title.IV),
		}
	}
	e.Body = models.CipheredField{
		Ciphertext: bytes.Clone(e.Body.Ciphertext),
		IV:         bytes.Clone(e.Body.IV),
	}
	return e
}

func cloneMeta(m models.VaultMetadata) models.VaultMetadata {
	m.Salt = bytes.Clone(m.Salt)
	m.EncryptedDEK = bytes.Clone(m.EncryptedDEK)
	m.DEKIV = bytes.Clone(m.DEKIV)
	return m
}
