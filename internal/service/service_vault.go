// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/MKhiriev/go-journal-vault/internal/crypto"
	"github.com/MKhiriev/go-journal-vault/internal/logger"
	"github.com/MKhiriev/go-journal-vault/internal/store"
	"github.com/MKhiriev/go-journal-vault/models"
)

type vaultService struct {
	mu sync.Mutex

	store   store.RecordStore
	engine  crypto.Engine
	session *Session

	iterations int
	now        func() time.Time
}

// NewVaultService returns a VaultService over recordStore. New vaults are
// derived with [crypto.DefaultIterations].
func NewVaultService(recordStore store.RecordStore, engine crypto.Engine) VaultService {
	return &vaultService{
		store:      recordStore,
		engine:     engine,
		iterations: crypto.DefaultIterations,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (v *vaultService) State(ctx context.Context) (models.VaultState, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.session.Active() {
		return models.VaultStateUnlocked, nil
	}

	_, err := v.store.GetVaultMetadata(ctx)
	if errors.Is(err, store.ErrVaultMetadataNotFound) {
		return models.VaultStateNoVault, nil
	}
	if err != nil {
		return models.VaultStateNoVault, fmt.Errorf("read vault metadata: %w", err)
	}
	return models.VaultStateLocked, nil
}

func (v *vaultService) Setup(ctx context.Context, password string) (*Session, error) {
	log := logger.FromContext(ctx)

	if password == "" {
		return nil, ErrEmptyPassword
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	_, err := v.store.GetVaultMetadata(ctx)
	if err == nil {
		return nil, ErrVaultAlreadyExists
	}
	if !errors.Is(err, store.ErrVaultMetadataNotFound) {
		return nil, fmt.Errorf("read vault metadata: %w", err)
	}

	salt, err := v.engine.RandomBytes(crypto.SaltSize)
	if err != nil {
		return nil, fmt.Errorf("error generating salt: %w", err)
	}

	kek, err := v.engine.DeriveKey(password, salt, v.iterations)
	if err != nil {
		return nil, fmt.Errorf("error deriving KEK: %w", err)
	}
	defer kek.Wipe()

	dek, err := v.engine.GenerateSymmetricKey()
	if err != nil {
		return nil, fmt.Errorf("error generating DEK: %w", err)
	}
	defer dek.Wipe()

	wrapped, err := v.engine.WrapKey(dek, kek)
	if err != nil {
		return nil, fmt.Errorf("error wrapping DEK: %w", err)
	}

	now := v.now()
	meta := models.VaultMetadata{
		Salt:         salt,
		EncryptedDEK: wrapped.Ciphertext,
		DEKIV:        wrapped.IV,
		Iterations:   v.iterations,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	err = v.store.CreateVaultMetadata(ctx, meta)
	if errors.Is(err, store.ErrVaultMetadataExists) {
		return nil, ErrVaultAlreadyExists
	}
	if err != nil {
		return nil, fmt.Errorf("save vault metadata: %w", err)
	}

	v.session.destroy()
	v.session = newSession(&dek)

	log.Info().Str("func", "vaultService.Setup").Msg("vault created")
	return v.session, nil
}

func (v *vaultService) Unlock(ctx context.Context, password string) (*Session, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.session.destroy()
	v.session = nil

	dek, err := v.recoverDEK(ctx, password, "vaultService.Unlock")
	if err != nil {
		return nil, err
	}
	defer dek.Wipe()

	v.session = newSession(&dek)
	return v.session, nil
}

func (v *vaultService) Lock() {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.session.destroy()
	v.session = nil
}

func (v *vaultService) Reset(ctx context.Context) error {
	log := logger.FromContext(ctx)

	v.mu.Lock()
	defer v.mu.Unlock()

	v.session.destroy()
	v.session = nil

	if err := v.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear store: %w", err)
	}

	log.Warn().Str("func", "vaultService.Reset").Msg("vault reset, all entries deleted")
	return nil
}

func (v *vaultService) ChangePassword(ctx context.Context, current, next string) error {
	log := logger.FromContext(ctx)

	if next == "" {
		return ErrEmptyPassword
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	meta, dek, err := v.recoverDEKWithMeta(ctx, current, "vaultService.ChangePassword")
	if err != nil {
		return err
	}
	defer dek.Wipe()

	salt, err := v.engine.RandomBytes(crypto.SaltSize)
	if err != nil {
		return fmt.Errorf("error generating salt: %w", err)
	}

	kek, err := v.engine.DeriveKey(next, salt, v.iterations)
	if err != nil {
		return fmt.Errorf("error deriving KEK: %w", err)
	}
	defer kek.Wipe()

	wrapped, err := v.engine.WrapKey(dek, kek)
	if err != nil {
		return fmt.Errorf("error wrapping DEK: %w", err)
	}

	meta.Salt = salt
	meta.EncryptedDEK = wrapped.Ciphertext
	meta.DEKIV = wrapped.IV
	meta.Iterations = v.iterations
	meta.UpdatedAt = v.now()

	if err = v.store.PutVaultMetadata(ctx, meta); err != nil {
		return fmt.Errorf("save vault metadata: %w", err)
	}

	log.Info().Str("func", "vaultService.ChangePassword").Msg("master password changed")
	return nil
}

func (v *vaultService) Restore(ctx context.Context, meta models.VaultMetadata, entries []models.EncryptedEntry) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.session.destroy()
	v.session = nil

	if err := v.store.Restore(ctx, meta, entries); err != nil {
		return fmt.Errorf("restore store: %w", err)
	}
	return nil
}

func (v *vaultService) recoverDEK(ctx context.Context, password, funcName string) (crypto.Key, error) {
	_, dek, err := v.recoverDEKWithMeta(ctx, password, funcName)
	return dek, err
}

// recoverDEKWithMeta must be called with v.mu held. Any failure after the
// metadata is read collapses into ErrInvalidPassword; the cause is only
// logged.
func (v *vaultService) recoverDEKWithMeta(ctx context.Context, password, funcName string) (models.VaultMetadata, crypto.Key, error) {
	log := logger.FromContext(ctx)

	if err := ctx.Err(); err != nil {
		return models.VaultMetadata{}, crypto.Key{}, err
	}

	meta, err := v.store.GetVaultMetadata(ctx)
	if errors.Is(err, store.ErrVaultMetadataNotFound) {
		return models.VaultMetadata{}, crypto.Key{}, ErrNoVault
	}
	if err != nil {
		return models.VaultMetadata{}, crypto.Key{}, fmt.Errorf("read vault metadata: %w", err)
	}

	iterations := meta.Iterations
	if iterations < 1 {
		iterations = crypto.DefaultIterations
	}

	kek, err := v.engine.DeriveKey(password, meta.Salt, iterations)
	if err != nil {
		log.Warn().Err(err).Str("func", funcName).Msg("key derivation failed")
		return models.VaultMetadata{}, crypto.Key{}, ErrInvalidPassword
	}
	defer kek.Wipe()

	dek, err := v.engine.UnwrapKey(meta.WrappedDEK(), kek)
	if err != nil {
		log.Warn().Err(err).Str("func", funcName).Msg("failed to unwrap DEK")
		return models.VaultMetadata{}, crypto.Key{}, ErrInvalidPassword
	}

	return meta, dek, nil
}
