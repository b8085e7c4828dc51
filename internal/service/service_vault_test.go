// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-journal-vault/internal/crypto"
	"github.com/MKhiriev/go-journal-vault/internal/mock"
	"github.com/MKhiriev/go-journal-vault/internal/store"
	"github.com/MKhiriev/go-journal-vault/models"
)

var fixedNow = time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

// newTestVaultSvc builds a vaultService over mocks with a frozen clock.
func newTestVaultSvc(t *testing.T, ctrl *gomock.Controller) (*vaultService, *mock.MockRecordStore, *mock.MockEngine) {
	t.Helper()

	mockStore := mock.NewMockRecordStore(ctrl)
	mockEngine := mock.NewMockEngine(ctrl)

	svc := NewVaultService(mockStore, mockEngine).(*vaultService)
	svc.now = func() time.Time { return fixedNow }

	return svc, mockStore, mockEngine
}

func testKey(b byte) crypto.Key {
	var k crypto.Key
	for i := range k {
		k[i] = b
	}
	return k
}

func storedMeta() models.VaultMetadata {
	return models.VaultMetadata{
		Salt:         []byte("0123456789abcdef"),
		EncryptedDEK: []byte("wrapped-dek-bytes"),
		DEKIV:        []byte("123456789012"),
		Iterations:   crypto.DefaultIterations,
		CreatedAt:    fixedNow.Add(-time.Hour),
		UpdatedAt:    fixedNow.Add(-time.Hour),
	}
}

// ── Setup ────────────────────────────────────────────────────────────────────

func TestVaultService_Setup_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockStore, mockEngine := newTestVaultSvc(t, ctrl)
	ctx := context.Background()

	salt := []byte("0123456789abcdef")
	kek := testKey(1)
	dek := testKey(2)
	wrapped := models.CipheredField{Ciphertext: []byte("wrapped"), IV: []byte("123456789012")}

	gomock.InOrder(
		mockStore.EXPECT().GetVaultMetadata(ctx).Return(models.VaultMetadata{}, store.ErrVaultMetadataNotFound),
		mockEngine.EXPECT().RandomBytes(crypto.SaltSize).Return(salt, nil),
		mockEngine.EXPECT().DeriveKey("Sunflower88", salt, crypto.DefaultIterations).Return(kek, nil),
		mockEngine.EXPECT().GenerateSymmetricKey().Return(dek, nil),
		mockEngine.EXPECT().WrapKey(dek, kek).Return(wrapped, nil),
		mockStore.EXPECT().CreateVaultMetadata(ctx, gomock.Any()).DoAndReturn(
			func(_ context.Context, meta models.VaultMetadata) error {
				assert.Equal(t, salt, meta.Salt)
				assert.Equal(t, wrapped.Ciphertext, meta.EncryptedDEK)
				assert.Equal(t, wrapped.IV, meta.DEKIV)
				assert.Equal(t, crypto.DefaultIterations, meta.Iterations)
				assert.Equal(t, fixedNow, meta.CreatedAt)
				return nil
			},
		),
	)

	sess, err := svc.Setup(ctx, "Sunflower88")
	require.NoError(t, err)
	require.True(t, sess.Active())

	got, err := sess.Key()
	require.NoError(t, err)
	assert.Equal(t, dek, got)
}

func TestVaultService_Setup_EmptyPassword(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _, _ := newTestVaultSvc(t, ctrl)

	sess, err := svc.Setup(context.Background(), "")
	require.ErrorIs(t, err, ErrEmptyPassword)
	assert.Nil(t, sess)
}

func TestVaultService_Setup_AlreadyExists(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockStore, _ := newTestVaultSvc(t, ctrl)
	ctx := context.Background()

	mockStore.EXPECT().GetVaultMetadata(ctx).Return(storedMeta(), nil)

	sess, err := svc.Setup(ctx, "Sunflower88")
	require.ErrorIs(t, err, ErrVaultAlreadyExists)
	assert.Nil(t, sess)
}

func TestVaultService_Setup_LosesCreateRace(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockStore, mockEngine := newTestVaultSvc(t, ctrl)
	ctx := context.Background()

	// another process created the vault between the read and the insert
	mockStore.EXPECT().GetVaultMetadata(ctx).Return(models.VaultMetadata{}, store.ErrVaultMetadataNotFound)
	mockEngine.EXPECT().RandomBytes(crypto.SaltSize).Return([]byte("0123456789abcdef"), nil)
	mockEngine.EXPECT().DeriveKey(gomock.Any(), gomock.Any(), gomock.Any()).Return(testKey(1), nil)
	mockEngine.EXPECT().GenerateSymmetricKey().Return(testKey(2), nil)
	mockEngine.EXPECT().WrapKey(gomock.Any(), gomock.Any()).Return(models.CipheredField{}, nil)
	mockStore.EXPECT().CreateVaultMetadata(ctx, gomock.Any()).Return(store.ErrVaultMetadataExists)
	mockStore.EXPECT().PutVaultMetadata(gomock.Any(), gomock.Any()).Times(0)

	sess, err := svc.Setup(ctx, "Sunflower88")
	require.ErrorIs(t, err, ErrVaultAlreadyExists)
	assert.Nil(t, sess)
}

func TestVaultService_Setup_SaltError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockStore, mockEngine := newTestVaultSvc(t, ctrl)
	ctx := context.Background()

	mockStore.EXPECT().GetVaultMetadata(ctx).Return(models.VaultMetadata{}, store.ErrVaultMetadataNotFound)
	mockEngine.EXPECT().RandomBytes(crypto.SaltSize).Return(nil, errors.New("entropy exhausted"))

	_, err := svc.Setup(ctx, "Sunflower88")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error generating salt")
}

func TestVaultService_Setup_PersistError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockStore, mockEngine := newTestVaultSvc(t, ctrl)
	ctx := context.Background()

	mockStore.EXPECT().GetVaultMetadata(ctx).Return(models.VaultMetadata{}, store.ErrVaultMetadataNotFound)
	mockEngine.EXPECT().RandomBytes(crypto.SaltSize).Return([]byte("salt"), nil)
	mockEngine.EXPECT().DeriveKey(gomock.Any(), gomock.Any(), gomock.Any()).Return(testKey(1), nil)
	mockEngine.EXPECT().GenerateSymmetricKey().Return(testKey(2), nil)
	mockEngine.EXPECT().WrapKey(gomock.Any(), gomock.Any()).Return(models.CipheredField{}, nil)
	mockStore.EXPECT().CreateVaultMetadata(ctx, gomock.Any()).Return(errors.New("disk full"))

	sess, err := svc.Setup(ctx, "Sunflower88")
	require.Error(t, err)
	assert.Nil(t, sess)

	// the failed setup left no session behind
	mockStore.EXPECT().GetVaultMetadata(ctx).Return(models.VaultMetadata{}, store.ErrVaultMetadataNotFound)
	state, err := svc.State(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.VaultStateNoVault, state)
}

// ── Unlock ───────────────────────────────────────────────────────────────────

func TestVaultService_Unlock_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockStore, mockEngine := newTestVaultSvc(t, ctrl)
	ctx := context.Background()

	meta := storedMeta()
	kek := testKey(1)
	dek := testKey(2)

	gomock.InOrder(
		mockStore.EXPECT().GetVaultMetadata(ctx).Return(meta, nil),
		mockEngine.EXPECT().DeriveKey("Sunflower88", meta.Salt, meta.Iterations).Return(kek, nil),
		mockEngine.EXPECT().UnwrapKey(meta.WrappedDEK(), kek).Return(dek, nil),
	)

	sess, err := svc.Unlock(ctx, "Sunflower88")
	require.NoError(t, err)

	got, err := sess.Key()
	require.NoError(t, err)
	assert.Equal(t, dek, got)

	state, err := svc.State(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.VaultStateUnlocked, state)
}

func TestVaultService_Unlock_UsesStoredIterations(t *testing.T) {
	tests := []struct {
		name   string
		stored int
		want   int
	}{
		{name: "persisted count", stored: 250_000, want: 250_000},
		{name: "missing count falls back to default", stored: 0, want: crypto.DefaultIterations},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			svc, mockStore, mockEngine := newTestVaultSvc(t, ctrl)
			ctx := context.Background()

			meta := storedMeta()
			meta.Iterations = tt.stored

			mockStore.EXPECT().GetVaultMetadata(ctx).Return(meta, nil)
			mockEngine.EXPECT().DeriveKey("pw", meta.Salt, tt.want).Return(testKey(1), nil)
			mockEngine.EXPECT().UnwrapKey(gomock.Any(), gomock.Any()).Return(testKey(2), nil)

			_, err := svc.Unlock(ctx, "pw")
			require.NoError(t, err)
		})
	}
}

func TestVaultService_Unlock_NoVault(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockStore, _ := newTestVaultSvc(t, ctrl)
	ctx := context.Background()

	mockStore.EXPECT().GetVaultMetadata(ctx).Return(models.VaultMetadata{}, store.ErrVaultMetadataNotFound)

	sess, err := svc.Unlock(ctx, "Sunflower88")
	require.ErrorIs(t, err, ErrNoVault)
	assert.Nil(t, sess)
}

func TestVaultService_Unlock_SingleFailureSignal(t *testing.T) {
	tests := []struct {
		name      string
		deriveErr error
		unwrapErr error
	}{
		{name: "wrong password", unwrapErr: crypto.ErrAuthentication},
		{name: "corrupted wrap", unwrapErr: crypto.ErrInvalidKey},
		{name: "derivation rejected", deriveErr: crypto.ErrDerivation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			svc, mockStore, mockEngine := newTestVaultSvc(t, ctrl)
			ctx := context.Background()

			mockStore.EXPECT().GetVaultMetadata(ctx).Return(storedMeta(), nil)
			mockEngine.EXPECT().DeriveKey(gomock.Any(), gomock.Any(), gomock.Any()).Return(testKey(1), tt.deriveErr)
			if tt.deriveErr == nil {
				mockEngine.EXPECT().UnwrapKey(gomock.Any(), gomock.Any()).Return(crypto.Key{}, tt.unwrapErr)
			}

			sess, err := svc.Unlock(ctx, "wrong")
			require.ErrorIs(t, err, ErrInvalidPassword)
			assert.NotErrorIs(t, err, crypto.ErrAuthentication)
			assert.Nil(t, sess)
		})
	}
}

func TestVaultService_Unlock_FailureDestroysPreviousSession(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockStore, mockEngine := newTestVaultSvc(t, ctrl)
	ctx := context.Background()

	mockStore.EXPECT().GetVaultMetadata(ctx).Return(storedMeta(), nil).Times(2)
	mockEngine.EXPECT().DeriveKey(gomock.Any(), gomock.Any(), gomock.Any()).Return(testKey(1), nil).Times(2)
	gomock.InOrder(
		mockEngine.EXPECT().UnwrapKey(gomock.Any(), gomock.Any()).Return(testKey(2), nil),
		mockEngine.EXPECT().UnwrapKey(gomock.Any(), gomock.Any()).Return(crypto.Key{}, crypto.ErrAuthentication),
	)

	first, err := svc.Unlock(ctx, "Sunflower88")
	require.NoError(t, err)

	_, err = svc.Unlock(ctx, "wrong")
	require.ErrorIs(t, err, ErrInvalidPassword)

	assert.False(t, first.Active())
	_, err = first.Key()
	assert.ErrorIs(t, err, ErrVaultLocked)
}

// ── Lock / State / Reset ─────────────────────────────────────────────────────

func TestVaultService_Lock(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockStore, mockEngine := newTestVaultSvc(t, ctrl)
	ctx := context.Background()

	mockStore.EXPECT().GetVaultMetadata(ctx).Return(storedMeta(), nil).AnyTimes()
	mockEngine.EXPECT().DeriveKey(gomock.Any(), gomock.Any(), gomock.Any()).Return(testKey(1), nil)
	mockEngine.EXPECT().UnwrapKey(gomock.Any(), gomock.Any()).Return(testKey(2), nil)

	sess, err := svc.Unlock(ctx, "Sunflower88")
	require.NoError(t, err)

	svc.Lock()
	svc.Lock()

	assert.False(t, sess.Active())
	_, err = sess.Key()
	require.ErrorIs(t, err, ErrVaultLocked)

	state, err := svc.State(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.VaultStateLocked, state)
}

func TestVaultService_State(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockStore, _ := newTestVaultSvc(t, ctrl)
	ctx := context.Background()

	gomock.InOrder(
		mockStore.EXPECT().GetVaultMetadata(ctx).Return(models.VaultMetadata{}, store.ErrVaultMetadataNotFound),
		mockStore.EXPECT().GetVaultMetadata(ctx).Return(storedMeta(), nil),
		mockStore.EXPECT().GetVaultMetadata(ctx).Return(models.VaultMetadata{}, errors.New("io error")),
	)

	state, err := svc.State(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.VaultStateNoVault, state)

	state, err = svc.State(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.VaultStateLocked, state)

	_, err = svc.State(ctx)
	require.Error(t, err)
}

func TestVaultService_Reset(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockStore, mockEngine := newTestVaultSvc(t, ctrl)
	ctx := context.Background()

	mockStore.EXPECT().GetVaultMetadata(ctx).Return(storedMeta(), nil)
	mockEngine.EXPECT().DeriveKey(gomock.Any(), gomock.Any(), gomock.Any()).Return(testKey(1), nil)
	mockEngine.EXPECT().UnwrapKey(gomock.Any(), gomock.Any()).Return(testKey(2), nil)
	mockStore.EXPECT().Clear(ctx).Return(nil)

	sess, err := svc.Unlock(ctx, "Sunflower88")
	require.NoError(t, err)

	require.NoError(t, svc.Reset(ctx))
	assert.False(t, sess.Active())
}

func TestVaultService_Reset_StoreError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockStore, _ := newTestVaultSvc(t, ctrl)
	ctx := context.Background()

	mockStore.EXPECT().Clear(ctx).Return(errors.New("locked"))

	err := svc.Reset(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "clear store")
}

// ── ChangePassword ───────────────────────────────────────────────────────────

func TestVaultService_ChangePassword_RewrapsSameDEK(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockStore, mockEngine := newTestVaultSvc(t, ctrl)
	ctx := context.Background()

	meta := storedMeta()
	oldKEK := testKey(1)
	newKEK := testKey(3)
	dek := testKey(2)
	newSalt := []byte("fedcba9876543210")
	rewrapped := models.CipheredField{Ciphertext: []byte("rewrapped"), IV: []byte("210987654321")}

	gomock.InOrder(
		mockStore.EXPECT().GetVaultMetadata(ctx).Return(meta, nil),
		mockEngine.EXPECT().DeriveKey("old-password", meta.Salt, meta.Iterations).Return(oldKEK, nil),
		mockEngine.EXPECT().UnwrapKey(meta.WrappedDEK(), oldKEK).Return(dek, nil),
		mockEngine.EXPECT().RandomBytes(crypto.SaltSize).Return(newSalt, nil),
		mockEngine.EXPECT().DeriveKey("new-password", newSalt, crypto.DefaultIterations).Return(newKEK, nil),
		mockEngine.EXPECT().WrapKey(dek, newKEK).Return(rewrapped, nil),
		mockStore.EXPECT().PutVaultMetadata(ctx, gomock.Any()).DoAndReturn(
			func(_ context.Context, got models.VaultMetadata) error {
				assert.Equal(t, newSalt, got.Salt)
				assert.Equal(t, rewrapped.Ciphertext, got.EncryptedDEK)
				assert.Equal(t, rewrapped.IV, got.DEKIV)
				assert.Equal(t, meta.CreatedAt, got.CreatedAt)
				assert.Equal(t, fixedNow, got.UpdatedAt)
				return nil
			},
		),
	)

	require.NoError(t, svc.ChangePassword(ctx, "old-password", "new-password"))
}

func TestVaultService_ChangePassword_WrongCurrent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockStore, mockEngine := newTestVaultSvc(t, ctrl)
	ctx := context.Background()

	mockStore.EXPECT().GetVaultMetadata(ctx).Return(storedMeta(), nil)
	mockEngine.EXPECT().DeriveKey(gomock.Any(), gomock.Any(), gomock.Any()).Return(testKey(9), nil)
	mockEngine.EXPECT().UnwrapKey(gomock.Any(), gomock.Any()).Return(crypto.Key{}, crypto.ErrAuthentication)

	err := svc.ChangePassword(ctx, "wrong", "new-password")
	require.ErrorIs(t, err, ErrInvalidPassword)
}

func TestVaultService_ChangePassword_EmptyNext(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _, _ := newTestVaultSvc(t, ctrl)

	err := svc.ChangePassword(context.Background(), "old-password", "")
	require.ErrorIs(t, err, ErrEmptyPassword)
}

// ── Restore ──────────────────────────────────────────────────────────────────

func TestVaultService_Restore_LocksVault(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockStore, mockEngine := newTestVaultSvc(t, ctrl)
	ctx := context.Background()

	meta := storedMeta()
	entries := []models.EncryptedEntry{{ID: "a"}}

	mockStore.EXPECT().GetVaultMetadata(ctx).Return(meta, nil)
	mockEngine.EXPECT().DeriveKey(gomock.Any(), gomock.Any(), gomock.Any()).Return(testKey(1), nil)
	mockEngine.EXPECT().UnwrapKey(gomock.Any(), gomock.Any()).Return(testKey(2), nil)
	mockStore.EXPECT().Restore(ctx, meta, entries).Return(nil)

	sess, err := svc.Unlock(ctx, "Sunflower88")
	require.NoError(t, err)

	require.NoError(t, svc.Restore(ctx, meta, entries))
	assert.False(t, sess.Active())
}

func TestVaultService_Restore_StoreError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockStore, _ := newTestVaultSvc(t, ctrl)
	ctx := context.Background()

	mockStore.EXPECT().Restore(ctx, gomock.Any(), gomock.Any()).Return(errors.New("tx failed"))

	err := svc.Restore(ctx, storedMeta(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "restore store")
}
