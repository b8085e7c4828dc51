// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/MKhiriev/go-journal-vault/models"
	"golang.org/x/crypto/pbkdf2"
)

// engine is the private implementation of [Engine].
type engine struct {
	random io.Reader
}

// NewEngine constructs an [Engine] backed by crypto/rand, PBKDF2-HMAC-SHA-256
// and AES-256-GCM.
func NewEngine() Engine {
	return &engine{random: rand.Reader}
}

// RandomBytes implements [Engine].
func (e *engine) RandomBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("random bytes: negative length %d", n)
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(e.random, b); err != nil {
		return nil, fmt.Errorf("random bytes: %w", err)
	}
	return b, nil
}

// DeriveKey implements [Engine]. Derivation is not cancellable once started;
// with [DefaultIterations] it takes tens of milliseconds.
func (e *engine) DeriveKey(password string, salt []byte, iterations int) (Key, error) {
	var k Key
	switch {
	case password == "":
		return k, fmt.Errorf("%w: empty password", ErrDerivation)
	case len(salt) == 0:
		return k, fmt.Errorf("%w: empty salt", ErrDerivation)
	case iterations < 1:
		return k, fmt.Errorf("%w: iterations must be positive, got %d", ErrDerivation, iterations)
	}

	derived := pbkdf2.Key([]byte(password), salt, iterations, KeySize, sha256.New)
	copy(k[:], derived)
	Wipe(derived)
	return k, nil
}

// GenerateSymmetricKey implements [Engine].
func (e *engine) GenerateSymmetricKey() (Key, error) {
	var k Key
	if _, err := io.ReadFull(e.random, k[:]); err != nil {
		return k, fmt.Errorf("generate key: %w", err)
	}
	return k, nil
}

// Encrypt implements [Engine].
func (e *engine) Encrypt(plaintext []byte, key Key) (models.CipheredField, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return models.CipheredField{}, err
	}

	nonce := make([]byte, NonceSize)
	if _, err := io.ReadFull(e.random, nonce); err != nil {
		return models.CipheredField{}, fmt.Errorf("generate nonce: %w", err)
	}

	return models.CipheredField{
		Ciphertext: gcm.Seal(nil, nonce, plaintext, nil),
		IV:         nonce,
	}, nil
}

// Decrypt implements [Engine].
func (e *engine) Decrypt(field models.CipheredField, key Key) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	// a malformed nonce is indistinguishable from tampering for the caller
	if len(field.IV) != NonceSize || len(field.Ciphertext) < TagSize {
		return nil, ErrAuthentication
	}

	plaintext, err := gcm.Open(nil, field.IV, field.Ciphertext, nil)
	if err != nil {
		return nil, ErrAuthentication
	}
	return plaintext, nil
}

// WrapKey implements [Engine].
func (e *engine) WrapKey(keyToWrap, wrappingKey Key) (models.CipheredField, error) {
	wrapped, err := e.Encrypt(keyToWrap[:], wrappingKey)
	if err != nil {
		return models.CipheredField{}, fmt.Errorf("wrap key: %w", err)
	}
	return wrapped, nil
}

// UnwrapKey implements [Engine].
func (e *engine) UnwrapKey(wrapped models.CipheredField, wrappingKey Key) (Key, error) {
	raw, err := e.Decrypt(wrapped, wrappingKey)
	if err != nil {
		return Key{}, err
	}
	defer Wipe(raw)

	return KeyFromBytes(raw)
}

// Hash implements [Engine].
func (e *engine) Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func newGCM(key Key) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create gcm: %w", err)
	}
	return gcm, nil
}
