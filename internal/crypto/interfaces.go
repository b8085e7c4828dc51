// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import "github.com/MKhiriev/go-journal-vault/models"

//go:generate mockgen -source=interfaces.go -destination=../mock/engine_mock.go -package=mock

// Engine is the primitive cryptography used by the vault. It knows nothing
// about storage, sessions or entries; it only derives, generates and seals.
//
// Key hierarchy:
//
//	Salt = RandomBytes(SaltSize)
//	KEK  = DeriveKey(password, Salt, iterations)
//	DEK  = GenerateSymmetricKey()
//	Wrap = WrapKey(DEK, KEK)
type Engine interface {
	// RandomBytes returns n bytes from the OS CSPRNG.
	RandomBytes(n int) ([]byte, error)

	// DeriveKey stretches password with PBKDF2-HMAC-SHA-256 into a 256-bit
	// key. It is deterministic for equal inputs and returns [ErrDerivation]
	// for an empty password, an empty salt or a non-positive iteration count.
	DeriveKey(password string, salt []byte, iterations int) (Key, error)

	// GenerateSymmetricKey returns a fresh random 256-bit key.
	GenerateSymmetricKey() (Key, error)

	// Encrypt seals plaintext with AES-256-GCM under a fresh random nonce.
	Encrypt(plaintext []byte, key Key) (models.CipheredField, error)

	// Decrypt opens a field sealed by Encrypt. Any tag mismatch, whether from
	// a wrong key, a wrong nonce or tampered ciphertext, is [ErrAuthentication].
	Decrypt(field models.CipheredField, key Key) ([]byte, error)

	// WrapKey seals the raw bytes of keyToWrap under wrappingKey.
	WrapKey(keyToWrap, wrappingKey Key) (models.CipheredField, error)

	// UnwrapKey reverses WrapKey. It fails exactly like Decrypt.
	UnwrapKey(wrapped models.CipheredField, wrappingKey Key) (Key, error)

	// Hash returns the lowercase hex SHA-256 digest of data.
	Hash(data []byte) string
}
