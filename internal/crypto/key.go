// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import "fmt"

const (
	// KeySize is the length of every symmetric key (AES-256).
	KeySize = 32
	// NonceSize is the AES-GCM nonce length.
	NonceSize = 12
	// TagSize is the AES-GCM authentication tag length.
	TagSize = 16
	// SaltSize is the PBKDF2 salt length used for new vaults.
	SaltSize = 16
	// DefaultIterations is the PBKDF2 work factor used for new vaults.
	DefaultIterations = 100_000
)

// Key is a 256-bit symmetric key. KEK and DEK share the type.
type Key [KeySize]byte

// KeyFromBytes copies b into a Key. b must be exactly [KeySize] bytes.
func KeyFromBytes(b []byte) (Key, error) {
	var k Key
	if len(b) != KeySize {
		return k, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidKey, len(b), KeySize)
	}
	copy(k[:], b)
	return k, nil
}

// Wipe zeroes the key in place.
func (k *Key) Wipe() {
	for i := range k {
		k[i] = 0
	}
}

// Wipe zeroes b in place.
func Wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
