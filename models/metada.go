// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// VaultMetadata is the single per-installation record that lets a master
// password be turned back into the data-encryption key.
//
// None of the fields is secret on its own: Salt and Iterations parametrize
// PBKDF2, EncryptedDEK and DEKIV are the AES-GCM wrapped DEK. No password
// hash or verifier is ever stored next to them.
type VaultMetadata struct {
	Salt         []byte
	EncryptedDEK []byte
	DEKIV        []byte

	// Iterations is the PBKDF2 work factor the wrapped DEK was produced with.
	Iterations int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// WrappedDEK returns the wrapped key as a [CipheredField].
func (m VaultMetadata) WrappedDEK() CipheredField {
	return CipheredField{Ciphertext: m.EncryptedDEK, IV: m.DEKIV}
}

// VaultState is the lifecycle state of the vault.
type VaultState int

const (
	// VaultStateNoVault means no metadata is stored yet.
	VaultStateNoVault VaultState = iota
	// VaultStateLocked means metadata exists but no key is held in memory.
	VaultStateLocked
	// VaultStateUnlocked means the DEK is held by a live session.
	VaultStateUnlocked
)

func (s VaultState) String() string {
	switch s {
	case VaultStateNoVault:
		return "no vault"
	case VaultStateLocked:
		return "locked"
	case VaultStateUnlocked:
		return "unlocked"
	default:
		return "unknown"
	}
}
