// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import "errors"

var (
	// ErrAuthentication is returned when an AES-GCM tag does not verify.
	// Callers cannot tell a wrong key from corrupted data, and must not try.
	ErrAuthentication = errors.New("authentication failed")

	// ErrDerivation is returned for unusable key derivation inputs.
	ErrDerivation = errors.New("key derivation failed")

	// ErrInvalidKey is returned when key material has the wrong length.
	ErrInvalidKey = errors.New("invalid key material")
)
