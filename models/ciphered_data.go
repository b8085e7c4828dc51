// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// CipheredField is one AES-256-GCM sealed value. Ciphertext carries the
// 16-byte authentication tag; IV is the 12-byte nonce it was sealed with.
// The store treats both as opaque bytes.
type CipheredField struct {
	Ciphertext []byte
	IV         []byte
}

// IsZero reports whether the field holds no ciphertext at all.
func (c CipheredField) IsZero() bool {
	return len(c.Ciphertext) == 0 && len(c.IV) == 0
}
