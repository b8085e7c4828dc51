// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"fmt"
	"sync"

	"github.com/awnumar/memguard"

	"github.com/MKhiriev/go-journal-vault/internal/crypto"
)

// Session is the handle of an unlocked vault. It is the only holder of the
// DEK, which it keeps sealed in a memguard enclave between uses.
//
// A Session is returned by Setup and Unlock and passed to every operation
// that reads or writes entries. Locking the vault destroys it; from then on
// every call fails with [ErrVaultLocked].
type Session struct {
	mu      sync.RWMutex
	enclave *memguard.Enclave
}

// newSession seals dek. The caller's copy is wiped.
func newSession(dek *crypto.Key) *Session {
	// NewEnclave wipes its input
	return &Session{enclave: memguard.NewEnclave(dek[:])}
}

// Active reports whether the session still holds a key.
func (s *Session) Active() bool {
	if s == nil {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.enclave != nil
}

// Key returns a copy of the DEK. The caller must Wipe it after use.
func (s *Session) Key() (crypto.Key, error) {
	if s == nil {
		return crypto.Key{}, ErrVaultLocked
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.enclave == nil {
		return crypto.Key{}, ErrVaultLocked
	}

	buf, err := s.enclave.Open()
	if err != nil {
		return crypto.Key{}, fmt.Errorf("open key enclave: %w", err)
	}
	defer buf.Destroy()

	return crypto.KeyFromBytes(buf.Bytes())
}

// destroy drops the sealed key. Safe to call more than once.
func (s *Session) destroy() {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.enclave = nil
	s.mu.Unlock()
}
