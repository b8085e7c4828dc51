// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-journal-vault/internal/config"
	"github.com/MKhiriev/go-journal-vault/internal/crypto"
	"github.com/MKhiriev/go-journal-vault/internal/logger"
	"github.com/MKhiriev/go-journal-vault/internal/store"
	"github.com/MKhiriev/go-journal-vault/internal/utils"
)

// testIterations keeps real key derivation fast in tests.
const testIterations = 1_000

// testClock hands out strictly increasing timestamps.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: fixedNow}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// testEnv wires real services over an in-memory store.
type testEnv struct {
	store   store.RecordStore
	engine  crypto.Engine
	clock   *testClock
	vault   *vaultService
	journal *journalService
	backup  *backupService
}

func newTestEnv(t *testing.T, driver string) *testEnv {
	t.Helper()

	ctx := context.Background()
	recordStore, err := store.NewRecordStore(ctx, config.Storage{
		Driver: driver,
		DB:     config.DB{DSN: config.MemoryDSN},
	}, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = recordStore.Close() })

	return newTestEnvWithStore(t, recordStore)
}

func newTestEnvWithStore(t *testing.T, recordStore store.RecordStore) *testEnv {
	t.Helper()

	engine := crypto.NewEngine()
	clock := newTestClock()

	vault := NewVaultService(recordStore, engine).(*vaultService)
	vault.iterations = testIterations
	vault.now = clock.Now

	journal := NewJournalService(recordStore, NewRecordCodec(engine, 4), utils.NewUUIDGenerator()).(*journalService)
	journal.now = clock.Now

	backup := NewBackupService(recordStore, vault, engine).(*backupService)
	backup.now = clock.Now

	return &testEnv{
		store:   recordStore,
		engine:  engine,
		clock:   clock,
		vault:   vault,
		journal: journal,
		backup:  backup,
	}
}

var storeDrivers = []string{config.DriverFile, config.DriverSQLite}
