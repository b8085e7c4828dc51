// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"github.com/MKhiriev/go-journal-vault/internal/config"
	"github.com/MKhiriev/go-journal-vault/internal/crypto"
	"github.com/MKhiriev/go-journal-vault/internal/store"
	"github.com/MKhiriev/go-journal-vault/internal/utils"
)

// Services bundles every journal service built over one store.
type Services struct {
	VaultService   VaultService
	JournalService JournalService
	BackupService  BackupService
}

func NewServices(recordStore store.RecordStore, cfg config.StructuredConfig) *Services {
	engine := crypto.NewEngine()
	vault := NewVaultService(recordStore, engine)
	codec := NewRecordCodec(engine, cfg.Workers.DecryptConcurrency)

	return &Services{
		VaultService:   vault,
		JournalService: NewJournalValidationService().Wrap(NewJournalService(recordStore, codec, utils.NewUUIDGenerator())),
		BackupService:  NewBackupService(recordStore, vault, engine),
	}
}
