// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-journal-vault/internal/config"
	"github.com/MKhiriev/go-journal-vault/internal/logger"
)

// NewRecordStore initialises the store selected by cfg.Driver:
//   - [config.DriverSQLite] opens (creating if needed) the SQLite database
//     at cfg.DB.DSN and runs pending schema migrations;
//   - [config.DriverFile] opens the JSON state file at cfg.DB.DSN.
//
// [config.MemoryDSN] works with both drivers.
func NewRecordStore(ctx context.Context, cfg config.Storage, log *logger.Logger) (RecordStore, error) {
	log.Debug().Str("func", "NewRecordStore").Str("driver", cfg.Driver).Msg("creating record store...")

	switch cfg.Driver {
	case config.DriverSQLite, "":
		db, err := NewConnectSQLite(ctx, cfg.DB, log)
		if err != nil {
			return nil, fmt.Errorf("sqlite connection error: %w", err)
		}

		if err := db.Migrate(); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migration failed: %w", err)
		}

		return NewSQLiteRecordStore(db, log), nil

	case config.DriverFile:
		return NewFileRecordStore(cfg.DB.DSN, log)

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, cfg.Driver)
	}
}
