// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "github.com/spf13/pflag"

// Flags holds the command-line overrides. Values are read after the owning
// FlagSet has been parsed.
type Flags struct {
	dsn                string
	driver             string
	backupDir          string
	logFile            string
	logLevel           string
	jsonConfigPath     string
	decryptConcurrency int
}

// BindFlags registers the configuration flags on fs.
//
// Flags:
//
//	--dsn                  store DSN (SQLite path, JSON file path or :memory:)
//	--driver               store driver: sqlite or file
//	--backup-dir           default directory for exports
//	--log-file             diagnostics log file
//	--log-level            diagnostics level
//	-c/--config            JSON file path with configs
//	--decrypt-concurrency  parallel decryption limit
func BindFlags(fs *pflag.FlagSet) *Flags {
	f := &Flags{}

	fs.StringVar(&f.dsn, "dsn", "", "Store DSN (SQLite path, JSON file path or :memory:)")
	fs.StringVar(&f.driver, "driver", "", "Store driver: sqlite or file")
	fs.StringVar(&f.backupDir, "backup-dir", "", "Default directory for exported backups")
	fs.StringVar(&f.logFile, "log-file", "", "Diagnostics log file")
	fs.StringVar(&f.logLevel, "log-level", "", "Diagnostics level (debug, info, warn, error)")
	fs.StringVarP(&f.jsonConfigPath, "config", "c", "", "JSON config file path")
	fs.IntVar(&f.decryptConcurrency, "decrypt-concurrency", 0, "Parallel decryption limit")

	return f
}

func (f *Flags) config() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			LogFile:  f.logFile,
			LogLevel: f.logLevel,
		},
		Storage: Storage{
			Driver: f.driver,
			DB:     DB{DSN: f.dsn},
		},
		Backup:       Backup{Dir: f.backupDir},
		Workers:      Workers{DecryptConcurrency: f.decryptConcurrency},
		JSONFilePath: f.jsonConfigPath,
	}
}
