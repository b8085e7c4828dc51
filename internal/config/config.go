// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

// Storage driver names accepted by [Storage.Driver].
const (
	DriverSQLite = "sqlite"
	DriverFile   = "file"
)

// MemoryDSN keeps the store in process memory. Useful for tests and
// throwaway sessions, nothing survives the process.
const MemoryDSN = ":memory:"

// StructuredConfig is the top-level configuration container for the
// go-journal-vault application.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env: direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds versioning and diagnostics settings.
	App App `envPrefix:"APP_"`

	// Storage selects and addresses the persisted record store.
	Storage Storage `envPrefix:"STORAGE_"`

	// Backup holds defaults for export files.
	Backup Backup `envPrefix:"BACKUP_"`

	// Workers tunes the parallel decryption of entry lists.
	Workers Workers `envPrefix:"WORKERS_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// Populated via the CONFIG environment variable or the --config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds application-level configuration values.
type App struct {
	// Version is the semantic version string of the running application.
	// Env: APP_VERSION
	Version string `env:"VERSION"`

	// LogFile is where diagnostics are appended. Defaults to journal.log.
	// Env: APP_LOG_FILE
	LogFile string `env:"LOG_FILE"`

	// LogLevel is a zerolog level name ("debug", "info", "warn", ...).
	// Env: APP_LOG_LEVEL
	LogLevel string `env:"LOG_LEVEL"`
}

// Storage groups the configuration of the persisted record store.
type Storage struct {
	// Driver is either [DriverSQLite] or [DriverFile].
	// Env: STORAGE_DRIVER
	Driver string `env:"DRIVER"`

	// DB holds the connection settings of the selected driver.
	DB DB `envPrefix:"DB_"`
}

// DB holds connection settings for the store.
type DB struct {
	// DSN is a SQLite database path, a JSON state file path for the file
	// driver, or [MemoryDSN].
	// Env: STORAGE_DB_DSN
	DSN string `env:"DSN"`
}

// Backup holds export settings.
type Backup struct {
	// Dir is the directory export files are written to when no explicit
	// output path is given.
	// Env: BACKUP_DIR
	Dir string `env:"DIR"`
}

// Workers holds configuration for in-process workers.
type Workers struct {
	// DecryptConcurrency bounds how many entries are decrypted in parallel
	// when a list is opened.
	// Env: WORKERS_DECRYPT_CONCURRENCY
	DecryptConcurrency int `env:"DECRYPT_CONCURRENCY"`
}

// defaultConfig is the lowest-priority source merged by the builder.
func defaultConfig() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			LogFile:  "journal.log",
			LogLevel: "info",
		},
		Storage: Storage{
			Driver: DriverSQLite,
			DB:     DB{DSN: "journal.db"},
		},
		Backup:  Backup{Dir: "."},
		Workers: Workers{DecryptConcurrency: 8},
	}
}

// GetStructuredConfig loads, merges, and validates the application
// configuration. flags may be nil when no command line is involved.
//
// Returns a fully populated *StructuredConfig or an error if any source
// fails to load or the final config fails validation.
func GetStructuredConfig(flags *Flags) (*StructuredConfig, error) {
	return newConfigBuilder().
		withFlags(flags).
		withEnv().
		withJSON().
		withDefaults().
		build()
}
