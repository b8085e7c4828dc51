// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
)

// parseEnv reads a [StructuredConfig] from the environment using the `env`
// and `envPrefix` tags. Path values may start with "~/", which expands to
// the user's home directory.
func parseEnv() (*StructuredConfig, error) {
	cfg, err := env.ParseAs[StructuredConfig]()
	if err != nil {
		return nil, fmt.Errorf("error getting env configs: %w", err)
	}

	for _, p := range []*string{&cfg.JSONFilePath, &cfg.App.LogFile, &cfg.Storage.DB.DSN, &cfg.Backup.Dir} {
		*p = expandHome(*p)
	}

	return &cfg, nil
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
