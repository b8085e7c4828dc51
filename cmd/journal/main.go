// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"os"

	"github.com/awnumar/memguard"

	"github.com/MKhiriev/go-journal-vault/internal/client"
	"github.com/MKhiriev/go-journal-vault/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	// sealed keys are wiped on SIGINT and SIGTERM
	memguard.CatchInterrupt()

	app := client.NewApp(models.NewAppBuildInfo(buildVersion, buildDate, buildCommit))
	err := app.Run()

	memguard.Purge()
	if err != nil {
		os.Exit(1)
	}
}
