// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/natefinch/atomic"
	"github.com/spf13/cobra"
)

func (a *App) exportCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write an encrypted backup file",
		Long: `Writes every entry and the wrapped vault key to a JSON backup file. Nothing
is decrypted: the backup is as private as the journal itself and opens
only with the current master password.

The file name defaults to journal-backup-YYYY-MM-DD.json in the backup
directory. Use -o - to write to stdout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			var buf bytes.Buffer
			doc, err := a.services.BackupService.Export(ctx, &buf)
			if err != nil {
				return err
			}

			if output == "-" {
				_, err = cmd.OutOrStdout().Write(buf.Bytes())
				return err
			}

			path := output
			if path == "" {
				path = filepath.Join(a.backupDir(), fmt.Sprintf("journal-backup-%s.json", time.Now().Format("2006-01-02")))
			}
			if err = atomic.WriteFile(path, &buf); err != nil {
				return fmt.Errorf("write backup file: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s Exported %d entries to %s\n",
				uiSuccess.Sprint(markSuccess), len(doc.Entries), uiCode.Sprint(path))
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "backup file path, - for stdout")

	return cmd
}

func (a *App) importCommand() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the journal with a backup",
		Long: `Verifies a backup file and replaces the whole journal with it: every
current entry and the current master password are discarded. Afterwards
the journal opens with the password the backup was made with.

A damaged or modified file is rejected and nothing is changed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if !yes {
				return usagef("import replaces the whole journal; re-run with --yes to confirm")
			}

			f, err := os.Open(args[0])
			if err != nil {
				return usagef("cannot open %s: %v", args[0], err)
			}
			defer f.Close()

			res, err := a.services.BackupService.Import(ctx, f)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s Imported %d entries (backup format %s)\n",
				uiSuccess.Sprint(markSuccess), res.Entries, res.Version)
			fmt.Fprintln(out, uiInfo.Sprint(markInfo)+" Unlock with the master password the backup was made with")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm replacing the journal")

	return cmd
}
