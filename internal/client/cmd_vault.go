// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-journal-vault/models"
)

func (a *App) passwdCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "passwd",
		Short: "Change the master password",
		Long: `Changes the master password. Entries are not re-encrypted; only the
vault key is sealed again under the new password.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			current, err := a.passwords.ReadPassword("Current master password: ")
			if err != nil {
				return err
			}

			next, err := a.readNewPassword(ctx, "New master password: ", "Repeat the new master password: ")
			if err != nil {
				return err
			}

			if err = a.services.VaultService.ChangePassword(ctx, current, next.Password); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), uiSuccess.Sprint(markSuccess)+" Master password changed")
			return nil
		},
	}
}

func (a *App) resetCommand() *cobra.Command {
	var (
		yes        bool
		understand bool
	)

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete the vault and every entry",
		Long: `Deletes the vault and every entry for good. There is no undo and no
recovery. Both --yes and --i-understand are required.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			if !yes || !understand {
				return usagef("reset deletes every entry permanently; re-run with --yes --i-understand to confirm")
			}

			if err := a.services.VaultService.Reset(ctx); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), uiSuccess.Sprint(markSuccess)+" Journal erased")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm the reset")
	cmd.Flags().BoolVar(&understand, "i-understand", false, "acknowledge that entries cannot be recovered")

	return cmd
}

func (a *App) statusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether a vault exists and how many entries it holds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			state, err := a.services.VaultService.State(ctx)
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "Vault:   %s\n", state)
			if state == models.VaultStateNoVault {
				fmt.Fprintln(out, uiInfo.Sprint(markInfo)+" Create one with "+uiCode.Sprint("journal init"))
				return nil
			}

			count, err := a.services.JournalService.Count(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Entries: %d\n", count)

			if a.cfg != nil {
				fmt.Fprintf(out, "Store:   %s (%s)\n", a.cfg.Storage.DB.DSN, a.cfg.Storage.Driver)
			}
			return nil
		},
	}
}

func (a *App) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print build information",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationNoStore: "true"},
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprint(cmd.OutOrStdout(), a.buildInfo)
		},
	}
}
