// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-journal-vault/internal/validators"
	"github.com/MKhiriev/go-journal-vault/models"
)

func (a *App) initCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create a new vault protected by a master password",
		Long: `Creates the vault. The master password cannot be recovered: if it is
lost, so are all entries.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			pw, err := a.readNewPassword(ctx, "Choose a master password: ", "Repeat the master password: ")
			if err != nil {
				return err
			}

			if _, err = a.services.VaultService.Setup(ctx, pw.Password); err != nil {
				return err
			}
			a.services.VaultService.Lock()

			fmt.Fprintln(cmd.OutOrStdout(), uiSuccess.Sprint(markSuccess)+" Vault created")
			fmt.Fprintln(cmd.OutOrStdout(), uiInfo.Sprint(markInfo)+" Write your first entry with "+uiCode.Sprint("journal add"))
			return nil
		},
	}
}

// readNewPassword prompts for a password twice and applies the password
// policy.
func (a *App) readNewPassword(ctx context.Context, prompt, confirmPrompt string) (models.MasterPassword, error) {
	var (
		pw  models.MasterPassword
		err error
	)

	if pw.Password, err = a.passwords.ReadPassword(prompt); err != nil {
		return models.MasterPassword{}, err
	}
	if pw.Confirmation, err = a.passwords.ReadPassword(confirmPrompt); err != nil {
		return models.MasterPassword{}, err
	}

	if err = validators.NewPasswordValidator().Validate(ctx, pw); err != nil {
		return models.MasterPassword{}, err
	}
	return pw, nil
}
