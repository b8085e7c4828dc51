// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *App) deleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete an entry",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			sess, err := a.unlock(ctx)
			if err != nil {
				return err
			}
			defer a.services.VaultService.Lock()

			if err = a.services.JournalService.Delete(ctx, sess, args[0]); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), uiSuccess.Sprint(markSuccess)+" Deleted entry "+uiCode.Sprint(args[0]))
			return nil
		},
	}
}
