// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func (a *App) showCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print one entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			sess, err := a.unlock(ctx)
			if err != nil {
				return err
			}
			defer a.services.VaultService.Lock()

			e, err := a.services.JournalService.Get(ctx, sess, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, entryTitle(e))
			fmt.Fprintln(out, uiMuted.Sprintf("created %s, updated %s",
				e.CreatedAt.In(time.Local).Format(entryTimeLayout),
				e.UpdatedAt.In(time.Local).Format(entryTimeLayout)))
			fmt.Fprintln(out)
			fmt.Fprintln(out, e.Body)
			return nil
		},
	}
}
