// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *App) timelineCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "timeline",
		Short: "Show entries grouped by year, month and day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			sess, err := a.unlock(ctx)
			if err != nil {
				return err
			}
			defer a.services.VaultService.Lock()

			years, err := a.services.JournalService.Timeline(ctx, sess)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(years) == 0 {
				fmt.Fprintln(out, uiInfo.Sprint(markInfo)+" No entries yet")
				return nil
			}

			for _, y := range years {
				fmt.Fprintln(out, uiTitle.Sprint(y.Year))
				for _, m := range y.Months {
					fmt.Fprintf(out, "  %s\n", uiInfo.Sprint(m.Month))
					for _, d := range m.Days {
						for i, e := range d.Entries {
							day := "  "
							if i == 0 {
								day = fmt.Sprintf("%02d", d.Day)
							}
							fmt.Fprintf(out, "    %s  %s  %s\n", day, uiMuted.Sprint(e.ID), entryTitle(e))
						}
					}
				}
			}
			return nil
		},
	}
}
