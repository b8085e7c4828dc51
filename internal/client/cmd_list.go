// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-journal-vault/internal/service"
	"github.com/MKhiriev/go-journal-vault/models"
)

const entryTimeLayout = "2006-01-02 15:04"

func (a *App) listCommand() *cobra.Command {
	var search string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List entries, newest first",
		Long: `Lists entries, newest first. With --search only entries whose title
contains the text are shown; case is ignored.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			sess, err := a.unlock(ctx)
			if err != nil {
				return err
			}
			defer a.services.VaultService.Lock()

			entries, err := a.services.JournalService.List(ctx, sess)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, uiInfo.Sprint(markInfo)+" No entries yet")
				return nil
			}

			entries = service.FilterByTitle(entries, search)
			if len(entries) == 0 {
				fmt.Fprintln(out, uiInfo.Sprint(markInfo)+" No matching entries found")
				return nil
			}
			for _, e := range entries {
				printEntryLine(out, e, entryTimeLayout)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "show only entries whose title contains this text")

	return cmd
}

func printEntryLine(out io.Writer, e models.DecryptedEntry, layout string) {
	fmt.Fprintf(out, "%s  %s  %s\n",
		uiMuted.Sprint(e.ID),
		e.CreatedAt.In(time.Local).Format(layout),
		entryTitle(e),
	)
}

func entryTitle(e models.DecryptedEntry) string {
	switch {
	case e.Failed():
		return uiError.Sprint(e.Title)
	case e.Title == "":
		return uiMuted.Sprint("(untitled)")
	default:
		return uiTitle.Sprint(e.Title)
	}
}
