// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-journal-vault/models"
)

type entryFlags struct {
	title string
	body  string
}

func (f *entryFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.title, "title", "t", "", "entry title")
	cmd.Flags().StringVarP(&f.body, "body", "b", "", "entry text (read from stdin when omitted)")
}

func (a *App) addCommand() *cobra.Command {
	var flags entryFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Write a new entry",
		Long: `Writes a new entry. The text is taken from --body, or read from stdin
until EOF when --body is not given.

Examples:
  journal add -t "Day One" -b "Hello vault"
  echo "quick note" | journal add`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			plain := models.PlainEntry{Title: flags.title, Body: flags.body}
			if !cmd.Flags().Changed("body") {
				body, err := readBody(cmd.InOrStdin())
				if err != nil {
					return err
				}
				plain.Body = body
			}

			sess, err := a.unlock(ctx)
			if err != nil {
				return err
			}
			defer a.services.VaultService.Lock()

			id, err := a.services.JournalService.Save(ctx, sess, "", plain)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), uiSuccess.Sprint(markSuccess)+" Saved entry "+uiCode.Sprint(id))
			return nil
		},
	}
	flags.bind(cmd)

	return cmd
}

func (a *App) editCommand() *cobra.Command {
	var flags entryFlags

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Replace the title or text of an entry",
		Long: `Replaces the fields given as flags and keeps the others. The creation
date of the entry does not change.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id := args[0]

			if !cmd.Flags().Changed("title") && !cmd.Flags().Changed("body") {
				return usagef("nothing to change: pass --title and/or --body")
			}

			sess, err := a.unlock(ctx)
			if err != nil {
				return err
			}
			defer a.services.VaultService.Lock()

			current, err := a.services.JournalService.Get(ctx, sess, id)
			if err != nil {
				return err
			}

			plain := models.PlainEntry{Title: current.Title, Body: current.Body}
			if cmd.Flags().Changed("title") {
				plain.Title = flags.title
			}
			if cmd.Flags().Changed("body") {
				plain.Body = flags.body
			}

			if _, err = a.services.JournalService.Save(ctx, sess, id, plain); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), uiSuccess.Sprint(markSuccess)+" Updated entry "+uiCode.Sprint(id))
			return nil
		},
	}
	flags.bind(cmd)

	return cmd
}

func readBody(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read entry text: %w", err)
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}
