// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-journal-vault/internal/config"
	"github.com/MKhiriev/go-journal-vault/internal/logger"
	"github.com/MKhiriev/go-journal-vault/internal/service"
	"github.com/MKhiriev/go-journal-vault/internal/store"
	"github.com/MKhiriev/go-journal-vault/models"
)

// annotationNoStore marks commands that run without opening the store.
const annotationNoStore = "journal/no-store"

const logRole = "journal"

type App struct {
	buildInfo models.AppBuildInfo

	flags    *config.Flags
	cfg      *config.StructuredConfig
	logger   *logger.Logger
	store    store.RecordStore
	services *service.Services

	// ownsStore is false when services were injected with WithServices.
	ownsStore bool
	// started is set once a command passed argument validation.
	started bool

	passwords PasswordReader
	in        io.Reader
	out       io.Writer
	errOut    io.Writer
}

// Option customizes an App.
type Option func(*App)

// WithIO replaces the standard streams.
func WithIO(in io.Reader, out, errOut io.Writer) Option {
	return func(a *App) {
		a.in = in
		a.out = out
		a.errOut = errOut
	}
}

// WithPasswordReader replaces the terminal password prompt.
func WithPasswordReader(r PasswordReader) Option {
	return func(a *App) {
		a.passwords = r
	}
}

// WithServices makes the App use already constructed services instead of
// building them from configuration. The App does not close recordStore.
func WithServices(recordStore store.RecordStore, services *service.Services, cfg *config.StructuredConfig) Option {
	return func(a *App) {
		a.store = recordStore
		a.services = services
		a.cfg = cfg
	}
}

func NewApp(buildInfo models.AppBuildInfo, opts ...Option) *App {
	a := &App{
		buildInfo: buildInfo,
		in:        os.Stdin,
		out:       os.Stdout,
		errOut:    os.Stderr,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.passwords == nil {
		a.passwords = NewTerminalPasswordReader(a.errOut)
	}
	return a
}

// Run executes the command line of the current process.
func (a *App) Run() error {
	return a.Execute(context.Background(), os.Args[1:])
}

// Execute runs one command line. Failures are reported on the error stream
// with a user-facing message and returned.
func (a *App) Execute(ctx context.Context, args []string) error {
	a.started = false

	root := a.Command()
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	a.close()

	if err != nil {
		a.report(err)
	}
	return err
}

// Command builds the command tree.
func (a *App) Command() *cobra.Command {
	root := &cobra.Command{
		Use:   "journal",
		Short: "A private, encrypted journal that never leaves your machine",
		Long: `journal keeps diary entries encrypted at rest with a key only your
master password can unlock. Titles and bodies are sealed with AES-256-GCM;
nothing readable is written to disk, logs or backups.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.prepare,
	}

	a.flags = config.BindFlags(root.PersistentFlags())

	root.SetIn(a.in)
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	root.AddCommand(
		a.initCommand(),
		a.addCommand(),
		a.editCommand(),
		a.listCommand(),
		a.timelineCommand(),
		a.showCommand(),
		a.deleteCommand(),
		a.exportCommand(),
		a.importCommand(),
		a.passwdCommand(),
		a.resetCommand(),
		a.statusCommand(),
		a.versionCommand(),
	)

	return root
}

func (a *App) prepare(cmd *cobra.Command, _ []string) error {
	a.started = true

	if cmd.Annotations[annotationNoStore] == "true" {
		return nil
	}

	if a.services != nil {
		if a.logger == nil {
			a.logger = logger.Nop()
		}
		cmd.SetContext(a.logger.WithContext(cmd.Context()))
		return nil
	}

	cfg, err := config.GetStructuredConfig(a.flags)
	if err != nil {
		return usagef("invalid configuration: %v", err)
	}
	a.cfg = cfg

	a.logger = logger.NewFileLogger(logRole, cfg.App.LogFile, cfg.App.LogLevel)
	ctx := a.logger.WithContext(cmd.Context())
	cmd.SetContext(ctx)

	recordStore, err := store.NewRecordStore(ctx, cfg.Storage, a.logger)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}

	a.store = recordStore
	a.ownsStore = true
	a.services = service.NewServices(recordStore, *cfg)
	return nil
}

func (a *App) close() {
	if a.services != nil {
		a.services.VaultService.Lock()
	}
	if a.ownsStore && a.store != nil {
		if err := a.store.Close(); err != nil && a.logger != nil {
			a.logger.Err(err).Str("func", "App.close").Msg("failed to close store")
		}
		a.store = nil
		a.services = nil
		a.ownsStore = false
	}
}

func (a *App) report(err error) {
	if a.logger != nil {
		a.logger.Err(err).Str("func", "App.Execute").Msg("command failed")
	}
	fmt.Fprintln(a.errOut, uiError.Sprint(markError)+" "+a.describe(err))
}

// describe turns err into the single line shown to the user. Argument and
// flag errors raised before a command starts are shown verbatim.
func (a *App) describe(err error) string {
	var ue usageError
	if errors.As(err, &ue) {
		return ue.msg
	}
	if !a.started {
		return err.Error()
	}
	return service.UserMessage(err)
}

// unlock prompts for the master password and opens a session. Callers must
// lock the vault when done.
func (a *App) unlock(ctx context.Context) (*service.Session, error) {
	password, err := a.passwords.ReadPassword("Master password: ")
	if err != nil {
		return nil, err
	}
	return a.services.VaultService.Unlock(ctx, password)
}

func (a *App) backupDir() string {
	if a.cfg == nil || a.cfg.Backup.Dir == "" {
		return "."
	}
	return a.cfg.Backup.Dir
}

// usageError is a failure caused by how the command was invoked. Its text
// is safe to show as is.
type usageError struct {
	msg string
}

func (e usageError) Error() string {
	return e.msg
}

func usagef(format string, args ...any) error {
	return usageError{msg: fmt.Sprintf(format, args...)}
}
