package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"shoplist-cli/internal/format"
	"shoplist-cli/internal/session"
	"shoplist-cli/internal/store"
	"shoplist-cli/internal/tui"

	"github.com/spf13/cobra"
)

type App struct {
	Dir        string
	Profile    string
	Backend    string
	Format     string
	PrettyJSON bool
	Verbose    bool
	Ephemeral  bool

	cfg    *store.Config
	logger *slog.Logger
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "shoplist",
		Short:        "Shopping list with editable defaults (CLI + TUI)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive view
  shoplist

  # Scriptable commands
  shoplist list --format text
  shoplist add dairy-products Eggs
  shoplist add --default snacks Pretzels
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if len(args) == 0 {
				return runTUI(cmd, app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		level := slog.LevelWarn
		if app.Verbose {
			level = slog.LevelDebug
		}
		app.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

		cfg, err := store.LoadConfig()
		if err != nil {
			return writeErr(cmd, err)
		}
		app.cfg = cfg
		return nil
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", envOr("SHOPLIST_DIR", ""), "Path to a storage dir (overrides profile resolution)")
	cmd.PersistentFlags().StringVar(&app.Profile, "profile", envOr("SHOPLIST_PROFILE", ""), "Profile name (default: current_profile from config.toml, else 'default')")
	cmd.PersistentFlags().StringVar(&app.Backend, "backend", envOr("SHOPLIST_BACKEND", ""), "Storage backend (sqlite|files); overrides config.toml")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("SHOPLIST_FORMAT", "json"), "Output format (json|edn|text)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON/EDN output")
	cmd.PersistentFlags().BoolVar(&app.Verbose, "verbose", false, "Log debug details to stderr")
	cmd.PersistentFlags().BoolVar(&app.Ephemeral, "ephemeral", false, "Keep everything in memory (nothing is saved)")

	cmd.AddCommand(newListCmd(app))
	cmd.AddCommand(newTemplateCmd(app))
	cmd.AddCommand(newCategoriesCmd(app))
	cmd.AddCommand(newAddCmd(app))
	cmd.AddCommand(newToggleCmd(app))
	cmd.AddCommand(newDeleteCmd(app))
	cmd.AddCommand(newRemoveDefaultCmd(app))
	cmd.AddCommand(newIsDefaultCmd(app))
	cmd.AddCommand(newResetCmd(app))
	cmd.AddCommand(newUncrossCmd(app))
	cmd.AddCommand(newDoctorCmd(app))
	cmd.AddCommand(newBackupCmd(app))
	cmd.AddCommand(newProfilesCmd(app))
	cmd.AddCommand(newDocsCmd(app))

	return cmd
}

func (app *App) config() *store.Config {
	if app.cfg == nil {
		return &store.Config{}
	}
	return app.cfg
}

// resolveDir picks the storage dir:
// 1) --dir
// 2) --profile
// 3) current_profile from config.toml
// 4) the "default" profile
func (app *App) resolveDir() (string, error) {
	if app.Dir != "" {
		return app.Dir, nil
	}
	name := app.Profile
	if name == "" {
		name = app.config().Profile()
	}
	dir, err := store.ProfileDir(name)
	if err != nil {
		return "", err
	}
	app.Profile = name
	app.Dir = dir
	return dir, nil
}

func (app *App) backend() string {
	if app.Ephemeral {
		return store.BackendMemory
	}
	if b := strings.TrimSpace(app.Backend); b != "" {
		return b
	}
	return app.config().Backend
}

func (app *App) openKV(ctx context.Context) (store.KV, error) {
	if app.Ephemeral {
		return store.NewMemory(), nil
	}
	dir, err := app.resolveDir()
	if err != nil {
		return nil, err
	}
	return store.Open(ctx, dir, app.backend())
}

// openSession opens storage and loads both lists. Callers must call the
// returned close func.
func openSession(cmd *cobra.Command, app *App) (*session.Session, store.KV, func(), error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	kv, err := app.openKV(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	s, err := session.Open(ctx, kv, session.Options{
		AckFor: app.config().SavedAck(),
		Logger: app.logger,
		Notice: func(msg string) { fmt.Fprintln(cmd.ErrOrStderr(), msg) },
	})
	if err != nil {
		_ = kv.Close()
		return nil, nil, nil, err
	}
	return s, kv, func() { _ = kv.Close() }, nil
}

func runTUI(cmd *cobra.Command, app *App) error {
	kv, err := app.openKV(cmd.Context())
	if err != nil {
		return writeErr(cmd, err)
	}
	defer kv.Close()

	// Load problems and save failures are shown inside the TUI instead.
	s, err := session.Open(cmd.Context(), kv, session.Options{
		AckFor: app.config().SavedAck(),
		Logger: tui.DiscardLogger(),
	})
	if err != nil {
		return writeErr(cmd, err)
	}

	dir := ""
	if !app.Ephemeral {
		dir = app.Dir
	}
	return tui.Run(cmd.Context(), tui.Options{
		Session: s,
		KV:      kv,
		Dir:     dir,
		Config:  *app.config(),
	})
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}

var errConfirmationRequired = errors.New("confirmation required (answer y, or pass --yes)")
