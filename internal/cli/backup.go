package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"shoplist-cli/internal/store"

	"github.com/spf13/cobra"
)

var errNoBackupDir = errors.New("backups need a storage dir (not available with --ephemeral)")

func backupsDir(app *App) (string, error) {
	if app.Ephemeral {
		return "", errNoBackupDir
	}
	dir, err := app.resolveDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "backups"), nil
}

func newBackupCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Snapshot every stored value into the profile's backups dir",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := backupsDir(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			kv, err := app.openKV(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			defer kv.Close()

			path, err := store.WriteSnapshot(cmd.Context(), kv, dir, time.Now())
			if err != nil {
				return writeErr(cmd, err)
			}
			app.logger.Debug("snapshot written", "path", path)
			return writeOut(cmd, app, envelope{Data: map[string]any{"path": path}})
		},
	}

	cmd.AddCommand(newBackupListCmd(app))
	cmd.AddCommand(newBackupRestoreCmd(app))

	return cmd
}

func newBackupListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List snapshots, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := backupsDir(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			paths := []string{}
			ents, err := os.ReadDir(dir)
			if err != nil && !errors.Is(err, os.ErrNotExist) {
				return writeErr(cmd, err)
			}
			for _, e := range ents {
				if !e.IsDir() && strings.HasSuffix(e.Name(), ".json") {
					paths = append(paths, filepath.Join(dir, e.Name()))
				}
			}
			sort.Sort(sort.Reverse(sort.StringSlice(paths)))
			return writeOut(cmd, app, envelope{Data: paths})
		},
	}
}

func newBackupRestoreCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "restore <file>",
		Short: "Overwrite stored values with a snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := store.ReadSnapshot(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			kv, err := app.openKV(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			defer kv.Close()

			if !yes && !confirm(cmd, fmt.Sprintf("Overwrite the stored lists with the snapshot from %s?", snap.CreatedAt.Local().Format(time.DateTime))) {
				return writeErr(cmd, errConfirmationRequired)
			}
			if err := store.RestoreSnapshot(cmd.Context(), kv, snap); err != nil {
				return writeErr(cmd, err)
			}
			keys := make([]string, 0, len(snap.Values))
			for k := range snap.Values {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			return writeOut(cmd, app, envelope{Data: map[string]any{"restored": keys}})
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Skip the confirmation prompt")

	return cmd
}
