package cli

import (
	"fmt"
	"strings"

	"shoplist-cli/internal/store"

	"github.com/spf13/cobra"
)

type profilesView struct {
	Current  string   `json:"current"`
	Profiles []string `json:"profiles"`
}

func (v profilesView) Text() string {
	var b strings.Builder
	for _, p := range v.Profiles {
		mark := " "
		if p == v.Current {
			mark = "*"
		}
		fmt.Fprintf(&b, "%s %s\n", mark, p)
	}
	return b.String()
}

func newProfilesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profiles",
		Short: "Manage profiles (each has its own lists)",
	}
	cmd.AddCommand(newProfilesListCmd(app))
	cmd.AddCommand(newProfilesUseCmd(app))
	return cmd
}

func newProfilesListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := store.ListProfiles()
			if err != nil {
				return writeErr(cmd, err)
			}
			current := app.config().Profile()
			found := false
			for _, n := range names {
				if n == current {
					found = true
					break
				}
			}
			if !found {
				// The current profile has no storage yet; show it anyway.
				names = append([]string{current}, names...)
			}
			return writeOut(cmd, app, envelope{Data: profilesView{Current: current, Profiles: names}})
		},
	}
}

func newProfilesUseCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "use <name>",
		Short: "Make a profile current (saved in config.toml)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := store.NormalizeProfileName(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			cfg := app.config()
			cfg.CurrentProfile = name
			if err := store.SaveConfig(cfg); err != nil {
				return writeErr(cmd, err)
			}
			dir, err := store.ProfileDir(name)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, envelope{Data: map[string]any{"current": name, "dir": dir}})
		},
	}
}
