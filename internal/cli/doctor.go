package cli

import (
	"fmt"
	"strings"

	"shoplist-cli/internal/store"

	"github.com/spf13/cobra"
)

type doctorView struct {
	Dir     string             `json:"dir,omitempty"`
	Backend string             `json:"backend"`
	Report  store.DoctorReport `json:"report"`
}

func (v doctorView) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s (%s)\n", headingStyle.Render("Storage"), v.Dir, v.Backend)
	fmt.Fprintf(&b, "keys: %s\n", strings.Join(v.Report.Keys, ", "))
	if len(v.Report.Issues) == 0 {
		b.WriteString("no issues\n")
		return b.String()
	}
	for _, it := range v.Report.Issues {
		where := it.Key
		if it.Category != "" {
			where += " " + it.Category
		}
		if it.ItemID != "" {
			where += " " + it.ItemID
		}
		fmt.Fprintf(&b, "%-5s %s  %s: %s\n", it.Level, it.Code, where, it.Message)
	}
	return b.String()
}

func newDoctorCmd(app *App) *cobra.Command {
	var fail bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check stored lists without changing them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			kv, err := app.openKV(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			defer kv.Close()

			report, err := store.Diagnose(cmd.Context(), kv)
			if err != nil {
				return writeErr(cmd, err)
			}
			backend := app.backend()
			if backend == "" {
				backend = store.BackendSQLite
			}
			view := doctorView{Dir: app.Dir, Backend: backend, Report: report}
			meta := map[string]any{
				"issues":    len(report.Issues),
				"hasErrors": report.HasErrors(),
			}
			if err := writeOut(cmd, app, envelope{Data: view, Meta: meta}); err != nil {
				return err
			}
			if fail && report.HasErrors() {
				return store.ErrDoctorIssuesFound
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&fail, "fail", false, "Exit with non-zero status if errors are found")
	return cmd
}
