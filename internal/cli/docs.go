package cli

import (
	"fmt"
	"os"

	"shoplist-cli/internal/docs"

	"github.com/spf13/cobra"
)

type docsView struct {
	Topic    string `json:"topic"`
	Markdown string `json:"markdown"`

	style string
}

func (v docsView) Text() string {
	return docs.Render(v.Markdown, 80, v.style)
}

func newDocsCmd(app *App) *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "docs [topic]",
		Short: "Show built-in documentation",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return writeOut(cmd, app, envelope{Data: map[string]any{"topics": docs.Topics()}})
			}

			topic := args[0]
			body, ok := docs.Get(topic)
			if !ok {
				return writeErr(cmd, fmt.Errorf("unknown docs topic: %q (run `shoplist docs` to list topics)", topic))
			}
			if raw {
				_, err := fmt.Fprint(cmd.OutOrStdout(), body)
				return err
			}
			return writeOut(cmd, app, envelope{Data: docsView{Topic: topic, Markdown: body, style: docsStyle(app)}})
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Print raw markdown (no envelope)")

	return cmd
}

func docsStyle(app *App) string {
	if os.Getenv("NO_COLOR") != "" {
		return "notty"
	}
	switch app.config().TUI.Theme {
	case "light":
		return "light"
	default:
		return "dark"
	}
}
