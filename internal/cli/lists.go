package cli

import (
	"fmt"
	"strings"

	"shoplist-cli/internal/model"

	"github.com/spf13/cobra"
)

func parseCategoryArg(arg string) (model.CategoryID, error) {
	c, ok := model.ParseCategory(arg)
	if !ok {
		return "", fmt.Errorf("unknown category: %q (run `shoplist categories`)", arg)
	}
	return c, nil
}

// categoriesArg resolves an optional category filter; none means all.
func categoriesArg(args []string) ([]model.CategoryID, error) {
	if len(args) == 0 {
		return model.Categories(), nil
	}
	c, err := parseCategoryArg(args[0])
	if err != nil {
		return nil, err
	}
	return []model.CategoryID{c}, nil
}

func newListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [category]",
		Short: "Show the current list",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cats, err := categoriesArg(args)
			if err != nil {
				return writeErr(cmd, err)
			}
			s, _, closeFn, err := openSession(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer closeFn()
			return writeOut(cmd, app, envelope{Data: newStateView(s.State(), cats)})
		},
	}
	return cmd
}

func newTemplateCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "template [category]",
		Aliases: []string{"defaults"},
		Short:   "Show the default list",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cats, err := categoriesArg(args)
			if err != nil {
				return writeErr(cmd, err)
			}
			s, _, closeFn, err := openSession(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer closeFn()
			return writeOut(cmd, app, envelope{Data: newTemplateView(s.Template(), cats)})
		},
	}
	return cmd
}

type categoryInfo struct {
	ID    model.CategoryID `json:"id"`
	Label string           `json:"label"`
}

func newCategoriesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List category ids in display order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := []categoryInfo{}
			for _, c := range model.Categories() {
				out = append(out, categoryInfo{ID: c, Label: model.Label(c)})
			}
			return writeOut(cmd, app, envelope{Data: out})
		},
	}
}

func newAddCmd(app *App) *cobra.Command {
	var toDefault bool

	cmd := &cobra.Command{
		Use:   "add <category> <text...>",
		Short: "Add an item to the current list (and the default list with --default)",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := parseCategoryArg(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			text := strings.Join(args[1:], " ")

			s, _, closeFn, err := openSession(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer closeFn()

			action := "add"
			add := s.AddToCurrent
			if toDefault {
				action = "add-default"
				add = s.AddToDefault
			}
			res, err := add(cmd.Context(), c, text)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, envelope{Data: newMutationView(action, c, res)})
		},
	}

	cmd.Flags().BoolVar(&toDefault, "default", false, "Also add the item to the default list")

	return cmd
}

func newToggleCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <category> <item-id>",
		Short: "Cross out or uncross an item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := parseCategoryArg(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			s, _, closeFn, err := openSession(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer closeFn()

			res, err := s.Toggle(cmd.Context(), c, strings.TrimSpace(args[1]))
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, envelope{Data: newMutationView("toggle", c, res)})
		},
	}
}

func newDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <category> <item-id>",
		Short: "Delete an item from the current list (the default list is unchanged)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := parseCategoryArg(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			s, _, closeFn, err := openSession(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer closeFn()

			res, err := s.Delete(cmd.Context(), c, strings.TrimSpace(args[1]))
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, envelope{Data: newMutationView("delete", c, res)})
		},
	}
}

func newRemoveDefaultCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "remove-default <category> <text...>",
		Short: "Remove an item from the default list and the current list (cannot be undone)",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := parseCategoryArg(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			text := model.CleanInput(strings.Join(args[1:], " "))

			s, _, closeFn, err := openSession(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer closeFn()

			if !s.IsInTemplate(c, text) {
				return writeErr(cmd, fmt.Errorf("%q is not on the default list for %s", text, model.Label(c)))
			}
			if !yes && !confirm(cmd, fmt.Sprintf("Remove %q from the default list and the current list?", text)) {
				return writeErr(cmd, errConfirmationRequired)
			}

			res, err := s.RemoveFromDefault(cmd.Context(), c, text)
			if err != nil {
				return writeErr(cmd, err)
			}
			view := newMutationView("remove-default", c, res)
			view.ItemText = text
			return writeOut(cmd, app, envelope{Data: view})
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Skip the confirmation prompt")

	return cmd
}

func newIsDefaultCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "is-default <category> <text...>",
		Short: "Report whether an item is on the default list",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := parseCategoryArg(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			s, _, closeFn, err := openSession(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer closeFn()

			text := model.CleanInput(strings.Join(args[1:], " "))
			return writeOut(cmd, app, envelope{Data: map[string]any{
				"category":  c,
				"text":      text,
				"isDefault": s.IsInTemplate(c, text),
			}})
		},
	}
}

func newResetCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Rebuild the current list from the default list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, closeFn, err := openSession(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer closeFn()

			if !yes && !confirm(cmd, "Replace the current list with the default list?") {
				return writeErr(cmd, errConfirmationRequired)
			}
			res, err := s.Reset(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, envelope{Data: newMutationView("reset", "", res)})
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Skip the confirmation prompt")

	return cmd
}

func newUncrossCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "uncross",
		Short: "Uncross every item on the current list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, closeFn, err := openSession(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer closeFn()

			res, err := s.UncrossAll(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, envelope{Data: newMutationView("uncross", "", res)})
		},
	}
}
