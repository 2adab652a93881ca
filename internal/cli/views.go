package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"shoplist-cli/internal/format"
	"shoplist-cli/internal/model"
	"shoplist-cli/internal/mutate"

	"github.com/charmbracelet/lipgloss"
)

// envelope is the top-level shape of every command's output.
type envelope struct {
	Data any `json:"data"`
	Meta any `json:"meta,omitempty"`
}

func (e envelope) Text() string {
	if t, ok := e.Data.(format.Texter); ok {
		return t.Text()
	}
	b, err := json.MarshalIndent(e.Data, "", "  ")
	if err != nil {
		return fmt.Sprint(e.Data)
	}
	return string(b)
}

var headingStyle = lipgloss.NewStyle().Bold(true)

type categoryItems struct {
	ID    model.CategoryID `json:"id"`
	Label string           `json:"label"`
	Items []model.Item     `json:"items"`
}

type stateView []categoryItems

func newStateView(st model.State, only []model.CategoryID) stateView {
	out := stateView{}
	for _, c := range only {
		items := st[c]
		if items == nil {
			items = []model.Item{}
		}
		out = append(out, categoryItems{ID: c, Label: model.Label(c), Items: items})
	}
	return out
}

func (v stateView) Text() string {
	var b strings.Builder
	for i, c := range v {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(headingStyle.Render(c.Label))
		b.WriteString("\n")
		if len(c.Items) == 0 {
			b.WriteString("  (empty)\n")
			continue
		}
		for _, it := range c.Items {
			mark := " "
			if it.Crossed {
				mark = "x"
			}
			fmt.Fprintf(&b, "  [%s] %s  %s\n", mark, it.Text, it.ID)
		}
	}
	return b.String()
}

type categoryNames struct {
	ID    model.CategoryID `json:"id"`
	Label string           `json:"label"`
	Items []string         `json:"items"`
}

type templateView []categoryNames

func newTemplateView(t model.Template, only []model.CategoryID) templateView {
	out := templateView{}
	for _, c := range only {
		names := t[c]
		if names == nil {
			names = []string{}
		}
		out = append(out, categoryNames{ID: c, Label: model.Label(c), Items: names})
	}
	return out
}

func (v templateView) Text() string {
	var b strings.Builder
	for i, c := range v {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(headingStyle.Render(c.Label))
		b.WriteString("\n")
		if len(c.Items) == 0 {
			b.WriteString("  (empty)\n")
			continue
		}
		for _, name := range c.Items {
			fmt.Fprintf(&b, "  - %s\n", name)
		}
	}
	return b.String()
}

type mutationView struct {
	Action          string           `json:"action"`
	Category        model.CategoryID `json:"category,omitempty"`
	ItemText        string           `json:"text,omitempty"`
	Changed         bool             `json:"changed"`
	TemplateChanged bool             `json:"templateChanged"`
	StateChanged    bool             `json:"stateChanged"`
	Item            *model.Item      `json:"item,omitempty"`
	Removed         int              `json:"removed,omitempty"`
}

func newMutationView(action string, c model.CategoryID, res mutate.Result) mutationView {
	return mutationView{
		Action:          action,
		Category:        c,
		Changed:         res.Changed(),
		TemplateChanged: res.TemplateChanged,
		StateChanged:    res.StateChanged,
		Item:            res.Item,
		Removed:         res.Removed,
	}
}

func (v mutationView) Text() string {
	if !v.Changed {
		return "No change"
	}
	where := ""
	if v.Category != "" {
		where = " (" + model.Label(v.Category) + ")"
	}
	switch {
	case v.Action == "remove-default":
		return fmt.Sprintf("Removed %s from defaults%s; %d removed from the current list", v.ItemText, where, v.Removed)
	case v.Action == "reset":
		return "Current list rebuilt from defaults"
	case v.Action == "uncross":
		return "Uncrossed all items"
	case v.Item != nil && v.Action == "toggle":
		if v.Item.Crossed {
			return "Crossed out " + v.Item.Text + where
		}
		return "Uncrossed " + v.Item.Text + where
	case v.Item != nil:
		return fmt.Sprintf("%s %s%s", actionVerb(v.Action), v.Item.Text, where)
	default:
		return "Saved"
	}
}

func actionVerb(action string) string {
	switch action {
	case "add":
		return "Added"
	case "add-default":
		return "Added to defaults:"
	case "delete":
		return "Deleted"
	default:
		return action
	}
}
