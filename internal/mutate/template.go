package mutate

import "shoplist-cli/internal/model"

// IsInTemplate reports whether raw names a default item in category c.
func IsInTemplate(tmpl model.Template, c model.CategoryID, raw string) bool {
	return tmpl.Contains(c, model.CleanInput(raw))
}

// RemoveFromDefault drops every entry matching raw from the template and the
// current list of category c. This cannot be undone; callers confirm first.
func RemoveFromDefault(tmpl model.Template, st model.State, c model.CategoryID, raw string) (Result, error) {
	if err := requireCategory(c); err != nil {
		return Result{}, err
	}
	text := model.CleanInput(raw)
	if text == "" {
		return Result{}, nil
	}
	if !tmpl.Contains(c, text) {
		return Result{}, NotFoundError{Kind: "default item", ID: text}
	}
	key := model.MatchKey(text)

	names := make([]string, 0, len(tmpl[c]))
	for _, name := range tmpl[c] {
		if model.MatchKey(name) != key {
			names = append(names, name)
		}
	}
	tmpl[c] = names

	res := Result{TemplateChanged: true}
	items := make([]model.Item, 0, len(st[c]))
	for _, it := range st[c] {
		if model.MatchKey(it.Text) == key {
			res.Removed++
			continue
		}
		items = append(items, it)
	}
	st[c] = items
	res.StateChanged = res.Removed > 0
	return res, nil
}

// Reset replaces the whole current list with a fresh projection of the template.
// Items added only to the current list are lost.
func Reset(tmpl model.Template, st model.State) Result {
	for c := range st {
		delete(st, c)
	}
	for c, items := range model.ProjectState(tmpl) {
		st[c] = items
	}
	return Result{StateChanged: true}
}
