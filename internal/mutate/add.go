package mutate

import "shoplist-cli/internal/model"

// AddToCurrent appends raw (trimmed) to st[c] as an uncrossed item unless an
// item with the same text is already there. Blank input is a no-op.
func AddToCurrent(st model.State, c model.CategoryID, raw string) (Result, error) {
	if err := requireCategory(c); err != nil {
		return Result{}, err
	}
	text := model.CleanInput(raw)
	if text == "" {
		return Result{}, nil
	}
	it, added := appendItem(st, c, text)
	return Result{StateChanged: added, Item: it}, nil
}

// AddToDefault adds raw to both the template and the current list. Each
// document is deduplicated independently.
func AddToDefault(tmpl model.Template, st model.State, c model.CategoryID, raw string) (Result, error) {
	if err := requireCategory(c); err != nil {
		return Result{}, err
	}
	text := model.CleanInput(raw)
	if text == "" {
		return Result{}, nil
	}
	res := Result{}
	if !tmpl.Contains(c, text) {
		tmpl[c] = append(tmpl[c], text)
		res.TemplateChanged = true
	}
	res.Item, res.StateChanged = appendItem(st, c, text)
	return res, nil
}

// appendItem returns the new item, or the existing match when text is already present.
func appendItem(st model.State, c model.CategoryID, text string) (*model.Item, bool) {
	key := model.MatchKey(text)
	items := st[c]
	for i := range items {
		if model.MatchKey(items[i].Text) == key {
			it := items[i]
			return &it, false
		}
	}
	it := model.Item{ID: model.NewItemID(), Text: text}
	st[c] = append(items, it)
	return &it, true
}
