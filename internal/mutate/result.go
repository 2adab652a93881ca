package mutate

import "shoplist-cli/internal/model"

// Result describes what a mutation did. Callers persist the documents whose
// *Changed flag is set.
type Result struct {
	TemplateChanged bool
	StateChanged    bool

	// Item is the affected current-list item, when there is exactly one.
	Item *model.Item
	// Removed counts items dropped from the current list.
	Removed int
}

func (r Result) Changed() bool {
	return r.TemplateChanged || r.StateChanged
}
