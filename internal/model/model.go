package model

// CategoryID names one of the fixed grocery groupings.
type CategoryID string

// Item is one entry on the current list.
//
// ID is assigned at insertion and never reused within a State; mutations
// address items by ID rather than by position.
type Item struct {
	ID      string `json:"id,omitempty"`
	Text    string `json:"text"`
	Crossed bool   `json:"crossed"`
}

// Template is the user's editable default list: item names per category.
type Template map[CategoryID][]string

// State is the current list.
type State map[CategoryID][]Item

// Clone returns a deep copy.
func (t Template) Clone() Template {
	out := make(Template, len(t))
	for c, names := range t {
		cp := make([]string, len(names))
		copy(cp, names)
		out[c] = cp
	}
	return out
}

// Heal adds an empty sequence for every fixed category missing from t.
// Present categories (known or not) are left untouched.
func (t Template) Heal() bool {
	changed := false
	for _, c := range Categories() {
		if t[c] == nil {
			t[c] = []string{}
			changed = true
		}
	}
	return changed
}

// Contains reports whether category c holds an entry matching text.
func (t Template) Contains(c CategoryID, text string) bool {
	key := MatchKey(text)
	if key == "" {
		return false
	}
	for _, name := range t[c] {
		if MatchKey(name) == key {
			return true
		}
	}
	return false
}

// Clone returns a deep copy.
func (s State) Clone() State {
	out := make(State, len(s))
	for c, items := range s {
		cp := make([]Item, len(items))
		copy(cp, items)
		out[c] = cp
	}
	return out
}

// Heal adds an empty sequence for every fixed category missing from s and
// assigns IDs to items that have none. Reports whether anything changed.
func (s State) Heal() bool {
	changed := false
	for _, c := range Categories() {
		if s[c] == nil {
			s[c] = []Item{}
			changed = true
		}
	}
	for c, items := range s {
		seen := make(map[string]bool, len(items))
		for i := range items {
			id := items[i].ID
			if id == "" || seen[id] {
				items[i].ID = NewItemID()
				changed = true
			}
			seen[items[i].ID] = true
		}
		s[c] = items
	}
	return changed
}

// Find returns the index of the item with the given ID in category c, or -1.
func (s State) Find(c CategoryID, id string) int {
	for i, it := range s[c] {
		if it.ID == id {
			return i
		}
	}
	return -1
}

// Contains reports whether category c holds an item whose text matches text.
func (s State) Contains(c CategoryID, text string) bool {
	key := MatchKey(text)
	if key == "" {
		return false
	}
	for _, it := range s[c] {
		if MatchKey(it.Text) == key {
			return true
		}
	}
	return false
}

// ProjectState builds a fresh current list from t: every template entry
// becomes an uncrossed item, in template order.
func ProjectState(t Template) State {
	out := make(State, len(t))
	for c, names := range t {
		items := make([]Item, 0, len(names))
		for _, name := range names {
			items = append(items, Item{ID: NewItemID(), Text: name})
		}
		out[c] = items
	}
	out.Heal()
	return out
}
