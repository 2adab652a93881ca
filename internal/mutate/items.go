package mutate

import "shoplist-cli/internal/model"

// Toggle flips the crossed flag of the item with the given ID.
func Toggle(st model.State, c model.CategoryID, id string) (Result, error) {
	idx, err := findItem(st, c, id)
	if err != nil {
		return Result{}, err
	}
	st[c][idx].Crossed = !st[c][idx].Crossed
	it := st[c][idx]
	return Result{StateChanged: true, Item: &it}, nil
}

// Delete removes the item with the given ID from the current list only.
// The template is never touched.
func Delete(st model.State, c model.CategoryID, id string) (Result, error) {
	idx, err := findItem(st, c, id)
	if err != nil {
		return Result{}, err
	}
	items := st[c]
	it := items[idx]
	out := make([]model.Item, 0, len(items)-1)
	out = append(out, items[:idx]...)
	out = append(out, items[idx+1:]...)
	st[c] = out
	return Result{StateChanged: true, Item: &it, Removed: 1}, nil
}

// UncrossAll clears the crossed flag on every item without adding or removing any.
func UncrossAll(st model.State) Result {
	res := Result{}
	for c, items := range st {
		for i := range items {
			if items[i].Crossed {
				items[i].Crossed = false
				res.StateChanged = true
			}
		}
		st[c] = items
	}
	return res
}

func findItem(st model.State, c model.CategoryID, id string) (int, error) {
	if err := requireCategory(c); err != nil {
		return -1, err
	}
	idx := st.Find(c, id)
	if idx < 0 {
		return -1, NotFoundError{Kind: "item", ID: id}
	}
	return idx, nil
}
