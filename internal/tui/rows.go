package tui

import (
	"shoplist-cli/internal/model"
)

type rowKind int

const (
	rowHeader rowKind = iota
	rowItem
)

type row struct {
	kind      rowKind
	cat       model.CategoryID
	item      model.Item
	isDefault bool
	hidden    int // crossed items hidden under a header
}

// buildRows flattens a snapshot of the lists into display rows: one header per
// category in display order, followed by its items.
func buildRows(st model.State, tmpl model.Template, hideCrossed bool) []row {
	out := []row{}
	for _, c := range model.Categories() {
		hdr := row{kind: rowHeader, cat: c}
		items := []row{}
		for _, it := range st[c] {
			if hideCrossed && it.Crossed {
				hdr.hidden++
				continue
			}
			items = append(items, row{
				kind:      rowItem,
				cat:       c,
				item:      it,
				isDefault: tmpl.Contains(c, it.Text),
			})
		}
		out = append(out, hdr)
		out = append(out, items...)
	}
	return out
}

// indexOfItem returns the row showing item id, or -1.
func indexOfItem(rows []row, c model.CategoryID, id string) int {
	for i, r := range rows {
		if r.kind == rowItem && r.cat == c && r.item.ID == id {
			return i
		}
	}
	return -1
}

func indexOfHeader(rows []row, c model.CategoryID) int {
	for i, r := range rows {
		if r.kind == rowHeader && r.cat == c {
			return i
		}
	}
	return -1
}
