package store

import (
	"encoding/json"
	"errors"
	"strings"

	"shoplist-cli/internal/model"
)

var errNotObject = errors.New("not a JSON object")

// decodeObject parses raw as a JSON object of category -> raw value.
func decodeObject(raw string) (map[string]json.RawMessage, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &obj); err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, errNotObject
	}
	return obj, nil
}

// decodeList parses v as a JSON array. ok is false when v is not an array.
func decodeList(v json.RawMessage) ([]json.RawMessage, bool) {
	var elems []json.RawMessage
	if err := json.Unmarshal(v, &elems); err != nil || elems == nil {
		return nil, false
	}
	return elems, true
}

// decodeTemplate parses a stored template. Non-array category values become
// empty and non-string entries are dropped; healed reports either repair.
func decodeTemplate(raw string) (tmpl model.Template, healed bool, err error) {
	obj, err := decodeObject(raw)
	if err != nil {
		return nil, false, err
	}
	tmpl = make(model.Template, len(obj))
	for k, v := range obj {
		elems, ok := decodeList(v)
		if !ok {
			tmpl[model.CategoryID(k)] = []string{}
			healed = true
			continue
		}
		names := make([]string, 0, len(elems))
		for _, e := range elems {
			var s string
			if err := json.Unmarshal(e, &s); err != nil {
				healed = true
				continue
			}
			names = append(names, s)
		}
		tmpl[model.CategoryID(k)] = names
	}
	return tmpl, healed, nil
}

type wireItem struct {
	ID      string  `json:"id,omitempty"`
	Text    *string `json:"text"`
	Crossed bool    `json:"crossed"`
}

// decodeState parses a stored current list (v2 or legacy v1 shape).
func decodeState(raw string) (st model.State, healed bool, err error) {
	obj, err := decodeObject(raw)
	if err != nil {
		return nil, false, err
	}
	st = make(model.State, len(obj))
	for k, v := range obj {
		elems, ok := decodeList(v)
		if !ok {
			st[model.CategoryID(k)] = []model.Item{}
			healed = true
			continue
		}
		items := make([]model.Item, 0, len(elems))
		for _, e := range elems {
			var w wireItem
			if err := json.Unmarshal(e, &w); err != nil || w.Text == nil {
				healed = true
				continue
			}
			items = append(items, model.Item{ID: w.ID, Text: *w.Text, Crossed: w.Crossed})
		}
		st[model.CategoryID(k)] = items
	}
	return st, healed, nil
}

func encode(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
