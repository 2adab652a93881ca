package store

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"shoplist-cli/internal/model"
)

type DoctorIssueLevel string

const (
	DoctorIssueLevelError DoctorIssueLevel = "error"
	DoctorIssueLevelWarn  DoctorIssueLevel = "warn"
)

type DoctorIssue struct {
	Level    DoctorIssueLevel `json:"level"`
	Code     string           `json:"code"`
	Message  string           `json:"message"`
	Key      string           `json:"key,omitempty"`
	Category string           `json:"category,omitempty"`
	ItemID   string           `json:"itemId,omitempty"`
}

type DoctorReport struct {
	Keys   []string      `json:"keys"`
	Issues []DoctorIssue `json:"issues"`
}

func (r DoctorReport) HasErrors() bool {
	for _, it := range r.Issues {
		if it.Level == DoctorIssueLevelError {
			return true
		}
	}
	return false
}

var ErrDoctorIssuesFound = errors.New("doctor: issues found")

// Diagnose inspects the stored lists without modifying them. Anything a load
// would replace with a default is an error; anything a load would repair in
// place is a warning.
func Diagnose(ctx context.Context, kv KV) (DoctorReport, error) {
	keys, err := kv.Keys(ctx)
	if err != nil {
		return DoctorReport{}, fmt.Errorf("list keys: %w", err)
	}
	sort.Strings(keys)

	var issues []DoctorIssue
	add := func(level DoctorIssueLevel, code, key, msg string) {
		issues = append(issues, DoctorIssue{Level: level, Code: code, Key: key, Message: msg})
	}

	raw, ok, err := kv.Get(ctx, TemplateKey)
	if err != nil {
		return DoctorReport{}, fmt.Errorf("read %s: %w", TemplateKey, err)
	}
	switch {
	case !ok:
		add(DoctorIssueLevelWarn, "template_missing", TemplateKey, "no default list stored; the built-in one will be created")
	default:
		tmpl, healed, perr := decodeTemplate(raw)
		if perr != nil {
			add(DoctorIssueLevelError, "template_unreadable", TemplateKey, perr.Error())
			break
		}
		if healed {
			add(DoctorIssueLevelWarn, "template_malformed_entries", TemplateKey, "some entries are not strings or lists and will be dropped")
		}
		for _, c := range model.Categories() {
			if _, ok := tmpl[c]; !ok {
				issues = append(issues, DoctorIssue{
					Level: DoctorIssueLevelWarn, Code: "template_category_missing", Key: TemplateKey,
					Category: string(c), Message: "category missing; it will be added empty",
				})
			}
		}
		issues = append(issues, unknownCategories(TemplateKey, keysOf(tmpl))...)
	}

	raw, ok, err = kv.Get(ctx, StateKey)
	if err != nil {
		return DoctorReport{}, fmt.Errorf("read %s: %w", StateKey, err)
	}
	if ok {
		st, healed, perr := decodeState(raw)
		if perr != nil {
			add(DoctorIssueLevelError, "state_unreadable", StateKey, perr.Error())
		} else {
			if healed {
				add(DoctorIssueLevelWarn, "state_malformed_entries", StateKey, "some items are malformed and will be dropped")
			}
			issues = append(issues, stateIssues(st)...)
		}
	} else {
		issues = append(issues, legacyIssues(ctx, kv)...)
	}

	if keys == nil {
		keys = []string{}
	}
	return DoctorReport{Keys: keys, Issues: issuesOrEmpty(issues)}, nil
}

func stateIssues(st model.State) []DoctorIssue {
	var out []DoctorIssue
	for _, c := range model.Categories() {
		items, ok := st[c]
		if !ok {
			out = append(out, DoctorIssue{
				Level: DoctorIssueLevelWarn, Code: "state_category_missing", Key: StateKey,
				Category: string(c), Message: "category missing; it will be added empty",
			})
			continue
		}
		seen := map[string]bool{}
		for _, it := range items {
			switch {
			case it.ID == "":
				out = append(out, DoctorIssue{
					Level: DoctorIssueLevelWarn, Code: "item_id_missing", Key: StateKey,
					Category: string(c), Message: fmt.Sprintf("%q has no id; one will be assigned", it.Text),
				})
			case seen[it.ID]:
				out = append(out, DoctorIssue{
					Level: DoctorIssueLevelWarn, Code: "item_id_duplicate", Key: StateKey,
					Category: string(c), ItemID: it.ID, Message: "duplicate id; a new one will be assigned",
				})
			}
			seen[it.ID] = true
		}
	}
	return append(out, unknownCategories(StateKey, keysOf(st))...)
}

func legacyIssues(ctx context.Context, kv KV) []DoctorIssue {
	_, done, err := kv.Get(ctx, MigratedKey)
	if err != nil || done {
		return nil
	}
	raw, ok, err := kv.Get(ctx, LegacyKey)
	if err != nil || !ok {
		return nil
	}
	if _, _, perr := decodeState(raw); perr != nil {
		return []DoctorIssue{{
			Level: DoctorIssueLevelError, Code: "legacy_unreadable", Key: LegacyKey,
			Message: fmt.Sprintf("legacy list cannot be imported: %v", perr),
		}}
	}
	return []DoctorIssue{{
		Level: DoctorIssueLevelWarn, Code: "legacy_pending", Key: LegacyKey,
		Message: "legacy list will be imported on next load",
	}}
}

// unknownCategories reports stored categories outside the fixed set. They are
// kept as-is but never displayed.
func unknownCategories(key string, ids []model.CategoryID) []DoctorIssue {
	var out []DoctorIssue
	for _, c := range ids {
		if model.IsCategory(c) {
			continue
		}
		out = append(out, DoctorIssue{
			Level: DoctorIssueLevelWarn, Code: "unknown_category", Key: key,
			Category: string(c), Message: "not a known category; preserved but hidden",
		})
	}
	return out
}

func keysOf[V any](m map[model.CategoryID]V) []model.CategoryID {
	out := make([]model.CategoryID, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func issuesOrEmpty(xs []DoctorIssue) []DoctorIssue {
	if xs == nil {
		return []DoctorIssue{}
	}
	return xs
}
