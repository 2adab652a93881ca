package store

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"reflect"
	"testing"
	"time"

	"shoplist-cli/internal/model"
)

func newTestLists(kv KV) *Lists {
	return &Lists{
		KV:     kv,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Now:    func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) },
	}
}

func mustGet(t *testing.T, kv KV, key string) string {
	t.Helper()
	v, ok, err := kv.Get(context.Background(), key)
	if err != nil {
		t.Fatalf("Get(%s): %v", key, err)
	}
	if !ok {
		t.Fatalf("expected key %s to exist", key)
	}
	return v
}

func mustSet(t *testing.T, kv KV, key, value string) {
	t.Helper()
	if err := kv.Set(context.Background(), key, value); err != nil {
		t.Fatalf("Set(%s): %v", key, err)
	}
}

func TestLoadTemplate_FreshStorageCreatesFactoryDefault(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	kv := NewMemory()
	l := newTestLists(kv)

	res, err := l.LoadTemplate(ctx)
	if err != nil {
		t.Fatalf("LoadTemplate: %v", err)
	}
	if res.Outcome != OutcomeCreated {
		t.Fatalf("Outcome = %q, want %q", res.Outcome, OutcomeCreated)
	}
	if !reflect.DeepEqual(res.Template, model.FactoryTemplate()) {
		t.Fatalf("expected factory template; got %#v", res.Template)
	}

	var stored map[string][]string
	if err := json.Unmarshal([]byte(mustGet(t, kv, TemplateKey)), &stored); err != nil {
		t.Fatalf("stored template not JSON: %v", err)
	}
	if len(stored) != 10 {
		t.Fatalf("expected 10 stored categories; got %d", len(stored))
	}
}

func TestLoadTemplate_CorruptFallsBackAndOverwrites(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	for _, raw := range []string{"{not json", "[1,2,3]", "null", `"just a string"`} {
		kv := NewMemory()
		mustSet(t, kv, TemplateKey, raw)
		l := newTestLists(kv)

		res, err := l.LoadTemplate(ctx)
		if err != nil {
			t.Fatalf("LoadTemplate(%q): %v", raw, err)
		}
		if res.Outcome != OutcomeRecovered || res.Reason == "" {
			t.Fatalf("LoadTemplate(%q): expected recovered with reason; got %#v", raw, res.LoadInfo)
		}
		if !reflect.DeepEqual(res.Template, model.FactoryTemplate()) {
			t.Fatalf("LoadTemplate(%q): expected factory template", raw)
		}
		want, _ := encode(model.FactoryTemplate())
		if got := mustGet(t, kv, TemplateKey); got != want {
			t.Fatalf("LoadTemplate(%q): corrupt value not overwritten; got %s", raw, got)
		}
	}
}

func TestLoadTemplate_HealsMissingAndInvalidCategories(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	kv := NewMemory()
	mustSet(t, kv, TemplateKey, `{"dairy-products":["Milk","Oat Milk"],"snacks":"oops","others":["Batteries",7]}`)
	l := newTestLists(kv)

	res, err := l.LoadTemplate(ctx)
	if err != nil {
		t.Fatalf("LoadTemplate: %v", err)
	}
	if res.Outcome != OutcomeLoaded || !res.Healed {
		t.Fatalf("expected loaded+healed; got %#v", res.LoadInfo)
	}
	if !reflect.DeepEqual(res.Template["dairy-products"], []string{"Milk", "Oat Milk"}) {
		t.Fatalf("valid category changed: %v", res.Template["dairy-products"])
	}
	if got := res.Template["snacks"]; got == nil || len(got) != 0 {
		t.Fatalf("expected non-array category coerced to empty; got %#v", got)
	}
	if !reflect.DeepEqual(res.Template["others"], []string{"Batteries"}) {
		t.Fatalf("expected non-string entry dropped; got %v", res.Template["others"])
	}
	for _, c := range model.Categories() {
		if res.Template[c] == nil {
			t.Fatalf("category %s missing after heal", c)
		}
	}

	// Healed result is persisted, and a second load is a clean load.
	res2, err := l.LoadTemplate(ctx)
	if err != nil {
		t.Fatalf("LoadTemplate (second): %v", err)
	}
	if res2.Outcome != OutcomeLoaded || res2.Healed {
		t.Fatalf("expected clean second load; got %#v", res2.LoadInfo)
	}
	if !reflect.DeepEqual(res.Template, res2.Template) {
		t.Fatalf("second load differs:\nfirst:  %#v\nsecond: %#v", res.Template, res2.Template)
	}
}

func TestLoadState_FreshStorageProjectsTemplate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	kv := NewMemory()
	l := newTestLists(kv)

	tr, err := l.LoadTemplate(ctx)
	if err != nil {
		t.Fatalf("LoadTemplate: %v", err)
	}
	sr, err := l.LoadState(ctx, tr.Template)
	if err != nil {
		t.Fatalf("LoadState: %v", err)
	}
	if sr.Outcome != OutcomeCreated {
		t.Fatalf("Outcome = %q, want created", sr.Outcome)
	}
	for c, names := range tr.Template {
		items := sr.State[c]
		if len(items) != len(names) {
			t.Fatalf("%s: %d items, want %d", c, len(items), len(names))
		}
		for i, it := range items {
			if it.Text != names[i] || it.Crossed || it.ID == "" {
				t.Fatalf("%s[%d] = %#v", c, i, it)
			}
		}
	}
	if _, ok, _ := kv.Get(ctx, StateKey); !ok {
		t.Fatalf("expected state persisted")
	}
}

func TestLoadState_CorruptFallsBackToProjection(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	kv := NewMemory()
	mustSet(t, kv, StateKey, "{{{")
	l := newTestLists(kv)

	tmpl := model.Template{"others": {"Glue"}}
	sr, err := l.LoadState(ctx, tmpl)
	if err != nil {
		t.Fatalf("LoadState: %v", err)
	}
	if sr.Outcome != OutcomeRecovered || sr.Reason == "" {
		t.Fatalf("expected recovered with reason; got %#v", sr.LoadInfo)
	}
	if len(sr.State["others"]) != 1 || sr.State["others"][0].Text != "Glue" {
		t.Fatalf("expected projection of template; got %#v", sr.State["others"])
	}

	stored, _, err := decodeState(mustGet(t, kv, StateKey))
	if err != nil {
		t.Fatalf("persisted state unreadable: %v", err)
	}
	if !reflect.DeepEqual(stored["others"], sr.State["others"]) {
		t.Fatalf("persisted state differs from returned state")
	}
}

func TestLoadState_HealsAndKeepsCrossedFlags(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	kv := NewMemory()
	mustSet(t, kv, StateKey, `{"others":[{"id":"it-1","text":"Glue","crossed":true},{"text":"Tape","crossed":false},{"nope":1}]}`)
	l := newTestLists(kv)

	sr, err := l.LoadState(ctx, model.FactoryTemplate())
	if err != nil {
		t.Fatalf("LoadState: %v", err)
	}
	if sr.Outcome != OutcomeLoaded || !sr.Healed {
		t.Fatalf("expected loaded+healed; got %#v", sr.LoadInfo)
	}
	others := sr.State["others"]
	if len(others) != 2 {
		t.Fatalf("expected invalid entry dropped; got %#v", others)
	}
	if others[0] != (model.Item{ID: "it-1", Text: "Glue", Crossed: true}) {
		t.Fatalf("first item changed: %#v", others[0])
	}
	if others[1].ID == "" || others[1].Text != "Tape" {
		t.Fatalf("expected ID assigned to Tape; got %#v", others[1])
	}
	if len(sr.State["dairy-products"]) != 0 {
		t.Fatalf("missing category should heal to empty, not project template")
	}
}

func TestLoadState_MigratesLegacyOnce(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	kv := NewMemory()
	legacy := `{"dairy-products":[{"text":"Kefir","crossed":true}]}`
	mustSet(t, kv, LegacyKey, legacy)
	l := newTestLists(kv)

	sr, err := l.LoadState(ctx, model.FactoryTemplate())
	if err != nil {
		t.Fatalf("LoadState: %v", err)
	}
	if sr.Outcome != OutcomeMigrated {
		t.Fatalf("Outcome = %q, want migrated", sr.Outcome)
	}
	dairy := sr.State["dairy-products"]
	if len(dairy) != 1 || dairy[0].Text != "Kefir" || !dairy[0].Crossed {
		t.Fatalf("unexpected migrated dairy: %#v", dairy)
	}
	if len(sr.State["others"]) != 0 {
		t.Fatalf("expected missing categories healed empty; got %#v", sr.State["others"])
	}
	if got := mustGet(t, kv, LegacyKey); got != legacy {
		t.Fatalf("legacy key modified: %s", got)
	}
	if got := mustGet(t, kv, MigratedKey); got != "2026-01-02T03:04:05Z" {
		t.Fatalf("migration marker = %q", got)
	}

	// The v2 key now wins.
	sr2, err := l.LoadState(ctx, model.FactoryTemplate())
	if err != nil {
		t.Fatalf("LoadState (second): %v", err)
	}
	if sr2.Outcome != OutcomeLoaded {
		t.Fatalf("second load Outcome = %q, want loaded", sr2.Outcome)
	}

	// Clearing v2 does not re-import the legacy data.
	kv.Delete(StateKey)
	sr3, err := l.LoadState(ctx, model.Template{"others": {"Batteries"}})
	if err != nil {
		t.Fatalf("LoadState (third): %v", err)
	}
	if sr3.Outcome != OutcomeCreated {
		t.Fatalf("third load Outcome = %q, want created", sr3.Outcome)
	}
	if len(sr3.State["dairy-products"]) != 0 || len(sr3.State["others"]) != 1 {
		t.Fatalf("expected template projection; got %#v", sr3.State)
	}
}

func TestLoadState_UnreadableLegacyFallsBackToProjection(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	kv := NewMemory()
	mustSet(t, kv, LegacyKey, "[]")
	l := newTestLists(kv)

	sr, err := l.LoadState(ctx, model.FactoryTemplate())
	if err != nil {
		t.Fatalf("LoadState: %v", err)
	}
	if sr.Outcome != OutcomeRecovered || sr.Reason == "" {
		t.Fatalf("expected recovered; got %#v", sr.LoadInfo)
	}
	if len(sr.State["dairy-products"]) != 4 {
		t.Fatalf("expected projection; got %#v", sr.State["dairy-products"])
	}
	if _, ok, _ := kv.Get(ctx, MigratedKey); ok {
		t.Fatalf("marker must not be written when nothing was migrated")
	}
}

func TestSave_RetriesOnceThenReportsWriteError(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	kv := NewMemory()
	l := newTestLists(kv)

	kv.FailNextWrites(1)
	if err := l.SaveTemplate(ctx, model.FactoryTemplate()); err != nil {
		t.Fatalf("expected retry to succeed; got %v", err)
	}
	if kv.Writes() != 2 {
		t.Fatalf("expected 2 write attempts; got %d", kv.Writes())
	}

	kv.FailNextWrites(2)
	err := l.SaveState(ctx, model.ProjectState(model.FactoryTemplate()))
	var we *WriteError
	if !errors.As(err, &we) || we.Key != StateKey {
		t.Fatalf("expected WriteError for %s; got %v", StateKey, err)
	}
	if !errors.Is(err, ErrInjectedWrite) {
		t.Fatalf("expected wrapped cause; got %v", err)
	}
}

func TestLoadTemplate_SaveFailureStillReturnsDocument(t *testing.T) {
	t.Parallel()
	kv := NewMemory()
	kv.FailNextWrites(2)
	l := newTestLists(kv)

	res, err := l.LoadTemplate(context.Background())
	if err != nil {
		t.Fatalf("LoadTemplate: %v", err)
	}
	if res.SaveErr == nil {
		t.Fatalf("expected SaveErr to be reported")
	}
	if len(res.Template) != 10 {
		t.Fatalf("expected usable template despite save failure")
	}
}
