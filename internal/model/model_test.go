package model

import (
	"reflect"
	"strings"
	"testing"
)

func TestFactoryTemplate_HasAllCategoriesInOrder(t *testing.T) {
	t.Parallel()

	tmpl := FactoryTemplate()
	cats := Categories()
	if len(cats) != 10 {
		t.Fatalf("expected 10 categories; got %d", len(cats))
	}
	if cats[0] != "dairy-products" || cats[len(cats)-1] != "others" {
		t.Fatalf("unexpected category order: %v", cats)
	}
	for _, c := range cats {
		if _, ok := tmpl[c]; !ok {
			t.Fatalf("factory template missing %q", c)
		}
	}
	want := []string{"Butter", "Milk", "Cheese", "Yogurt"}
	if !reflect.DeepEqual(tmpl["dairy-products"], want) {
		t.Fatalf("dairy-products = %v, want %v", tmpl["dairy-products"], want)
	}
}

func TestFactoryTemplate_ReturnsIndependentCopies(t *testing.T) {
	t.Parallel()

	a := FactoryTemplate()
	a["dairy-products"][0] = "changed"
	a["others"] = append(a["others"], "Glue")

	b := FactoryTemplate()
	if b["dairy-products"][0] != "Butter" {
		t.Fatalf("factory default was mutated through a copy: %v", b["dairy-products"])
	}
	if len(b["others"]) != 1 {
		t.Fatalf("factory default was mutated through a copy: %v", b["others"])
	}
}

func TestMatchKey_TrimAndCaseInsensitive(t *testing.T) {
	t.Parallel()

	cases := []struct {
		a, b string
		same bool
	}{
		{"Milk", "milk", true},
		{"  Milk ", "MILK", true},
		{"Küchenrolle", "KÜCHENROLLE", true},
		{"Milk", "Milch", false},
		{"", "   ", true},
	}
	for _, tc := range cases {
		if got := SameText(tc.a, tc.b); got != tc.same {
			t.Fatalf("SameText(%q, %q) = %v, want %v", tc.a, tc.b, got, tc.same)
		}
	}
}

func TestTemplateHeal_AddsMissingKeepsPresent(t *testing.T) {
	t.Parallel()

	tmpl := Template{
		"dairy-products": {"Milk", " Oat milk "},
		"custom":         {"Keep me"},
	}
	if !tmpl.Heal() {
		t.Fatalf("expected Heal to report a change")
	}
	for _, c := range Categories() {
		if tmpl[c] == nil {
			t.Fatalf("category %q still missing after heal", c)
		}
	}
	if !reflect.DeepEqual(tmpl["dairy-products"], []string{"Milk", " Oat milk "}) {
		t.Fatalf("present category changed: %v", tmpl["dairy-products"])
	}
	if !reflect.DeepEqual(tmpl["custom"], []string{"Keep me"}) {
		t.Fatalf("unknown category dropped: %v", tmpl["custom"])
	}
	if tmpl.Heal() {
		t.Fatalf("second Heal should be a no-op")
	}
}

func TestStateHeal_AssignsMissingAndDuplicateIDs(t *testing.T) {
	t.Parallel()

	st := State{
		"others": {
			{Text: "Batteries"},
			{ID: "it-a", Text: "Glue"},
			{ID: "it-a", Text: "Tape"},
		},
	}
	if !st.Heal() {
		t.Fatalf("expected Heal to report a change")
	}
	items := st["others"]
	if items[0].ID == "" {
		t.Fatalf("expected ID assigned to first item")
	}
	if items[1].ID != "it-a" {
		t.Fatalf("expected existing ID kept; got %q", items[1].ID)
	}
	if items[2].ID == "it-a" || items[2].ID == "" {
		t.Fatalf("expected duplicate ID replaced; got %q", items[2].ID)
	}
	if len(st["dairy-products"]) != 0 || st["dairy-products"] == nil {
		t.Fatalf("expected missing category healed to empty; got %#v", st["dairy-products"])
	}
}

func TestProjectState_AllUncrossedWithIDs(t *testing.T) {
	t.Parallel()

	st := ProjectState(FactoryTemplate())
	for _, c := range Categories() {
		tmpl := FactoryTemplate()[c]
		items := st[c]
		if len(items) != len(tmpl) {
			t.Fatalf("%s: got %d items, want %d", c, len(items), len(tmpl))
		}
		for i, it := range items {
			if it.Text != tmpl[i] || it.Crossed {
				t.Fatalf("%s[%d] = %#v, want uncrossed %q", c, i, it, tmpl[i])
			}
			if !strings.HasPrefix(it.ID, "it-") {
				t.Fatalf("%s[%d] has no generated ID: %#v", c, i, it)
			}
		}
	}
}

func TestParseCategory(t *testing.T) {
	t.Parallel()

	if c, ok := ParseCategory("  Dairy-Products "); !ok || c != "dairy-products" {
		t.Fatalf("ParseCategory(id) = %q, %v", c, ok)
	}
	if c, ok := ParseCategory("fruits & vegetables"); !ok || c != "fruits-vegetables" {
		t.Fatalf("ParseCategory(label) = %q, %v", c, ok)
	}
	if _, ok := ParseCategory("frozen"); ok {
		t.Fatalf("expected unknown category to fail")
	}
}
