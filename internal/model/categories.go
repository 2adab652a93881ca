package model

import "strings"

type category struct {
	id    CategoryID
	label string
	items []string
}

// factory is the shipped default list. Its order defines display order.
var factory = []category{
	{"dairy-products", "Dairy Products", []string{"Butter", "Milk", "Cheese", "Yogurt"}},
	{"bakery-grains", "Bakery & Grains", []string{"Bread", "Pasta", "Rice"}},
	{"pantry-staples", "Pantry Staples", []string{
		"Olive Oil", "Salt", "Sugar", "Flour", "Baking Powder", "Vinegar",
		"Canned Beans", "Canned Tomatoes", "Spices", "Condiments", "Baking Ingredients",
	}},
	{"breakfast", "Breakfast", []string{"Coffee beans", "Tea", "Muesli", "Jam"}},
	{"personal-care", "Personal Care", []string{
		"Toilet Paper", "Hand Soap", "Body Soap", "Shampoo", "Q-Tips", "Deodorant", "Toothpaste", "Toothbrush",
	}},
	{"cleaning-supplies", "Cleaning Supplies", []string{
		"Laundry Detergent", "Dishwasher Tabs", "Cleaning Supplies", "Dish Soap", "Sponges", "Toilet flush freshener",
	}},
	{"household-items", "Household Items", []string{"Trash Bags", "Küchenrolle", "Aluminum Foil", "Backpapier"}},
	{"snacks", "Snacks", []string{"Almonds, walnuts…", "Snacks"}},
	{"fruits-vegetables", "Fruits & Vegetables", []string{"Almonds, walnuts…", "Avocadoes"}},
	{"others", "Others", []string{"Batteries"}},
}

// Categories returns the fixed category IDs in display order.
func Categories() []CategoryID {
	out := make([]CategoryID, 0, len(factory))
	for _, c := range factory {
		out = append(out, c.id)
	}
	return out
}

// IsCategory reports whether id is one of the fixed categories.
func IsCategory(id CategoryID) bool {
	for _, c := range factory {
		if c.id == id {
			return true
		}
	}
	return false
}

// ParseCategory resolves user input to a category ID. It accepts the ID itself
// (case-insensitive) or the display label.
func ParseCategory(s string) (CategoryID, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	for _, c := range factory {
		if strings.EqualFold(string(c.id), s) || strings.EqualFold(c.label, s) {
			return c.id, true
		}
	}
	return "", false
}

// Label returns the display label for id, or id itself when unknown.
func Label(id CategoryID) string {
	for _, c := range factory {
		if c.id == id {
			return c.label
		}
	}
	return string(id)
}

// FactoryTemplate returns a fresh copy of the shipped default list.
func FactoryTemplate() Template {
	out := make(Template, len(factory))
	for _, c := range factory {
		names := make([]string, len(c.items))
		copy(names, c.items)
		out[c.id] = names
	}
	return out
}
