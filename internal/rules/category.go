package rules

import "strings"

// Category is a namespace grouping related rule codes under a shared
// prefix. Every rule code is its category prefix followed by three digits.
type Category struct {
	// Prefix is the short code prefix (e.g. "S", "OB").
	Prefix string
	// Name is the full lowercase category name (e.g. "style").
	Name string
	// Description explains what kind of problems the category covers.
	Description string
}

// Categories is the fixed catalog of rule categories.
var Categories = []Category{
	{Prefix: "C", Name: "correctness", Description: "code that is likely wrong or bug-prone"},
	{Prefix: "E", Name: "error", Description: "syntax errors and problems in lint annotations"},
	{Prefix: "M", Name: "modules", Description: "use and structure of modules"},
	{Prefix: "OB", Name: "obsolescent", Description: "deleted or obsolescent language features"},
	{Prefix: "PORT", Name: "portability", Description: "code that may not work on every compiler or platform"},
	{Prefix: "S", Name: "style", Description: "stylistic conventions; may be opinionated"},
	{Prefix: "T", Name: "typing", Description: "declarations, kinds, and implicit typing"},
}

// CategoryByPrefix returns the category with the exact prefix, if any.
func CategoryByPrefix(prefix string) (Category, bool) {
	for _, c := range Categories {
		if c.Prefix == prefix {
			return c, true
		}
	}
	return Category{}, false
}

// CategoryByName returns the category with the given full name,
// case-insensitively.
func CategoryByName(name string) (Category, bool) {
	for _, c := range Categories {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return Category{}, false
}

// CategoryOf returns the category owning a rule code, determined by the
// longest matching prefix ("PORT001" belongs to PORT, not to a
// hypothetical P).
func CategoryOf(code string) (Category, bool) {
	var best Category
	found := false
	for _, c := range Categories {
		if strings.HasPrefix(code, c.Prefix) && (!found || len(c.Prefix) > len(best.Prefix)) {
			best = c
			found = true
		}
	}
	return best, found
}
