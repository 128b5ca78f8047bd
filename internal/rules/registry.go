package rules

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
)

var codeRe = regexp.MustCompile(`^[A-Z]+[0-9]{3}$`)

// Registry manages rule registration and lookup. It is written once
// during process start (package init registration) and read-only
// afterwards, so a populated registry may be shared freely across
// concurrent per-file checks.
type Registry struct {
	mu     sync.RWMutex
	byCode map[string]Rule
	byName map[string]Rule // keys lowercased
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byCode: make(map[string]Rule),
		byName: make(map[string]Rule),
	}
}

// Register adds a rule to the registry.
// Panics on a duplicate code or name, a malformed code, a code outside
// any known category, or a rule implementing none (or more than one) of
// the three rule kinds — all of which are programming errors in the rule
// catalog.
func (r *Registry) Register(rule Rule) {
	r.mu.Lock()
	defer r.mu.Unlock()

	meta := rule.Metadata()
	if !codeRe.MatchString(meta.Code) {
		panic(fmt.Sprintf("rule code %q is not a category prefix plus three digits", meta.Code))
	}
	if _, ok := CategoryOf(meta.Code); !ok {
		panic(fmt.Sprintf("rule %q does not belong to any category", meta.Code))
	}
	if _, exists := r.byCode[meta.Code]; exists {
		panic(fmt.Sprintf("rule %q already registered", meta.Code))
	}
	nameKey := strings.ToLower(meta.Name)
	if _, exists := r.byName[nameKey]; exists {
		panic(fmt.Sprintf("rule name %q already registered", meta.Name))
	}

	kinds := 0
	if _, ok := rule.(PathRule); ok {
		kinds++
	}
	if _, ok := rule.(TextRule); ok {
		kinds++
	}
	if _, ok := rule.(TreeRule); ok {
		kinds++
	}
	if kinds != 1 {
		panic(fmt.Sprintf("rule %q must implement exactly one of PathRule, TextRule, TreeRule", meta.Code))
	}

	r.byCode[meta.Code] = rule
	r.byName[nameKey] = rule
}

// Lookup retrieves a rule by its exact code. Codes are case-sensitive.
func (r *Registry) Lookup(code string) (Rule, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rule, ok := r.byCode[code]
	return rule, ok
}

// LookupName retrieves a rule by name, case-insensitively.
func (r *Registry) LookupName(name string) (Rule, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rule, ok := r.byName[strings.ToLower(name)]
	return rule, ok
}

// Has reports whether a rule with the given code is registered.
func (r *Registry) Has(code string) bool {
	_, ok := r.Lookup(code)
	return ok
}

// All returns all registered rules sorted by code.
func (r *Registry) All() []Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Rule, 0, len(r.byCode))
	for _, rule := range r.byCode {
		result = append(result, rule)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Metadata().Code < result[j].Metadata().Code
	})
	return result
}

// Codes returns all registered rule codes sorted alphabetically.
func (r *Registry) Codes() []string {
	rules := r.All()
	codes := make([]string, len(rules))
	for i, rule := range rules {
		codes[i] = rule.Metadata().Code
	}
	return codes
}

// InCategory returns the rules whose category matches the given prefix
// or full name, sorted by code. An unknown category yields nil.
func (r *Registry) InCategory(prefixOrName string) []Rule {
	cat, ok := CategoryByPrefix(prefixOrName)
	if !ok {
		cat, ok = CategoryByName(prefixOrName)
	}
	if !ok {
		return nil
	}

	var result []Rule
	for _, rule := range r.All() {
		if owner, ok := CategoryOf(rule.Metadata().Code); ok && owner.Prefix == cat.Prefix {
			result = append(result, rule)
		}
	}
	return result
}

// Explain returns the explanation text for a rule code.
// The second return is false when no such rule exists; callers decide
// whether that is a hard error (CLI explain) or a soft one (an invalid
// suppression token).
func (r *Registry) Explain(code string) (string, bool) {
	rule, ok := r.Lookup(code)
	if !ok {
		return "", false
	}
	meta := rule.Metadata()
	if meta.Explanation != "" {
		return meta.Explanation, true
	}
	return meta.Summary, true
}

// defaultRegistry is the global default registry.
var defaultRegistry = NewRegistry()

// DefaultRegistry returns the global default registry.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// Register adds a rule to the default registry.
func Register(rule Rule) {
	defaultRegistry.Register(rule)
}

// Lookup retrieves a rule from the default registry.
func Lookup(code string) (Rule, bool) {
	return defaultRegistry.Lookup(code)
}

// All returns all rules from the default registry.
func All() []Rule {
	return defaultRegistry.All()
}
