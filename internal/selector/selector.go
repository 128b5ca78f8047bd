// Package selector resolves user-supplied select/ignore lists into the
// per-rule enabled table the checker consumes.
//
// A selector is an exact rule code ("S101"), a category prefix ("S"), or a
// category's full lowercase name ("style"). Its specificity is the length
// of the matched code prefix, so an exact code always beats its category.
package selector

import (
	"fmt"
	"strings"

	"github.com/fortlab/flint/internal/rules"
)

// Polarity says whether an operation enables or disables the rules its
// selector matches.
type Polarity int

const (
	// Select enables matching rules.
	Select Polarity = iota
	// Ignore disables matching rules.
	Ignore
)

// Op is one selection operation. Configuration layers contribute their
// select/extend-select/ignore/extend-ignore lists as Ops, concatenated in
// that fixed order so later layers override earlier ones at equal
// specificity.
type Op struct {
	Polarity Polarity
	Selector string
}

// Baseline is the state of rules matched by no operation.
type Baseline int

const (
	// BaselineDefaults keeps each rule's own default state.
	BaselineDefaults Baseline = iota
	// BaselineNone starts every rule disabled. Used when an explicit
	// select list replaces the default rule set.
	BaselineNone
)

// Table is the resolved enabled/disabled decision for every registered
// rule. It is immutable once built and safe to share across goroutines.
type Table struct {
	enabled map[string]bool
}

// Enabled reports whether the rule with the given code runs.
func (t *Table) Enabled(code string) bool {
	return t.enabled[code]
}

// EnabledCount returns how many rules are enabled.
func (t *Table) EnabledCount() int {
	n := 0
	for _, on := range t.enabled {
		if on {
			n++
		}
	}
	return n
}

// Match reports the specificity with which sel matches the rule code, and
// whether it matches at all. An exact code matches with the code's full
// length; category prefixes and names match with the prefix length.
func Match(sel, code string) (int, bool) {
	if sel == code {
		return len(code), true
	}
	prefix := sel
	if cat, ok := rules.CategoryByName(sel); ok {
		prefix = cat.Prefix
	}
	if cat, ok := rules.CategoryByPrefix(prefix); ok {
		if own, ok := rules.CategoryOf(code); ok && own.Prefix == cat.Prefix {
			return len(cat.Prefix), true
		}
	}
	return 0, false
}

// Valid reports whether sel denotes at least one rule known to the
// registry.
func Valid(reg *rules.Registry, sel string) bool {
	if _, ok := reg.Lookup(sel); ok {
		return true
	}
	if _, ok := rules.CategoryByPrefix(sel); ok {
		return len(reg.InCategory(sel)) > 0
	}
	if _, ok := rules.CategoryByName(sel); ok {
		return len(reg.InCategory(sel)) > 0
	}
	return false
}

// Resolve turns the merged operation list into a Table total over the
// registry. A selector matching zero known rules is a configuration error,
// reported before any file is checked.
func Resolve(reg *rules.Registry, ops []Op, baseline Baseline) (*Table, error) {
	for _, op := range ops {
		if !Valid(reg, op.Selector) {
			return nil, fmt.Errorf(
				"unknown rule selector %q: expected a rule code, category prefix, or category name",
				op.Selector)
		}
	}

	enabled := make(map[string]bool)
	for _, rule := range reg.All() {
		meta := rule.Metadata()
		state := meta.DefaultEnabled && baseline == BaselineDefaults

		// Greatest specificity wins; at equal specificity the later
		// operation wins, hence >=.
		best := -1
		for _, op := range ops {
			spec, ok := Match(op.Selector, meta.Code)
			if !ok || spec < best {
				continue
			}
			best = spec
			state = op.Polarity == Select
		}
		enabled[meta.Code] = state
	}
	return &Table{enabled: enabled}, nil
}

// Ops builds the operation list for one configuration layer. Lists are
// concatenated in select, extend-select, ignore, extend-ignore order.
func Ops(sel, extendSel, ignore, extendIgnore []string) []Op {
	var ops []Op
	for _, s := range sel {
		ops = append(ops, Op{Select, strings.TrimSpace(s)})
	}
	for _, s := range extendSel {
		ops = append(ops, Op{Select, strings.TrimSpace(s)})
	}
	for _, s := range ignore {
		ops = append(ops, Op{Ignore, strings.TrimSpace(s)})
	}
	for _, s := range extendIgnore {
		ops = append(ops, Op{Ignore, strings.TrimSpace(s)})
	}
	return ops
}
