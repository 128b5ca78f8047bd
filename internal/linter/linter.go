// Package linter provides the shared check pipeline used by the CLI: parse
// → rule dispatch → suppression filtering. The same pipeline is re-run by
// the fixer after every pass.
package linter

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/fortlab/flint/internal/allow"
	"github.com/fortlab/flint/internal/fortran"
	"github.com/fortlab/flint/internal/rules"
	_ "github.com/fortlab/flint/internal/rules/all" // Register all rules.
	"github.com/fortlab/flint/internal/selector"
	"github.com/fortlab/flint/internal/sourcemap"
	"github.com/fortlab/flint/internal/syntax"
)

// Linter dispatches the enabled rules over files. It is immutable after
// New and safe to share across goroutines.
type Linter struct {
	reg      *rules.Registry
	table    *selector.Table
	settings rules.Settings

	// allowComments enables inline `! allow(...)` suppression.
	allowComments bool

	pathRules []rules.PathRule
	textRules []rules.TextRule

	// entrypoints maps node kinds to the enabled tree rules registered
	// for them. Keys are exactly the kinds some enabled rule wants.
	entrypoints map[string][]rules.TreeRule
}

// New builds a Linter for one resolved rule table. Disabled rules are
// excluded up front and never evaluated.
func New(reg *rules.Registry, table *selector.Table, settings rules.Settings, allowComments bool) *Linter {
	l := &Linter{
		reg:           reg,
		table:         table,
		settings:      settings,
		allowComments: allowComments,
		entrypoints:   make(map[string][]rules.TreeRule),
	}
	for _, rule := range reg.All() {
		if !table.Enabled(rule.Metadata().Code) {
			continue
		}
		switch r := rule.(type) {
		case rules.PathRule:
			l.pathRules = append(l.pathRules, r)
		case rules.TextRule:
			l.textRules = append(l.textRules, r)
		case rules.TreeRule:
			for _, kind := range r.Entrypoints() {
				l.entrypoints[kind] = append(l.entrypoints[kind], r)
			}
		}
	}
	return l
}

// Table returns the resolved rule table the linter runs with.
func (l *Linter) Table() *selector.Table {
	return l.table
}

// Result is the outcome of checking one file.
type Result struct {
	// Diagnostics are the findings after suppression filtering, sorted
	// by (start byte, rule code, message).
	Diagnostics []rules.Diagnostic

	// Tree is the parsed syntax tree.
	Tree *syntax.Tree

	// Input is the check input the diagnostics were computed against.
	Input *rules.CheckInput
}

// CheckFile reads and checks one file. An unreadable file becomes a
// single rule-less diagnostic rather than an error, so one bad file never
// aborts a run over many.
func (l *Linter) CheckFile(path string) *Result {
	content, err := os.ReadFile(path)
	if err != nil {
		logrus.WithError(err).Debugf("cannot read %s", path)
		return &Result{
			Diagnostics: []rules.Diagnostic{
				rules.NewDiagnostic("", syntax.Range{}, fmt.Sprintf("cannot read file: %v", err)),
			},
		}
	}
	return l.Check(path, content)
}

// Check runs the full pipeline over in-memory content.
func (l *Linter) Check(path string, content []byte) *Result {
	input := &rules.CheckInput{
		Path:     path,
		Source:   content,
		Masked:   fortran.Mask(content),
		Map:      sourcemap.New(content),
		Settings: l.settings,
	}
	tree := fortran.Parse(content)

	diags := l.dispatch(input, tree)

	if l.allowComments {
		set := allow.Gather(tree.Root(), input, l.reg)
		diags = set.Filter(diags)
		diags = append(diags, set.Findings(l.reg, l.table)...)
		rules.SortDiagnostics(diags)
	}

	logrus.Debugf("checked %s: %d diagnostics", path, len(diags))
	return &Result{Diagnostics: diags, Tree: tree, Input: input}
}

// dispatch is a pure function of (table, entrypoint map, tree, input):
// path rules once, text rules once, tree rules via a single pre-order
// traversal. Output is sorted for determinism.
func (l *Linter) dispatch(input *rules.CheckInput, tree *syntax.Tree) []rules.Diagnostic {
	var diags []rules.Diagnostic

	for _, rule := range l.pathRules {
		diags = append(diags, rule.CheckPath(input)...)
	}
	for _, rule := range l.textRules {
		diags = append(diags, rule.CheckText(input)...)
	}

	if len(l.entrypoints) > 0 {
		syntax.Walk(tree.Root(), func(node *syntax.Node) {
			for _, rule := range l.entrypoints[node.Kind()] {
				diags = append(diags, rule.CheckNode(input, node)...)
			}
		})
	}

	rules.SortDiagnostics(diags)
	return diags
}
