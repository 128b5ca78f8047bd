// Package rules provides the core rule system for the Fortran linter.
package rules

import (
	"github.com/fortlab/flint/internal/sourcemap"
	"github.com/fortlab/flint/internal/syntax"
)

// FixAvailability describes whether a rule can ever repair what it
// reports, and at what safety tier.
type FixAvailability int

const (
	// FixNone means the rule only reports; it never carries a fix.
	FixNone FixAvailability = iota
	// FixSometimes means the rule attaches a fix for a subset of its
	// findings.
	FixSometimes
	// FixAlways means every diagnostic from the rule carries a fix.
	FixAlways
)

// String returns a human-readable label for the availability tier.
func (f FixAvailability) String() string {
	switch f {
	case FixAlways:
		return "always"
	case FixSometimes:
		return "sometimes"
	default:
		return "none"
	}
}

// Metadata contains static information about a rule.
type Metadata struct {
	// Code is the unique identifier (category prefix + three digits,
	// e.g. "S101").
	Code string

	// Name is the lowercase hyphenated rule name (e.g.
	// "trailing-whitespace").
	Name string

	// Summary is a one-line description of what the rule checks.
	Summary string

	// Explanation is the longer help text shown by `flint explain`.
	Explanation string

	// Fix describes the rule's fix availability tier.
	Fix FixAvailability

	// DefaultEnabled reports whether the rule runs without explicit
	// selection.
	DefaultEnabled bool
}

// Settings carries the per-run options rules may consult. It is read-only
// during a check.
type Settings struct {
	// LineLength is the maximum allowed line length.
	LineLength int

	// FileExtensions lists the accepted source file extensions, without
	// leading dots.
	FileExtensions []string
}

// DefaultSettings returns the settings used when no configuration
// overrides them.
func DefaultSettings() Settings {
	return Settings{
		LineLength:     100,
		FileExtensions: []string{"f90", "F90"},
	}
}

// CheckInput is everything a rule may look at while checking one file.
//
// CheckInput is read-only: rules must not mutate any field. The linter
// guarantees Source, Masked, and Map are consistent with each other
// whenever a text or tree rule runs.
type CheckInput struct {
	// Path is the path of the file being checked.
	Path string

	// Source is the raw file content.
	Source []byte

	// Masked is Source with string and comment interiors blanked,
	// byte for byte. Text rules match against it so patterns cannot
	// fire inside literals; offsets are interchangeable with Source.
	Masked []byte

	// Map indexes Source by line for offset/position conversion.
	Map *sourcemap.SourceMap

	// Settings are the resolved check settings.
	Settings Settings
}

// Rule is the common surface of every lint rule. Concrete rules also
// implement exactly one of PathRule, TextRule, or TreeRule.
type Rule interface {
	// Metadata returns static information about the rule.
	Metadata() Metadata
}

// PathRule is implemented by rules that act on the file path alone.
type PathRule interface {
	Rule

	// CheckPath checks the input's path, returning at most one finding
	// in practice (the interface allows more for uniformity).
	CheckPath(input *CheckInput) []Diagnostic
}

// TextRule is implemented by rules that analyse source text directly,
// using regexes or otherwise.
type TextRule interface {
	Rule

	// CheckText checks the whole file's text.
	CheckText(input *CheckInput) []Diagnostic
}

// TreeRule is implemented by rules that analyse the syntax tree.
type TreeRule interface {
	Rule

	// Entrypoints lists the node kinds the rule wants to visit.
	Entrypoints() []string

	// CheckNode checks a single node of one of the entrypoint kinds.
	// A rule that cannot establish its preconditions returns nil; it
	// must never panic the traversal.
	CheckNode(input *CheckInput, node *syntax.Node) []Diagnostic
}
