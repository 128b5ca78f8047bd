package rules

import (
	"sort"

	"github.com/fortlab/flint/internal/syntax"
)

// Applicability is the safety tier of a fix.
type Applicability int

const (
	// FixSafe fixes preserve program behavior and may be applied
	// automatically.
	FixSafe Applicability = iota
	// FixUnsafe fixes may change behavior and are only applied when the
	// user opts in.
	FixUnsafe
	// FixDisplayOnly fixes illustrate the change but are never applied.
	FixDisplayOnly
)

// String returns the lowercase name of the applicability tier.
func (a Applicability) String() string {
	switch a {
	case FixUnsafe:
		return "unsafe"
	case FixDisplayOnly:
		return "display-only"
	default:
		return "safe"
	}
}

// Edit is a single text replacement: the byte range is removed and the
// replacement inserted in its place. A zero-width range is an insertion.
type Edit struct {
	Range       syntax.Range `json:"range"`
	Replacement string       `json:"replacement"`
}

// Deletion returns an edit that removes the range.
func Deletion(rng syntax.Range) Edit {
	return Edit{Range: rng}
}

// Insertion returns an edit that inserts text at the offset.
func Insertion(offset int, text string) Edit {
	return Edit{Range: syntax.Range{Start: offset, End: offset}, Replacement: text}
}

// Replacement returns an edit that swaps the range for text.
func Replacement(rng syntax.Range, text string) Edit {
	return Edit{Range: rng, Replacement: text}
}

// Fix is a proposed rewrite attached to a diagnostic.
//
// Invariant: edits are sorted by range start and never overlap each
// other. The constructors below establish the ordering; rules are
// responsible for not producing overlapping edits within one fix.
type Fix struct {
	Applicability Applicability `json:"applicability"`
	Edits         []Edit        `json:"edits"`
}

func newFix(applicability Applicability, edits []Edit) Fix {
	sort.SliceStable(edits, func(i, j int) bool {
		return edits[i].Range.Start < edits[j].Range.Start
	})
	return Fix{Applicability: applicability, Edits: edits}
}

// SafeFix builds a Fix that can always be applied automatically.
func SafeFix(edits ...Edit) Fix {
	return newFix(FixSafe, edits)
}

// UnsafeFix builds a Fix that is only applied when unsafe fixes are
// enabled.
func UnsafeFix(edits ...Edit) Fix {
	return newFix(FixUnsafe, edits)
}

// DisplayOnlyFix builds a Fix that is shown to the user but never
// applied.
func DisplayOnlyFix(edits ...Edit) Fix {
	return newFix(FixDisplayOnly, edits)
}

// Diagnostic is a single finding against one file.
type Diagnostic struct {
	// Code is the rule code, or empty for tool-level conditions such as
	// an unreadable file.
	Code string `json:"code,omitempty"`

	// Range is the half-open byte span the finding covers, measured
	// against the exact source text it was computed from.
	Range syntax.Range `json:"range"`

	// Message is the human-readable description.
	Message string `json:"message"`

	// Fix is the proposed rewrite, if the rule offers one.
	Fix *Fix `json:"fix,omitempty"`
}

// NewDiagnostic creates a diagnostic with the minimum required fields.
func NewDiagnostic(code string, rng syntax.Range, message string) Diagnostic {
	return Diagnostic{Code: code, Range: rng, Message: message}
}

// FromNode creates a diagnostic covering a syntax node.
func FromNode(code string, node *syntax.Node, message string) Diagnostic {
	return NewDiagnostic(code, node.Range(), message)
}

// WithFix attaches a fix to the diagnostic.
func (d Diagnostic) WithFix(fix Fix) Diagnostic {
	d.Fix = &fix
	return d
}

// HasFix reports whether the diagnostic carries a fix of any tier.
func (d Diagnostic) HasFix() bool {
	return d.Fix != nil
}

// Fixable reports whether the diagnostic's fix would be applied under
// the given unsafe-fixes setting. Display-only fixes are never fixable.
func (d Diagnostic) Fixable(allowUnsafe bool) bool {
	if d.Fix == nil {
		return false
	}
	switch d.Fix.Applicability {
	case FixSafe:
		return true
	case FixUnsafe:
		return allowUnsafe
	default:
		return false
	}
}

// SortDiagnostics orders diagnostics by (start offset, code, message) for
// deterministic output; ties beyond that keep input order. A rule-less
// diagnostic sorts before any coded one at the same offset.
func SortDiagnostics(diags []Diagnostic) {
	sort.SliceStable(diags, func(i, j int) bool {
		if diags[i].Range.Start != diags[j].Range.Start {
			return diags[i].Range.Start < diags[j].Range.Start
		}
		if diags[i].Code != diags[j].Code {
			return diags[i].Code < diags[j].Code
		}
		return diags[i].Message < diags[j].Message
	})
}
