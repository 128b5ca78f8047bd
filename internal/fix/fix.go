// Package fix applies diagnostic fixes to source text. Each pass retains
// a conflict-free subset of the candidate fixes, applies it, re-checks the
// result, and repeats until a pass retains nothing or the pass cap is hit.
package fix

import (
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/fortlab/flint/internal/linter"
	"github.com/fortlab/flint/internal/rules"
	"github.com/fortlab/flint/internal/syntax"
)

// MaxPasses bounds the fix loop. A well-behaved rule set converges in a
// handful of passes; the cap guards against rules that keep reintroducing
// each other's findings.
const MaxPasses = 100

// Result is the outcome of Apply.
type Result struct {
	// Source is the fixed text. Equal to the input when nothing applied.
	Source []byte

	// Remaining are the diagnostics still present in the final text.
	Remaining []rules.Diagnostic

	// Final is the check result for Source, for position mapping and
	// reporting. Equal to the initial check when nothing applied.
	Final *linter.Result

	// Counts is the number of fixes applied per rule code, accumulated
	// across passes.
	Counts map[string]int

	// Fixed is the total number of fixes applied.
	Fixed int

	// Passes is the number of passes that applied at least one fix.
	Passes int

	// Converged is false when the loop hit MaxPasses with fixes still
	// pending; Source is then a best-effort result.
	Converged bool

	// SyntaxErrors is true when the initial source had parse errors, in
	// which case no fixes are attempted at all.
	SyntaxErrors bool
}

// Apply runs the check-fix loop over one file's content. Fixes marked
// unsafe are only candidates when allowUnsafe is set; display-only fixes
// never apply. If a pass introduces a parse error the whole run aborts
// and returns the original text unchanged.
func Apply(l *linter.Linter, path string, content []byte, allowUnsafe bool) *Result {
	res := &Result{
		Source:    content,
		Counts:    make(map[string]int),
		Converged: true,
	}

	check := l.Check(path, content)
	res.Remaining = check.Diagnostics
	res.Final = check
	if check.Tree.HasErrors() {
		res.SyntaxErrors = true
		return res
	}

	source := content
	for pass := 0; pass < MaxPasses; pass++ {
		retained := plan(res.Remaining, allowUnsafe)
		if len(retained) == 0 {
			return res
		}

		next := applyEdits(source, retained)
		recheck := l.Check(path, next)
		if recheck.Tree.HasErrors() {
			// A fix broke the parse; hand back the original text.
			logrus.Warnf("fix for %s produced invalid syntax, reverting", path)
			res.Source = content
			res.Remaining = check.Diagnostics
			res.Final = check
			res.Counts = make(map[string]int)
			res.Fixed = 0
			res.Passes = 0
			return res
		}

		for _, d := range retained {
			res.Counts[d.Code]++
			res.Fixed++
		}
		res.Passes++
		source = next
		res.Source = next
		res.Remaining = recheck.Diagnostics
		res.Final = recheck
	}

	logrus.Warnf("fixing %s did not converge after %d passes", path, MaxPasses)
	res.Converged = false
	return res
}

// plan selects the fixes to apply in one pass: filter by applicability,
// group by conflict, and retain one fix per group. Retention is
// deterministic: the fix of the diagnostic with the smallest range start
// wins, ties broken by rule code. Dropped fixes are merely deferred; a
// later pass sees them again if they still apply.
func plan(diags []rules.Diagnostic, allowUnsafe bool) []rules.Diagnostic {
	var candidates []rules.Diagnostic
	for _, d := range diags {
		if d.Fixable(allowUnsafe) {
			candidates = append(candidates, d)
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	// Union pairwise conflicts into groups.
	group := make([]int, len(candidates))
	for i := range group {
		group[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		if group[i] != i {
			group[i] = find(group[i])
		}
		return group[i]
	}
	for i := 0; i < len(candidates); i++ {
		for j := i + 1; j < len(candidates); j++ {
			if conflicts(candidates[i].Fix, candidates[j].Fix) {
				group[find(i)] = find(j)
			}
		}
	}

	best := make(map[int]int) // group root -> candidate index
	for i, d := range candidates {
		root := find(i)
		cur, ok := best[root]
		if !ok || less(d, candidates[cur]) {
			best[root] = i
		}
	}

	retained := make([]rules.Diagnostic, 0, len(best))
	for _, i := range best {
		retained = append(retained, candidates[i])
	}
	sort.Slice(retained, func(i, j int) bool { return less(retained[i], retained[j]) })
	return retained
}

// less orders diagnostics by range start, then rule code.
func less(a, b rules.Diagnostic) bool {
	if a.Range.Start != b.Range.Start {
		return a.Range.Start < b.Range.Start
	}
	return a.Code < b.Code
}

// conflicts reports whether any edits of the two fixes intersect. Two
// zero-width insertions at the same offset count as intersecting.
func conflicts(a, b *rules.Fix) bool {
	for _, ea := range a.Edits {
		for _, eb := range b.Edits {
			if ea.Range.Intersects(eb.Range) {
				return true
			}
		}
	}
	return false
}

// applyEdits applies the retained fixes' edits in ascending range order.
// The caller guarantees the fixes are mutually conflict-free.
func applyEdits(source []byte, retained []rules.Diagnostic) []byte {
	var edits []rules.Edit
	for _, d := range retained {
		edits = append(edits, d.Fix.Edits...)
	}
	sort.Slice(edits, func(i, j int) bool { return edits[i].Range.Start < edits[j].Range.Start })

	out := make([]byte, 0, len(source))
	at := 0
	for _, e := range edits {
		out = append(out, source[at:e.Range.Start]...)
		out = append(out, e.Replacement...)
		at = e.Range.End
	}
	out = append(out, source[at:]...)
	return out
}

// MinimalReplacement shrinks a whole-text rewrite to the smallest
// contiguous replacement span, for editor embeddings that want a precise
// edit instead of a full-document swap.
func MinimalReplacement(before, after []byte) (rules.Edit, bool) {
	if string(before) == string(after) {
		return rules.Edit{}, false
	}

	prefix := 0
	for prefix < len(before) && prefix < len(after) && before[prefix] == after[prefix] {
		prefix++
	}
	suffix := 0
	for suffix < len(before)-prefix && suffix < len(after)-prefix &&
		before[len(before)-1-suffix] == after[len(after)-1-suffix] {
		suffix++
	}

	return rules.Replacement(
		syntax.Range{Start: prefix, End: len(before) - suffix},
		string(after[prefix:len(after)-suffix]),
	), true
}
