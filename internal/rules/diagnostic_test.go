package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fortlab/flint/internal/syntax"
)

func TestSortDiagnostics(t *testing.T) {
	diags := []Diagnostic{
		{Code: "T001", Range: syntax.Range{Start: 10, End: 12}, Message: "b"},
		{Code: "S001", Range: syntax.Range{Start: 10, End: 20}, Message: "a"},
		{Code: "S101", Range: syntax.Range{Start: 0, End: 3}, Message: "c"},
	}
	SortDiagnostics(diags)

	assert.Equal(t, "S101", diags[0].Code)
	assert.Equal(t, "S001", diags[1].Code, "equal start offsets order by code")
	assert.Equal(t, "T001", diags[2].Code)
}

func TestFixable(t *testing.T) {
	safe := NewDiagnostic("S101", syntax.Range{Start: 0, End: 1}, "ws").
		WithFix(SafeFix(Deletion(syntax.Range{Start: 0, End: 1})))
	unsafe := NewDiagnostic("T011", syntax.Range{Start: 0, End: 1}, "kind").
		WithFix(UnsafeFix(Replacement(syntax.Range{Start: 0, End: 1}, "x")))
	display := NewDiagnostic("PORT011", syntax.Range{Start: 0, End: 1}, "unit").
		WithFix(DisplayOnlyFix(Replacement(syntax.Range{Start: 0, End: 1}, "x")))
	bare := NewDiagnostic("S001", syntax.Range{Start: 0, End: 1}, "long")

	assert.True(t, safe.Fixable(false))
	assert.True(t, safe.Fixable(true))
	assert.False(t, unsafe.Fixable(false))
	assert.True(t, unsafe.Fixable(true))
	assert.False(t, display.Fixable(false))
	assert.False(t, display.Fixable(true), "display-only fixes are never applied")
	assert.False(t, bare.Fixable(true))
}

func TestFixSortsEdits(t *testing.T) {
	fix := SafeFix(
		Deletion(syntax.Range{Start: 9, End: 10}),
		Insertion(2, "x"),
	)
	assert.Equal(t, 2, fix.Edits[0].Range.Start)
	assert.Equal(t, 9, fix.Edits[1].Range.Start)
}
