package linter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fortlab/flint/internal/rules"
	"github.com/fortlab/flint/internal/selector"
)

func newLinter(t *testing.T, ops []selector.Op, baseline selector.Baseline) *Linter {
	t.Helper()
	table, err := selector.Resolve(rules.DefaultRegistry(), ops, baseline)
	require.NoError(t, err)
	return New(rules.DefaultRegistry(), table, rules.DefaultSettings(), true)
}

func codes(diags []rules.Diagnostic) []string {
	out := make([]string, len(diags))
	for i, d := range diags {
		out[i] = d.Code
	}
	return out
}

func TestCheckCleanFile(t *testing.T) {
	l := newLinter(t, nil, selector.BaselineDefaults)
	res := l.Check("test.f90", []byte(
		"program p\n"+
			"  use iso_fortran_env, only: int32\n"+
			"  implicit none\n"+
			"  integer :: x\n"+
			"  x = 1\n"+
			"end program\n"))
	assert.Empty(t, res.Diagnostics)
}

func TestCheckReportsAndSorts(t *testing.T) {
	l := newLinter(t, nil, selector.BaselineDefaults)
	res := l.Check("test.f90", []byte(
		"program p\n"+
			"  x = 1   \n"+
			"end program\n"))

	// T001 anchors at the program statement, S101 at the trailing blanks.
	assert.Equal(t, []string{"T001", "S101"}, codes(res.Diagnostics))

	for i := 1; i < len(res.Diagnostics); i++ {
		prev, cur := res.Diagnostics[i-1], res.Diagnostics[i]
		ordered := prev.Range.Start < cur.Range.Start ||
			(prev.Range.Start == cur.Range.Start && prev.Code <= cur.Code)
		assert.True(t, ordered, "diagnostics out of order at %d", i)
	}
}

func TestCheckDeterminism(t *testing.T) {
	l := newLinter(t, nil, selector.BaselineDefaults)
	src := []byte("program p\n  pause\n  x = 1\t\nend program\n")

	first := l.Check("test.f90", src)
	second := l.Check("test.f90", src)
	require.Equal(t, len(first.Diagnostics), len(second.Diagnostics))
	for i := range first.Diagnostics {
		assert.Equal(t, first.Diagnostics[i].Code, second.Diagnostics[i].Code)
		assert.Equal(t, first.Diagnostics[i].Range, second.Diagnostics[i].Range)
		assert.Equal(t, first.Diagnostics[i].Message, second.Diagnostics[i].Message)
	}
}

func TestDisabledRulesNeverRun(t *testing.T) {
	l := newLinter(t, selector.Ops([]string{"S101"}, nil, nil, nil), selector.BaselineNone)
	res := l.Check("test.f90", []byte("program p\n  x = 1  \nend program\n"))

	assert.Equal(t, []string{"S101"}, codes(res.Diagnostics))
}

func TestSyntaxErrorSurfaced(t *testing.T) {
	l := newLinter(t, selector.Ops([]string{"E001"}, nil, nil, nil), selector.BaselineNone)
	res := l.Check("test.f90", []byte("program p\n  x = 1\n"))

	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, "E001", res.Diagnostics[0].Code)
	assert.True(t, res.Tree.HasErrors())
}

func TestAllowCommentFiltersDiagnostics(t *testing.T) {
	l := newLinter(t, selector.Ops([]string{"OB051"}, nil, nil, nil), selector.BaselineNone)
	res := l.Check("test.f90", []byte("if (a .gt. b) x = 1  ! allow(OB051)\n"))
	assert.Empty(t, res.Diagnostics)
}

func TestAllowCommentsDisabled(t *testing.T) {
	table, err := selector.Resolve(rules.DefaultRegistry(),
		selector.Ops([]string{"OB051"}, nil, nil, nil), selector.BaselineNone)
	require.NoError(t, err)
	l := New(rules.DefaultRegistry(), table, rules.DefaultSettings(), false)

	res := l.Check("test.f90", []byte("if (a .gt. b) x = 1  ! allow(OB051)\n"))
	assert.Equal(t, []string{"OB051"}, codes(res.Diagnostics))
}

func TestInvalidAllowTokenReported(t *testing.T) {
	l := newLinter(t, nil, selector.BaselineDefaults)
	res := l.Check("test.f90", []byte("x = 1  ! allow(not-a-real-rule)\n"))

	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, "E011", res.Diagnostics[0].Code)
}

func TestCheckFileUnreadable(t *testing.T) {
	l := newLinter(t, nil, selector.BaselineDefaults)
	res := l.CheckFile(filepath.Join(t.TempDir(), "missing.f90"))

	require.Len(t, res.Diagnostics, 1)
	assert.Empty(t, res.Diagnostics[0].Code)
	assert.Contains(t, res.Diagnostics[0].Message, "cannot read file")
}

func TestCheckFileReads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ok.f90")
	require.NoError(t, os.WriteFile(path, []byte("program p\n  implicit none\nend program\n"), 0o644))

	l := newLinter(t, nil, selector.BaselineDefaults)
	res := l.CheckFile(path)
	assert.Empty(t, res.Diagnostics)
}
