package fortran

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fortlab/flint/internal/syntax"
)

func kindsOf(t *testing.T, source string) []string {
	t.Helper()
	var kinds []string
	syntax.Walk(Parse([]byte(source)).Root(), func(n *syntax.Node) {
		kinds = append(kinds, n.Kind())
	})
	return kinds
}

func TestParseProgram(t *testing.T) {
	src := strings.Join([]string{
		"program demo",
		"  implicit none",
		"  integer :: i",
		"  i = 1",
		"  call say(i)",
		"end program demo",
		"",
	}, "\n")

	tree := Parse([]byte(src))
	root := tree.Root()
	require.Equal(t, "translation_unit", root.Kind())
	require.Equal(t, 1, root.ChildCount())

	prog := root.Child(0)
	assert.Equal(t, "program", prog.Kind())
	assert.Equal(t, 0, prog.StartByte())
	assert.Equal(t, "end program demo", src[prog.EndByte()-16:prog.EndByte()])

	var kinds []string
	for _, c := range prog.Children() {
		kinds = append(kinds, c.Kind())
	}
	assert.Equal(t, []string{
		"program_statement",
		"implicit_statement",
		"variable_declaration",
		"assignment_statement",
		"subroutine_call",
		"end_program_statement",
	}, kinds)
	assert.False(t, tree.HasErrors())
}

func TestParseNestedUnits(t *testing.T) {
	src := strings.Join([]string{
		"module phys",
		"  private",
		"contains",
		"  pure function area(r) result(a)",
		"    real :: a, r",
		"    a = r * r",
		"  end function area",
		"end module phys",
	}, "\n")

	kinds := kindsOf(t, src)
	assert.Equal(t, []string{
		"translation_unit",
		"module",
		"module_statement",
		"access_statement",
		"contains_statement",
		"function",
		"function_statement",
		"variable_declaration",
		"assignment_statement",
		"end_function_statement",
		"end_module_statement",
	}, kinds)
}

func TestParseInterfaceBlock(t *testing.T) {
	src := strings.Join([]string{
		"module m",
		"  interface",
		"    subroutine ext(x)",
		"      real :: x",
		"    end subroutine ext",
		"  end interface",
		"end module m",
	}, "\n")

	tree := Parse([]byte(src))
	mod := tree.Root().Child(0)
	iface := mod.FirstChildOfKind("interface")
	require.NotNil(t, iface)
	sub := iface.FirstChildOfKind("subroutine")
	require.NotNil(t, sub)
	assert.Equal(t, iface, sub.Parent())
}

func TestParseComments(t *testing.T) {
	src := "program p\nx = 1  ! trailing note\n! own line\nend program p\n"

	tree := Parse([]byte(src))
	prog := tree.Root().Child(0)
	comments := prog.ChildrenOfKind("comment")
	require.Len(t, comments, 2)
	assert.Equal(t, "! trailing note", comments[0].Text([]byte(src)))
	assert.Equal(t, "! own line", comments[1].Text([]byte(src)))

	// The trailing comment follows its statement in source order.
	assert.Equal(t, "assignment_statement", comments[0].PrevSibling().Kind())
}

func TestParseContinuation(t *testing.T) {
	src := "program p\ncall f(1, &\n  2, 3)\nend program p\n"

	tree := Parse([]byte(src))
	prog := tree.Root().Child(0)
	call := prog.FirstChildOfKind("subroutine_call")
	require.NotNil(t, call)
	assert.Equal(t, "call f(1, &\n  2, 3)", call.Text([]byte(src)))
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"unterminated block", "program p\nx = 1\n"},
		{"stray end", "end program p\n"},
		{"unterminated string", "program p\nprint *, 'oops\nend program p\n"},
		{"garbage statement", "program p\n=== nonsense\nend program p\n"},
		{"mismatched end", "program p\nend subroutine p\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, Parse([]byte(tt.src)).HasErrors())
		})
	}
}

func TestParseEmptySource(t *testing.T) {
	tree := Parse(nil)
	assert.Equal(t, "translation_unit", tree.Root().Kind())
	assert.Equal(t, 0, tree.Root().ChildCount())
	assert.False(t, tree.HasErrors())
}

func TestMask(t *testing.T) {
	src := "print *, 'hi !there'  ! note\nx = \"a\"\n"
	masked := string(Mask([]byte(src)))

	assert.Len(t, masked, len(src), "masking preserves byte length")
	assert.Equal(t, "print *, '         '  !     \nx = \" \"\n", masked)
}

func TestMaskDoubledQuote(t *testing.T) {
	src := "s = 'it''s'\n"
	masked := string(Mask([]byte(src)))

	assert.Equal(t, "s = '     '\n", masked)
	assert.Len(t, masked, len(src))
}
