package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fortlab/flint/internal/syntax"
)

// fakeRule is a minimal tree rule for registry tests.
type fakeRule struct {
	meta Metadata
}

func (r *fakeRule) Metadata() Metadata       { return r.meta }
func (r *fakeRule) Entrypoints() []string    { return []string{"comment"} }
func (r *fakeRule) CheckNode(*CheckInput, *syntax.Node) []Diagnostic { return nil }

func fake(code, name string) *fakeRule {
	return &fakeRule{meta: Metadata{Code: code, Name: name, Summary: name, DefaultEnabled: true}}
}

func TestRegisterAndLookup(t *testing.T) {
	reg := NewRegistry()
	reg.Register(fake("S001", "line-too-long"))
	reg.Register(fake("T001", "implicit-typing"))

	r, ok := reg.Lookup("S001")
	require.True(t, ok)
	assert.Equal(t, "line-too-long", r.Metadata().Name)

	_, ok = reg.Lookup("s001")
	assert.False(t, ok, "code lookup is case-sensitive")

	r, ok = reg.LookupName("Implicit-Typing")
	require.True(t, ok, "name lookup is case-insensitive")
	assert.Equal(t, "T001", r.Metadata().Code)

	_, ok = reg.Lookup("Z999")
	assert.False(t, ok)
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	reg := NewRegistry()
	reg.Register(fake("S001", "line-too-long"))

	assert.Panics(t, func() { reg.Register(fake("S001", "other-name")) })
	assert.Panics(t, func() { reg.Register(fake("S002", "line-too-long")) })
}

func TestRegisterRejectsMalformedCodes(t *testing.T) {
	assert.Panics(t, func() { NewRegistry().Register(fake("S1", "short-code")) })
	assert.Panics(t, func() { NewRegistry().Register(fake("X001", "unknown-category")) })
}

func TestAllSortedByCode(t *testing.T) {
	reg := NewRegistry()
	reg.Register(fake("T001", "implicit-typing"))
	reg.Register(fake("C001", "trailing-backslash"))
	reg.Register(fake("S101", "trailing-whitespace"))

	assert.Equal(t, []string{"C001", "S101", "T001"}, reg.Codes())
}

func TestInCategory(t *testing.T) {
	reg := NewRegistry()
	reg.Register(fake("S001", "line-too-long"))
	reg.Register(fake("S101", "trailing-whitespace"))
	reg.Register(fake("T001", "implicit-typing"))
	reg.Register(fake("PORT001", "invalid-tab"))

	byPrefix := reg.InCategory("S")
	require.Len(t, byPrefix, 2)
	assert.Equal(t, "S001", byPrefix[0].Metadata().Code)

	byName := reg.InCategory("style")
	assert.Len(t, byName, 2)

	assert.Len(t, reg.InCategory("PORT"), 1, "PORT001 is portability, not a P category")
	assert.Nil(t, reg.InCategory("nope"))
}

func TestExplain(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&fakeRule{meta: Metadata{
		Code: "S001", Name: "line-too-long",
		Summary:     "line is too long",
		Explanation: "Long lines are hard to read.",
	}})

	text, ok := reg.Explain("S001")
	require.True(t, ok)
	assert.Equal(t, "Long lines are hard to read.", text)

	_, ok = reg.Explain("S999")
	assert.False(t, ok)
}

func TestCategoryOf(t *testing.T) {
	cat, ok := CategoryOf("PORT011")
	require.True(t, ok)
	assert.Equal(t, "portability", cat.Name)

	cat, ok = CategoryOf("S101")
	require.True(t, ok)
	assert.Equal(t, "S", cat.Prefix)

	_, ok = CategoryOf("Z001")
	assert.False(t, ok)
}
