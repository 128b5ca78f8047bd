package selector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fortlab/flint/internal/rules"
	"github.com/fortlab/flint/internal/syntax"
)

type stubRule struct {
	meta rules.Metadata
}

func (r *stubRule) Metadata() rules.Metadata    { return r.meta }
func (r *stubRule) Entrypoints() []string       { return []string{"comment"} }
func (r *stubRule) CheckNode(*rules.CheckInput, *syntax.Node) []rules.Diagnostic { return nil }

func testRegistry(t *testing.T) *rules.Registry {
	t.Helper()
	reg := rules.NewRegistry()
	for _, m := range []rules.Metadata{
		{Code: "E001", Name: "syntax-error", Summary: "e1", DefaultEnabled: true},
		{Code: "OB011", Name: "pause-statement", Summary: "ob", DefaultEnabled: true},
		{Code: "S010", Name: "some-style", Summary: "s", DefaultEnabled: true},
		{Code: "T001", Name: "implicit-typing", Summary: "t1", DefaultEnabled: true},
		{Code: "T002", Name: "interface-implicit-typing", Summary: "t2", DefaultEnabled: true},
		{Code: "T090", Name: "off-by-default", Summary: "t9", DefaultEnabled: false},
	} {
		reg.Register(&stubRule{meta: m})
	}
	return reg
}

func TestMatch(t *testing.T) {
	tests := []struct {
		sel, code string
		wantSpec  int
		wantOK    bool
	}{
		{"T001", "T001", 4, true},
		{"T", "T001", 1, true},
		{"typing", "T001", 1, true},
		{"T", "S010", 0, false},
		{"PORT", "PORT001", 4, true},
		{"P", "PORT001", 0, false},
		{"style", "S010", 1, true},
		{"T002", "T001", 0, false},
	}
	for _, tt := range tests {
		spec, ok := Match(tt.sel, tt.code)
		assert.Equal(t, tt.wantOK, ok, "%s vs %s", tt.sel, tt.code)
		if ok {
			assert.Equal(t, tt.wantSpec, spec, "%s vs %s", tt.sel, tt.code)
		}
	}
}

func TestResolveSelectReplacesDefaults(t *testing.T) {
	reg := testRegistry(t)
	table, err := Resolve(reg, Ops([]string{"E", "OB"}, nil, nil, nil), BaselineNone)
	require.NoError(t, err)

	assert.True(t, table.Enabled("E001"))
	assert.True(t, table.Enabled("OB011"))
	assert.False(t, table.Enabled("S010"))
	assert.False(t, table.Enabled("T001"))
}

func TestResolveSpecificityBeatsOrder(t *testing.T) {
	reg := testRegistry(t)
	table, err := Resolve(reg, Ops([]string{"T"}, nil, []string{"T001"}, nil), BaselineNone)
	require.NoError(t, err)

	assert.False(t, table.Enabled("T001"), "exact code beats category prefix")
	assert.True(t, table.Enabled("T002"))

	// The same ops in the opposite order resolve identically.
	table, err = Resolve(reg, []Op{{Ignore, "T001"}, {Select, "T"}}, BaselineNone)
	require.NoError(t, err)
	assert.False(t, table.Enabled("T001"))
	assert.True(t, table.Enabled("T002"))
}

func TestResolveLaterOpWinsAtEqualSpecificity(t *testing.T) {
	reg := testRegistry(t)
	table, err := Resolve(reg, []Op{{Ignore, "T001"}, {Select, "T001"}}, BaselineDefaults)
	require.NoError(t, err)
	assert.True(t, table.Enabled("T001"))

	table, err = Resolve(reg, []Op{{Select, "T001"}, {Ignore, "T001"}}, BaselineDefaults)
	require.NoError(t, err)
	assert.False(t, table.Enabled("T001"))
}

func TestResolveDefaultsBaseline(t *testing.T) {
	reg := testRegistry(t)
	table, err := Resolve(reg, nil, BaselineDefaults)
	require.NoError(t, err)

	assert.True(t, table.Enabled("T001"))
	assert.False(t, table.Enabled("T090"), "default-disabled rule stays off")

	table, err = Resolve(reg, Ops(nil, []string{"T090"}, nil, nil), BaselineDefaults)
	require.NoError(t, err)
	assert.True(t, table.Enabled("T090"))
}

func TestResolveUnknownSelector(t *testing.T) {
	reg := testRegistry(t)

	_, err := Resolve(reg, Ops([]string{"Z999"}, nil, nil, nil), BaselineDefaults)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Z999")

	// A real category with no registered rules is also an error.
	_, err = Resolve(reg, Ops([]string{"portability"}, nil, nil, nil), BaselineDefaults)
	require.Error(t, err)
}

func TestValid(t *testing.T) {
	reg := testRegistry(t)
	assert.True(t, Valid(reg, "T001"))
	assert.True(t, Valid(reg, "T"))
	assert.True(t, Valid(reg, "typing"))
	assert.False(t, Valid(reg, "t001"), "codes are case-sensitive")
	assert.False(t, Valid(reg, "nope"))
}
