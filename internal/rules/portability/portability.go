// Package portability implements the portability (PORT) rules.
package portability

import (
	"bytes"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/fortlab/flint/internal/rules"
	"github.com/fortlab/flint/internal/syntax"
)

// InvalidTab implements PORT001: tab characters used as whitespace in code.
type InvalidTab struct{}

// Metadata returns the rule metadata.
func (r *InvalidTab) Metadata() rules.Metadata {
	return rules.Metadata{
		Code:    "PORT001",
		Name:    "invalid-tab",
		Summary: "tab character used as whitespace",
		Explanation: "Tabs are not part of the Fortran character set, and compilers " +
			"may reject the source in strict conformance modes (for example " +
			"gfortran -std=f2023 -Werror). Tabs inside string literals and comments " +
			"are fine; only tabs in code are reported.",
		Fix:            rules.FixAlways,
		DefaultEnabled: true,
	}
}

// CheckText reports tabs in the masked source. Masking blanks string and
// comment interiors, so tabs there never match.
func (r *InvalidTab) CheckText(input *rules.CheckInput) []rules.Diagnostic {
	var diags []rules.Diagnostic
	for at := 0; ; {
		i := bytes.IndexByte(input.Masked[at:], '\t')
		if i < 0 {
			break
		}
		at += i
		rng := syntax.Range{Start: at, End: at + 1}
		diags = append(diags, rules.NewDiagnostic("PORT001", rng, "invalid tab character").
			WithFix(rules.SafeFix(rules.Replacement(rng, "    "))))
		at++
	}
	return diags
}

// ioUnitRe extracts a literal integer unit from the head of a read or
// write statement.
var ioUnitRe = regexp.MustCompile(`^(read|write)\s*\(\s*(\d+)\s*[,)]`)

// Pre-connected unit numbers, including the Cray convention.
var (
	stdinUnits  = []int{5, 100}
	stdoutUnits = []int{6, 101}
	stderrUnits = []int{0, 102}
)

// NonPortableIoUnit implements PORT011: literal units that rely on
// compiler-specific pre-connections for stdin, stdout, or stderr.
type NonPortableIoUnit struct{}

// Metadata returns the rule metadata.
func (r *NonPortableIoUnit) Metadata() rules.Metadata {
	return rules.Metadata{
		Code:    "PORT011",
		Name:    "non-portable-io-unit",
		Summary: "non-portable literal unit in read/write statement",
		Explanation: "The Fortran standard does not specify numeric units for stdin, " +
			"stdout, or stderr. Many compilers pre-connect units 5, 6, and 0 " +
			"respectively (100, 101, and 102 on Cray), but some use other numbers. " +
			"Use the named constants 'input_unit', 'output_unit', and 'error_unit' " +
			"from the 'iso_fortran_env' module instead.\n\n" +
			"The suggested rewrite needs a matching 'use' statement that the rule " +
			"cannot insert, so the fix is display-only.",
		Fix:            rules.FixSometimes,
		DefaultEnabled: true,
	}
}

// Entrypoints returns the node kinds this rule visits.
func (r *NonPortableIoUnit) Entrypoints() []string {
	return []string{"read_statement", "write_statement"}
}

// CheckNode checks the unit of a read or write statement.
func (r *NonPortableIoUnit) CheckNode(input *rules.CheckInput, node *syntax.Node) []rules.Diagnostic {
	text := strings.ToLower(node.Text(input.Source))
	m := ioUnitRe.FindStringSubmatchIndex(text)
	if m == nil {
		return nil
	}
	kind := text[m[2]:m[3]]
	value, err := strconv.Atoi(text[m[4]:m[5]])
	if err != nil {
		return nil
	}

	var replacement string
	switch {
	case kind == "read" && slices.Contains(stdinUnits, value):
		replacement = "input_unit"
	case kind == "write" && slices.Contains(stdoutUnits, value):
		replacement = "output_unit"
	case kind == "write" && slices.Contains(stderrUnits, value):
		replacement = "error_unit"
	default:
		return nil
	}

	rng := syntax.Range{Start: node.StartByte() + m[4], End: node.StartByte() + m[5]}
	return []rules.Diagnostic{
		rules.NewDiagnostic("PORT011", rng,
			fmt.Sprintf("non-portable unit '%d' in '%s' statement", value, kind)).
			WithFix(rules.DisplayOnlyFix(rules.Replacement(rng, replacement))),
	}
}

func init() {
	rules.Register(&InvalidTab{})
	rules.Register(&NonPortableIoUnit{})
}
