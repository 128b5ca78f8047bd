package typing

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/fortlab/flint/internal/rules"
	"github.com/fortlab/flint/internal/syntax"
)

// starKindRe matches declarations like `real*8` or `integer * 4` at the
// start of a declaration statement.
var starKindRe = regexp.MustCompile(`^(integer|real|complex|logical)\s*(\*\s*(\d+))`)

// StarKind implements T011: non-standard `real*8` style kind specifiers.
type StarKind struct{}

// Metadata returns the rule metadata.
func (r *StarKind) Metadata() rules.Metadata {
	return rules.Metadata{
		Code:    "T011",
		Name:    "star-kind",
		Summary: "type uses a non-standard star kind specifier",
		Explanation: "Types such as 'real*8' or 'integer*4' are not standard Fortran " +
			"and their meaning differs between compilers. Prefer the standard kind " +
			"syntax 'real(8)', or better, named kind parameters from " +
			"'iso_fortran_env'.\n\n" +
			"The fix rewrites 'real*8' to 'real(8)'; because a compiler may map the " +
			"star form to a different kind, the rewrite is only applied in unsafe " +
			"fix mode.",
		Fix:            rules.FixSometimes,
		DefaultEnabled: true,
	}
}

// Entrypoints returns the node kinds this rule visits.
func (r *StarKind) Entrypoints() []string {
	return []string{"variable_declaration"}
}

// CheckNode checks a declaration for star kind syntax.
func (r *StarKind) CheckNode(input *rules.CheckInput, node *syntax.Node) []rules.Diagnostic {
	text := strings.ToLower(node.Text(input.Source))
	m := starKindRe.FindStringSubmatchIndex(text)
	if m == nil {
		return nil
	}

	dtype := text[m[2]:m[3]]
	size := strings.ReplaceAll(strings.ReplaceAll(text[m[4]:m[5]], " ", ""), "\t", "")
	kind := text[m[6]:m[7]]

	// Replace from the type keyword through the kind digits.
	rng := syntax.Range{
		Start: node.StartByte() + m[2],
		End:   node.StartByte() + m[5],
	}
	replacement := fmt.Sprintf("%s(%s)", dtype, kind)
	kindRange := syntax.Range{Start: node.StartByte() + m[4], End: node.StartByte() + m[5]}

	return []rules.Diagnostic{
		rules.NewDiagnostic("T011", kindRange,
			fmt.Sprintf("'%s%s' uses non-standard syntax", dtype, size)).
			WithFix(rules.UnsafeFix(rules.Replacement(rng, replacement))),
	}
}

func init() {
	rules.Register(&StarKind{})
}
