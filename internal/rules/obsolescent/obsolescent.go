// Package obsolescent implements the obsolescent (OB) rules: features
// deleted or deprecated by later Fortran standards.
package obsolescent

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/fortlab/flint/internal/rules"
	"github.com/fortlab/flint/internal/syntax"
)

// PauseStatement implements OB011: `pause` statements.
type PauseStatement struct{}

// Metadata returns the rule metadata.
func (r *PauseStatement) Metadata() rules.Metadata {
	return rules.Metadata{
		Code:    "OB011",
		Name:    "pause-statement",
		Summary: "'pause' statements are a deleted feature",
		Explanation: "'pause' statements were never properly standardised, doing " +
			"different things on different compilers, and were removed entirely in " +
			"Fortran 95. They can usually be replaced with a simple call to " +
			"read(*, *).\n\n" +
			"The replacement changes runtime behaviour on compilers that still " +
			"accept 'pause', so the fix is only applied in unsafe fix mode.",
		Fix:            rules.FixAlways,
		DefaultEnabled: true,
	}
}

// Entrypoints returns the node kinds this rule visits.
func (r *PauseStatement) Entrypoints() []string {
	return []string{"pause_statement"}
}

// CheckNode reports a pause statement with a replacement fix.
func (r *PauseStatement) CheckNode(input *rules.CheckInput, node *syntax.Node) []rules.Diagnostic {
	return []rules.Diagnostic{
		rules.FromNode("OB011", node, "'pause' statements are a deleted feature").
			WithFix(rules.UnsafeFix(rules.Replacement(node.Range(), "read(*, *)"))),
	}
}

// relationalOperators maps the deprecated dotted forms to their Fortran 90
// symbols.
var relationalOperators = map[string]string{
	".gt.": ">",
	".ge.": ">=",
	".lt.": "<",
	".le.": "<=",
	".eq.": "==",
	".ne.": "/=",
}

var deprecatedRelationalRe = regexp.MustCompile(`(?i)\.(gt|ge|lt|le|eq|ne)\.`)

// DeprecatedRelationalOperator implements OB051: dotted relational
// operators like `.gt.`.
type DeprecatedRelationalOperator struct{}

// Metadata returns the rule metadata.
func (r *DeprecatedRelationalOperator) Metadata() rules.Metadata {
	return rules.Metadata{
		Code:    "OB051",
		Name:    "deprecated-relational-operator",
		Summary: "deprecated relational operator",
		Explanation: "Fortran 90 introduced the traditional symbols for relational " +
			"operators: '>', '>=', '<', and so on. Prefer these over the deprecated " +
			"forms '.gt.', '.le.', and so on.",
		Fix:            rules.FixAlways,
		DefaultEnabled: true,
	}
}

// CheckText reports dotted relational operators over the masked source, so
// occurrences inside strings and comments are never matched.
func (r *DeprecatedRelationalOperator) CheckText(input *rules.CheckInput) []rules.Diagnostic {
	var diags []rules.Diagnostic
	for _, m := range deprecatedRelationalRe.FindAllIndex(input.Masked, -1) {
		symbol := strings.ToLower(string(input.Masked[m[0]:m[1]]))
		newSymbol := relationalOperators[symbol]
		rng := syntax.Range{Start: m[0], End: m[1]}
		diags = append(diags, rules.NewDiagnostic("OB051", rng,
			fmt.Sprintf("deprecated relational operator '%s', prefer '%s' instead", symbol, newSymbol)).
			WithFix(rules.SafeFix(rules.Replacement(rng, newSymbol))))
	}
	return diags
}

func init() {
	rules.Register(&PauseStatement{})
	rules.Register(&DeprecatedRelationalOperator{})
}
