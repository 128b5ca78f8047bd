// Package modules implements the modules (M) rules.
package modules

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/fortlab/flint/internal/rules"
	"github.com/fortlab/flint/internal/syntax"
)

// UseAll implements M001: `use` statements without an `only` clause.
type UseAll struct{}

// Metadata returns the rule metadata.
func (r *UseAll) Metadata() rules.Metadata {
	return rules.Metadata{
		Code:    "M001",
		Name:    "use-all",
		Summary: "'use' statement is missing an 'only' clause",
		Explanation: "When using a module, add an 'only' clause to specify which " +
			"components you intend to use:\n\n" +
			"    ! Not recommended\n" +
			"    use, intrinsic :: iso_fortran_env\n\n" +
			"    ! Better\n" +
			"    use, intrinsic :: iso_fortran_env, only: int32, real64\n\n" +
			"This makes it easier to see where symbols come from, and avoids pulling " +
			"unneeded components into the local scope.",
		Fix:            rules.FixNone,
		DefaultEnabled: true,
	}
}

var onlyClauseRe = regexp.MustCompile(`,\s*only\s*:`)

// Entrypoints returns the node kinds this rule visits.
func (r *UseAll) Entrypoints() []string {
	return []string{"use_statement"}
}

// CheckNode checks a use statement for an only clause.
func (r *UseAll) CheckNode(input *rules.CheckInput, node *syntax.Node) []rules.Diagnostic {
	text := strings.ToLower(node.Text(input.Source))
	if onlyClauseRe.MatchString(text) {
		return nil
	}
	return []rules.Diagnostic{
		rules.FromNode("M001", node, "'use' statement missing 'only' clause"),
	}
}

// MissingAccessibility implements M011: modules without a default
// accessibility statement.
type MissingAccessibility struct{}

// Metadata returns the rule metadata.
func (r *MissingAccessibility) Metadata() rules.Metadata {
	return rules.Metadata{
		Code:    "M011",
		Name:    "missing-accessibility",
		Summary: "module is missing a default accessibility statement",
		Explanation: "A bare 'private' statement makes all module entities private by " +
			"default, requiring an explicit 'public' attribute to expose them. This " +
			"improves encapsulation and makes unused entities detectable. A bare " +
			"'public' statement does not change the default, but states the intent " +
			"explicitly. Modules should carry one or the other.",
		Fix:            rules.FixNone,
		DefaultEnabled: true,
	}
}

// Entrypoints returns the node kinds this rule visits.
func (r *MissingAccessibility) Entrypoints() []string {
	return []string{"module"}
}

// CheckNode checks a module for a bare private or public statement.
func (r *MissingAccessibility) CheckNode(input *rules.CheckInput, node *syntax.Node) []rules.Diagnostic {
	for _, stmt := range node.ChildrenOfKind("access_statement") {
		text := strings.ToLower(strings.TrimSpace(stmt.Text(input.Source)))
		// Only a bare statement sets the module default; `private :: x`
		// applies to x alone.
		if text == "private" || text == "public" {
			return nil
		}
	}

	opener := node.FirstChildOfKind("module_statement")
	if opener == nil {
		return nil
	}
	fields := strings.Fields(opener.Text(input.Source))
	if len(fields) < 2 {
		return nil
	}
	name := fields[1]

	return []rules.Diagnostic{
		rules.FromNode("M011", opener,
			fmt.Sprintf("module '%s' missing default accessibility statement", name)),
	}
}

func init() {
	rules.Register(&UseAll{})
	rules.Register(&MissingAccessibility{})
}
