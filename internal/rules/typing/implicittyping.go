// Package typing implements the typing (T) rules: implicit typing and
// non-standard kind specifiers.
package typing

import (
	"fmt"
	"strings"

	"github.com/fortlab/flint/internal/rules"
	"github.com/fortlab/flint/internal/syntax"
)

// hasImplicitNone reports whether the block contains an `implicit none`
// statement (as opposed to `implicit real(a-h)` and friends).
func hasImplicitNone(block *syntax.Node, source []byte) bool {
	for _, stmt := range block.ChildrenOfKind("implicit_statement") {
		text := strings.ToLower(stmt.Text(source))
		rest := strings.TrimSpace(strings.TrimPrefix(text, "implicit"))
		if strings.HasPrefix(rest, "none") {
			return true
		}
	}
	return false
}

// insertImplicitNone builds a fix inserting `implicit none` after the last
// use statement, or after the block's opening statement when there is none.
// The insertion copies the anchor statement's indentation.
func insertImplicitNone(block *syntax.Node, input *rules.CheckInput) (rules.Fix, bool) {
	anchor := block.Child(0)
	if anchor == nil {
		return rules.Fix{}, false
	}
	if uses := block.ChildrenOfKind("use_statement"); len(uses) > 0 {
		anchor = uses[len(uses)-1]
	}

	line := input.Map.LineIndexFor(anchor.StartByte())
	lineStart := input.Map.LineOffset(line)
	lineEnd := lineStart + len(input.Map.Line(line))

	indent := anchor.StartByte() - lineStart
	insert := fmt.Sprintf("\n%*simplicit none", indent, "")

	// Statements track logical extent across continuations; anchor the
	// insertion at the physical end of the statement's first line.
	if end := anchor.EndByte(); end > lineEnd {
		lineEnd = lineStart + len(input.Map.Line(input.Map.LineIndexFor(end)))
	}
	return rules.UnsafeFix(rules.Insertion(lineEnd, insert)), true
}

// ImplicitTyping implements T001: program units without `implicit none`.
type ImplicitTyping struct{}

// Metadata returns the rule metadata.
func (r *ImplicitTyping) Metadata() rules.Metadata {
	return rules.Metadata{
		Code:    "T001",
		Name:    "implicit-typing",
		Summary: "program unit is missing 'implicit none'",
		Explanation: "Early Fortran determined the type of a variable implicitly from " +
			"the first character of its name, and for backwards compatibility this is " +
			"still the default. The downside is that typos silently introduce undefined " +
			"variables.\n\n" +
			"'implicit none' should be used in all modules and programs. Because it " +
			"applies to all children of an entity, it is not required in every " +
			"procedure, just the parent module or program if there is one.",
		Fix:            rules.FixSometimes,
		DefaultEnabled: true,
	}
}

// Entrypoints returns the node kinds this rule visits.
func (r *ImplicitTyping) Entrypoints() []string {
	return []string{"module", "program", "subroutine", "function"}
}

// CheckNode checks a program unit for `implicit none`.
func (r *ImplicitTyping) CheckNode(input *rules.CheckInput, node *syntax.Node) []rules.Diagnostic {
	// Procedures inside a parent entity inherit its implicit none.
	kind := node.Kind()
	if kind == "subroutine" || kind == "function" {
		if parent := node.Parent(); parent != nil && parent.Kind() != "translation_unit" {
			return nil
		}
	}
	if hasImplicitNone(node, input.Source) {
		return nil
	}
	opener := node.Child(0)
	if opener == nil {
		return nil
	}

	diag := rules.FromNode("T001", opener, fmt.Sprintf("%s missing 'implicit none'", kind))
	if fix, ok := insertImplicitNone(node, input); ok {
		diag = diag.WithFix(fix)
	}
	return []rules.Diagnostic{diag}
}

// InterfaceImplicitTyping implements T002: interface procedures without
// `implicit none`. Interface bodies do not inherit it from an enclosing
// module.
type InterfaceImplicitTyping struct{}

// Metadata returns the rule metadata.
func (r *InterfaceImplicitTyping) Metadata() rules.Metadata {
	return rules.Metadata{
		Code:    "T002",
		Name:    "interface-implicit-typing",
		Summary: "interface procedure is missing 'implicit none'",
		Explanation: "Interface functions and subroutines require 'implicit none' even " +
			"when they are inside a module that uses it; an interface body is a " +
			"separate scoping unit.",
		Fix:            rules.FixSometimes,
		DefaultEnabled: true,
	}
}

// Entrypoints returns the node kinds this rule visits.
func (r *InterfaceImplicitTyping) Entrypoints() []string {
	return []string{"subroutine", "function"}
}

// CheckNode checks a procedure declared inside an interface block.
func (r *InterfaceImplicitTyping) CheckNode(input *rules.CheckInput, node *syntax.Node) []rules.Diagnostic {
	parent := node.Parent()
	if parent == nil || parent.Kind() != "interface" {
		return nil
	}
	if hasImplicitNone(node, input.Source) {
		return nil
	}
	opener := node.Child(0)
	if opener == nil {
		return nil
	}

	diag := rules.FromNode("T002", opener,
		fmt.Sprintf("interface %s missing 'implicit none'", node.Kind()))
	if fix, ok := insertImplicitNone(node, input); ok {
		diag = diag.WithFix(fix)
	}
	return []rules.Diagnostic{diag}
}

func init() {
	rules.Register(&ImplicitTyping{})
	rules.Register(&InterfaceImplicitTyping{})
}
