// Package allow implements inline suppression comments of the form
//
//	! allow(token[, token...])
//
// A trailing allow comment suppresses matching diagnostics on its own
// line; an allow comment on a line of its own suppresses them over the
// next sibling construct. Tokens are rule codes, category prefixes, or
// category names. Suppression is a post-filter: rules never see it.
package allow

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/fortlab/flint/internal/rules"
	"github.com/fortlab/flint/internal/selector"
	"github.com/fortlab/flint/internal/sourcemap"
	"github.com/fortlab/flint/internal/syntax"
)

// Scope says how far an annotation reaches.
type Scope int

const (
	// Line scope covers the annotation's own line.
	Line Scope = iota
	// Block scope covers the next sibling construct after the comment.
	Block
)

var (
	allowRe = regexp.MustCompile(`^!\s*allow\((.*)\)\s*$`)
	tokenRe = regexp.MustCompile(`[A-Za-z][A-Za-z0-9_-]*`)
)

// Token is one identifier inside an allow comment.
type Token struct {
	// Text is the token as written.
	Text string

	// Range is the token's location in the source.
	Range syntax.Range

	// Valid reports whether the token resolved against the registry.
	Valid bool

	used bool
}

// Annotation is one parsed allow comment.
type Annotation struct {
	Tokens []Token
	Scope  Scope

	// Covers is the byte span the annotation suppresses within.
	Covers syntax.Range

	// Comment is the comment node the annotation came from.
	Comment *syntax.Node
}

// Set holds all annotations of one file.
type Set struct {
	annotations []*Annotation
}

// Gather walks the tree for allow comments and resolves their tokens
// against the registry. Token validation here is soft: invalid tokens are
// recorded and later reported by Findings, they never abort the check.
func Gather(root *syntax.Node, input *rules.CheckInput, reg *rules.Registry) *Set {
	set := &Set{}
	syntax.Walk(root, func(node *syntax.Node) {
		if node.Kind() != "comment" {
			return
		}
		if ann := parse(node, input, reg); ann != nil {
			set.annotations = append(set.annotations, ann)
		}
	})
	return set
}

func parse(node *syntax.Node, input *rules.CheckInput, reg *rules.Registry) *Annotation {
	text := node.Text(input.Source)
	m := allowRe.FindStringSubmatchIndex(text)
	if m == nil {
		return nil
	}

	ann := &Annotation{Comment: node}
	argStart := node.StartByte() + m[2]
	for _, t := range tokenRe.FindAllStringIndex(text[m[2]:m[3]], -1) {
		tok := text[m[2]+t[0] : m[2]+t[1]]
		ann.Tokens = append(ann.Tokens, Token{
			Text:  tok,
			Range: syntax.Range{Start: argStart + t[0], End: argStart + t[1]},
			Valid: tokenValid(reg, tok),
		})
	}

	sm := input.Map
	line := sm.LineIndexFor(node.StartByte())
	lineStart := sm.LineOffset(line)
	before := strings.TrimRight(string(input.Source[lineStart:node.StartByte()]), " \t")

	if before != "" {
		ann.Scope = Line
		ann.Covers = lineSpan(sm, line, line)
		return ann
	}

	ann.Scope = Block
	if next := nextConstruct(node); next != nil {
		start := sm.LineIndexFor(next.StartByte())
		end := start
		if next.EndByte() > next.StartByte() {
			end = sm.LineIndexFor(next.EndByte() - 1)
		}
		ann.Covers = lineSpan(sm, start, end)
	} else if parent := node.Parent(); parent != nil {
		// Nothing follows in this block: cover the parent's remainder.
		ann.Covers = syntax.Range{Start: node.EndByte(), End: parent.EndByte()}
	} else {
		ann.Covers = lineSpan(sm, line, line)
	}
	return ann
}

// nextConstruct returns the comment's next non-comment sibling.
func nextConstruct(node *syntax.Node) *syntax.Node {
	for sib := node.NextSibling(); sib != nil; sib = sib.NextSibling() {
		if sib.Kind() != "comment" {
			return sib
		}
	}
	return nil
}

// lineSpan returns the byte span from the start of startLine to the end of
// endLine, excluding the final newline.
func lineSpan(sm *sourcemap.SourceMap, startLine, endLine int) syntax.Range {
	return syntax.Range{
		Start: sm.LineOffset(startLine),
		End:   sm.LineOffset(endLine) + len(sm.Line(endLine)),
	}
}

func tokenValid(reg *rules.Registry, tok string) bool {
	if _, ok := reg.Lookup(tok); ok {
		return true
	}
	if _, ok := rules.CategoryByPrefix(tok); ok {
		return true
	}
	_, ok := rules.CategoryByName(tok)
	return ok
}

// IsSuppressed reports whether a diagnostic is covered by an annotation
// whose token matches its rule code exactly or by ancestor category.
// Rule-less diagnostics are never suppressed.
func (s *Set) IsSuppressed(d rules.Diagnostic) bool {
	return s.suppressor(d) != nil
}

func (s *Set) suppressor(d rules.Diagnostic) *Token {
	if d.Code == "" {
		return nil
	}
	for _, ann := range s.annotations {
		if d.Range.Start < ann.Covers.Start || d.Range.Start >= ann.Covers.End {
			continue
		}
		for i := range ann.Tokens {
			tok := &ann.Tokens[i]
			if !tok.Valid {
				continue
			}
			if _, ok := selector.Match(tok.Text, d.Code); ok {
				return tok
			}
		}
	}
	return nil
}

// Filter removes suppressed diagnostics, marking the tokens that did the
// suppressing so Findings can report the unused ones.
func (s *Set) Filter(diags []rules.Diagnostic) []rules.Diagnostic {
	kept := diags[:0]
	for _, d := range diags {
		if tok := s.suppressor(d); tok != nil {
			tok.used = true
			continue
		}
		kept = append(kept, d)
	}
	return kept
}

// Findings reports problems with the annotations themselves: invalid
// tokens (E011) and tokens that suppressed nothing (E012). Each finding
// carries a safe fix removing the token from its comment. Call after
// Filter so usage is known.
func (s *Set) Findings(reg *rules.Registry, table *selector.Table) []rules.Diagnostic {
	var diags []rules.Diagnostic
	for _, ann := range s.annotations {
		for i := range ann.Tokens {
			tok := &ann.Tokens[i]
			switch {
			case !tok.Valid:
				if table.Enabled("E011") {
					diags = append(diags, rules.NewDiagnostic("E011", tok.Range,
						fmt.Sprintf("'%s' is not a valid rule code, category, or name", tok.Text)).
						WithFix(rules.SafeFix(removeToken(ann, i))))
				}
			case !tok.used && tokenEnabled(reg, table, tok.Text):
				if table.Enabled("E012") {
					diags = append(diags, rules.NewDiagnostic("E012", tok.Range,
						fmt.Sprintf("allow comment for '%s' suppresses nothing", tok.Text)).
						WithFix(rules.SafeFix(removeToken(ann, i))))
				}
			}
		}
	}
	return diags
}

// tokenEnabled reports whether the token refers to at least one enabled
// rule, so stale annotations for disabled rules are left alone.
func tokenEnabled(reg *rules.Registry, table *selector.Table, tok string) bool {
	if rule, ok := reg.Lookup(tok); ok {
		return table.Enabled(rule.Metadata().Code)
	}
	for _, rule := range reg.InCategory(tok) {
		if table.Enabled(rule.Metadata().Code) {
			return true
		}
	}
	return false
}

// removeToken builds the edit dropping one token from an allow comment,
// deleting the whole comment when it is the last one.
func removeToken(ann *Annotation, drop int) rules.Edit {
	var remaining []string
	for i, tok := range ann.Tokens {
		if i != drop {
			remaining = append(remaining, tok.Text)
		}
	}
	if len(remaining) == 0 {
		return rules.Deletion(ann.Comment.Range())
	}
	return rules.Replacement(ann.Comment.Range(),
		fmt.Sprintf("! allow(%s)", strings.Join(remaining, ", ")))
}

// Annotations exposes the parsed annotations, primarily for tests.
func (s *Set) Annotations() []*Annotation {
	return s.annotations
}
