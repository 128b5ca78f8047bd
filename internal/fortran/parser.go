// Package fortran is the source front end for the linter: it parses
// free-form Fortran into the statement-level syntax trees the rule engine
// consumes, and masks string/comment contents for text-based rules.
//
// The parser is deliberately shallow. Rules dispatch on statement and block
// kinds, so the tree records program units, block nesting, statement
// classification, comments, and parse errors — not expression structure.
// Kind names follow the tree-sitter-fortran grammar so rule entrypoints
// read the same as in other tooling built on that grammar.
package fortran

import (
	"regexp"
	"strings"

	"github.com/fortlab/flint/internal/syntax"
)

// Block-opening statement patterns. Statements are matched against the
// lowercased, label-stripped text of the whole (continuation-joined)
// statement.
var (
	programRe    = regexp.MustCompile(`^program\b`)
	moduleRe     = regexp.MustCompile(`^module\s+[a-z][a-z0-9_]*\s*$`)
	subroutineRe = regexp.MustCompile(`^((pure|impure|elemental|recursive)\s+)*subroutine\b`)
	functionRe   = regexp.MustCompile(`^((pure|impure|elemental|recursive)\s+)*([a-z][a-z0-9_ ]*(\([^)]*\))?\s+)?function\s+[a-z][a-z0-9_]*`)
	interfaceRe  = regexp.MustCompile(`^(abstract\s+)?interface\b`)
	endRe        = regexp.MustCompile(`^end\s*([a-z]*)`)

	declRe       = regexp.MustCompile(`^(integer|real|complex|character|logical|doubleprecision|double\s+precision|type\s*\(|class\s*\()`)
	assignmentRe = regexp.MustCompile(`^[a-z][a-z0-9_]*\s*(\([^)]*\))?\s*(%[a-z0-9_%()]+\s*)?=[^=]`)
	labelRe      = regexp.MustCompile(`^\d+\s+`)
)

// blockKinds maps an opening keyword to the block node kind it introduces.
var blockKinds = map[string]string{
	"program":    "program",
	"module":     "module",
	"subroutine": "subroutine",
	"function":   "function",
	"interface":  "interface",
}

// statement is one continuation-joined logical statement.
type statement struct {
	text  string // raw statement text with continuations joined by spaces
	start int    // byte offset of the first code byte
	end   int    // byte offset just past the last code byte
}

// Parse builds a syntax tree for free-form Fortran source.
//
// Parse never fails: malformed regions become ERROR nodes in the tree and
// are surfaced as diagnostics by the engine's syntax-error rule.
func Parse(source []byte) *syntax.Tree {
	p := &parser{source: source}
	root := syntax.NewNode("translation_unit", 0, len(source))
	p.stack = []*syntax.Node{root}
	p.run()
	return syntax.NewTree(root)
}

type parser struct {
	source []byte
	stack  []*syntax.Node

	// pending accumulates continuation lines of one logical statement.
	pending *statement
}

// top returns the innermost open block.
func (p *parser) top() *syntax.Node {
	return p.stack[len(p.stack)-1]
}

func (p *parser) run() {
	offset := 0
	src := p.source
	for offset <= len(src) {
		lineEnd := offset
		for lineEnd < len(src) && src[lineEnd] != '\n' {
			lineEnd++
		}
		p.line(offset, lineEnd)
		if lineEnd >= len(src) {
			break
		}
		offset = lineEnd + 1
	}
	p.flushPending()

	// Unterminated blocks are parse errors anchored at end of file.
	for len(p.stack) > 1 {
		block := p.top()
		block.Append(syntax.NewErrorNode(len(src), len(src)))
		block.SetEnd(len(src))
		p.stack = p.stack[:len(p.stack)-1]
	}
}

// line splits one physical line into code and trailing comment, emits the
// comment node, and feeds the code part into the statement accumulator.
func (p *parser) line(start, end int) {
	text := string(p.source[start:end])
	text = strings.TrimSuffix(text, "\r")

	codeEnd, commentAt, unterminated := scanLine(text)

	code := text[:codeEnd]
	trimmed := strings.TrimSpace(code)

	if unterminated {
		p.flushPending()
		p.appendToTop(syntax.NewErrorNode(start+leadingSpace(code), start+len(code)))
		// fall through to the comment, if any
	} else if trimmed != "" {
		codeStart := start + leadingSpace(code)
		codeStop := start + trimmedEnd(code)

		if p.pending != nil {
			p.continueStatement(trimmed, codeStart, codeStop)
		} else {
			p.pending = &statement{text: trimmed, start: codeStart, end: codeStop}
		}
		if strings.HasSuffix(p.pending.text, "&") {
			// Continuation: keep accumulating.
			p.pending.text = strings.TrimSpace(strings.TrimSuffix(p.pending.text, "&"))
		} else {
			p.flushPending()
		}
	}

	if commentAt >= 0 {
		comment := syntax.NewNode("comment", start+commentAt, start+len(text))
		p.appendToTop(comment)
	}
}

// continueStatement merges a continuation line into the pending statement.
func (p *parser) continueStatement(trimmed string, _, codeStop int) {
	trimmed = strings.TrimPrefix(trimmed, "&")
	trimmed = strings.TrimSpace(trimmed)
	if trimmed != "" {
		p.pending.text += " " + trimmed
	}
	p.pending.end = codeStop
}

func (p *parser) appendToTop(n *syntax.Node) {
	p.top().Append(n)
	p.top().SetEnd(n.EndByte())
}

// flushPending classifies and emits the accumulated statement.
func (p *parser) flushPending() {
	if p.pending == nil {
		return
	}
	stmt := *p.pending
	p.pending = nil

	lower := strings.ToLower(stmt.text)
	lower = labelRe.ReplaceAllString(lower, "")
	lower = strings.TrimSpace(lower)
	if lower == "" {
		p.appendToTop(syntax.NewNode("keyword_statement", stmt.start, stmt.end))
		return
	}

	if m := endRe.FindStringSubmatch(lower); m != nil && !strings.HasPrefix(lower, "entry") {
		p.closeBlock(stmt, m[1])
		return
	}

	if kind, opener := p.blockOpener(lower); kind != "" {
		block := syntax.NewNode(kind, stmt.start, stmt.end)
		p.appendToTop(block)
		block.Append(syntax.NewNode(opener, stmt.start, stmt.end))
		p.stack = append(p.stack, block)
		return
	}

	if kind, ok := classify(lower); ok {
		p.appendToTop(syntax.NewNode(kind, stmt.start, stmt.end))
	} else {
		p.appendToTop(syntax.NewErrorNode(stmt.start, stmt.end))
	}
}

// blockOpener reports the block kind and opener-statement kind the
// statement introduces, or "" when it opens nothing.
func (p *parser) blockOpener(lower string) (string, string) {
	switch {
	case programRe.MatchString(lower):
		return "program", "program_statement"
	case interfaceRe.MatchString(lower):
		return "interface", "interface_statement"
	case moduleRe.MatchString(lower):
		return "module", "module_statement"
	case subroutineRe.MatchString(lower):
		return "subroutine", "subroutine_statement"
	case functionRe.MatchString(lower):
		return "function", "function_statement"
	}
	return "", ""
}

// closeBlock handles an `end [kind [name]]` statement.
func (p *parser) closeBlock(stmt statement, endKind string) {
	// `end if`, `end do`, and friends close constructs the parser keeps
	// flat; they are ordinary statements here.
	if _, isUnit := blockKinds[endKind]; endKind != "" && !isUnit {
		p.appendToTop(syntax.NewNode("keyword_statement", stmt.start, stmt.end))
		return
	}

	if len(p.stack) == 1 {
		// Stray end with nothing open.
		p.appendToTop(syntax.NewErrorNode(stmt.start, stmt.end))
		return
	}

	block := p.top()
	kind := block.Kind()
	if endKind != "" && endKind != kind {
		// `end subroutine` closing a function, etc. Close the block anyway
		// but record the mismatch as a parse error inside it.
		block.Append(syntax.NewErrorNode(stmt.start, stmt.end))
	} else {
		block.Append(syntax.NewNode("end_"+kind+"_statement", stmt.start, stmt.end))
	}
	block.SetEnd(stmt.end)
	p.stack = p.stack[:len(p.stack)-1]
	p.top().SetEnd(stmt.end)
}

// classify maps a statement's lowercased text to its node kind.
// The second return is false when the text cannot start a statement at
// all, which the caller records as a parse error.
func classify(lower string) (string, bool) {
	switch {
	case strings.HasPrefix(lower, "use ") || strings.HasPrefix(lower, "use,"):
		return "use_statement", true
	case strings.HasPrefix(lower, "implicit"):
		return "implicit_statement", true
	case strings.HasPrefix(lower, "call "):
		return "subroutine_call", true
	case lower == "contains":
		return "contains_statement", true
	case lower == "private" || lower == "public" ||
		strings.HasPrefix(lower, "private ") || strings.HasPrefix(lower, "public ") ||
		strings.HasPrefix(lower, "private::") || strings.HasPrefix(lower, "public::") ||
		strings.HasPrefix(lower, "private ::") || strings.HasPrefix(lower, "public ::"):
		return "access_statement", true
	case strings.HasPrefix(lower, "pause"):
		return "pause_statement", true
	case strings.HasPrefix(lower, "entry "):
		return "entry_statement", true
	case strings.HasPrefix(lower, "print"):
		return "print_statement", true
	case strings.HasPrefix(lower, "read ") || strings.HasPrefix(lower, "read("):
		return "read_statement", true
	case strings.HasPrefix(lower, "write ") || strings.HasPrefix(lower, "write("):
		return "write_statement", true
	case strings.HasPrefix(lower, "if ") || strings.HasPrefix(lower, "if("):
		return "if_statement", true
	case strings.HasPrefix(lower, "else"):
		return "else_clause", true
	case strings.HasPrefix(lower, "do ") || lower == "do" || strings.HasPrefix(lower, "do,"):
		return "do_loop_statement", true
	case lower == "return" || strings.HasPrefix(lower, "return "):
		return "return_statement", true
	case lower == "stop" || strings.HasPrefix(lower, "stop "):
		return "stop_statement", true
	case strings.HasPrefix(lower, "parameter"):
		return "parameter_statement", true
	case strings.HasPrefix(lower, "format"):
		return "format_statement", true
	case strings.HasPrefix(lower, "save"):
		return "save_statement", true
	case declRe.MatchString(lower):
		return "variable_declaration", true
	case assignmentRe.MatchString(lower):
		return "assignment_statement", true
	case startsStatement(lower):
		return "keyword_statement", true
	default:
		return "", false
	}
}

// startsStatement reports whether the text begins like any Fortran
// statement (an identifier or digit label). Anything else cannot start a
// statement and is a parse error.
func startsStatement(lower string) bool {
	c := lower[0]
	return (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '&'
}

// scanLine finds where code ends on a line: the index where a trailing
// comment starts (or -1), the end of the code portion, and whether the
// line contains an unterminated string literal.
func scanLine(text string) (codeEnd, commentAt int, unterminated bool) {
	var quote byte
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case quote != 0:
			if c == quote {
				// Doubled quote is an escaped quote.
				if i+1 < len(text) && text[i+1] == quote {
					i++
					continue
				}
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == '!':
			return i, i, false
		}
	}
	return len(text), -1, quote != 0
}

// leadingSpace returns the number of leading whitespace bytes.
func leadingSpace(s string) int {
	return len(s) - len(strings.TrimLeft(s, " \t"))
}

// trimmedEnd returns the length of s with trailing whitespace removed.
func trimmedEnd(s string) int {
	return len(strings.TrimRight(s, " \t"))
}
