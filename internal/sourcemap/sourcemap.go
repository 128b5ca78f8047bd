// Package sourcemap provides utilities for working with source code locations,
// snippet extraction, and line-based operations.
//
// Diagnostics in flint carry byte ranges against the exact source text they
// were computed from; this package bridges those offsets to the 1-based
// line/column positions that emitters need.
package sourcemap

import (
	"bytes"
	"sort"
	"strings"
)

// SourceMap provides efficient access to source code by line.
// It precomputes line boundaries for fast offset-to-position conversion.
//
// Line numbers are 0-based internally; the Position type exposes 1-based
// lines and columns for human-facing output.
type SourceMap struct {
	// source is the raw source content.
	source []byte

	// lines are the individual lines (without line endings).
	lines []string

	// lineOffsets[i] is the byte offset where line i starts in source.
	lineOffsets []int
}

// New creates a SourceMap from source content.
// Lines are split on \n (handles both \n and \r\n).
func New(source []byte) *SourceMap {
	rawLines := bytes.Split(source, []byte{'\n'})
	lines := make([]string, len(rawLines))
	lineOffsets := make([]int, len(rawLines))

	offset := 0
	for i, line := range rawLines {
		lineOffsets[i] = offset
		// Trim \r from line endings (for Windows CRLF)
		lines[i] = strings.TrimSuffix(string(line), "\r")
		// Next line starts after this line + newline character
		offset += len(line) + 1
	}

	return &SourceMap{
		source:      source,
		lines:       lines,
		lineOffsets: lineOffsets,
	}
}

// Position is a 1-based line and column pair. Columns count bytes.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// PositionFor converts a byte offset to a 1-based line/column position.
// Offsets past the end of the source map to the position just after the
// last byte.
func (sm *SourceMap) PositionFor(offset int) Position {
	if offset < 0 {
		offset = 0
	}
	if offset > len(sm.source) {
		offset = len(sm.source)
	}
	// First line whose start is strictly after the offset, minus one.
	line := sort.Search(len(sm.lineOffsets), func(i int) bool {
		return sm.lineOffsets[i] > offset
	}) - 1
	if line < 0 {
		line = 0
	}
	return Position{Line: line + 1, Column: offset - sm.lineOffsets[line] + 1}
}

// LineIndexFor returns the 0-based line index containing the byte offset.
func (sm *SourceMap) LineIndexFor(offset int) int {
	return sm.PositionFor(offset).Line - 1
}

// Lines returns all lines (without line endings).
// The returned slice should not be modified.
func (sm *SourceMap) Lines() []string {
	return sm.lines
}

// LineCount returns the total number of lines.
func (sm *SourceMap) LineCount() int {
	return len(sm.lines)
}

// Line returns the text of a specific line (0-based).
// Returns empty string if line is out of range.
func (sm *SourceMap) Line(line int) string {
	if line < 0 || line >= len(sm.lines) {
		return ""
	}
	return sm.lines[line]
}

// LineOffset returns the byte offset where a line starts (0-based).
// Returns -1 if line is out of range.
func (sm *SourceMap) LineOffset(line int) int {
	if line < 0 || line >= len(sm.lineOffsets) {
		return -1
	}
	return sm.lineOffsets[line]
}

// Snippet extracts a range of lines as a single string.
// Both startLine and endLine are 0-based and inclusive.
// Returns empty string if range is invalid.
func (sm *SourceMap) Snippet(startLine, endLine int) string {
	if startLine < 0 {
		startLine = 0
	}
	if endLine >= len(sm.lines) {
		endLine = len(sm.lines) - 1
	}
	if startLine > endLine || startLine >= len(sm.lines) {
		return ""
	}
	return strings.Join(sm.lines[startLine:endLine+1], "\n")
}

// SnippetAround extracts context lines around a target line.
// Returns (contextBefore + target + contextAfter) lines as a single string.
// The before/after counts are clamped to available lines.
func (sm *SourceMap) SnippetAround(line, before, after int) string {
	return sm.Snippet(line-before, line+after)
}

// Source returns the raw source content.
// The returned slice should not be modified.
func (sm *SourceMap) Source() []byte {
	return sm.source
}
