// Package reporter provides output formatters for check results.
//
// The package supports multiple output formats:
//   - text: Human-readable terminal output with colors and syntax highlighting
//   - json: Machine-readable JSON output
//   - sarif: Static Analysis Results Interchange Format for CI/CD integration
//   - github: Native GitHub Actions workflow annotations
package reporter

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/fortlab/flint/internal/linter"
	"github.com/fortlab/flint/internal/rules"
	"github.com/fortlab/flint/internal/sourcemap"
)

// Finding is one diagnostic positioned for display. Positions are
// 1-based; a zero Start.Line marks a file-level finding with no location
// (an unreadable file, a bad extension).
type Finding struct {
	Path    string             `json:"path"`
	Code    string             `json:"code,omitempty"`
	Message string             `json:"message"`
	Start   sourcemap.Position `json:"start"`
	End     sourcemap.Position `json:"end"`
	Fix     *rules.Fix         `json:"fix,omitempty"`
}

// FileLevel reports whether the finding has no in-file location.
func (f Finding) FileLevel() bool {
	return f.Start.Line == 0
}

// Fixable reports whether the finding's fix would be applied under the
// given unsafe-fixes setting.
func (f Finding) Fixable(allowUnsafe bool) bool {
	d := rules.Diagnostic{Fix: f.Fix}
	return d.Fixable(allowUnsafe)
}

// FromResult converts one file's check result into positioned findings.
func FromResult(path string, res *linter.Result) []Finding {
	findings := make([]Finding, 0, len(res.Diagnostics))
	for _, d := range res.Diagnostics {
		f := Finding{
			Path:    path,
			Code:    d.Code,
			Message: d.Message,
			Fix:     d.Fix,
		}
		// A zero range on a rule-less or path-level diagnostic means the
		// finding has no anchor in the text.
		if res.Input != nil && res.Input.Map != nil && !(d.Range.Start == 0 && d.Range.End == 0) {
			f.Start = res.Input.Map.PositionFor(d.Range.Start)
			f.End = res.Input.Map.PositionFor(d.Range.End)
		}
		findings = append(findings, f)
	}
	return findings
}

// Summary contains aggregate statistics about a check run.
type Summary struct {
	// FilesScanned is the total number of files that were checked.
	FilesScanned int `json:"files_scanned"`
	// RulesEnabled is the number of rules that were active.
	RulesEnabled int `json:"rules_enabled"`
	// Fixed is the number of fixes applied during this run.
	Fixed int `json:"fixed"`
	// Fixable counts remaining findings whose fixes would apply under
	// the current unsafe-fixes setting.
	Fixable int `json:"fixable"`
	// HiddenUnsafe counts findings whose fixes would apply only with
	// unsafe fixes enabled.
	HiddenUnsafe int `json:"hidden_unsafe,omitempty"`
}

// Summarize computes fix statistics over the findings. fixed is the
// number of fixes already applied this run.
func Summarize(findings []Finding, filesScanned, rulesEnabled, fixed int, allowUnsafe bool) Summary {
	s := Summary{
		FilesScanned: filesScanned,
		RulesEnabled: rulesEnabled,
		Fixed:        fixed,
	}
	for _, f := range findings {
		if f.Fixable(allowUnsafe) {
			s.Fixable++
		} else if !allowUnsafe && f.Fixable(true) {
			s.HiddenUnsafe++
		}
	}
	return s
}

// Reporter formats and writes check findings.
type Reporter interface {
	// Report writes findings to the configured output. sources maps file
	// paths to their (possibly fixed) content for snippet rendering.
	Report(findings []Finding, sources map[string][]byte, summary Summary) error
}

// SortFindings sorts findings by file, line, column, and rule code for
// stable output across runs.
func SortFindings(findings []Finding) []Finding {
	sorted := make([]Finding, len(findings))
	copy(sorted, findings)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Path != sorted[j].Path {
			return sorted[i].Path < sorted[j].Path
		}
		if sorted[i].Start.Line != sorted[j].Start.Line {
			return sorted[i].Start.Line < sorted[j].Start.Line
		}
		if sorted[i].Start.Column != sorted[j].Start.Column {
			return sorted[i].Start.Column < sorted[j].Start.Column
		}
		return sorted[i].Code < sorted[j].Code
	})
	return sorted
}

// Format represents an output format type.
type Format string

const (
	// FormatText is human-readable terminal output.
	FormatText Format = "text"
	// FormatJSON is machine-readable JSON output.
	FormatJSON Format = "json"
	// FormatSARIF is Static Analysis Results Interchange Format.
	FormatSARIF Format = "sarif"
	// FormatGitHub is GitHub Actions workflow command output.
	FormatGitHub Format = "github"
)

// ParseFormat parses a format string into a Format type.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "text", "":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "sarif":
		return FormatSARIF, nil
	case "github", "github-actions":
		return FormatGitHub, nil
	default:
		return "", fmt.Errorf("unknown format: %q (valid: text, json, sarif, github)", s)
	}
}

// Options configures reporter creation.
type Options struct {
	// Format specifies the output format.
	Format Format

	// Writer is the output destination.
	Writer io.Writer

	// Color enables/disables colored output (text format only).
	// nil means auto-detect.
	Color *bool

	// ShowSource enables source code snippets (text format only).
	ShowSource bool

	// UnsafeHints enables the hidden-unsafe-fix hint in text summaries.
	UnsafeHints bool

	// ToolVersion is included in SARIF output.
	ToolVersion string
}

// New creates a reporter based on the format specified in options.
func New(opts Options) (Reporter, error) {
	if opts.Writer == nil {
		opts.Writer = os.Stdout
	}

	switch opts.Format {
	case FormatText, "":
		return NewTextReporter(opts.Writer, TextOptions{
			Color:           opts.Color,
			SyntaxHighlight: opts.Color == nil || *opts.Color,
			ShowSource:      opts.ShowSource,
			UnsafeHints:     opts.UnsafeHints,
		}), nil
	case FormatJSON:
		return NewJSONReporter(opts.Writer), nil
	case FormatSARIF:
		return NewSARIFReporter(opts.Writer, opts.ToolVersion), nil
	case FormatGitHub:
		return NewGitHubReporter(opts.Writer), nil
	default:
		return nil, fmt.Errorf("unknown format: %q", opts.Format)
	}
}

// GetWriter returns an io.Writer for the given output path.
// Supports "stdout", "stderr", or file paths.
func GetWriter(path string) (io.Writer, func() error, error) {
	switch path {
	case "stdout", "":
		return os.Stdout, func() error { return nil }, nil
	case "stderr":
		return os.Stderr, func() error { return nil }, nil
	default:
		f, err := os.Create(path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create output file: %w", err)
		}
		return f, f.Close, nil
	}
}
