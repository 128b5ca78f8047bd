package reporter

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/muesli/termenv"
)

// Styles for different parts of the output.
var (
	// Color detection using termenv (respects NO_COLOR, CLICOLOR_FORCE,
	// terminal detection).
	useColors = termenv.EnvColorProfile() != termenv.Ascii

	ruleCodeStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196")) // Red

	messageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")) // White

	fileLocStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("252")) // Light gray

	lineNumStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // Dark gray

	separatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("238")) // Darker gray

	markerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196")) // Red

	fixHintStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")) // Blue
)

// TextOptions configures the text reporter output.
type TextOptions struct {
	// Color enables/disables colored output. Default: auto-detect.
	Color *bool

	// SyntaxHighlight enables Fortran syntax highlighting in snippets.
	SyntaxHighlight bool

	// ShowSource shows source code snippets. Default: true.
	ShowSource bool

	// UnsafeHints mentions hidden unsafe fixes in the summary.
	UnsafeHints bool

	// ChromaStyle is the Chroma style name for syntax highlighting.
	// Default: "monokai" for dark terminals, "github" for light.
	ChromaStyle string
}

// TextReporter formats findings as styled text output.
type TextReporter struct {
	writer    io.Writer
	opts      TextOptions
	lexer     chroma.Lexer
	formatter chroma.Formatter
	style     *chroma.Style
}

// NewTextReporter creates a new text reporter with the given options.
func NewTextReporter(w io.Writer, opts TextOptions) *TextReporter {
	r := &TextReporter{writer: w, opts: opts}

	if r.colorEnabled() && opts.SyntaxHighlight {
		r.lexer = lexers.Get("fortran")
		if r.lexer == nil {
			r.lexer = lexers.Fallback
		}
		r.lexer = chroma.Coalesce(r.lexer)

		styleName := opts.ChromaStyle
		if styleName == "" {
			if termenv.HasDarkBackground() {
				styleName = "monokai"
			} else {
				styleName = "github"
			}
		}
		r.style = styles.Get(styleName)
		if r.style == nil {
			r.style = styles.Fallback
		}

		r.formatter = formatters.Get("terminal256")
		if r.formatter == nil {
			r.formatter = formatters.Fallback
		}
	}

	return r
}

func (r *TextReporter) colorEnabled() bool {
	if r.opts.Color != nil {
		return *r.opts.Color
	}
	return useColors
}

// Report implements Reporter.
func (r *TextReporter) Report(findings []Finding, sources map[string][]byte, summary Summary) error {
	for _, f := range SortFindings(findings) {
		if err := r.printFinding(f, sources[f.Path]); err != nil {
			return err
		}
	}
	return r.printSummary(len(findings), summary)
}

// printFinding writes one finding: a header line, then the source
// snippet when one is available.
func (r *TextReporter) printFinding(f Finding, source []byte) error {
	color := r.colorEnabled()

	loc := f.Path
	if !f.FileLevel() {
		loc = fmt.Sprintf("%s:%d:%d", f.Path, f.Start.Line, f.Start.Column)
	}

	var header string
	if color {
		header = "\n" + fileLocStyle.Render(loc+":")
		if f.Code != "" {
			header += " " + ruleCodeStyle.Render(f.Code)
		}
		header += " " + messageStyle.Render(f.Message)
		if f.Fixable(true) {
			header += " " + fixHintStyle.Render("[*]")
		}
	} else {
		header = "\n" + loc + ":"
		if f.Code != "" {
			header += " " + f.Code
		}
		header += " " + f.Message
		if f.Fixable(true) {
			header += " [*]"
		}
	}
	fmt.Fprintln(r.writer, header)

	if r.opts.ShowSource && !f.FileLevel() && len(source) > 0 {
		r.printSource(f, source, color)
	}
	return nil
}

// printSource renders the snippet around the finding with line numbers
// and markers on the affected lines.
func (r *TextReporter) printSource(f Finding, source []byte, color bool) {
	lines := strings.Split(string(source), "\n")

	start := f.Start.Line
	end := f.End.Line
	if end < start {
		end = start
	}
	// A range ending at column 1 of the next line covers nothing there.
	if end > start && f.End.Column == 1 {
		end--
	}
	if start > len(lines) || start < 1 {
		return
	}
	if end > len(lines) {
		end = len(lines)
	}
	affectedStart, affectedEnd := start, end

	// One or two lines of context either side.
	context := 2
	if start > 1 {
		start -= min(context, start-1)
	}
	if end < len(lines) {
		end += min(context, len(lines)-end)
	}

	if color {
		fmt.Fprintln(r.writer, separatorStyle.Render("────────────────────"))
	} else {
		fmt.Fprintln(r.writer, "--------------------")
	}

	for i := start; i <= end; i++ {
		content := strings.TrimSuffix(lines[i-1], "\r")

		var lineNum string
		if color {
			lineNum = lineNumStyle.Render(fmt.Sprintf(" %3d │", i))
		} else {
			lineNum = fmt.Sprintf(" %3d |", i)
		}

		marker := "   "
		if i >= affectedStart && i <= affectedEnd {
			if color {
				marker = markerStyle.Render(">>>")
			} else {
				marker = ">>>"
			}
		}

		if color && r.lexer != nil && r.style != nil && r.formatter != nil {
			content = r.highlightLine(content)
		}

		fmt.Fprintf(r.writer, "%s %s %s\n", lineNum, marker, content)
	}

	if color {
		fmt.Fprintln(r.writer, separatorStyle.Render("────────────────────"))
	} else {
		fmt.Fprintln(r.writer, "--------------------")
	}
}

// printSummary writes the closing counts and fix hints.
func (r *TextReporter) printSummary(total int, summary Summary) error {
	if summary.Fixed > 0 {
		fmt.Fprintf(r.writer, "\nFixed %d error%s.\n", summary.Fixed, plural(summary.Fixed))
	}

	if total == 0 {
		if summary.Fixed == 0 {
			fmt.Fprintf(r.writer, "All checks passed! (%d file%s scanned)\n",
				summary.FilesScanned, plural(summary.FilesScanned))
		}
		return nil
	}

	fmt.Fprintf(r.writer, "\nFound %d error%s in %d file%s.\n",
		total, plural(total), summary.FilesScanned, plural(summary.FilesScanned))

	if summary.Fixable > 0 {
		hint := fmt.Sprintf("[*] %d fixable with the `--fix` option.", summary.Fixable)
		if r.colorEnabled() {
			hint = fixHintStyle.Render(hint)
		}
		fmt.Fprintln(r.writer, hint)
	}
	if r.opts.UnsafeHints && summary.HiddenUnsafe > 0 {
		fmt.Fprintf(r.writer, "%d hidden fix%s can be enabled with the `--unsafe-fixes` option.\n",
			summary.HiddenUnsafe, pluralEs(summary.HiddenUnsafe))
	}
	return nil
}

// highlightLine applies syntax highlighting to a single line.
func (r *TextReporter) highlightLine(line string) string {
	iterator, err := r.lexer.Tokenise(nil, line)
	if err != nil {
		return line
	}

	var buf bytes.Buffer
	if err := r.formatter.Format(&buf, r.style, iterator); err != nil {
		return line
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

func pluralEs(n int) string {
	if n == 1 {
		return ""
	}
	return "es"
}
