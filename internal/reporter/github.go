package reporter

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// GitHubReporter formats findings as GitHub Actions workflow commands,
// which appear as annotations in the GitHub Actions UI.
//
// Format: ::{level} file={file},line={line},col={col}::{message}
//
// See: https://docs.github.com/actions/using-workflows/workflow-commands-for-github-actions#setting-an-error-message
type GitHubReporter struct {
	writer io.Writer
}

// NewGitHubReporter creates a new GitHub Actions reporter.
func NewGitHubReporter(w io.Writer) *GitHubReporter {
	return &GitHubReporter{writer: w}
}

// Report implements Reporter.
func (r *GitHubReporter) Report(findings []Finding, _ map[string][]byte, _ Summary) error {
	for _, f := range SortFindings(findings) {
		filePath := filepath.ToSlash(f.Path)

		parts := []string{"file=" + escapeProperty(filePath)}
		if !f.FileLevel() {
			parts = append(parts, fmt.Sprintf("line=%d", f.Start.Line))
			parts = append(parts, fmt.Sprintf("col=%d", f.Start.Column))
			if f.End.Line > f.Start.Line {
				parts = append(parts, fmt.Sprintf("endLine=%d", f.End.Line))
			}
		}
		if f.Code != "" {
			parts = append(parts, "title="+escapeProperty(f.Code))
		}

		if _, err := fmt.Fprintf(r.writer, "::warning %s::%s\n",
			strings.Join(parts, ","),
			escapeMessage(f.Message),
		); err != nil {
			return err
		}
	}
	return nil
}

// escapeMessage escapes workflow command message data: "%", "\r", "\n"
// but not ":" or ",".
// See: https://github.com/actions/toolkit/blob/main/packages/core/src/command.ts
func escapeMessage(s string) string {
	s = strings.ReplaceAll(s, "%", "%25")
	s = strings.ReplaceAll(s, "\r", "%0D")
	s = strings.ReplaceAll(s, "\n", "%0A")
	return s
}

// escapeProperty escapes workflow command properties, which additionally
// escape ":" and ",".
func escapeProperty(s string) string {
	s = escapeMessage(s)
	s = strings.ReplaceAll(s, ":", "%3A")
	s = strings.ReplaceAll(s, ",", "%2C")
	return s
}
