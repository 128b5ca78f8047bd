package reporter

import (
	"encoding/json"
	"io"
	"path/filepath"
)

// JSONOutput is the top-level structure for JSON output.
type JSONOutput struct {
	// Files contains findings grouped by file.
	Files []FileFindings `json:"files"`
	// Summary contains aggregate statistics.
	Summary Summary `json:"summary"`
	// Total is the number of findings across all files.
	Total int `json:"total"`
}

// FileFindings contains the check findings for a single file.
type FileFindings struct {
	File     string    `json:"file"`
	Findings []Finding `json:"findings"`
}

// JSONReporter formats findings as JSON output.
type JSONReporter struct {
	writer io.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(w io.Writer) *JSONReporter {
	return &JSONReporter{writer: w}
}

// Report implements Reporter.
func (r *JSONReporter) Report(findings []Finding, _ map[string][]byte, summary Summary) error {
	// Group findings by file in deterministic order. Paths are
	// normalized to forward slashes for cross-platform consistency.
	byFile := make(map[string][]Finding)
	filesOrder := make([]string, 0)

	for _, f := range SortFindings(findings) {
		f.Path = filepath.ToSlash(f.Path)
		if _, exists := byFile[f.Path]; !exists {
			filesOrder = append(filesOrder, f.Path)
		}
		byFile[f.Path] = append(byFile[f.Path], f)
	}

	output := JSONOutput{
		Files:   make([]FileFindings, 0, len(filesOrder)),
		Summary: summary,
		Total:   len(findings),
	}
	for _, file := range filesOrder {
		output.Files = append(output.Files, FileFindings{
			File:     file,
			Findings: byFile[file],
		})
	}

	enc := json.NewEncoder(r.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(output)
}
