package reporter

import (
	"io"
	"path/filepath"
	"sort"

	"github.com/owenrumney/go-sarif/v3/pkg/report/v210/sarif"

	"github.com/fortlab/flint/internal/rules"
)

// Default SARIF tool information.
const (
	toolName = "flint"
	toolURI  = "https://github.com/fortlab/flint"
)

// SARIFReporter formats findings as SARIF (Static Analysis Results
// Interchange Format), the standard interchange format for static
// analysis tools, supported by GitHub Code Scanning and Azure DevOps.
//
// See: https://docs.oasis-open.org/sarif/sarif/v2.1.0/
type SARIFReporter struct {
	writer      io.Writer
	toolVersion string
}

// NewSARIFReporter creates a new SARIF reporter.
func NewSARIFReporter(w io.Writer, toolVersion string) *SARIFReporter {
	return &SARIFReporter{writer: w, toolVersion: toolVersion}
}

// Report implements Reporter.
func (r *SARIFReporter) Report(findings []Finding, _ map[string][]byte, _ Summary) error {
	// SARIF v2.1.0 for maximum compatibility.
	report := sarif.NewReport()

	run := sarif.NewRunWithInformationURI(toolName, toolURI)
	if r.toolVersion != "" {
		run.Tool.Driver.WithVersion(r.toolVersion)
	}

	// Collect unique rule codes and files.
	ruleSet := make(map[string]struct{})
	fileSet := make(map[string]struct{})
	for _, f := range findings {
		if f.Code != "" {
			ruleSet[f.Code] = struct{}{}
		}
		fileSet[filepath.ToSlash(f.Path)] = struct{}{}
	}

	ruleCodes := make([]string, 0, len(ruleSet))
	for code := range ruleSet {
		ruleCodes = append(ruleCodes, code)
	}
	sort.Strings(ruleCodes)

	for _, code := range ruleCodes {
		descriptor := run.AddRule(code)
		if rule, ok := rules.Lookup(code); ok {
			if summary := rule.Metadata().Summary; summary != "" {
				descriptor.WithShortDescription(
					sarif.NewMultiformatMessageString().WithText(summary))
			}
		}
	}

	files := make([]string, 0, len(fileSet))
	for file := range fileSet {
		files = append(files, file)
	}
	sort.Strings(files)
	for _, file := range files {
		run.AddDistinctArtifact(file)
	}

	for _, f := range SortFindings(findings) {
		filePath := filepath.ToSlash(f.Path)

		code := f.Code
		if code == "" {
			// Tool-level findings (unreadable file) have no rule.
			code = toolName
		}
		result := sarif.NewRuleResult(code).
			WithMessage(sarif.NewTextMessage(f.Message)).
			WithLevel("warning")

		physicalLocation := sarif.NewPhysicalLocation().
			WithArtifactLocation(sarif.NewSimpleArtifactLocation(filePath))

		if !f.FileLevel() {
			region := sarif.NewRegion().
				WithStartLine(f.Start.Line).
				WithStartColumn(f.Start.Column)
			if f.End.Line > 0 {
				region.WithEndLine(f.End.Line).WithEndColumn(f.End.Column)
			}
			physicalLocation.WithRegion(region)
		}

		result.WithLocations([]*sarif.Location{
			sarif.NewLocationWithPhysicalLocation(physicalLocation),
		})
		run.AddResult(result)
	}

	report.AddRun(run)
	return report.PrettyWrite(r.writer)
}
