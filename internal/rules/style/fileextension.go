package style

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fortlab/flint/internal/rules"
	"github.com/fortlab/flint/internal/syntax"
)

// NonStandardFileExtension implements S091: files whose extension is not
// one of the accepted free-form extensions.
type NonStandardFileExtension struct{}

// Metadata returns the rule metadata.
func (r *NonStandardFileExtension) Metadata() rules.Metadata {
	return rules.Metadata{
		Code:    "S091",
		Name:    "non-standard-file-extension",
		Summary: "file extension is not a standard free-form extension",
		Explanation: "The standard file extensions for modern (free-form) Fortran are " +
			"'.f90' and '.F90'. Forms referencing later standards such as '.f08' or " +
			"'.F95' may be rejected by some compilers and build tools.\n\n" +
			"The accepted extensions are set with `check.file-extensions`.",
		Fix:            rules.FixNone,
		DefaultEnabled: true,
	}
}

// CheckPath checks the file's extension against the accepted set.
func (r *NonStandardFileExtension) CheckPath(input *rules.CheckInput) []rules.Diagnostic {
	ext := strings.TrimPrefix(filepath.Ext(input.Path), ".")
	for _, accepted := range input.Settings.FileExtensions {
		if ext == accepted {
			return nil
		}
	}

	quoted := make([]string, len(input.Settings.FileExtensions))
	for i, e := range input.Settings.FileExtensions {
		quoted[i] = "'." + e + "'"
	}
	return []rules.Diagnostic{rules.NewDiagnostic("S091", syntax.Range{},
		fmt.Sprintf("file extension should be %s", strings.Join(quoted, " or ")))}
}

func init() {
	rules.Register(&NonStandardFileExtension{})
}
