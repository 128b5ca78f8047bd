// Package discovery finds Fortran source files with glob pattern support.
package discovery

import (
	"cmp"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DiscoveredFile is a Fortran source file found during discovery.
type DiscoveredFile struct {
	// Path is the path to the source file. For explicit file inputs this
	// preserves the original path (relative or absolute); for files found
	// under directories or globs it is absolute.
	Path string

	// ConfigRoot is the directory to use for config file discovery,
	// typically the directory containing the source file.
	ConfigRoot string
}

// Options configures discovery behavior.
type Options struct {
	// Extensions are the file extensions treated as Fortran source
	// (default: DefaultExtensions()). Matching is case-sensitive; list
	// both "f90" and "F90" to cover preprocessed sources.
	Extensions []string

	// ExcludePatterns are glob patterns to exclude from results.
	ExcludePatterns []string
}

// DefaultExtensions returns the extensions searched by default. The
// uppercase variants are the conventional spelling for files that pass
// through the preprocessor.
func DefaultExtensions() []string {
	return []string{
		"f", "f77", "f90", "f95", "f03", "f08",
		"F", "F77", "F90", "F95", "F03", "F08",
	}
}

// Discover finds Fortran files matching the given inputs. Each input can
// be a specific file path, a directory (searched recursively), or a
// doublestar glob pattern. Explicit file inputs are returned regardless
// of extension; directory and glob results are filtered by extension.
// Results are deduplicated by absolute path and sorted.
func Discover(inputs []string, opts Options) ([]DiscoveredFile, error) {
	if len(opts.Extensions) == 0 {
		opts.Extensions = DefaultExtensions()
	}

	seen := make(map[string]bool)
	var results []DiscoveredFile

	for _, input := range inputs {
		discovered, err := discoverInput(input, opts, seen)
		if err != nil {
			return nil, err
		}
		results = append(results, discovered...)
	}

	slices.SortFunc(results, func(a, b DiscoveredFile) int {
		return cmp.Compare(a.Path, b.Path)
	})

	return results, nil
}

// discoverInput processes a single input (file, directory, or glob).
func discoverInput(input string, opts Options, seen map[string]bool) ([]DiscoveredFile, error) {
	// Glob characters mean the input cannot be a literal path; skip the
	// stat, which fails on Windows for paths containing '*'.
	if containsGlobChars(input) {
		return globMatches(input, opts, seen)
	}

	info, err := os.Stat(input)
	if err == nil {
		if info.IsDir() {
			return discoverDirectory(input, opts, seen)
		}
		return discoverFile(input, opts, seen)
	}
	if !os.IsNotExist(err) {
		return nil, err
	}

	return globMatches(input, opts, seen)
}

func containsGlobChars(path string) bool {
	return strings.ContainsAny(path, "*?[{")
}

// discoverFile processes an explicitly named file. The extension filter
// does not apply: a user who names a file wants it checked (the
// file-extension rule reports the odd suffix instead).
func discoverFile(path string, opts Options, seen map[string]bool) ([]DiscoveredFile, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	if isExcluded(absPath, opts.ExcludePatterns) || seen[absPath] {
		return nil, nil
	}
	seen[absPath] = true

	return []DiscoveredFile{{
		Path:       path, // preserve the user's spelling
		ConfigRoot: filepath.Dir(absPath),
	}}, nil
}

// discoverDirectory recursively searches a directory for Fortran files.
func discoverDirectory(dir string, opts Options, seen map[string]bool) ([]DiscoveredFile, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}

	pattern := filepath.Join(absDir, "**", "*.{"+strings.Join(opts.Extensions, ",")+"}")
	return globMatches(pattern, opts, seen)
}

// globMatches expands a glob pattern and returns matching files.
func globMatches(pattern string, opts Options, seen map[string]bool) ([]DiscoveredFile, error) {
	matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, err
	}

	var results []DiscoveredFile
	for _, match := range matches {
		absPath, err := filepath.Abs(match)
		if err != nil {
			return nil, err
		}

		if isExcluded(absPath, opts.ExcludePatterns) || seen[absPath] {
			continue
		}
		seen[absPath] = true

		results = append(results, DiscoveredFile{
			Path:       absPath,
			ConfigRoot: filepath.Dir(absPath),
		})
	}

	return results, nil
}

// isExcluded checks a path against the exclusion patterns three ways:
//
//  1. Against the full absolute path (for absolute patterns)
//  2. Against just the basename (for simple patterns like "*.bak")
//  3. Against each suffix subpath (so "build/*" matches files directly
//     under any build directory component, at any depth)
//
// doublestar.Match expects forward slashes even on Windows, so all paths
// are normalized before matching.
func isExcluded(absPath string, excludePatterns []string) bool {
	absPathSlash := filepath.ToSlash(absPath)
	base := filepath.Base(absPathSlash)

	for _, pattern := range excludePatterns {
		pattern = filepath.ToSlash(pattern)

		if matched, err := doublestar.Match(pattern, absPathSlash); err == nil && matched {
			return true
		}
		if matched, err := doublestar.Match(pattern, base); err == nil && matched {
			return true
		}

		parts := splitPath(absPath)
		for i := range parts {
			subpath := filepath.ToSlash(filepath.Join(parts[i:]...))
			if matched, err := doublestar.Match(pattern, subpath); err == nil && matched {
				return true
			}
		}
	}
	return false
}

// splitPath splits a path into its directory and filename components:
// "/home/user/lib/solver.f90" becomes ["home", "user", "lib", "solver.f90"].
// On Windows the volume name is stripped.
func splitPath(path string) []string {
	var parts []string
	for path != "" {
		dir, file := filepath.Split(path)
		if file != "" {
			parts = append([]string{file}, parts...)
		}
		path = filepath.Clean(dir)

		if path == "/" || path == "." {
			break
		}
		vol := filepath.VolumeName(path)
		if vol != "" && (path == vol || path == vol+string(filepath.Separator)) {
			break
		}
	}
	return parts
}
