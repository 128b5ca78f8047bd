package config

import (
	"fmt"
	"path/filepath"
	"slices"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/fortlab/flint/internal/rules"
	"github.com/fortlab/flint/internal/selector"
)

// Formats lists the supported output formats. "github-actions" is an
// accepted spelling of "github".
var Formats = []string{"text", "json", "sarif", "github", "github-actions"}

// Validate checks the merged configuration against the rule registry.
// Selector validation is fail-fast: an unknown selector anywhere in the
// config aborts the run before any file is read.
func (c *Config) Validate(reg *rules.Registry) error {
	if _, err := selector.Resolve(reg, c.Check.Ops(), c.Check.Baseline()); err != nil {
		return err
	}

	for pattern, sels := range c.Check.PerFileIgnores {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid per-file-ignores pattern %q", pattern)
		}
		for _, sel := range sels {
			if !selector.Valid(reg, sel) {
				return fmt.Errorf(
					"per-file-ignores[%q]: unknown rule selector %q", pattern, sel)
			}
		}
	}

	switch c.Check.UnsafeFixes {
	case UnsafeFixesDisabled, UnsafeFixesHint, UnsafeFixesEnabled:
	default:
		return fmt.Errorf(
			"unsafe-fixes must be one of disabled, hint, enabled; got %q",
			c.Check.UnsafeFixes)
	}

	if !slices.Contains(Formats, c.Output.Format) {
		return fmt.Errorf("unknown output format %q", c.Output.Format)
	}

	return nil
}

// OpsFor returns the selector operations for one file: the global lists
// plus any per-file-ignores whose pattern matches the path. Per-file
// ignores append after the global lists, so they win ties on equal
// specificity.
func (c *CheckConfig) OpsFor(path string) []selector.Op {
	ops := c.Ops()
	if len(c.PerFileIgnores) == 0 {
		return ops
	}

	norm := filepath.ToSlash(path)
	patterns := make([]string, 0, len(c.PerFileIgnores))
	for pattern := range c.PerFileIgnores {
		patterns = append(patterns, pattern)
	}
	slices.Sort(patterns) // deterministic op order across runs

	for _, pattern := range patterns {
		matched, err := doublestar.Match(pattern, norm)
		if err != nil || !matched {
			// Also try matching against the basename so bare patterns
			// like "*.f90" behave as users expect.
			if base, berr := doublestar.Match(pattern, filepath.Base(norm)); berr != nil || !base {
				continue
			}
		}
		for _, sel := range c.PerFileIgnores[pattern] {
			ops = append(ops, selector.Op{Polarity: selector.Ignore, Selector: sel})
		}
	}
	return ops
}
