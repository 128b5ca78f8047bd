// Package config provides configuration loading and discovery for flint.
//
// Configuration is loaded from multiple sources with the following priority
// (highest to lowest):
//  1. CLI flags
//  2. Environment variables (FLINT_* prefix)
//  3. Config file (closest .flint.toml or flint.toml)
//  4. Built-in defaults
//
// Config file discovery follows a cascading pattern similar to Ruff:
// starting from the target's directory, walk up the filesystem until a
// config file is found. The closest config wins (no merging).
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/fortlab/flint/internal/rules"
	"github.com/fortlab/flint/internal/selector"
)

// ConfigFileNames defines the config file names to search for, in priority order.
var ConfigFileNames = []string{".flint.toml", "flint.toml"}

// EnvPrefix is the prefix for environment variables.
const EnvPrefix = "FLINT_"

// Unsafe-fix handling modes.
const (
	UnsafeFixesDisabled = "disabled"
	UnsafeFixesHint     = "hint"
	UnsafeFixesEnabled  = "enabled"
)

// Config represents the complete flint configuration.
type Config struct {
	// Check configures rule selection and per-rule settings.
	Check CheckConfig `json:"check" koanf:"check"`

	// Output configures output format and destination.
	Output OutputConfig `json:"output" koanf:"output"`

	// ConfigFile is the path to the config file that was loaded (if any).
	// This is metadata, not loaded from config.
	ConfigFile string `json:"-" koanf:"-"`
}

// CheckConfig configures which rules run and how.
//
// Example TOML configuration:
//
//	[check]
//	select = ["S", "T001"]
//	extend-ignore = ["S102"]
//	line-length = 132
//	unsafe-fixes = "enabled"
type CheckConfig struct {
	// Select replaces the default rule set with the listed selectors.
	Select []string `json:"select,omitempty" koanf:"select"`

	// ExtendSelect enables rules on top of the baseline.
	ExtendSelect []string `json:"extend-select,omitempty" koanf:"extend-select"`

	// Ignore disables the listed selectors.
	Ignore []string `json:"ignore,omitempty" koanf:"ignore"`

	// ExtendIgnore is an alias-style supplement to Ignore, kept separate
	// so a CLI flag can extend a config file's ignore list.
	ExtendIgnore []string `json:"extend-ignore,omitempty" koanf:"extend-ignore"`

	// LineLength is the maximum line width in characters.
	LineLength int `json:"line-length,omitempty" koanf:"line-length"`

	// FileExtensions lists the extensions treated as free-form Fortran.
	FileExtensions []string `json:"file-extensions,omitempty" koanf:"file-extensions"`

	// UnsafeFixes controls unsafe fixes: disabled, hint, or enabled.
	UnsafeFixes string `json:"unsafe-fixes,omitempty" koanf:"unsafe-fixes"`

	// AllowComments controls whether `! allow(...)` suppressions apply.
	AllowComments bool `json:"allow-comments,omitempty" koanf:"allow-comments"`

	// PerFileIgnores maps glob patterns to extra ignored selectors for
	// matching paths.
	PerFileIgnores map[string][]string `json:"per-file-ignores,omitempty" koanf:"per-file-ignores"`
}

// OutputConfig configures output formatting and behavior.
type OutputConfig struct {
	// Format specifies the output format.
	Format string `json:"format,omitempty" koanf:"format"`

	// Path specifies where to write output.
	Path string `json:"path,omitempty" koanf:"path"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Check: CheckConfig{
			LineLength:     100,
			FileExtensions: []string{"f90", "F90"},
			UnsafeFixes:    UnsafeFixesHint,
			AllowComments:  true,
		},
		Output: OutputConfig{
			Format: "text",
			Path:   "stdout",
		},
	}
}

// Load loads configuration for a target path. It discovers the closest
// config file, loads it, and applies environment variable overrides.
func Load(targetPath string) (*Config, error) {
	return loadWithConfigPath(Discover(targetPath), nil)
}

// LoadFromFile loads configuration from a specific config file path.
// Unlike Load, it does not perform config discovery.
func LoadFromFile(configPath string) (*Config, error) {
	return loadWithConfigPath(configPath, nil)
}

// LoadWithOverrides loads configuration for a target path and applies an
// overrides map on top, after the file and environment sources. The map
// uses the same nested shape as the TOML file, for example:
//
//	overrides := map[string]any{
//	  "check": map[string]any{"line-length": 132},
//	}
//
// This is how CLI flags reach the config without a separate merge path.
func LoadWithOverrides(targetPath, configPath string, overrides map[string]any) (*Config, error) {
	if configPath == "" {
		configPath = Discover(targetPath)
	}
	return loadWithConfigPath(configPath, overrides)
}

func loadWithConfigPath(configPath string, overrides map[string]any) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, err
	}

	// 2. Config file if present
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), toml.Parser()); err != nil {
			return nil, err
		}
	}

	// 3. Environment variables (FLINT_* prefix)
	// FLINT_CHECK_LINE_LENGTH -> check.line-length
	if err := k.Load(env.Provider(".", env.Opt{
		Prefix:        EnvPrefix,
		TransformFunc: envKeyTransform,
	}), nil); err != nil {
		return nil, err
	}

	// 4. CLI overrides win over everything.
	if len(overrides) > 0 {
		if err := k.Load(confmap.Provider(overrides, ""), nil); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, err
	}
	cfg.ConfigFile = configPath
	return &cfg, nil
}

// knownHyphenatedKeys maps dot-separated patterns to their hyphenated
// equivalents. Add new entries here when adding hyphenated config keys.
var knownHyphenatedKeys = map[string]string{
	"extend.select":    "extend-select",
	"extend.ignore":    "extend-ignore",
	"line.length":      "line-length",
	"file.extensions":  "file-extensions",
	"unsafe.fixes":     "unsafe-fixes",
	"allow.comments":   "allow-comments",
	"per.file.ignores": "per-file-ignores",
}

var allowedEnvTopLevelKeys = map[string]struct{}{
	"check":  {},
	"output": {},
}

// envKeyTransform converts environment variable names to config keys.
// FLINT_OUTPUT_FORMAT -> output.format
// FLINT_CHECK_EXTEND_SELECT -> check.extend-select
func envKeyTransform(k, v string) (string, any) {
	s := strings.TrimPrefix(k, EnvPrefix)
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "_", ".")
	for pattern, replacement := range knownHyphenatedKeys {
		s = strings.ReplaceAll(s, pattern, replacement)
	}

	topLevel := s
	if before, _, ok := strings.Cut(s, "."); ok {
		topLevel = before
	}
	if _, ok := allowedEnvTopLevelKeys[topLevel]; !ok {
		return "", nil
	}

	return s, v
}

// Discover finds the closest config file for a target path. It walks up
// the directory tree from the target's directory, checking for config
// files at each level. Returns empty string if no config file is found.
func Discover(targetPath string) string {
	absPath, err := filepath.Abs(targetPath)
	if err != nil {
		return ""
	}

	dir := absPath
	if info, err := os.Stat(absPath); err != nil || !info.IsDir() {
		dir = filepath.Dir(absPath)
	}

	for {
		for _, name := range ConfigFileNames {
			configPath := filepath.Join(dir, name)
			if fileExists(configPath) {
				return configPath
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

// fileExists checks if a file exists and is not a directory.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// Settings converts the check configuration into rule settings.
func (c *CheckConfig) Settings() rules.Settings {
	s := rules.DefaultSettings()
	if c.LineLength > 0 {
		s.LineLength = c.LineLength
	}
	if len(c.FileExtensions) > 0 {
		s.FileExtensions = c.FileExtensions
	}
	return s
}

// Baseline reports the selection baseline: an explicit select list
// replaces the default rule set entirely.
func (c *CheckConfig) Baseline() selector.Baseline {
	if len(c.Select) > 0 {
		return selector.BaselineNone
	}
	return selector.BaselineDefaults
}

// Ops builds the ordered selector operations from the four lists.
func (c *CheckConfig) Ops() []selector.Op {
	return selector.Ops(c.Select, c.ExtendSelect, c.Ignore, c.ExtendIgnore)
}

// AllowUnsafe reports whether unsafe fixes may be applied.
func (c *CheckConfig) AllowUnsafe() bool {
	return c.UnsafeFixes == UnsafeFixesEnabled
}

// HintUnsafe reports whether reporters should surface hidden unsafe
// fixes as hints.
func (c *CheckConfig) HintUnsafe() bool {
	return c.UnsafeFixes == UnsafeFixesHint
}
