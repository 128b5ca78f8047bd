package cmd

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"
	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/fortlab/flint/internal/config"
	"github.com/fortlab/flint/internal/discovery"
	"github.com/fortlab/flint/internal/fix"
	"github.com/fortlab/flint/internal/linter"
	"github.com/fortlab/flint/internal/reporter"
	"github.com/fortlab/flint/internal/rules"
	_ "github.com/fortlab/flint/internal/rules/all"
	"github.com/fortlab/flint/internal/selector"
	"github.com/fortlab/flint/internal/version"
)

// Exit codes.
const (
	// ExitSuccess indicates no findings.
	ExitSuccess = 0
	// ExitViolations indicates findings were reported (or fixes pending
	// in --diff mode).
	ExitViolations = 1
	// ExitConfigError indicates invalid configuration or usage.
	ExitConfigError = 2
)

// fileOutcome holds the per-file results of the check pipeline. Each
// goroutine writes only its own slot, so no locking is needed.
type fileOutcome struct {
	findings []reporter.Finding
	source   []byte
	fixed    int
	enabled  int
	diff     string
}

func checkCommand() *cli.Command {
	return &cli.Command{
		Name:      "check",
		Usage:     "Check Fortran source files for rule violations",
		ArgsUsage: "[files or directories...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file (overrides discovery)",
				Sources: cli.EnvVars("FLINT_CONFIG"),
			},
			&cli.BoolFlag{
				Name:  "fix",
				Usage: "Apply fixes to resolve violations where possible",
			},
			&cli.BoolFlag{
				Name:  "unsafe-fixes",
				Usage: "Also apply fixes marked unsafe",
			},
			&cli.BoolFlag{
				Name:  "diff",
				Usage: "Show what --fix would change without modifying files",
			},
			&cli.StringSliceFlag{
				Name:  "select",
				Usage: "Rule selectors to check, replacing the default set",
			},
			&cli.StringSliceFlag{
				Name:  "extend-select",
				Usage: "Rule selectors to check on top of the default set",
			},
			&cli.StringSliceFlag{
				Name:  "ignore",
				Usage: "Rule selectors to skip",
			},
			&cli.StringSliceFlag{
				Name:  "extend-ignore",
				Usage: "Additional rule selectors to skip",
			},
			&cli.IntFlag{
				Name:  "line-length",
				Usage: "Maximum allowed line width",
			},
			&cli.StringSliceFlag{
				Name:  "file-extensions",
				Usage: "File extensions treated as Fortran source",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format (text, json, sarif, github)",
				Sources: cli.EnvVars("FLINT_FORMAT"),
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output destination (stdout, stderr, or a file path)",
			},
			&cli.BoolFlag{
				Name:    "no-color",
				Usage:   "Disable colored output",
				Sources: cli.EnvVars("NO_COLOR"),
			},
			&cli.BoolFlag{
				Name:  "hide-source",
				Usage: "Omit source snippets from text output",
			},
			&cli.BoolFlag{
				Name:  "no-allow-comments",
				Usage: "Ignore `! allow(...)` suppression comments",
			},
			&cli.StringSliceFlag{
				Name:  "exclude",
				Usage: "Glob patterns for paths to skip during discovery",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Enable debug logging",
			},
		},
		Action: runCheck,
	}
}

func runCheck(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("verbose") {
		logrus.SetLevel(logrus.DebugLevel)
	}

	reg := rules.DefaultRegistry()
	overrides := overridesFromFlags(cmd)

	inputs := cmd.Args().Slice()
	if len(inputs) == 0 {
		inputs = []string{"."}
	}

	// The config nearest the first input drives discovery and output;
	// rule selection is re-resolved per file below so nested configs
	// apply to the files under them.
	rootCfg, err := config.LoadWithOverrides(inputs[0], cmd.String("config"), overrides)
	if err != nil {
		return configError(err)
	}
	if err := rootCfg.Validate(reg); err != nil {
		return configError(err)
	}

	exts := discovery.DefaultExtensions()
	if cmd.IsSet("file-extensions") {
		exts = cmd.StringSlice("file-extensions")
	}
	files, err := discovery.Discover(inputs, discovery.Options{
		Extensions:      exts,
		ExcludePatterns: cmd.StringSlice("exclude"),
	})
	if err != nil {
		return configError(err)
	}
	if len(files) == 0 {
		logrus.Warn("no Fortran source files found")
		return nil
	}
	logrus.Debugf("checking %d files", len(files))

	fixMode := cmd.Bool("fix") || cmd.Bool("diff")
	diffMode := cmd.Bool("diff")

	outcomes := make([]fileOutcome, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, f := range files {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			return checkOne(cmd, reg, f.Path, overrides, fixMode, diffMode, &outcomes[i])
		})
	}
	if err := g.Wait(); err != nil {
		return configError(err)
	}

	var findings []reporter.Finding
	sources := make(map[string][]byte)
	totalFixed, enabled := 0, 0
	var diffs []string
	for i, f := range files {
		o := &outcomes[i]
		findings = append(findings, o.findings...)
		if o.source != nil {
			sources[f.Path] = o.source
		}
		totalFixed += o.fixed
		if o.enabled > enabled {
			enabled = o.enabled
		}
		if o.diff != "" {
			diffs = append(diffs, o.diff)
		}
	}

	w, closeWriter, err := reporter.GetWriter(rootCfg.Output.Path)
	if err != nil {
		return configError(err)
	}
	defer func() {
		if err := closeWriter(); err != nil {
			logrus.Warnf("closing output: %v", err)
		}
	}()

	if diffMode {
		for _, d := range diffs {
			fmt.Fprint(w, d)
		}
		if totalFixed > 0 {
			fmt.Fprintf(w, "Would fix %d error%s.\n", totalFixed, plural(totalFixed))
			return cli.Exit("", ExitViolations)
		}
		if len(findings) > 0 {
			return cli.Exit("", ExitViolations)
		}
		return nil
	}

	format, err := reporter.ParseFormat(rootCfg.Output.Format)
	if err != nil {
		return configError(err)
	}
	allowUnsafe := rootCfg.Check.AllowUnsafe() || cmd.Bool("unsafe-fixes")
	summary := reporter.Summarize(findings, len(files), enabled, totalFixed, allowUnsafe)

	rep, err := reporter.New(reporter.Options{
		Format:      format,
		Writer:      w,
		Color:       colorFromFlags(cmd, rootCfg.Output.Path),
		ShowSource:  !cmd.Bool("hide-source"),
		UnsafeHints: rootCfg.Check.HintUnsafe() && !allowUnsafe,
		ToolVersion: version.Version(),
	})
	if err != nil {
		return configError(err)
	}
	if err := rep.Report(reporter.SortFindings(findings), sources, summary); err != nil {
		return configError(fmt.Errorf("writing report: %w", err))
	}

	if len(findings) > 0 {
		return cli.Exit("", ExitViolations)
	}
	return nil
}

// checkOne runs the full pipeline for a single file and stores the
// outcome in out.
func checkOne(cmd *cli.Command, reg *rules.Registry, path string, overrides map[string]any, fixMode, diffMode bool, out *fileOutcome) error {
	cfg, err := config.LoadWithOverrides(path, cmd.String("config"), overrides)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := cfg.Validate(reg); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	table, err := selector.Resolve(reg, cfg.Check.OpsFor(path), cfg.Check.Baseline())
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	out.enabled = table.EnabledCount()

	l := linter.New(reg, table, cfg.Check.Settings(), cfg.Check.AllowComments)

	content, readErr := os.ReadFile(path)
	if readErr != nil {
		res := l.CheckFile(path)
		out.findings = reporter.FromResult(path, res)
		return nil
	}

	if !fixMode {
		res := l.Check(path, content)
		out.findings = reporter.FromResult(path, res)
		out.source = content
		return nil
	}

	allowUnsafe := cfg.Check.AllowUnsafe() || cmd.Bool("unsafe-fixes")
	fres := fix.Apply(l, path, content, allowUnsafe)
	out.findings = reporter.FromResult(path, fres.Final)
	out.source = fres.Source
	out.fixed = fres.Fixed
	if fres.Fixed == 0 {
		return nil
	}
	if diffMode {
		out.diff = unifiedDiff(path, content, fres.Source)
		return nil
	}
	if err := writeFixed(path, fres.Source); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	logrus.Debugf("fixed %d violations in %s", fres.Fixed, path)
	return nil
}

// overridesFromFlags maps set CLI flags onto the config override tree so
// flags win over environment, file, and defaults in one merge.
func overridesFromFlags(cmd *cli.Command) map[string]any {
	check := make(map[string]any)
	if cmd.IsSet("select") {
		check["select"] = cmd.StringSlice("select")
	}
	if cmd.IsSet("extend-select") {
		check["extend-select"] = cmd.StringSlice("extend-select")
	}
	if cmd.IsSet("ignore") {
		check["ignore"] = cmd.StringSlice("ignore")
	}
	if cmd.IsSet("extend-ignore") {
		check["extend-ignore"] = cmd.StringSlice("extend-ignore")
	}
	if cmd.IsSet("line-length") {
		check["line-length"] = cmd.Int("line-length")
	}
	if cmd.IsSet("file-extensions") {
		check["file-extensions"] = cmd.StringSlice("file-extensions")
	}
	if cmd.Bool("unsafe-fixes") {
		check["unsafe-fixes"] = config.UnsafeFixesEnabled
	}
	if cmd.Bool("no-allow-comments") {
		check["allow-comments"] = false
	}

	output := make(map[string]any)
	if cmd.IsSet("format") {
		output["format"] = cmd.String("format")
	}
	if cmd.IsSet("output") {
		output["path"] = cmd.String("output")
	}

	overrides := make(map[string]any)
	if len(check) > 0 {
		overrides["check"] = check
	}
	if len(output) > 0 {
		overrides["output"] = output
	}
	return overrides
}

// colorFromFlags decides color for text output: --no-color disables it,
// and writing anywhere but a terminal disables it too. nil leaves the
// reporter's own detection in charge.
func colorFromFlags(cmd *cli.Command, outputPath string) *bool {
	off := false
	if cmd.Bool("no-color") {
		return &off
	}
	if outputPath == "" || outputPath == "stdout" {
		fd := os.Stdout.Fd()
		if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
			return &off
		}
	}
	return nil
}

// unifiedDiff renders the change --fix would make as a unified diff.
func unifiedDiff(path string, before, after []byte) string {
	edits := myers.ComputeEdits(span.URIFromPath(path), string(before), string(after))
	return fmt.Sprint(gotextdiff.ToUnified(path, path, string(before), edits))
}

// writeFixed writes fixed content back, keeping the file's permissions.
func writeFixed(path string, content []byte) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	return os.WriteFile(path, content, mode)
}

// configError prints the error and exits with the configuration error
// code.
func configError(err error) error {
	msg := strings.TrimSpace(err.Error())
	fmt.Fprintf(os.Stderr, "flint: %s\n", msg)
	return cli.Exit("", ExitConfigError)
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
