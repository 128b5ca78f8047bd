package cmd

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/fortlab/flint/internal/version"
)

// NewApp creates the CLI application
func NewApp() *cli.Command {
	return &cli.Command{
		Name:    "flint",
		Usage:   "A linter for modern Fortran",
		Version: version.Version(),
		Description: `flint checks free-form Fortran source for style problems, obsolescent
language features, portability hazards, and missing implicit typing
guards, and can fix many of them automatically.

Examples:
  flint check src/solver.f90
  flint check --fix src/
  flint check --select S,T001 .
  flint explain T001`,
		Commands: []*cli.Command{
			checkCommand(),
			explainCommand(),
			rulesCommand(),
			versionCommand(),
		},
	}
}

// Execute runs the CLI application
func Execute() error {
	return NewApp().Run(context.Background(), os.Args)
}
