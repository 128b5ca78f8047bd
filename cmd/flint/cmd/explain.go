package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/fortlab/flint/internal/rules"
)

func explainCommand() *cli.Command {
	return &cli.Command{
		Name:      "explain",
		Usage:     "Print the documentation for one or more rules",
		ArgsUsage: "[codes, names, or categories...]",
		Action:    runExplain,
	}
}

func runExplain(_ context.Context, cmd *cli.Command) error {
	reg := rules.DefaultRegistry()

	args := cmd.Args().Slice()
	var selected []rules.Rule
	if len(args) == 0 {
		selected = reg.All()
	} else {
		seen := make(map[string]bool)
		for _, arg := range args {
			matched, err := resolveRules(reg, arg)
			if err != nil {
				return configError(err)
			}
			for _, r := range matched {
				code := r.Metadata().Code
				if !seen[code] {
					seen[code] = true
					selected = append(selected, r)
				}
			}
		}
	}

	for i, r := range selected {
		if i > 0 {
			fmt.Fprintln(os.Stdout)
		}
		meta := r.Metadata()
		fmt.Fprintf(os.Stdout, "# %s (%s)\n\n", meta.Code, meta.Name)
		text, _ := reg.Explain(meta.Code)
		fmt.Fprintln(os.Stdout, strings.TrimSpace(text))
		if meta.Fix != rules.FixNone {
			fmt.Fprintf(os.Stdout, "\nFix availability: %s\n", meta.Fix)
		}
	}
	return nil
}

// resolveRules maps a single explain argument to rules: an exact code,
// a rule name, or a whole category.
func resolveRules(reg *rules.Registry, arg string) ([]rules.Rule, error) {
	if r, ok := reg.Lookup(arg); ok {
		return []rules.Rule{r}, nil
	}
	if r, ok := reg.LookupName(arg); ok {
		return []rules.Rule{r}, nil
	}
	if matched := reg.InCategory(arg); len(matched) > 0 {
		return matched, nil
	}
	return nil, fmt.Errorf("no rule, name, or category matches %q", arg)
}
