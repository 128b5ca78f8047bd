package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"

	"github.com/fortlab/flint/internal/rules"
)

func rulesCommand() *cli.Command {
	return &cli.Command{
		Name:  "rules",
		Usage: "List the available rules",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "category",
				Usage: "Only list rules in this category (prefix or name)",
			},
			&cli.BoolFlag{
				Name:  "toml",
				Usage: "Emit the listing as TOML",
			},
		},
		Action: runRules,
	}
}

// ruleListing is the TOML shape of one rule in `flint rules --toml`.
type ruleListing struct {
	Name     string `toml:"name"`
	Category string `toml:"category"`
	Summary  string `toml:"summary"`
	Fix      string `toml:"fix"`
	Default  bool   `toml:"default"`
}

func runRules(_ context.Context, cmd *cli.Command) error {
	reg := rules.DefaultRegistry()

	listed := reg.All()
	if cat := cmd.String("category"); cat != "" {
		listed = reg.InCategory(cat)
		if len(listed) == 0 {
			return configError(fmt.Errorf("unknown category %q", cat))
		}
	}

	if cmd.Bool("toml") {
		out := make(map[string]ruleListing, len(listed))
		for _, r := range listed {
			meta := r.Metadata()
			category := ""
			if cat, ok := rules.CategoryOf(meta.Code); ok {
				category = cat.Name
			}
			out[meta.Code] = ruleListing{
				Name:     meta.Name,
				Category: category,
				Summary:  meta.Summary,
				Fix:      meta.Fix.String(),
				Default:  meta.DefaultEnabled,
			}
		}
		return toml.NewEncoder(os.Stdout).Encode(out)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CODE\tNAME\tFIX\tDEFAULT\tSUMMARY")
	for _, r := range listed {
		meta := r.Metadata()
		enabled := "on"
		if !meta.DefaultEnabled {
			enabled = "off"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			meta.Code, meta.Name, meta.Fix, enabled, meta.Summary)
	}
	return w.Flush()
}
