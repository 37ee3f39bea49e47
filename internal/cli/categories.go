package cli

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/google/subcommands"

	"unit-converter/internal/app"
)

type categoriesCmd struct{}

func (*categoriesCmd) Name() string     { return "categories" }
func (*categoriesCmd) Synopsis() string { return "list categories and their units" }
func (*categoriesCmd) Usage() string {
	return `uconv categories

  Lists every category with its units. The default source and target units
  are marked with > and <.
`
}

func (*categoriesCmd) SetFlags(*flag.FlagSet) {}

func (*categoriesCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(ctx, func(a *app.App) error {
		for _, info := range a.Service.Categories() {
			units := make([]string, 0, len(info.Units))
			for _, u := range info.Units {
				switch u {
				case info.DefaultFrom:
					u = ">" + u
				case info.DefaultTo:
					u = "<" + u
				}
				units = append(units, u)
			}
			fmt.Fprintf(stdout, "%-12s %-11s %s\n", info.Key, info.Label, strings.Join(units, " "))
		}
		return nil
	})
}
