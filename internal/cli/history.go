package cli

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/google/subcommands"

	"unit-converter/internal/app"
	"unit-converter/internal/models"
)

type historyCmd struct {
	clear  bool
	remove string
	tz     string
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "show or clear the conversion history" }
func (*historyCmd) Usage() string {
	return `uconv history [-tz <zone>] [-remove <id>] [-clear]

  Prints recorded conversions grouped by day, newest first. Record a
  conversion with "uconv convert -record".
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.clear, "clear", false, "Delete every entry.")
	f.StringVar(&c.remove, "remove", "", "Delete the entry with this id.")
	f.StringVar(&c.tz, "tz", "Local", "IANA time zone used to group entries by day.")
}

func (c *historyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	loc, err := time.LoadLocation(c.tz)
	if err != nil {
		return usageError(f, fmt.Sprintf("invalid time zone %q", c.tz))
	}

	return run(ctx, func(a *app.App) error {
		switch {
		case c.clear:
			if err := warnIfNotPersisted(a.History.Clear(ctx)); err != nil {
				return err
			}
			fmt.Fprintln(stdout, "History cleared.")
			return nil
		case c.remove != "":
			if err := warnIfNotPersisted(a.History.Remove(ctx, c.remove)); err != nil {
				return err
			}
		}

		printHistory(a.History.GroupedByDay(loc), loc)
		return nil
	})
}

func printHistory(groups []models.HistoryGroup, loc *time.Location) {
	if len(groups) == 0 {
		fmt.Fprintln(stdout, "No conversions recorded.")
		return
	}
	for _, g := range groups {
		fmt.Fprintln(stdout, g.Label())
		for _, e := range g.Entries {
			fmt.Fprintf(stdout, "  %s  %s  [%s]\n", e.Timestamp.In(loc).Format("15:04"), e.Summary(), e.ID)
		}
	}
}
