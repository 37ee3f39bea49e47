package cli

import (
	"context"
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/subcommands"

	"unit-converter/internal/app"
	"unit-converter/internal/models"
)

type convertCmd struct {
	value    string
	category string
	record   bool
	refresh  bool
}

func (*convertCmd) Name() string     { return "convert" }
func (*convertCmd) Synopsis() string { return "convert a quantity between two units" }
func (*convertCmd) Usage() string {
	return `uconv convert [-c <category>] [-record] [-refresh] <value> <from> <to>
uconv convert [flags] -value <value> <from> <to>

  Converts value from one unit to another. The category is inferred from
  the source unit unless -c is given. Currency conversions use the cached
  exchange rates; -refresh fetches new ones first.

  A negative value would be read as a flag: pass it with -value, or end
  the flags with --.

  Examples:
    uconv convert 1.5 Kilometer Meilen
    uconv convert -value -40 Celsius Fahrenheit
    uconv convert -- -40 Celsius Fahrenheit
`
}

func (c *convertCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.value, "value", "", "Value to convert, instead of the first argument. Accepts negative numbers.")
	f.StringVar(&c.category, "c", "", "Category key or label (length, weight, temperature, currency).")
	f.BoolVar(&c.record, "record", false, "Add the conversion to the history.")
	f.BoolVar(&c.refresh, "refresh", false, "Refresh exchange rates before a currency conversion.")
}

func (c *convertCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if c.value != "" {
		args = append([]string{c.value}, args...)
	}
	if len(args) != 3 {
		return usageError(f, "convert needs <value> <from> <to>")
	}

	value, err := strconv.ParseFloat(strings.TrimSpace(args[0]), 64)
	if err != nil {
		return usageError(f, fmt.Sprintf("invalid value %q", args[0]))
	}
	from, to := args[1], args[2]

	category := c.category
	if category == "" {
		cat, ok := models.CategoryOf(from)
		if !ok {
			return usageError(f, fmt.Sprintf("unknown unit %q, pass -c to name the category", from))
		}
		category = string(cat)
	}

	return run(ctx, func(a *app.App) error {
		if c.refresh {
			if err := warnIfNotPersisted(a.Service.RefreshRates(ctx)); err != nil {
				fmt.Fprintln(stderr, "warning:", err)
			}
		}

		res, err := a.Service.Convert(ctx, &models.ConversionRequest{
			Value:    value,
			FromUnit: from,
			ToUnit:   to,
			Category: category,
			Record:   c.record,
		})
		if err := warnIfNotPersisted(err); err != nil {
			return err
		}

		fmt.Fprintln(stdout, res.Summary)
		if res.RatesStale {
			fmt.Fprintln(stderr, staleNote(a.Service.RateStatus()))
		}
		return nil
	})
}

func staleNote(s models.RateStatus) string {
	if s.LastRefreshed == nil {
		return "note: exchange rates have never been refreshed"
	}
	return "note: using cached exchange rates from " + s.LastRefreshed.Local().Format("2006-01-02 15:04")
}
