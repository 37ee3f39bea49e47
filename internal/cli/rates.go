package cli

import (
	"context"
	"flag"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/google/subcommands"

	"unit-converter/internal/app"
	"unit-converter/internal/models"
)

type ratesCmd struct {
	refresh bool
}

func (*ratesCmd) Name() string     { return "rates" }
func (*ratesCmd) Synopsis() string { return "show or refresh the cached exchange rates" }
func (*ratesCmd) Usage() string {
	return `uconv rates [-refresh]

  Prints the cached exchange rates relative to the base currency and when
  they were last refreshed. With -refresh, fetches the latest rates first;
  on failure the cached rates are kept and shown.
`
}

func (c *ratesCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.refresh, "refresh", false, "Fetch the latest rates before printing.")
}

func (c *ratesCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(ctx, func(a *app.App) error {
		var refreshErr error
		if c.refresh {
			refreshErr = warnIfNotPersisted(a.Service.RefreshRates(ctx))
		}

		printRates(a.Service.Rates(), a.Service.RateStatus())
		return refreshErr
	})
}

func printRates(table models.ExchangeRateTable, status models.RateStatus) {
	fmt.Fprintf(stdout, "Base: %s\n", table.Base)
	if status.LastRefreshed != nil {
		fmt.Fprintf(stdout, "Last refreshed: %s", status.LastRefreshed.Local().Format(time.RFC3339))
		if table.SourceDate != "" {
			fmt.Fprintf(stdout, " (provider date %s)", table.SourceDate)
		}
		fmt.Fprintln(stdout)
	} else {
		fmt.Fprintln(stdout, "Last refreshed: never")
	}
	if status.Stale {
		fmt.Fprintln(stdout, "Rates are stale.")
	}
	if status.Offline {
		fmt.Fprintf(stdout, "Using cached data: %s\n", status.LastError)
	}

	w := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', tabwriter.AlignRight)
	for _, code := range models.CategoryCurrency.Units() {
		rate, ok := table.Rate(code)
		if !ok {
			fmt.Fprintf(w, "%s\t-\t\n", code)
			continue
		}
		fmt.Fprintf(w, "%s\t%.4f\t\n", code, rate)
	}
	w.Flush()
}
