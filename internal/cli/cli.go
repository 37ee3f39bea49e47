// Package cli implements the uconv command line client.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"

	"unit-converter/internal/app"
	"unit-converter/internal/config"
	"unit-converter/internal/models"
	"unit-converter/pkg/logger"
)

// Register adds the uconv subcommands to c.
func Register(c *subcommands.Commander) {
	c.Register(&convertCmd{}, "conversion")
	c.Register(&categoriesCmd{}, "conversion")
	c.Register(&ratesCmd{}, "conversion")

	c.Register(&favoritesCmd{}, "collections")
	c.Register(&historyCmd{}, "collections")
}

// A CLI invocation is short lived, so global flags are fine here.
var (
	configPath = flag.String("config", "", "Path to a YAML config file. Environment variables override it.")
	verbose    = flag.Bool("v", false, "Log at debug level to stderr.")
)

var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// openApp loads the configuration and wires the core. Callers must Close it.
func openApp(ctx context.Context) (*app.App, error) {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return nil, err
	}

	level := "warn"
	if *verbose {
		level = "debug"
	}
	log := logger.NewLogger("uconv", level)

	return app.Bootstrap(ctx, cfg, log, app.Options{})
}

// run opens the app, runs fn and reports its error.
func run(ctx context.Context, fn func(a *app.App) error) subcommands.ExitStatus {
	a, err := openApp(ctx)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	if err := a.LoadErrors(); err != nil {
		fmt.Fprintln(stderr, "warning: saved data could not be read and was reset:", err)
	}

	if err := fn(a); err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func warnIfNotPersisted(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, models.ErrPersistence) {
		fmt.Fprintln(stderr, "warning: change kept for this run only:", err)
		return nil
	}
	return err
}

func usageError(f *flag.FlagSet, msg string) subcommands.ExitStatus {
	fmt.Fprintln(stderr, msg)
	f.Usage()
	return subcommands.ExitUsageError
}
