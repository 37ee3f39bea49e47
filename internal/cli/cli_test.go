package cli

import (
	"bytes"
	"context"
	"flag"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/google/subcommands"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setup points the CLI at a temp sqlite file and a fake rate provider and
// captures its output.
func setup(t *testing.T) (out, errOut *bytes.Buffer) {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"base":"EUR","date":"2025-07-21","rates":{"EUR":1,"USD":1.08,"GBP":0.86,"CHF":0.94,"JPY":161.2}}`))
	}))
	t.Cleanup(srv.Close)

	t.Setenv("STORAGE_DRIVER", "sqlite")
	t.Setenv("STORAGE_PATH", filepath.Join(t.TempDir(), "uconv.db"))
	t.Setenv("RATES_API_URL", srv.URL)

	prevOut, prevErr := stdout, stderr
	out, errOut = &bytes.Buffer{}, &bytes.Buffer{}
	stdout, stderr = out, errOut
	t.Cleanup(func() {
		stdout, stderr = prevOut, prevErr
	})
	return out, errOut
}

func execute(t *testing.T, args ...string) subcommands.ExitStatus {
	t.Helper()
	fs := flag.NewFlagSet("uconv", flag.ContinueOnError)
	cmdr := subcommands.NewCommander(fs, "uconv")
	cmdr.Output = stderr
	cmdr.Error = stderr
	Register(cmdr)
	require.NoError(t, fs.Parse(args))
	return cmdr.Execute(context.Background())
}

func TestConvertCommand(t *testing.T) {
	out, _ := setup(t)

	assert.Equal(t, subcommands.ExitSuccess, execute(t, "convert", "1", "Meter", "Zoll"))
	assert.Equal(t, "1.00 Meter = 39.37 Zoll\n", out.String())
}

func TestConvertCommandErrors(t *testing.T) {
	_, errOut := setup(t)

	assert.Equal(t, subcommands.ExitUsageError, execute(t, "convert", "1", "Meter"))
	assert.Equal(t, subcommands.ExitUsageError, execute(t, "convert", "abc", "Meter", "Zoll"))
	assert.Equal(t, subcommands.ExitUsageError, execute(t, "convert", "1", "Lightyear", "Meter"))
	assert.Equal(t, subcommands.ExitFailure, execute(t, "convert", "1", "Meter", "Pfund"))
	assert.Equal(t, subcommands.ExitFailure, execute(t, "convert", "1", "EUR", "USD"))
	assert.Contains(t, errOut.String(), "exchange rates")
}

func TestCurrencyAfterRefresh(t *testing.T) {
	out, _ := setup(t)

	require.Equal(t, subcommands.ExitSuccess, execute(t, "rates", "-refresh"))
	assert.Contains(t, out.String(), "Base: EUR")
	assert.Contains(t, out.String(), "1.0800")

	out.Reset()
	require.Equal(t, subcommands.ExitSuccess, execute(t, "convert", "10", "EUR", "USD"))
	assert.Contains(t, out.String(), "$10.80")
}

func TestFavoritesCommand(t *testing.T) {
	out, _ := setup(t)

	require.Equal(t, subcommands.ExitSuccess, execute(t, "favorites", "-name", "hiking", "toggle", "length", "Kilometer", "Meilen"))
	assert.Contains(t, out.String(), "Added")

	out.Reset()
	require.Equal(t, subcommands.ExitSuccess, execute(t, "favorites"))
	assert.Contains(t, out.String(), "hiking")
	assert.Contains(t, out.String(), "Länge")

	out.Reset()
	require.Equal(t, subcommands.ExitSuccess, execute(t, "favorites", "toggle", "Länge", "Kilometer", "Meilen"))
	assert.Contains(t, out.String(), "Removed")

	assert.Equal(t, subcommands.ExitUsageError, execute(t, "favorites", "toggle", "length"))
	assert.Equal(t, subcommands.ExitUsageError, execute(t, "favorites", "rename"))
}

func TestHistoryCommand(t *testing.T) {
	out, _ := setup(t)

	require.Equal(t, subcommands.ExitSuccess, execute(t, "history", "-tz", "UTC"))
	assert.Contains(t, out.String(), "No conversions recorded.")

	require.Equal(t, subcommands.ExitSuccess, execute(t, "convert", "-record", "100", "Celsius", "Kelvin"))

	out.Reset()
	require.Equal(t, subcommands.ExitSuccess, execute(t, "history", "-tz", "UTC"))
	assert.Contains(t, out.String(), "100.00 Celsius = 373.15 Kelvin")

	out.Reset()
	require.Equal(t, subcommands.ExitSuccess, execute(t, "history", "-clear"))
	assert.Contains(t, out.String(), "History cleared.")

	assert.Equal(t, subcommands.ExitUsageError, execute(t, "history", "-tz", "Nowhere/City"))
}

func TestCategoriesCommand(t *testing.T) {
	out, _ := setup(t)

	require.Equal(t, subcommands.ExitSuccess, execute(t, "categories"))
	assert.Contains(t, out.String(), ">Meter")
	assert.Contains(t, out.String(), "<Meilen")
	assert.Contains(t, out.String(), "Währung")
}

func TestConvertCommandNegativeValue(t *testing.T) {
	out, _ := setup(t)

	require.Equal(t, subcommands.ExitSuccess, execute(t, "convert", "-value", "-40", "Celsius", "Fahrenheit"))
	assert.Equal(t, "-40.00 Celsius = -40.00 Fahrenheit\n", out.String())

	out.Reset()
	require.Equal(t, subcommands.ExitSuccess, execute(t, "convert", "--", "-40", "Celsius", "Kelvin"))
	assert.Equal(t, "-40.00 Celsius = 233.15 Kelvin\n", out.String())

	assert.Equal(t, subcommands.ExitUsageError, execute(t, "convert", "-value", "-40", "1", "Celsius", "Kelvin"))
}

func TestConvertCommandOverflow(t *testing.T) {
	_, errOut := setup(t)

	assert.Equal(t, subcommands.ExitFailure, execute(t, "convert", "-record", "1e308", "Kilometer", "Meter"))
	assert.Contains(t, errOut.String(), "out of range")
}
