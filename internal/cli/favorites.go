package cli

import (
	"context"
	"flag"
	"fmt"
	"text/tabwriter"

	"github.com/google/subcommands"

	"unit-converter/internal/app"
	"unit-converter/internal/models"
)

type favoritesCmd struct {
	name string
}

func (*favoritesCmd) Name() string     { return "favorites" }
func (*favoritesCmd) Synopsis() string { return "list, toggle or remove favorite unit pairs" }
func (*favoritesCmd) Usage() string {
	return `uconv favorites
uconv favorites [-name <name>] toggle <category> <from> <to>
uconv favorites remove <id>

  Without arguments, lists the saved favorites. toggle adds the pair, or
  removes it when it is already a favorite.
`
}

func (c *favoritesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "Display name for a new favorite. Defaults to \"<from> → <to>\".")
}

func (c *favoritesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) == 0 {
		return run(ctx, func(a *app.App) error {
			printFavorites(a.Favorites.List())
			return nil
		})
	}

	switch args[0] {
	case "toggle":
		if len(args) != 4 {
			return usageError(f, "toggle needs <category> <from> <to>")
		}
		category, err := models.ParseCategory(args[1])
		if err != nil {
			return usageError(f, err.Error())
		}
		return run(ctx, func(a *app.App) error {
			added, err := a.Favorites.Toggle(ctx, category, args[2], args[3], c.name)
			if err := warnIfNotPersisted(err); err != nil {
				return err
			}
			if added {
				fmt.Fprintf(stdout, "Added %s → %s to favorites\n", args[2], args[3])
			} else {
				fmt.Fprintf(stdout, "Removed %s → %s from favorites\n", args[2], args[3])
			}
			return nil
		})

	case "remove":
		if len(args) != 2 {
			return usageError(f, "remove needs <id>")
		}
		return run(ctx, func(a *app.App) error {
			return warnIfNotPersisted(a.Favorites.Remove(ctx, args[1]))
		})
	}

	return usageError(f, fmt.Sprintf("unknown favorites action %q", args[0]))
}

func printFavorites(favs []models.Favorite) {
	if len(favs) == 0 {
		fmt.Fprintln(stdout, "No favorites yet.")
		return
	}
	w := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCATEGORY\tNAME")
	for _, fav := range favs {
		fmt.Fprintf(w, "%s\t%s\t%s\n", fav.ID, fav.Category.Label(), fav.Name)
	}
	w.Flush()
}
