package list

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/gameap/gamesrvctl/internal/actions"
	"github.com/gameap/gamesrvctl/pkg/option"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

func Handle(cliCtx *cli.Context) error {
	m, err := actions.LoadManager(cliCtx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0) //nolint:mnd
	_, _ = fmt.Fprintln(w, "OPTION\tVALUE\tDEFAULT")

	for _, def := range m.Engine.Definitions() {
		v, err := m.Get(def.Name)
		if err != nil {
			return errors.WithMessagef(err, "failed to read '%s'", def.Name)
		}

		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", def.Name, display(def, v), defaultOf(def))
	}

	return w.Flush()
}

func display(def option.Definition, v option.Value) string {
	if v.IsSet() && def.Generate == option.GeneratePassword {
		return actions.HiddenValue
	}

	return actions.FormatValue(v)
}

func defaultOf(def option.Definition) string {
	if def.Default == nil {
		return actions.UnsetValue
	}

	return *def.Default
}
