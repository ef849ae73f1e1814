package set

import (
	"fmt"

	"github.com/gameap/gamesrvctl/internal/actions"
	"github.com/gameap/gamesrvctl/pkg/engine"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

var errArgumentsRequired = errors.New("option name and value are required")

func Handle(cliCtx *cli.Context) error {
	if cliCtx.NArg() != 2 { //nolint:mnd
		return errArgumentsRequired
	}

	if err := actions.RequirePrivileged(cliCtx); err != nil {
		return err
	}

	m, err := actions.LoadManager(cliCtx)
	if err != nil {
		return err
	}

	name, raw := cliCtx.Args().Get(0), cliCtx.Args().Get(1)

	result, err := m.Engine.SetString(cliCtx.Context, name, raw)

	var partialErr *engine.PartialFailureError
	if errors.As(err, &partialErr) {
		fmt.Printf("%s is saved, but not every change was applied. Run 'gamesrvctl reconcile' to retry\n", name)

		return err
	}
	if err != nil {
		return errors.WithMessagef(err, "failed to set '%s'", name)
	}

	if !result.Changed {
		fmt.Printf("%s is unchanged\n", name)

		return nil
	}

	fmt.Printf("%s is set\n", name)

	if unit, err := m.Status(cliCtx.Context); err == nil && unit.Unit.Running() {
		fmt.Println("Restart the server to apply: gamesrvctl server restart")
	}

	return nil
}
