package firstrun

import (
	"fmt"

	"github.com/gameap/gamesrvctl/internal/actions"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

func Handle(cliCtx *cli.Context) error {
	if err := actions.RequirePrivileged(cliCtx); err != nil {
		return err
	}

	m, err := actions.LoadManager(cliCtx)
	if err != nil {
		return err
	}

	results, err := m.FirstRun(cliCtx.Context, actions.Prompt(cliCtx))
	for _, r := range results {
		if r.Changed {
			fmt.Printf("%s is set\n", r.Option)
		}
	}
	if err != nil {
		return errors.WithMessage(err, "failed to prepare game server")
	}

	fmt.Printf("%s is ready, start it with 'gamesrvctl server start'\n", m.Definition.Title)

	return nil
}
