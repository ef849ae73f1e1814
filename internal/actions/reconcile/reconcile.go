package reconcile

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

	if err := m.Engine.Reconcile(cliCtx.Context); err != nil {
		return errors.WithMessage(err, "failed to reconcile")
	}

	fmt.Println("System state matches stored options")

	return nil
}
