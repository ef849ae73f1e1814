package players

import (
	"fmt"

	"github.com/gameap/gamesrvctl/internal/actions"
	"github.com/urfave/cli/v2"
)

func Handle(cliCtx *cli.Context) error {
	m, err := actions.LoadManager(cliCtx)
	if err != nil {
		return err
	}

	count, ok := m.PlayerCount(cliCtx.Context)
	if !ok {
		fmt.Println("unknown")

		return nil
	}

	fmt.Println(count)

	return nil
}
