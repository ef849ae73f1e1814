package save

import (
	"fmt"

	"github.com/gameap/gamesrvctl/internal/actions"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

var errConsoleUnavailable = errors.New("server console is unavailable")

func Handle(cliCtx *cli.Context) error {
	m, err := actions.LoadManager(cliCtx)
	if err != nil {
		return err
	}

	response, ok, err := m.Save(cliCtx.Context)
	if err != nil {
		return errors.WithMessage(err, "failed to save world")
	}
	if !ok {
		return errConsoleUnavailable
	}

	if response != "" {
		fmt.Println(response)
	}
	fmt.Println("World saved")

	return nil
}
