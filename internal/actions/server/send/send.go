package send

import (
	"fmt"
	"strings"

	"github.com/gameap/gamesrvctl/internal/actions"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

var (
	errCommandRequired    = errors.New("console command is required")
	errConsoleUnavailable = errors.New("server console is unavailable")
)

func Handle(cliCtx *cli.Context) error {
	command := strings.Join(cliCtx.Args().Slice(), " ")
	if command == "" {
		return errCommandRequired
	}

	m, err := actions.LoadManager(cliCtx)
	if err != nil {
		return err
	}

	response, ok := m.Send(cliCtx.Context, command)
	if !ok {
		return errConsoleUnavailable
	}

	fmt.Println(response)

	return nil
}
