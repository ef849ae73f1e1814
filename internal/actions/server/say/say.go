package say

import (
	"fmt"
	"strings"

	"github.com/gameap/gamesrvctl/internal/actions"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

var (
	errMessageRequired    = errors.New("message is required")
	errConsoleUnavailable = errors.New("server console is unavailable")
)

func Handle(cliCtx *cli.Context) error {
	message := strings.Join(cliCtx.Args().Slice(), " ")
	if message == "" {
		return errMessageRequired
	}

	m, err := actions.LoadManager(cliCtx)
	if err != nil {
		return err
	}

	response, ok, err := m.Say(cliCtx.Context, message)
	if err != nil {
		return errors.WithMessage(err, "failed to send message")
	}
	if !ok {
		return errConsoleUnavailable
	}

	if response != "" {
		fmt.Println(response)
	}

	return nil
}
