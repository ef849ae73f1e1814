package get

import (
	"fmt"

	"github.com/gameap/gamesrvctl/internal/actions"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

var errOptionRequired = errors.New("option name is required as first argument")

func Handle(cliCtx *cli.Context) error {
	name := cliCtx.Args().First()
	if name == "" {
		return errOptionRequired
	}

	m, err := actions.LoadManager(cliCtx)
	if err != nil {
		return err
	}

	v, err := m.Engine.Effective(name)
	if err != nil {
		return errors.WithMessagef(err, "failed to read '%s'", name)
	}

	fmt.Println(actions.FormatValue(v))

	return nil
}
