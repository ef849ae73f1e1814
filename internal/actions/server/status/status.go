package status

import (
	"fmt"
	"time"

	"github.com/gameap/gamesrvctl/internal/actions"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

const bytesInMiB = 1 << 20

func Handle(cliCtx *cli.Context) error {
	m, err := actions.LoadManager(cliCtx)
	if err != nil {
		return err
	}

	status, err := m.Status(cliCtx.Context)
	if err != nil {
		return errors.WithMessage(err, "failed to get game server status")
	}

	fmt.Println("Unit:   ", status.Unit.Name)
	fmt.Println("State:  ", status.Unit.State)

	if !status.Unit.Running() {
		return nil
	}

	fmt.Println("PID:    ", status.Unit.PID)
	if !status.Process.StartedAt.IsZero() {
		fmt.Println("Uptime: ", status.Process.Uptime().Truncate(time.Second))
		fmt.Printf("Memory:  %d MiB\n", status.Process.RSS/bytesInMiB)
	}

	if status.PlayersKnown {
		fmt.Println("Players:", status.Players)
	} else {
		fmt.Println("Players: unknown")
	}

	return nil
}
