package gamesrvctl

import (
	"context"
	"log/slog"

	"github.com/gameap/gamesrvctl/pkg/oscore"
	"github.com/gameap/gamesrvctl/pkg/service"
)

type Status struct {
	Unit         service.Unit
	Process      oscore.ProcessInfo
	Players      int
	PlayersKnown bool
}

// Status describes the unit and, when it runs, its process and players.
// Only service manager failures are returned as errors.
func (m *Manager) Status(ctx context.Context) (Status, error) {
	unit, err := service.Describe(ctx, m.Service, m.Unit())
	if err != nil {
		return Status{Unit: unit}, err
	}

	status := Status{Unit: unit}
	if !unit.Running() {
		return status, nil
	}

	if unit.PID > 0 {
		info, err := oscore.FindProcessInfo(ctx, int32(unit.PID)) //nolint:gosec
		if err != nil {
			slog.DebugContext(ctx, "failed to inspect game process", slog.String("err", err.Error()))
		} else {
			status.Process = info
		}
	}

	status.Players, status.PlayersKnown = m.playerCount(ctx)

	return status, nil
}
