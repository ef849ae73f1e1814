package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/coreos/go-systemd/v22/util"
	contextInternal "github.com/gameap/gamesrvctl/internal/context"
	"github.com/gameap/gamesrvctl/pkg/runhelper"
	"github.com/gameap/gamesrvctl/pkg/utils"
)

var (
	once    = sync.Once{}
	service Service
	loadErr error
)

// Load picks the service manager implementation once per process:
// D-Bus when the system bus answers, systemctl otherwise.
//
//nolint:ireturn,nolintlint
func Load(ctx context.Context) (Service, error) {
	once.Do(func() {
		service, loadErr = detect(ctx)
	})

	return service, loadErr
}

//nolint:ireturn,nolintlint
func detect(ctx context.Context) (Service, error) {
	osInfo := contextInternal.OSInfoFromContext(ctx)
	if osInfo.IsWindows() {
		return nil, ErrUnsupportedInit
	}

	initSystem, err := runhelper.DetectInit(ctx)
	if err != nil {
		slog.WarnContext(ctx, "failed to detect init", slog.String("err", err.Error()))
	}
	if initSystem != runhelper.InitSystemd && !util.IsRunningSystemd() {
		return nil, ErrUnsupportedInit
	}

	conn, err := NewDBusAPI(ctx)
	if err == nil {
		conn.Close()
		slog.DebugContext(ctx, "using systemd D-Bus API")

		return NewDBus(NewDBusAPI), nil
	}
	slog.DebugContext(ctx, "systemd D-Bus API unavailable", slog.String("err", err.Error()))

	if !utils.IsCommandAvailable(systemctlCommand) {
		return nil, ErrUnsupportedInit
	}

	return NewSystemctl(nil), nil
}
