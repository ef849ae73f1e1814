package service

import (
	"context"
	"log/slog"
	"path"
	"time"

	"github.com/coreos/go-systemd/v22/dbus"
	"github.com/pkg/errors"
)

// DBusAPI is the part of the go-systemd connection used here.
type DBusAPI interface {
	StartUnitContext(ctx context.Context, name string, mode string, ch chan<- string) (int, error)
	StopUnitContext(ctx context.Context, name string, mode string, ch chan<- string) (int, error)
	RestartUnitContext(ctx context.Context, name string, mode string, ch chan<- string) (int, error)
	ReloadContext(ctx context.Context) error
	GetUnitPropertiesContext(ctx context.Context, unit string) (map[string]interface{}, error)
	GetUnitTypePropertiesContext(ctx context.Context, unit string, unitType string) (map[string]interface{}, error)
	Close()
}

type DBusAPIFactory = func(ctx context.Context) (DBusAPI, error)

//nolint:ireturn,nolintlint
func NewDBusAPI(ctx context.Context) (DBusAPI, error) {
	return dbus.NewWithContext(ctx)
}

const jobDone = "done"

// DBus drives systemd over its D-Bus API. Start, stop and restart wait
// for the queued job to finish.
type DBus struct {
	newConn DBusAPIFactory
	timeout time.Duration
}

func NewDBus(factory DBusAPIFactory) *DBus {
	if factory == nil {
		factory = NewDBusAPI
	}

	return &DBus{
		newConn: factory,
		timeout: DefaultTimeout,
	}
}

type jobFunc func(ctx context.Context, name string, mode string, ch chan<- string) (int, error)

func (s *DBus) Start(ctx context.Context, unit string) error {
	return s.job(ctx, "start", unit, func(conn DBusAPI) jobFunc { return conn.StartUnitContext })
}

func (s *DBus) Stop(ctx context.Context, unit string) error {
	return s.job(ctx, "stop", unit, func(conn DBusAPI) jobFunc { return conn.StopUnitContext })
}

func (s *DBus) Restart(ctx context.Context, unit string) error {
	return s.job(ctx, "restart", unit, func(conn DBusAPI) jobFunc { return conn.RestartUnitContext })
}

func (s *DBus) ReloadUnits(ctx context.Context) error {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	conn, err := s.newConn(ctx)
	if err != nil {
		return NewControlError("connect to systemd", "", err)
	}
	defer conn.Close()

	if err := conn.ReloadContext(ctx); err != nil {
		return NewControlError("reload units", "", err)
	}

	return nil
}

func (s *DBus) Status(ctx context.Context, unit string) (State, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	conn, err := s.newConn(ctx)
	if err != nil {
		return StateStopped, NewControlError("connect to systemd", unit, err)
	}
	defer conn.Close()

	return s.status(ctx, conn, unit)
}

func (s *DBus) PID(ctx context.Context, unit string) (int, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	conn, err := s.newConn(ctx)
	if err != nil {
		return 0, NewControlError("connect to systemd", unit, err)
	}
	defer conn.Close()

	state, err := s.status(ctx, conn, unit)
	if err != nil {
		return 0, err
	}
	if state != StateRunning {
		return 0, nil
	}

	props, err := conn.GetUnitTypePropertiesContext(ctx, unitName(unit), "Service")
	if err != nil {
		return 0, NewControlError("query", unit, err)
	}

	pid, ok := props["MainPID"].(uint32)
	if !ok {
		return 0, NewControlError("query", unit, errors.Errorf("unexpected MainPID %v", props["MainPID"]))
	}

	return verifyPID(ctx, int(pid))
}

func (s *DBus) status(ctx context.Context, conn DBusAPI, unit string) (State, error) {
	props, err := conn.GetUnitPropertiesContext(ctx, unitName(unit))
	if err != nil {
		return StateStopped, NewControlError("query", unit, err)
	}

	if load, _ := props["LoadState"].(string); load == "not-found" {
		return StateStopped, NewNotFoundError(unit)
	}

	active, ok := props["ActiveState"].(string)
	if !ok {
		return StateStopped, NewControlError("query", unit, errors.New("missing ActiveState"))
	}

	return stateFromActiveState(active), nil
}

func (s *DBus) job(ctx context.Context, op, unit string, pick func(conn DBusAPI) jobFunc) error {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	conn, err := s.newConn(ctx)
	if err != nil {
		return NewControlError("connect to systemd", unit, err)
	}
	defer conn.Close()

	if _, err := s.status(ctx, conn, unit); err != nil {
		return err
	}

	done := make(chan string, 1)

	if _, err := pick(conn)(ctx, unitName(unit), "replace", done); err != nil {
		return NewControlError(op, unit, err)
	}

	select {
	case result := <-done:
		slog.DebugContext(ctx, "systemd job finished",
			slog.String("op", op),
			slog.String("unit", unit),
			slog.String("result", result),
		)
		if result != jobDone {
			return NewControlError(op, unit, errors.WithMessage(errJobFailed, result))
		}
	case <-ctx.Done():
		return NewControlError(op, unit, ctx.Err())
	}

	return nil
}

// unitName appends the .service suffix when the name has no unit type.
func unitName(name string) string {
	if path.Ext(name) != "" {
		return name
	}

	return name + ".service"
}
