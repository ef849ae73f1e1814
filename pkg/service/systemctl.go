package service

import (
	"bufio"
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/gameap/gamesrvctl/pkg/oscore"
	"github.com/pkg/errors"
)

const systemctlCommand = "systemctl"

// Systemctl drives systemd through the systemctl command.
type Systemctl struct {
	exec    oscore.ExecFunc
	timeout time.Duration
}

func NewSystemctl(exec oscore.ExecFunc) *Systemctl {
	if exec == nil {
		exec = oscore.ExecCommandWithOutput
	}

	return &Systemctl{
		exec:    exec,
		timeout: DefaultTimeout,
	}
}

func (s *Systemctl) Start(ctx context.Context, unit string) error {
	return s.run(ctx, "start", unit)
}

func (s *Systemctl) Stop(ctx context.Context, unit string) error {
	return s.run(ctx, "stop", unit)
}

func (s *Systemctl) Restart(ctx context.Context, unit string) error {
	return s.run(ctx, "restart", unit)
}

func (s *Systemctl) ReloadUnits(ctx context.Context) error {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	out, err := s.exec(ctx, systemctlCommand, "daemon-reload")
	if err != nil {
		return NewControlError("reload units", "", withOutput(err, out))
	}

	return nil
}

func (s *Systemctl) Status(ctx context.Context, unit string) (State, error) {
	props, err := s.show(ctx, unit)
	if err != nil {
		return StateStopped, err
	}

	return stateFromActiveState(props.activeState), nil
}

func (s *Systemctl) PID(ctx context.Context, unit string) (int, error) {
	props, err := s.show(ctx, unit)
	if err != nil {
		return 0, err
	}

	if stateFromActiveState(props.activeState) != StateRunning {
		return 0, nil
	}

	return verifyPID(ctx, props.mainPID)
}

func (s *Systemctl) run(ctx context.Context, verb, unit string) error {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	out, err := s.exec(ctx, systemctlCommand, verb, unit)
	if err != nil {
		if strings.Contains(out, "not found") {
			return NewNotFoundError(unit)
		}

		return NewControlError(verb, unit, withOutput(err, out))
	}

	return nil
}

type unitProperties struct {
	loadState   string
	activeState string
	mainPID     int
}

func (s *Systemctl) show(ctx context.Context, unit string) (unitProperties, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	out, err := s.exec(ctx, systemctlCommand, "show", "--property=LoadState,ActiveState,MainPID", unit)
	if err != nil {
		return unitProperties{}, NewControlError("query", unit, withOutput(err, out))
	}

	props, err := parseSystemctlShow(out)
	if err != nil {
		return unitProperties{}, NewControlError("query", unit, err)
	}

	if props.loadState == "not-found" {
		return props, NewNotFoundError(unit)
	}

	return props, nil
}

func parseSystemctlShow(out string) (unitProperties, error) {
	props := unitProperties{}
	seen := 0

	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		key, value, ok := strings.Cut(strings.TrimSpace(scanner.Text()), "=")
		if !ok {
			continue
		}

		switch key {
		case "LoadState":
			props.loadState = value
			seen++
		case "ActiveState":
			props.activeState = value
			seen++
		case "MainPID":
			pid, err := strconv.Atoi(value)
			if err != nil {
				return props, errors.Wrapf(err, "invalid MainPID '%s'", value)
			}
			props.mainPID = pid
			seen++
		}
	}

	if seen == 0 {
		return props, errors.New("unexpected systemctl show output")
	}

	return props, nil
}

// verifyPID returns pid when such a process exists, 0 otherwise.
func verifyPID(ctx context.Context, pid int) (int, error) {
	if pid <= 0 {
		return 0, nil
	}

	running, err := oscore.IsProcessRunning(ctx, int32(pid)) //nolint:gosec
	if err != nil {
		return 0, NewControlError("inspect process", "", err)
	}
	if !running {
		return 0, nil
	}

	return pid, nil
}

func withOutput(err error, out string) error {
	out = strings.TrimSpace(out)
	if out == "" {
		return err
	}

	return errors.WithMessage(err, out)
}
