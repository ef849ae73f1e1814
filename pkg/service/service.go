// Package service controls the OS service manager unit of the game server.
//
// Implementations hold no state of their own. Every call is bounded by a
// timeout and every failure to reach or drive the service manager is
// returned as an error, never reported as a stopped unit.
package service

import (
	"context"
	"time"
)

const DefaultTimeout = 30 * time.Second

type State string

const (
	StateStopped  State = "stopped"
	StateStarting State = "starting"
	StateRunning  State = "running"
	StateFailed   State = "failed"
)

type Service interface {
	Start(ctx context.Context, unit string) error
	Stop(ctx context.Context, unit string) error
	Restart(ctx context.Context, unit string) error
	Status(ctx context.Context, unit string) (State, error)

	// PID returns the main process id of the unit, or 0 when it is not running.
	PID(ctx context.Context, unit string) (int, error)

	// ReloadUnits makes the service manager re-read unit files and drop-ins.
	// The running process is not affected, changes apply on the next start.
	ReloadUnits(ctx context.Context) error
}

type Unit struct {
	Name  string
	State State
	PID   int
}

func (u Unit) Running() bool {
	return u.State == StateRunning
}

func Describe(ctx context.Context, svc Service, name string) (Unit, error) {
	state, err := svc.Status(ctx, name)
	if err != nil {
		return Unit{Name: name}, err
	}

	unit := Unit{Name: name, State: state}
	if state != StateRunning {
		return unit, nil
	}

	unit.PID, err = svc.PID(ctx, name)
	if err != nil {
		return unit, err
	}

	return unit, nil
}

// stateFromActiveState maps systemd ActiveState values.
func stateFromActiveState(active string) State {
	switch active {
	case "active", "reloading", "refreshing":
		return StateRunning
	case "activating":
		return StateStarting
	case "failed":
		return StateFailed
	default:
		return StateStopped
	}
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return context.WithTimeout(ctx, timeout)
}
