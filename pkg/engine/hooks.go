package engine

import (
	"context"

	"github.com/gameap/gamesrvctl/pkg/firewall"
	"github.com/gameap/gamesrvctl/pkg/option"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"go.uber.org/multierr"
)

// Change is passed to hooks. Previous is unset when the option had no value.
type Change struct {
	Option   string
	Previous option.Value
	Current  option.Value
}

// Hook is a side effect of an option change. Hooks must be idempotent,
// the engine replays them on Reconcile.
type Hook struct {
	Name string
	Run  func(ctx context.Context, change Change) error
}

// Registry maps option names to their hooks.
type Registry struct {
	order        []string
	onChange     map[string][]Hook
	afterPersist map[string][]Hook
}

func NewRegistry() *Registry {
	return &Registry{
		onChange:     map[string][]Hook{},
		afterPersist: map[string][]Hook{},
	}
}

// OnChange registers a hook that runs after a change is detected and
// before the new value is written.
func (r *Registry) OnChange(name string, hook Hook) *Registry {
	r.track(name)
	r.onChange[name] = append(r.onChange[name], hook)

	return r
}

// AfterPersist registers a hook that runs once the new value is flushed to disk.
func (r *Registry) AfterPersist(name string, hook Hook) *Registry {
	r.track(name)
	r.afterPersist[name] = append(r.afterPersist[name], hook)

	return r
}

// Options returns the names of options with hooks in registration order.
func (r *Registry) Options() []string {
	return append([]string(nil), r.order...)
}

func (r *Registry) Hooks(name string) (onChange []Hook, afterPersist []Hook) {
	return r.onChange[name], r.afterPersist[name]
}

func (r *Registry) track(name string) {
	if !lo.Contains(r.order, name) {
		r.order = append(r.order, name)
	}
}

// HookError is a failed hook.
type HookError struct {
	Hook string
	Err  error
}

func (e *HookError) Error() string {
	return e.Hook + ": " + e.Err.Error()
}

func (e *HookError) Unwrap() error {
	return e.Err
}

// runHooks runs every hook, a failing hook does not stop the others.
func runHooks(ctx context.Context, hooks []Hook, change Change) error {
	var result error

	for _, hook := range hooks {
		if err := hook.Run(ctx, change); err != nil {
			result = multierr.Append(result, &HookError{Hook: hook.Name, Err: err})
		}
	}

	return result
}

type PortOpener interface {
	Allow(ctx context.Context, port int, protocol firewall.Protocol, description string) error
	Remove(ctx context.Context, port int, protocol firewall.Protocol) error
}

var errPortNotInteger = errors.New("port option must be an integer")

// PortHook keeps one firewall rule in step with an integer port option:
// the rule for the previous port is removed, then the new port is allowed.
func PortHook(opener PortOpener, protocol firewall.Protocol, description string) Hook {
	return Hook{
		Name: "firewall " + string(protocol),
		Run: func(ctx context.Context, change Change) error {
			var result error

			if change.Previous.IsSet() {
				previous, ok := change.Previous.Int()
				if !ok {
					return errPortNotInteger
				}
				if err := opener.Remove(ctx, previous, protocol); err != nil {
					result = multierr.Append(result, err)
				}
			}

			if change.Current.IsSet() {
				current, ok := change.Current.Int()
				if !ok {
					return multierr.Append(result, errPortNotInteger)
				}
				if err := opener.Allow(ctx, current, protocol, description); err != nil {
					result = multierr.Append(result, err)
				}
			}

			return result
		},
	}
}

type UnitReloader interface {
	ReloadUnits(ctx context.Context) error
}

const reloadUnitsHookName = "reload units"

func ReloadUnitsHook(reloader UnitReloader) Hook {
	return Hook{
		Name: reloadUnitsHookName,
		Run: func(ctx context.Context, _ Change) error {
			return reloader.ReloadUnits(ctx)
		},
	}
}
