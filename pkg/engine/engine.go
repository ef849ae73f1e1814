// Package engine applies option changes and their side effects.
//
// A write that does not change the stored value is a no-op and runs no
// hooks. A write that changes it runs the OnChange hooks, persists the
// value and then runs the AfterPersist hooks. Hook failures never roll
// back the persisted value, they are returned as *PartialFailureError.
package engine

import (
	"context"
	"log/slog"
	"sync"

	"github.com/gameap/gamesrvctl/pkg/option"
	"github.com/gameap/gamesrvctl/pkg/strings"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// Options is the merged option namespace, see configstore.Merger.
type Options interface {
	Definition(name string) (option.Definition, error)
	Definitions() []option.Definition
	Get(name string) (option.Value, error)
	Effective(name string) (option.Value, error)
	Set(name string, v option.Value) error
	Flush(ctx context.Context) error
}

// PromptFunc asks the operator for a value. An empty answer selects the default.
type PromptFunc func(ctx context.Context, def option.Definition) (string, error)

type Result struct {
	Option   string
	Previous option.Value
	Current  option.Value
	Changed  bool
}

type Engine struct {
	mu      sync.Mutex
	options Options
	hooks   *Registry
}

func New(options Options, hooks *Registry) *Engine {
	if hooks == nil {
		hooks = NewRegistry()
	}

	return &Engine{
		options: options,
		hooks:   hooks,
	}
}

func (e *Engine) Get(name string) (option.Value, error) {
	return e.options.Get(name)
}

func (e *Engine) Effective(name string) (option.Value, error) {
	return e.options.Effective(name)
}

func (e *Engine) Definitions() []option.Definition {
	return e.options.Definitions()
}

func (e *Engine) Definition(name string) (option.Definition, error) {
	return e.options.Definition(name)
}

// Set writes the value of an option. An unset value removes it.
func (e *Engine) Set(ctx context.Context, name string, v option.Value) (Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.set(ctx, name, v)
}

// SetString parses raw by the declared type of the option and sets it.
func (e *Engine) SetString(ctx context.Context, name, raw string) (Result, error) {
	def, err := e.options.Definition(name)
	if err != nil {
		return Result{Option: name}, err
	}

	v, err := def.Parse(raw)
	if err != nil {
		return Result{Option: name}, err
	}

	return e.Set(ctx, name, v)
}

// EnsureSet keeps an existing value. Otherwise the value is generated,
// asked with prompt, or taken from the default, in that order.
func (e *Engine) EnsureSet(ctx context.Context, name string, prompt PromptFunc) (Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	def, err := e.options.Definition(name)
	if err != nil {
		return Result{Option: name}, err
	}

	current, err := e.options.Get(name)
	if err != nil {
		return Result{Option: name}, err
	}
	if current.IsSet() {
		return Result{Option: name, Previous: current, Current: current}, nil
	}

	v, err := e.initialValue(ctx, def, prompt)
	if err != nil {
		return Result{Option: name}, err
	}

	return e.set(ctx, name, v)
}

// Reconcile replays the hooks of every set option as if it had just been
// set, for example after a partially failed write. AfterPersist hooks
// sharing a name run once.
func (e *Engine) Reconcile(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	var (
		result error
		ran    = map[string]bool{}
	)

	for _, name := range e.hooks.Options() {
		v, err := e.options.Get(name)
		if err != nil {
			result = multierr.Append(result, err)

			continue
		}
		if !v.IsSet() {
			continue
		}

		change := Change{Option: name, Previous: option.Unset(v.Type()), Current: v}
		onChange, afterPersist := e.hooks.Hooks(name)

		if err := runHooks(ctx, onChange, change); err != nil {
			result = multierr.Append(result, err)
		}

		for _, hook := range afterPersist {
			if ran[hook.Name] {
				continue
			}
			ran[hook.Name] = true

			if err := runHooks(ctx, []Hook{hook}, change); err != nil {
				result = multierr.Append(result, err)
			}
		}
	}

	return result
}

func (e *Engine) set(ctx context.Context, name string, v option.Value) (Result, error) {
	result := Result{Option: name, Current: v}

	def, err := e.options.Definition(name)
	if err != nil {
		return result, err
	}
	if v.IsSet() && v.Type() != def.Type {
		return result, option.NewFormatError(def.Name, def.Type, v.String())
	}

	previous, err := e.options.Get(name)
	if err != nil {
		return result, err
	}
	result.Previous = previous

	if previous.Equal(v) {
		slog.DebugContext(ctx, "option unchanged", slog.String("option", name))

		return result, nil
	}
	result.Changed = true

	change := Change{Option: name, Previous: previous, Current: v}
	onChange, afterPersist := e.hooks.Hooks(name)

	hookErr := runHooks(ctx, onChange, change)

	if err := e.options.Set(name, v); err != nil {
		return result, err
	}
	if err := e.options.Flush(ctx); err != nil {
		return result, err
	}

	slog.InfoContext(ctx, "option changed",
		slog.String("option", name),
		slog.String("previous", logValue(def, previous)),
		slog.String("current", logValue(def, v)),
	)

	hookErr = multierr.Append(hookErr, runHooks(ctx, afterPersist, change))
	if hookErr != nil {
		return result, NewPartialFailureError(name, hookErr)
	}

	return result, nil
}

func (e *Engine) initialValue(ctx context.Context, def option.Definition, prompt PromptFunc) (option.Value, error) {
	if def.Generate == option.GeneratePassword {
		pass, err := strings.GeneratePassword(strings.DefaultPasswordLength)
		if err != nil {
			return option.Unset(def.Type), err
		}

		return def.Parse(pass)
	}

	if prompt != nil {
		raw, err := prompt(ctx, def)
		if err != nil {
			return option.Unset(def.Type), errors.WithMessagef(err, "failed to ask for '%s'", def.Name)
		}
		if raw != "" {
			return def.Parse(raw)
		}
	}

	v, err := def.DefaultValue()
	if err != nil {
		return v, err
	}
	if !v.IsSet() && def.Required {
		return v, errors.WithMessagef(ErrValueRequired, "option '%s'", def.Name)
	}

	return v, nil
}

// logValue hides generated secrets.
func logValue(def option.Definition, v option.Value) string {
	if !v.IsSet() {
		return "<unset>"
	}
	if def.Generate == option.GeneratePassword {
		return "<hidden>"
	}

	return v.String()
}
