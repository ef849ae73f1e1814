// Package gamesrvctl wires a game definition to its config backings,
// reconciliation engine, service manager, firewall and console.
package gamesrvctl

import (
	"context"

	"github.com/gameap/gamesrvctl/pkg/configstore"
	"github.com/gameap/gamesrvctl/pkg/definition"
	"github.com/gameap/gamesrvctl/pkg/engine"
	"github.com/gameap/gamesrvctl/pkg/firewall"
	"github.com/gameap/gamesrvctl/pkg/option"
	"github.com/gameap/gamesrvctl/pkg/query"
	"github.com/gameap/gamesrvctl/pkg/service"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

var ErrCommandNotDefined = errors.New("console command is not defined for this game")

type Manager struct {
	Definition definition.Definition
	Engine     *engine.Engine
	Service    service.Service
	Firewall   firewall.Firewall

	// overridable in tests
	newSender func(cfg query.Config) query.Sender
}

func New(cfg Config, svc service.Service, fw firewall.Firewall) (*Manager, error) {
	cfg = cfg.WithDefaults()

	def, err := definition.Load(cfg.Game)
	if err != nil {
		return nil, err
	}

	return NewFromDefinition(def, cfg, svc, fw)
}

func NewFromDefinition(
	def definition.Definition, cfg Config, svc service.Service, fw firewall.Firewall,
) (*Manager, error) {
	cfg = cfg.WithDefaults()
	def = def.Expand(definition.Paths{Dir: cfg.Dir, UnitDir: cfg.UnitDir})

	backings := make([]configstore.Backing, 0, len(def.Backings))
	for _, b := range def.Backings {
		store, err := newStore(b)
		if err != nil {
			return nil, err
		}
		backings = append(backings, configstore.Backing{Store: store, Rank: b.Rank})
	}

	merger, err := configstore.NewMerger(def.Options, backings...)
	if err != nil {
		return nil, errors.WithMessagef(err, "invalid definition '%s'", def.Name)
	}

	return &Manager{
		Definition: def,
		Engine:     engine.New(merger, hooks(def, svc, fw)),
		Service:    svc,
		Firewall:   fw,
		newSender: func(cfg query.Config) query.Sender {
			return query.NewClient(cfg)
		},
	}, nil
}

//nolint:ireturn,nolintlint
func newStore(b definition.Backing) (configstore.Store, error) {
	switch b.Type {
	case definition.BackingTypeINI:
		return configstore.NewINI(b.Name, b.Path, b.Section), nil
	case definition.BackingTypeFlags:
		return configstore.NewFlags(b.Name, b.Path, b.Template, b.Separator)
	}

	return nil, errors.Errorf("backing '%s' has unknown type '%s'", b.Name, b.Type)
}

// hooks opens firewall ports for port options and reloads units after
// options stored in launch configuration change.
func hooks(def definition.Definition, svc service.Service, fw firewall.Firewall) *engine.Registry {
	registry := engine.NewRegistry()

	for _, p := range def.Ports {
		registry.OnChange(p.Option, engine.PortHook(fw, p.Protocol, p.Description))
	}

	for _, o := range def.Options {
		b, ok := def.Backing(o.Backing)
		if ok && b.ReloadUnits {
			registry.AfterPersist(o.Name, engine.ReloadUnitsHook(svc))
		}
	}

	return registry
}

func (m *Manager) Unit() string {
	return m.Definition.Unit
}

func (m *Manager) Start(ctx context.Context) error {
	return m.Service.Start(ctx, m.Unit())
}

func (m *Manager) Stop(ctx context.Context) error {
	return m.Service.Stop(ctx, m.Unit())
}

func (m *Manager) Restart(ctx context.Context) error {
	return m.Service.Restart(ctx, m.Unit())
}

// FirstRun ensures every first-run option has a value and re-applies side
// effects of the existing ones. Hook failures do not stop the run, they are
// returned together at the end.
func (m *Manager) FirstRun(ctx context.Context, prompt engine.PromptFunc) ([]engine.Result, error) {
	var (
		results  []engine.Result
		failures error
	)

	for _, name := range m.Definition.FirstRun {
		result, err := m.Engine.EnsureSet(ctx, name, prompt)
		results = append(results, result)

		var partialErr *engine.PartialFailureError
		if errors.As(err, &partialErr) {
			failures = multierr.Append(failures, err)

			continue
		}
		if err != nil {
			return results, err
		}
	}

	if err := m.Engine.Reconcile(ctx); err != nil {
		failures = multierr.Append(failures, err)
	}

	return results, failures
}

// QueryConfig returns the console settings, ok is false when the game has
// no console or it is disabled.
func (m *Manager) QueryConfig() (query.Config, bool, error) {
	q := m.Definition.Query
	if q.Protocol == "" {
		return query.Config{}, false, nil
	}

	if q.EnabledOption != "" {
		enabled, err := m.Engine.Effective(q.EnabledOption)
		if err != nil {
			return query.Config{}, false, err
		}
		if on, _ := enabled.Bool(); !on {
			return query.Config{}, false, nil
		}
	}

	portValue, err := m.Engine.Effective(q.PortOption)
	if err != nil {
		return query.Config{}, false, err
	}
	port, ok := portValue.Int()
	if !ok {
		return query.Config{}, false, nil
	}

	cfg := query.Config{
		Protocol: q.Protocol,
		Host:     q.Host,
		Port:     port,
	}

	if q.PasswordOption != "" {
		password, err := m.Engine.Effective(q.PasswordOption)
		if err != nil {
			return query.Config{}, false, err
		}
		cfg.Password, _ = password.Str()
	}

	return cfg, true, nil
}

// Send passes a command to the console of the running server.
// ok is false when the server is not running or the console is unavailable.
func (m *Manager) Send(ctx context.Context, command string) (response string, ok bool) {
	unit, err := service.Describe(ctx, m.Service, m.Unit())
	if err != nil || !unit.Running() {
		return "", false
	}

	return m.send(ctx, command)
}

// Say broadcasts message to players with the console command of the game.
func (m *Manager) Say(ctx context.Context, message string) (response string, ok bool, err error) {
	command, defined := m.Definition.Query.SayCommand(message)
	if !defined {
		return "", false, ErrCommandNotDefined
	}

	response, ok = m.Send(ctx, command)

	return response, ok, nil
}

// Save forces a world save with the console command of the game.
func (m *Manager) Save(ctx context.Context) (response string, ok bool, err error) {
	if m.Definition.Query.Save == "" {
		return "", false, ErrCommandNotDefined
	}

	response, ok = m.Send(ctx, m.Definition.Query.Save)

	return response, ok, nil
}

func (m *Manager) send(ctx context.Context, command string) (string, bool) {
	cfg, ok, err := m.QueryConfig()
	if err != nil || !ok {
		return "", false
	}

	return m.newSender(cfg).Send(ctx, command)
}

// PlayerCount returns the number of players online, ok is false when unknown.
func (m *Manager) PlayerCount(ctx context.Context) (count int, ok bool) {
	unit, err := service.Describe(ctx, m.Service, m.Unit())
	if err != nil || !unit.Running() {
		return 0, false
	}

	return m.playerCount(ctx)
}

func (m *Manager) playerCount(ctx context.Context) (int, bool) {
	cfg, ok, err := m.QueryConfig()
	if err != nil || !ok {
		return 0, false
	}

	return query.PlayerCount(ctx, m.newSender(cfg))
}

func (m *Manager) Get(name string) (option.Value, error) {
	return m.Engine.Get(name)
}
