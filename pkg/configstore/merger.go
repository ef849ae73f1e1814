package configstore

import (
	"context"
	"sort"

	"github.com/gameap/gamesrvctl/pkg/option"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"go.uber.org/multierr"
)

// Backing is a Store attached to a Merger. Higher Rank is consulted first.
type Backing struct {
	Store Store
	Rank  int
}

// Merger presents one typed option namespace over several backings.
// Reads fall through backings in descending rank,
// writes always go to the backing named by the option definition.
type Merger struct {
	backings []Backing
	byName   map[string]Store
	defs     map[string]option.Definition
	order    []string
}

func NewMerger(defs []option.Definition, backings ...Backing) (*Merger, error) {
	sorted := make([]Backing, len(backings))
	copy(sorted, backings)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Rank > sorted[j].Rank
	})

	m := &Merger{
		backings: sorted,
		byName:   make(map[string]Store, len(backings)),
		defs:     make(map[string]option.Definition, len(defs)),
		order:    make([]string, 0, len(defs)),
	}

	for _, b := range sorted {
		if _, exists := m.byName[b.Store.Name()]; exists {
			return nil, errors.Errorf("duplicate backing '%s'", b.Store.Name())
		}
		m.byName[b.Store.Name()] = b.Store
	}

	for _, def := range defs {
		if def.Name == "" || def.Key == "" {
			return nil, errors.Errorf("option '%s' must have name and key", def.Name)
		}
		if _, exists := m.defs[def.Name]; exists {
			return nil, errors.Errorf("duplicate option '%s'", def.Name)
		}
		if !def.Type.Valid() {
			return nil, errors.Errorf("option '%s' has unknown type '%s'", def.Name, def.Type)
		}
		if _, ok := m.byName[def.Backing]; !ok {
			return nil, errors.Errorf("option '%s' refers to unknown backing '%s'", def.Name, def.Backing)
		}
		m.defs[def.Name] = def
		m.order = append(m.order, def.Name)
	}

	for name, store := range m.byName {
		declarer, ok := store.(keyDeclarer)
		if !ok {
			continue
		}

		declarer.Declare(lo.FilterMap(defs, func(def option.Definition, _ int) (string, bool) {
			return def.Key, def.Backing == name
		})...)
	}

	return m, nil
}

// keyDeclarer is implemented by backings that parse better knowing their keys.
type keyDeclarer interface {
	Declare(keys ...string)
}

func (m *Merger) Definition(name string) (option.Definition, error) {
	def, ok := m.defs[name]
	if !ok {
		return option.Definition{}, NewUnknownOptionError(name)
	}

	return def, nil
}

// Definitions returns option definitions in declaration order.
func (m *Merger) Definitions() []option.Definition {
	return lo.Map(m.order, func(name string, _ int) option.Definition {
		return m.defs[name]
	})
}

func (m *Merger) Backing(name string) (Store, bool) {
	s, ok := m.byName[name]

	return s, ok
}

// Lookup returns the value of the option and the name of the backing it was found in.
// An option absent from every backing is returned unset with an empty source.
func (m *Merger) Lookup(name string) (option.Value, string, error) {
	def, err := m.Definition(name)
	if err != nil {
		return option.Value{}, "", err
	}

	for _, b := range m.backings {
		raw, ok, err := b.Store.Get(def.Key)
		if err != nil {
			return option.Unset(def.Type), "", err
		}
		if !ok {
			continue
		}

		v, err := def.Parse(raw)
		if err != nil {
			return option.Unset(def.Type), "", err
		}

		return v, b.Store.Name(), nil
	}

	return option.Unset(def.Type), "", nil
}

func (m *Merger) Get(name string) (option.Value, error) {
	v, _, err := m.Lookup(name)

	return v, err
}

func (m *Merger) Has(name string) (bool, error) {
	v, err := m.Get(name)
	if err != nil {
		return false, err
	}

	return v.IsSet(), nil
}

// Effective returns the stored value, or the declared default when unset.
func (m *Merger) Effective(name string) (option.Value, error) {
	v, err := m.Get(name)
	if err != nil || v.IsSet() {
		return v, err
	}

	def, err := m.Definition(name)
	if err != nil {
		return v, err
	}

	return def.DefaultValue()
}

// Set writes the value to the authoritative backing in memory. An unset value deletes the key.
func (m *Merger) Set(name string, v option.Value) error {
	def, err := m.Definition(name)
	if err != nil {
		return err
	}

	store := m.byName[def.Backing]

	if !v.IsSet() {
		return store.Delete(def.Key)
	}

	if v.Type() != def.Type {
		return option.NewFormatError(def.Name, def.Type, v.String())
	}

	return store.Set(def.Key, def.Format(v))
}

// Flush flushes every backing. Errors of all backings are returned together.
func (m *Merger) Flush(ctx context.Context) error {
	var err error

	for _, b := range m.backings {
		if ferr := b.Store.Flush(ctx); ferr != nil {
			err = multierr.Append(err, ferr)
		}
	}

	return err
}
