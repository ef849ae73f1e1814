// Package definition holds the declarative descriptions of the game servers
// gamesrvctl can manage: option declarations, config backings, firewall
// ports and the console used for live queries.
package definition

import (
	"embed"
	"sort"
	"strings"
	"sync"

	"github.com/gameap/gamesrvctl/pkg/firewall"
	"github.com/gameap/gamesrvctl/pkg/option"
	"github.com/gameap/gamesrvctl/pkg/query"
	"github.com/goccy/go-yaml"
	"github.com/pkg/errors"
)

//go:embed *.yaml
var fs embed.FS

const (
	BackingTypeINI   = "ini"
	BackingTypeFlags = "flags"
)

type Definition struct {
	Name        string              `yaml:"name"`
	Title       string              `yaml:"title"`
	Description string              `yaml:"description"`
	Unit        string              `yaml:"unit"`
	Backings    []Backing           `yaml:"backings"`
	Options     []option.Definition `yaml:"options"`
	Ports       []Port              `yaml:"ports"`
	Query       Query               `yaml:"query"`
	FirstRun    []string            `yaml:"first-run"`
}

type Backing struct {
	Name      string `yaml:"name"`
	Type      string `yaml:"type"`
	Path      string `yaml:"path"`
	Section   string `yaml:"section,omitempty"`
	Template  string `yaml:"template,omitempty"`
	Separator string `yaml:"separator,omitempty"`
	Rank      int    `yaml:"rank"`

	// ReloadUnits marks backings read by the service manager.
	// Changing an option stored here reloads units after the write.
	ReloadUnits bool `yaml:"reload-units,omitempty"`
}

type Port struct {
	Option      string            `yaml:"option"`
	Protocol    firewall.Protocol `yaml:"protocol"`
	Description string            `yaml:"description"`
}

type Query struct {
	Protocol       query.Protocol `yaml:"protocol"`
	Host           string         `yaml:"host,omitempty"`
	PortOption     string         `yaml:"port-option"`
	PasswordOption string         `yaml:"password-option,omitempty"`
	EnabledOption  string         `yaml:"enabled-option,omitempty"`

	// Say is the console command broadcasting {{message}} to players.
	Say string `yaml:"say,omitempty"`
	// Save is the console command forcing a world save.
	Save string `yaml:"save,omitempty"`
}

const MessagePlaceholder = "{{message}}"

// SayCommand returns the broadcast command for message, ok is false when the game has none.
func (q Query) SayCommand(message string) (string, bool) {
	if q.Say == "" {
		return "", false
	}

	return strings.ReplaceAll(q.Say, MessagePlaceholder, message), true
}

// Paths are substituted into backing paths and templates.
type Paths struct {
	Dir     string
	UnitDir string
}

var (
	cache      = make(map[string]Definition)
	cacheMutex sync.RWMutex
)

// Names returns the names of all embedded definitions.
func Names() []string {
	entries, err := fs.ReadDir(".")
	if err != nil {
		return nil
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if name, ok := strings.CutSuffix(entry.Name(), ".yaml"); ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	return names
}

// Load returns the embedded definition with the given name.
func Load(name string) (Definition, error) {
	cacheMutex.RLock()
	if cached, exists := cache[name]; exists {
		cacheMutex.RUnlock()

		return cached, nil
	}
	cacheMutex.RUnlock()

	cacheMutex.Lock()
	defer cacheMutex.Unlock()

	data, err := fs.ReadFile(name + ".yaml")
	if err != nil {
		return Definition{}, NewUnknownGameError(name)
	}

	def, err := Parse(data)
	if err != nil {
		return Definition{}, errors.WithMessagef(err, "invalid definition '%s'", name)
	}

	cache[name] = def

	return def, nil
}

func Parse(data []byte) (Definition, error) {
	var def Definition

	if err := yaml.Unmarshal(data, &def); err != nil {
		return Definition{}, errors.Wrap(err, "failed to unmarshal definition")
	}

	if err := def.Validate(); err != nil {
		return Definition{}, err
	}

	return def, nil
}

func (d Definition) Option(name string) (option.Definition, bool) {
	for _, o := range d.Options {
		if o.Name == name {
			return o, true
		}
	}

	return option.Definition{}, false
}

func (d Definition) Backing(name string) (Backing, bool) {
	for _, b := range d.Backings {
		if b.Name == name {
			return b, true
		}
	}

	return Backing{}, false
}

// Expand substitutes {{dir}}, {{unit-dir}} and {{unit}} in backing paths and templates.
func (d Definition) Expand(paths Paths) Definition {
	r := strings.NewReplacer(
		"{{dir}}", paths.Dir,
		"{{unit-dir}}", paths.UnitDir,
		"{{unit}}", d.Unit,
	)

	result := d
	result.Backings = make([]Backing, len(d.Backings))
	for i, b := range d.Backings {
		b.Path = r.Replace(b.Path)
		b.Template = r.Replace(b.Template)
		result.Backings[i] = b
	}

	return result
}
