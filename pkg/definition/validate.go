package definition

import (
	"strings"

	"github.com/gameap/gamesrvctl/pkg/configstore"
	"github.com/gameap/gamesrvctl/pkg/firewall"
	"github.com/gameap/gamesrvctl/pkg/option"
	"github.com/gameap/gamesrvctl/pkg/query"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// Validate reports every problem of the definition at once.
//
//nolint:gocognit,funlen
func (d Definition) Validate() error {
	var result error

	fail := func(format string, args ...any) {
		result = multierr.Append(result, errors.Errorf(format, args...))
	}

	if d.Name == "" {
		fail("name is required")
	}
	if d.Unit == "" {
		fail("unit is required")
	}

	backings := map[string]Backing{}
	for _, b := range d.Backings {
		if _, exists := backings[b.Name]; exists {
			fail("duplicate backing '%s'", b.Name)
		}
		backings[b.Name] = b

		switch b.Type {
		case BackingTypeINI:
		case BackingTypeFlags:
			if _, err := configstore.NewFlags(b.Name, b.Path, b.Template, b.Separator); err != nil {
				fail("backing '%s': %v", b.Name, err)
			}
		default:
			fail("backing '%s' has unknown type '%s'", b.Name, b.Type)
		}
		if b.Path == "" {
			fail("backing '%s' has no path", b.Name)
		}
	}

	options := map[string]option.Definition{}
	for _, o := range d.Options {
		if _, exists := options[o.Name]; exists {
			fail("duplicate option '%s'", o.Name)
		}
		options[o.Name] = o

		if !o.Type.Valid() {
			fail("option '%s' has unknown type '%s'", o.Name, o.Type)
		}
		if _, ok := backings[o.Backing]; !ok {
			fail("option '%s' refers to unknown backing '%s'", o.Name, o.Backing)
		}
		if o.Default != nil && o.Type.Valid() {
			if _, err := o.DefaultValue(); err != nil {
				fail("option '%s' has invalid default: %v", o.Name, err)
			}
		}
		if o.Generate != "" && (o.Generate != option.GeneratePassword || o.Type != option.TypeString) {
			fail("option '%s' cannot be generated as '%s'", o.Name, o.Generate)
		}
	}

	requireOption := func(context, name string, typ option.Type) {
		o, ok := options[name]
		if !ok {
			fail("%s refers to unknown option '%s'", context, name)

			return
		}
		if typ != "" && o.Type != typ {
			fail("%s option '%s' must be of type %s", context, name, typ)
		}
	}

	for _, p := range d.Ports {
		requireOption("port", p.Option, option.TypeInt)
		if _, err := firewall.ParseProtocol(string(p.Protocol)); err != nil {
			fail("port '%s': %v", p.Option, err)
		}
	}

	if d.Query.Protocol != "" {
		if _, err := query.ParseProtocol(string(d.Query.Protocol)); err != nil {
			fail("query: %v", err)
		}
		requireOption("query port", d.Query.PortOption, option.TypeInt)
		if d.Query.PasswordOption != "" {
			requireOption("query password", d.Query.PasswordOption, option.TypeString)
		}
		if d.Query.EnabledOption != "" {
			requireOption("query enabled", d.Query.EnabledOption, option.TypeBool)
		}
		if d.Query.Say != "" && !strings.Contains(d.Query.Say, MessagePlaceholder) {
			fail("query say command must contain %s", MessagePlaceholder)
		}
	} else if d.Query.Say != "" || d.Query.Save != "" {
		fail("query commands require a query protocol")
	}

	for _, name := range d.FirstRun {
		requireOption("first-run", name, "")
	}

	return result
}
