package firewall

import (
	"context"
	"strings"

	"github.com/gameap/gamesrvctl/pkg/oscore"
	"go.uber.org/multierr"
)

const firewalldCommand = "firewall-cmd"

var (
	firewalldAlreadyAllowed  = []string{"ALREADY_ENABLED"}
	firewalldNothingToRemove = []string{"NOT_ENABLED"}
)

// Firewalld changes both the runtime and the permanent configuration,
// so rules apply immediately and survive a reload.
type Firewalld struct {
	exec oscore.ExecFunc
}

func NewFirewalld(exec oscore.ExecFunc) *Firewalld {
	if exec == nil {
		exec = oscore.ExecCommandWithOutput
	}

	return &Firewalld{exec: exec}
}

func (f *Firewalld) Name() string {
	return "firewalld"
}

func (f *Firewalld) Allow(ctx context.Context, port int, protocol Protocol, _ string) error {
	if !validPort(port) {
		return NewError("allow", port, protocol, errInvalidPort)
	}

	err := f.run(ctx, "--add-port="+portSpec(port, protocol, "/"), firewalldAlreadyAllowed)
	if err != nil {
		return NewError("allow", port, protocol, err)
	}

	return nil
}

func (f *Firewalld) Remove(ctx context.Context, port int, protocol Protocol) error {
	if !validPort(port) {
		return NewError("remove", port, protocol, errInvalidPort)
	}

	err := f.run(ctx, "--remove-port="+portSpec(port, protocol, "/"), firewalldNothingToRemove)
	if err != nil {
		return NewError("remove", port, protocol, err)
	}

	return nil
}

func (f *Firewalld) run(ctx context.Context, arg string, noop []string) error {
	var result error

	for _, args := range [][]string{{arg}, {"--permanent", arg}} {
		out, err := f.exec(ctx, firewalldCommand, args...)
		if err != nil && !containsAny(out, noop) {
			result = multierr.Append(result, withOutput(err, out))
		}
	}

	return result
}

// Active reports whether firewalld is installed and running.
func (f *Firewalld) Active(ctx context.Context) bool {
	out, err := f.exec(ctx, firewalldCommand, "--state")
	if err != nil {
		return false
	}

	return strings.TrimSpace(out) == "running"
}
