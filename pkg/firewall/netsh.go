package firewall

import (
	"context"
	"strconv"
	"strings"

	"github.com/gameap/gamesrvctl/pkg/oscore"
)

const netshCommand = "netsh"

var netshNoRules = []string{"No rules match the specified criteria"}

// Netsh manages inbound rules of the Windows Defender Firewall.
// Rules are named after port and protocol so they can be removed
// without knowing their description.
type Netsh struct {
	exec oscore.ExecFunc
}

func NewNetsh(exec oscore.ExecFunc) *Netsh {
	if exec == nil {
		exec = oscore.ExecCommandWithOutput
	}

	return &Netsh{exec: exec}
}

func (f *Netsh) Name() string {
	return "netsh"
}

func (f *Netsh) Allow(ctx context.Context, port int, protocol Protocol, description string) error {
	if !validPort(port) {
		return NewError("allow", port, protocol, errInvalidPort)
	}

	name := netshRuleName(port, protocol)

	out, err := f.exec(ctx, netshCommand, "advfirewall", "firewall", "show", "rule", "name="+name)
	if err == nil && strings.Contains(out, name) {
		return nil
	}

	args := []string{
		"advfirewall", "firewall", "add", "rule",
		"name=" + name,
		"dir=in",
		"action=allow",
		"protocol=" + strings.ToUpper(string(protocol)),
		"localport=" + strconv.Itoa(port),
	}
	if description != "" {
		args = append(args, "description="+description)
	}

	out, err = f.exec(ctx, netshCommand, args...)
	if err != nil {
		return NewError("allow", port, protocol, withOutput(err, out))
	}

	return nil
}

func (f *Netsh) Remove(ctx context.Context, port int, protocol Protocol) error {
	if !validPort(port) {
		return NewError("remove", port, protocol, errInvalidPort)
	}

	out, err := f.exec(ctx, netshCommand,
		"advfirewall", "firewall", "delete", "rule", "name="+netshRuleName(port, protocol),
	)
	if err != nil && !containsAny(out, netshNoRules) {
		return NewError("remove", port, protocol, withOutput(err, out))
	}

	return nil
}

func netshRuleName(port int, protocol Protocol) string {
	return "gamesrvctl " + portSpec(port, protocol, "/")
}
