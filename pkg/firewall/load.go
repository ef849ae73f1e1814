package firewall

import (
	"context"
	"log/slog"
	"os/exec"
	"sync"

	contextInternal "github.com/gameap/gamesrvctl/internal/context"
	osinfo "github.com/gameap/gamesrvctl/pkg/os_info"
	"github.com/gameap/gamesrvctl/pkg/oscore"
)

var (
	once     = sync.Once{}
	firewall Firewall
)

// Load picks the firewall of this host once per process.
//
//nolint:ireturn,nolintlint
func Load(ctx context.Context) Firewall {
	once.Do(func() {
		firewall = detect(ctx, contextInternal.OSInfoFromContext(ctx), exec.LookPath, oscore.ExecCommandWithOutput)

		slog.DebugContext(ctx, "firewall detected", slog.String("firewall", firewall.Name()))
	})

	return firewall
}

type lookPathFunc func(file string) (string, error)

//nolint:ireturn,nolintlint
func detect(ctx context.Context, info osinfo.Info, lookPath lookPathFunc, execFn oscore.ExecFunc) Firewall {
	if info.IsWindows() {
		return NewNetsh(execFn)
	}

	available := func(command string) bool {
		_, err := lookPath(command)

		return err == nil
	}

	var ufw *UFW
	if available(ufwCommand) {
		ufw = NewUFW(execFn)
		if ufw.Active(ctx) {
			return ufw
		}
	}

	var firewalld *Firewalld
	if available(firewalldCommand) {
		firewalld = NewFirewalld(execFn)
		if firewalld.Active(ctx) {
			return firewalld
		}
	}

	// installed but disabled: prefer the distribution default so rules are
	// in place once the administrator turns the firewall on
	switch {
	case ufw != nil && (firewalld == nil || info.IsFamily("debian", "ubuntu")):
		return ufw
	case firewalld != nil:
		return firewalld
	}

	return NewNone()
}
