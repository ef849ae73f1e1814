package firewall

import (
	"context"
	"strings"

	"github.com/gameap/gamesrvctl/pkg/oscore"
	"github.com/pkg/errors"
)

const ufwCommand = "ufw"

var (
	ufwAlreadyAllowed  = []string{"Skipping adding existing rule"}
	ufwNothingToRemove = []string{"Could not delete non-existent rule"}
)

type UFW struct {
	exec oscore.ExecFunc
}

func NewUFW(exec oscore.ExecFunc) *UFW {
	if exec == nil {
		exec = oscore.ExecCommandWithOutput
	}

	return &UFW{exec: exec}
}

func (f *UFW) Name() string {
	return "ufw"
}

func (f *UFW) Allow(ctx context.Context, port int, protocol Protocol, description string) error {
	if !validPort(port) {
		return NewError("allow", port, protocol, errInvalidPort)
	}

	args := []string{"allow", portSpec(port, protocol, "/")}
	if description != "" {
		args = append(args, "comment", description)
	}

	out, err := f.exec(ctx, ufwCommand, args...)
	if err != nil && !containsAny(out, ufwAlreadyAllowed) {
		return NewError("allow", port, protocol, withOutput(err, out))
	}

	return nil
}

func (f *UFW) Remove(ctx context.Context, port int, protocol Protocol) error {
	if !validPort(port) {
		return NewError("remove", port, protocol, errInvalidPort)
	}

	out, err := f.exec(ctx, ufwCommand, "delete", "allow", portSpec(port, protocol, "/"))
	if err != nil && !containsAny(out, ufwNothingToRemove) {
		return NewError("remove", port, protocol, withOutput(err, out))
	}

	return nil
}

// Active reports whether ufw is installed and enabled.
func (f *UFW) Active(ctx context.Context) bool {
	out, err := f.exec(ctx, ufwCommand, "status")
	if err != nil {
		return false
	}

	return strings.Contains(out, "Status: active")
}

var errInvalidPort = errors.New("port must be between 1 and 65535")

func containsAny(s string, substrings []string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}

	return false
}

func withOutput(err error, out string) error {
	out = strings.TrimSpace(out)
	if out == "" {
		return err
	}

	return errors.WithMessage(err, out)
}
