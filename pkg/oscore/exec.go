package oscore

import (
	"bytes"
	"context"
	"log"
	"os/exec"

	"github.com/pkg/errors"
)

// ExecFunc runs a command and returns its combined output.
// Implementations return the output even when the command fails.
type ExecFunc func(ctx context.Context, command string, args ...string) (string, error)

func ExecCommand(ctx context.Context, command string, args ...string) error {
	cmd := exec.CommandContext(ctx, command, args...)

	cmd.Stdout = log.Writer()
	cmd.Stderr = log.Writer()
	log.Println('\n', cmd.String())

	return cmd.Run()
}

// ExecCommandWithOutput runs the command and returns stdout and stderr together.
// Tools like ufw and firewall-cmd report idempotent no-ops on either stream,
// so callers need the output of failed runs too.
func ExecCommandWithOutput(ctx context.Context, command string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, command, args...)

	buf := &bytes.Buffer{}
	buf.Grow(1024) //nolint:mnd
	cmd.Stdout = buf
	cmd.Stderr = buf
	log.Println('\n', cmd.String())
	err := cmd.Run()
	if buf.Len() > 0 {
		log.Print(buf.String())
	}
	if err != nil {
		return buf.String(), errors.Wrapf(err, "failed to run command %s", command)
	}

	return buf.String(), nil
}
