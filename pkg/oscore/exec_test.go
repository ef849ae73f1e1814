//go:build !windows

package oscore_test

import (
	"context"
	"testing"

	"github.com/gameap/gamesrvctl/pkg/oscore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_ExecCommandWithOutput(t *testing.T) {
	out, err := oscore.ExecCommandWithOutput(context.Background(), "sh", "-c", "echo out; echo err >&2")

	require.NoError(t, err)
	assert.Contains(t, out, "out")
	assert.Contains(t, out, "err")
}

func Test_ExecCommandWithOutput_FailureKeepsOutput(t *testing.T) {
	out, err := oscore.ExecCommandWithOutput(context.Background(), "sh", "-c", "echo Skipping adding existing rule >&2; exit 1")

	require.Error(t, err)
	assert.Contains(t, out, "Skipping adding existing rule")
}
