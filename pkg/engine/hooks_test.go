package engine_test

import (
	"context"
	"testing"

	"github.com/gameap/gamesrvctl/pkg/engine"
	"github.com/gameap/gamesrvctl/pkg/firewall"
	"github.com/gameap/gamesrvctl/pkg/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_PortHook(t *testing.T) {
	tests := []struct {
		name      string
		previous  option.Value
		current   option.Value
		wantCalls []string
		wantErr   bool
	}{
		{
			name:      "first value",
			previous:  option.Unset(option.TypeInt),
			current:   option.Int(2456),
			wantCalls: []string{"allow 2456/tcp"},
		},
		{
			name:      "changed",
			previous:  option.Int(2456),
			current:   option.Int(2457),
			wantCalls: []string{"remove 2456/tcp", "allow 2457/tcp"},
		},
		{
			name:      "removed",
			previous:  option.Int(2456),
			current:   option.Unset(option.TypeInt),
			wantCalls: []string{"remove 2456/tcp"},
		},
		{
			name:     "not an integer",
			previous: option.Unset(option.TypeString),
			current:  option.String("2456"),
			wantErr:  true,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			fw := newRecordingFirewall()
			hook := engine.PortHook(fw, firewall.TCP, "Valheim game port")

			err := hook.Run(context.Background(), engine.Change{
				Option:   "Server Port",
				Previous: test.previous,
				Current:  test.current,
			})

			if test.wantErr {
				require.Error(t, err)

				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.wantCalls, fw.calls)
		})
	}
}

func Test_Registry(t *testing.T) {
	reloader := &countingReloader{}
	r := engine.NewRegistry().
		AfterPersist("Server Name", engine.ReloadUnitsHook(reloader)).
		OnChange("Game Port", engine.PortHook(newRecordingFirewall(), firewall.UDP, "")).
		AfterPersist("Game Port", engine.ReloadUnitsHook(reloader))

	assert.Equal(t, []string{"Server Name", "Game Port"}, r.Options())

	onChange, afterPersist := r.Hooks("Game Port")
	require.Len(t, onChange, 1)
	require.Len(t, afterPersist, 1)
	assert.Equal(t, "firewall udp", onChange[0].Name)
	assert.Equal(t, "reload units", afterPersist[0].Name)

	onChange, afterPersist = r.Hooks("Join Password")
	assert.Empty(t, onChange)
	assert.Empty(t, afterPersist)
}
