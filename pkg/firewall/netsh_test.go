package firewall_test

import (
	"context"
	"testing"

	"github.com/gameap/gamesrvctl/pkg/firewall"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const netshShowRule = "netsh advfirewall firewall show rule name=gamesrvctl 2456/udp"

func Test_Netsh_AllowAddsMissingRule(t *testing.T) {
	stub := newExecStub().on(netshShowRule, "No rules match the specified criteria.\n", true)
	fw := firewall.NewNetsh(stub.exec)

	err := fw.Allow(context.Background(), 2456, firewall.UDP, "Valheim game port")

	require.NoError(t, err)
	require.Len(t, stub.calls, 2)
	assert.Equal(t,
		"netsh advfirewall firewall add rule name=gamesrvctl 2456/udp dir=in action=allow "+
			"protocol=UDP localport=2456 description=Valheim game port",
		stub.calls[1],
	)
}

func Test_Netsh_AllowSkipsExistingRule(t *testing.T) {
	stub := newExecStub().on(netshShowRule, "Rule Name:  gamesrvctl 2456/udp\nEnabled: Yes\n", false)
	fw := firewall.NewNetsh(stub.exec)

	err := fw.Allow(context.Background(), 2456, firewall.UDP, "Valheim game port")

	require.NoError(t, err)
	assert.Equal(t, []string{netshShowRule}, stub.calls)
}

func Test_Netsh_RemoveMissingRuleSucceeds(t *testing.T) {
	stub := newExecStub().on(
		"netsh advfirewall firewall delete rule name=gamesrvctl 2456/udp",
		"No rules match the specified criteria.\n",
		true,
	)
	fw := firewall.NewNetsh(stub.exec)

	require.NoError(t, fw.Remove(context.Background(), 2456, firewall.UDP))
}
