package utils_test

import (
	"testing"

	"github.com/gameap/gamesrvctl/pkg/utils"
	"github.com/stretchr/testify/assert"
)

func Test_IsCommandAvailable(t *testing.T) {
	assert.False(t, utils.IsCommandAvailable("gamesrvctl-no-such-command"))
}
