package strings_test

import (
	"testing"

	"github.com/gameap/gamesrvctl/pkg/strings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_GeneratePassword(t *testing.T) {
	first, err := strings.GeneratePassword(strings.DefaultPasswordLength)
	require.NoError(t, err)
	second, err := strings.GeneratePassword(strings.DefaultPasswordLength)
	require.NoError(t, err)

	assert.Len(t, first, strings.DefaultPasswordLength)
	assert.Regexp(t, `^[a-zA-Z0-9]+$`, first)
	assert.NotEqual(t, first, second)
}
