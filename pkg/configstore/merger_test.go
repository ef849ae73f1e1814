package configstore_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/gameap/gamesrvctl/pkg/configstore"
	"github.com/gameap/gamesrvctl/pkg/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string {
	return &s
}

func testDefinitions() []option.Definition {
	return []option.Definition{
		{Name: "Server Name", Key: "-name", Backing: "cli", Type: option.TypeString, Default: strPtr("My Server")},
		{Name: "Server Port", Key: "-port", Backing: "cli", Type: option.TypeInt, Default: strPtr("2456")},
		{Name: "RCON Port", Key: "rcon_port", Backing: "manager", Type: option.TypeInt},
		{Name: "Enable RCON", Key: "enable_rcon", Backing: "manager", Type: option.TypeBool},
	}
}

type testPaths struct {
	ini      string
	override string
}

func newTestMerger(t *testing.T, paths testPaths) *configstore.Merger {
	t.Helper()

	flags, err := configstore.NewFlags("cli", paths.override, overrideTemplate, " ")
	require.NoError(t, err)

	m, err := configstore.NewMerger(
		testDefinitions(),
		configstore.Backing{Store: configstore.NewINI("manager", paths.ini, ""), Rank: 10},
		configstore.Backing{Store: flags, Rank: 20},
	)
	require.NoError(t, err)

	return m
}

func newTestPaths(t *testing.T) testPaths {
	t.Helper()

	dir := t.TempDir()

	return testPaths{
		ini:      filepath.Join(dir, ".settings.ini"),
		override: filepath.Join(dir, "valheim-server.service.d", "override.conf"),
	}
}

func Test_Merger_RoundTripTyped(t *testing.T) {
	paths := newTestPaths(t)
	m := newTestMerger(t, paths)

	require.NoError(t, m.Set("Server Port", option.Int(2457)))

	v, err := m.Get("Server Port")
	require.NoError(t, err)
	port, ok := v.Int()
	require.True(t, ok, "value must be an integer")
	assert.Equal(t, 2457, port)

	require.NoError(t, m.Flush(context.Background()))

	reopened := newTestMerger(t, paths)
	v, source, err := reopened.Lookup("Server Port")
	require.NoError(t, err)
	port, ok = v.Int()
	require.True(t, ok, "value must be an integer after reopening")
	assert.Equal(t, 2457, port)
	assert.Equal(t, "cli", source)
}

func Test_Merger_UnsetIsDistinct(t *testing.T) {
	m := newTestMerger(t, newTestPaths(t))

	v, err := m.Get("Server Name")
	require.NoError(t, err)
	assert.False(t, v.IsSet())

	has, err := m.Has("Server Name")
	require.NoError(t, err)
	assert.False(t, has)

	effective, err := m.Effective("Server Name")
	require.NoError(t, err)
	name, ok := effective.Str()
	assert.True(t, ok)
	assert.Equal(t, "My Server", name)
}

func Test_Merger_WritesOnlyToAuthoritativeBacking(t *testing.T) {
	paths := newTestPaths(t)
	m := newTestMerger(t, paths)

	require.NoError(t, m.Set("RCON Port", option.Int(2458)))
	require.NoError(t, m.Flush(context.Background()))

	_, err := os.Stat(paths.override)
	assert.True(t, os.IsNotExist(err), "override must not be written for a manager option")

	data, err := os.ReadFile(paths.ini)
	require.NoError(t, err)
	assert.Contains(t, string(data), "rcon_port")
}

func Test_Merger_FallsThroughByRank(t *testing.T) {
	paths := newTestPaths(t)
	require.NoError(t, os.WriteFile(paths.ini, []byte("[manager]\n-port = 2470\nrcon_port = 2458\n"), 0600))

	m := newTestMerger(t, paths)

	v, source, err := m.Lookup("Server Port")
	require.NoError(t, err)
	assert.Equal(t, "manager", source)
	assert.Equal(t, 2470, v.Interface())

	require.NoError(t, m.Set("Server Port", option.Int(2456)))

	v, source, err = m.Lookup("Server Port")
	require.NoError(t, err)
	assert.Equal(t, "cli", source)
	assert.Equal(t, 2456, v.Interface())
}

func Test_Merger_Errors(t *testing.T) {
	paths := newTestPaths(t)
	require.NoError(t, os.WriteFile(paths.ini, []byte("[manager]\nrcon_port = not-a-number\n"), 0600))
	m := newTestMerger(t, paths)

	t.Run("unknown option", func(t *testing.T) {
		_, err := m.Get("Nope")

		var unknownErr *configstore.UnknownOptionError
		require.ErrorAs(t, err, &unknownErr)
	})

	t.Run("stored value of wrong type", func(t *testing.T) {
		_, err := m.Get("RCON Port")

		var formatErr *option.FormatError
		require.ErrorAs(t, err, &formatErr)
	})

	t.Run("set value of wrong type", func(t *testing.T) {
		err := m.Set("Server Port", option.String("2456"))

		var formatErr *option.FormatError
		require.ErrorAs(t, err, &formatErr)
	})

	t.Run("unrecognized backing file", func(t *testing.T) {
		require.NoError(t, os.MkdirAll(filepath.Dir(paths.override), 0755))
		require.NoError(t, os.WriteFile(paths.override, []byte("garbage\n"), 0600))
		broken := newTestMerger(t, paths)

		_, err := broken.Get("Server Name")

		var formatErr *configstore.FormatError
		require.ErrorAs(t, err, &formatErr)
	})
}

func Test_NewMerger_Validation(t *testing.T) {
	ini := configstore.NewINI("manager", filepath.Join(t.TempDir(), "x.ini"), "")

	_, err := configstore.NewMerger(
		[]option.Definition{{Name: "A", Key: "a", Backing: "missing", Type: option.TypeString}},
		configstore.Backing{Store: ini},
	)
	require.Error(t, err)

	_, err = configstore.NewMerger(
		[]option.Definition{{Name: "A", Key: "a", Backing: "manager", Type: "float"}},
		configstore.Backing{Store: ini},
	)
	require.Error(t, err)
}

func Test_Merger_DashPrefixedValueIsStable(t *testing.T) {
	paths := newTestPaths(t)
	m := newTestMerger(t, paths)

	require.NoError(t, m.Set("Server Name", option.String("-=Vikings=-")))
	require.NoError(t, m.Flush(context.Background()))

	reopened := newTestMerger(t, paths)

	name, err := reopened.Get("Server Name")
	require.NoError(t, err)
	assert.True(t, name.Equal(option.String("-=Vikings=-")), "got %q", name.String())

	port, err := reopened.Get("Server Port")
	require.NoError(t, err)
	assert.False(t, port.IsSet())
}
