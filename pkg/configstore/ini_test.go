package configstore_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/gameap/gamesrvctl/pkg/configstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_INI_SetOnlyPersistsOnFlush(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".settings.ini")
	s := configstore.NewINI("manager", path, "")

	require.NoError(t, s.Set("server_name", "My Server"))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "file must not exist before flush")

	v, ok, err := s.Get("server_name")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "My Server", v)

	require.NoError(t, s.Flush(context.Background()))

	reopened := configstore.NewINI("manager", path, "")
	v, ok, err = reopened.Get("server_name")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "My Server", v)
}

func Test_INI_AbsentKey(t *testing.T) {
	s := configstore.NewINI("manager", filepath.Join(t.TempDir(), "missing.ini"), "")

	v, ok, err := s.Get("rcon_port")

	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, v)
}

func Test_INI_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".settings.ini")
	require.NoError(t, os.WriteFile(path, []byte("[manager]\nthis line has no delimiter\n"), 0600))

	s := configstore.NewINI("manager", path, "")

	_, _, err := s.Get("server_name")

	var formatErr *configstore.FormatError
	require.ErrorAs(t, err, &formatErr)
	assert.Equal(t, "manager", formatErr.Backing)

	err = s.Set("server_name", "x")
	require.ErrorAs(t, err, &formatErr)
}

func Test_INI_PreservesOtherSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".settings.ini")
	require.NoError(t, os.WriteFile(path, []byte("[other]\nkeep = me\n\n[manager]\nserver_name = Old\n"), 0600))

	s := configstore.NewINI("manager", path, "")
	require.NoError(t, s.Set("server_name", "New"))
	require.NoError(t, s.Flush(context.Background()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "keep")
	assert.Contains(t, string(data), "New")
	assert.NotContains(t, string(data), "Old")

	backup, err := os.ReadFile(path + ".bak")
	require.NoError(t, err)
	assert.Contains(t, string(backup), "Old")
}

func Test_INI_ConcurrentWritersKeepBothChanges(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".settings.ini")

	first := configstore.NewINI("manager", path, "")
	second := configstore.NewINI("manager", path, "")

	// both load the empty file before either writes
	_, _, err := first.Get("a")
	require.NoError(t, err)
	_, _, err = second.Get("b")
	require.NoError(t, err)

	require.NoError(t, first.Set("a", "1"))
	require.NoError(t, second.Set("b", "2"))
	require.NoError(t, first.Flush(context.Background()))
	require.NoError(t, second.Flush(context.Background()))

	reopened := configstore.NewINI("manager", path, "")
	a, ok, err := reopened.Get("a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "1", a)
	b, ok, err := reopened.Get("b")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "2", b)
}

func Test_INI_Delete(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".settings.ini")
	require.NoError(t, os.WriteFile(path, []byte("[manager]\nrcon_password = secret\n"), 0600))

	s := configstore.NewINI("manager", path, "")
	require.NoError(t, s.Delete("rcon_password"))
	require.NoError(t, s.Flush(context.Background()))

	ok, err := configstore.NewINI("manager", path, "").Has("rcon_password")
	require.NoError(t, err)
	assert.False(t, ok)
}

func Test_INI_UnnamedSection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.properties")
	require.NoError(t, os.WriteFile(path, []byte("motd=A Minecraft Server\nserver-port=25565\n"), 0600))

	s := configstore.NewINI("properties", path, configstore.UnnamedINISection)

	v, ok, err := s.Get("server-port")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "25565", v)

	require.NoError(t, s.Set("server-port", "25566"))
	require.NoError(t, s.Flush(context.Background()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "[")

	v, ok, err = configstore.NewINI("properties", path, configstore.UnnamedINISection).Get("motd")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "A Minecraft Server", v)
}
