package gamesrvctl

import (
	"path/filepath"
)

const (
	DefaultGame    = "valheim"
	DefaultUnitDir = "/etc/systemd/system"
	defaultBaseDir = "/srv"
)

type Config struct {
	Game    string
	Dir     string
	UnitDir string
}

// WithDefaults fills empty fields. The game directory defaults to /srv/<game>.
func (c Config) WithDefaults() Config {
	if c.Game == "" {
		c.Game = DefaultGame
	}
	if c.Dir == "" {
		c.Dir = filepath.Join(defaultBaseDir, c.Game)
	}
	if c.UnitDir == "" {
		c.UnitDir = DefaultUnitDir
	}

	return c
}
