package actions

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/gameap/gamesrvctl/internal/pkg/gamesrvctl"
	"github.com/gameap/gamesrvctl/pkg/engine"
	"github.com/gameap/gamesrvctl/pkg/firewall"
	"github.com/gameap/gamesrvctl/pkg/option"
	"github.com/gameap/gamesrvctl/pkg/oscore"
	"github.com/gameap/gamesrvctl/pkg/service"
	"github.com/gameap/gamesrvctl/pkg/utils"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"golang.org/x/term"
)

const (
	FlagGame           = "game"
	FlagDir            = "dir"
	FlagUnitDir        = "unit-dir"
	FlagNonInteractive = "non-interactive"
)

// ManagerFlags are shared by every command working with a game server.
func ManagerFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    FlagGame,
			Value:   gamesrvctl.DefaultGame,
			EnvVars: []string{"GAMESRVCTL_GAME"},
			Usage:   "Game definition",
		},
		&cli.StringFlag{
			Name:    FlagDir,
			EnvVars: []string{"GAMESRVCTL_DIR"},
			Usage:   "Game server directory (default: /srv/<game>)",
		},
		&cli.StringFlag{
			Name:    FlagUnitDir,
			Value:   gamesrvctl.DefaultUnitDir,
			EnvVars: []string{"GAMESRVCTL_UNIT_DIR"},
			Usage:   "Directory of systemd unit files",
		},
	}
}

func ConfigFromCLI(cliCtx *cli.Context) gamesrvctl.Config {
	return gamesrvctl.Config{
		Game:    cliCtx.String(FlagGame),
		Dir:     cliCtx.String(FlagDir),
		UnitDir: cliCtx.String(FlagUnitDir),
	}.WithDefaults()
}

// LoadManager builds the manager for the game selected by flags
// with the detected service manager and firewall.
func LoadManager(cliCtx *cli.Context) (*gamesrvctl.Manager, error) {
	ctx := cliCtx.Context

	svc, err := service.Load(ctx)
	if err != nil {
		return nil, errors.WithMessage(err, "failed to detect service manager")
	}

	m, err := gamesrvctl.New(ConfigFromCLI(cliCtx), svc, firewall.Load(ctx))
	if err != nil {
		return nil, errors.WithMessage(err, "failed to load game server")
	}

	return m, nil
}

// Prompt asks for option values on the terminal.
// Without a terminal, or when non-interactive is set, defaults are used.
func Prompt(cliCtx *cli.Context) engine.PromptFunc {
	if cliCtx.Bool(FlagNonInteractive) || !term.IsTerminal(int(os.Stdin.Fd())) { //nolint:gosec
		return nil
	}

	return func(_ context.Context, def option.Definition) (string, error) {
		optional := !def.Required || def.Default != nil

		return utils.Ask(question(def), optional, validator(def))
	}
}

func question(def option.Definition) string {
	b := strings.Builder{}
	b.Grow(64) //nolint:mnd

	b.WriteString(def.Name)
	if def.Help != "" {
		b.WriteString(" (")
		b.WriteString(def.Help)
		b.WriteString(")")
	}
	if def.Default != nil {
		b.WriteString(" [")
		b.WriteString(*def.Default)
		b.WriteString("]")
	}
	b.WriteString(": ")

	return b.String()
}

func validator(def option.Definition) func(string) (bool, string) {
	return func(answer string) (bool, string) {
		if answer == "" {
			if def.Required && def.Default == nil {
				return false, fmt.Sprintf("%s is required", def.Name)
			}

			return true, ""
		}

		if _, err := def.Parse(answer); err != nil {
			return false, err.Error()
		}

		return true, ""
	}
}

// RequirePrivileged fails when the command cannot change system configuration.
func RequirePrivileged(cliCtx *cli.Context) error {
	if err := oscore.RequirePrivileged(); err != nil {
		return errors.WithMessagef(err, "'%s' changes system configuration", cliCtx.Command.Name)
	}

	return nil
}
