package app

import (
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gameap/gamesrvctl/internal/actions"
	"github.com/gameap/gamesrvctl/internal/actions/firstrun"
	"github.com/gameap/gamesrvctl/internal/actions/option/get"
	"github.com/gameap/gamesrvctl/internal/actions/option/list"
	"github.com/gameap/gamesrvctl/internal/actions/option/set"
	"github.com/gameap/gamesrvctl/internal/actions/reconcile"
	"github.com/gameap/gamesrvctl/internal/actions/server/players"
	"github.com/gameap/gamesrvctl/internal/actions/server/restart"
	"github.com/gameap/gamesrvctl/internal/actions/server/save"
	"github.com/gameap/gamesrvctl/internal/actions/server/say"
	"github.com/gameap/gamesrvctl/internal/actions/server/send"
	"github.com/gameap/gamesrvctl/internal/actions/server/start"
	"github.com/gameap/gamesrvctl/internal/actions/server/status"
	"github.com/gameap/gamesrvctl/internal/actions/server/stop"
	contextInternal "github.com/gameap/gamesrvctl/internal/context"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

const (
	appName   = "gamesrvctl"
	logDir    = "/var/log/gamesrvctl"
	flagDebug = "debug"
)

// nolint:funlen
func Run(args []string) {
	logPath, logFile, err := openLogFile()
	if err != nil {
		log.Fatalf("error opening log file: %v", err)
	}
	defer logFile.Close()

	level := &slog.LevelVar{}
	log.SetOutput(logFile)
	slog.SetDefault(slog.New(slog.NewTextHandler(logFile, &slog.HandlerOptions{Level: level})))

	app := &cli.App{
		Name:      appName,
		Usage:     "Game server control",
		UsageText: "gamesrvctl [global options] command [command options] [arguments...]",
		Before: func(context *cli.Context) error {
			if context.Bool(flagDebug) {
				level.Set(slog.LevelDebug)
			}

			var err error
			context.Context, err = contextInternal.SetOSContext(context.Context)
			if err != nil {
				return err
			}
			context.Context = contextInternal.ContextWithLogFile(context.Context, logPath)

			return nil
		},
		Flags: append(actions.ManagerFlags(),
			&cli.BoolFlag{
				Name:  actions.FlagNonInteractive,
				Value: false,
				Usage: "Do not ask questions, use defaults",
			},
			&cli.BoolFlag{
				Name:  flagDebug,
				Value: false,
				Usage: "Write debug messages to the log file",
			},
		),
		Commands: []*cli.Command{
			{
				Name:        "first-run",
				Aliases:     []string{"init"},
				Description: "Ask for initial options, generate secrets and open firewall ports",
				Usage:       "Prepare game server",
				Action:      firstrun.Handle,
			},
			{
				Name:        "reconcile",
				Description: "Re-apply firewall rules and unit reloads for every stored option",
				Usage:       "Re-apply side effects of stored options",
				Action:      reconcile.Handle,
			},
			{
				Name:        "option",
				Aliases:     []string{"o"},
				Description: "Game server options",
				Usage:       "Game server options",
				Subcommands: []*cli.Command{
					{
						Name:        "list",
						Aliases:     []string{"ls"},
						Description: "List options with values and defaults",
						Usage:       "List options",
						Action:      list.Handle,
					},
					{
						Name:        "get",
						Description: "Print effective value of option",
						Usage:       "Print option value",
						ArgsUsage:   "<option>",
						Action:      get.Handle,
					},
					{
						Name:        "set",
						Description: "Set option and apply its side effects",
						Usage:       "Set option value",
						ArgsUsage:   "<option> <value>",
						Action:      set.Handle,
					},
				},
			},
			{
				Name:        "server",
				Aliases:     []string{"s"},
				Description: "Game server actions",
				Usage:       "Game server actions",
				Subcommands: []*cli.Command{
					{
						Name:        "start",
						Description: "Start game server",
						Usage:       "Start game server",
						Action:      start.Handle,
					},
					{
						Name:        "stop",
						Description: "Stop game server",
						Usage:       "Stop game server",
						Action:      stop.Handle,
					},
					{
						Name:        "restart",
						Aliases:     []string{"r"},
						Description: "Restart game server",
						Usage:       "Restart game server",
						Action:      restart.Handle,
					},
					{
						Name:        "status",
						Description: "Show unit state, process and players",
						Usage:       "Show game server status",
						Action:      status.Handle,
					},
					{
						Name:        "players",
						Description: "Print number of players online",
						Usage:       "Print number of players online",
						Action:      players.Handle,
					},
					{
						Name:        "send",
						Description: "Send command to server console",
						Usage:       "Send console command",
						ArgsUsage:   "<command>",
						Action:      send.Handle,
					},
					{
						Name:        "say",
						Description: "Broadcast message to players",
						Usage:       "Broadcast message to players",
						ArgsUsage:   "<message>",
						Action:      say.Handle,
					},
					{
						Name:        "save",
						Description: "Force world save",
						Usage:       "Force world save",
						Action:      save.Handle,
					},
				},
			},
		},
	}

	err = app.Run(args)
	if err != nil {
		fmt.Println(err)
		fmt.Println("See details in log file: " + logPath)
		log.Fatal(err)
	}
}

// openLogFile creates a log file for this run. Unprivileged runs
// log to the user cache directory.
func openLogFile() (string, *os.File, error) {
	dir := logDir
	if err := ensureDir(dir); err != nil {
		cacheDir, cacheErr := os.UserCacheDir()
		if cacheErr != nil {
			return "", nil, errors.WithMessage(err, "failed to create log directory")
		}
		dir = filepath.Join(cacheDir, appName)
		if err := ensureDir(dir); err != nil {
			return "", nil, errors.WithMessage(err, "failed to create log directory")
		}
	}

	logname := fmt.Sprintf("%s.log", time.Now().Format("2006-01-02_15-04-05"))
	path := filepath.Join(dir, logname)

	logFile, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0640)
	if err != nil {
		return "", nil, err
	}

	return path, logFile, nil
}

func ensureDir(dir string) error {
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		return os.MkdirAll(dir, 0755)
	}

	probe, err := os.CreateTemp(dir, ".probe")
	if err != nil {
		return err
	}
	_ = probe.Close()

	return os.Remove(probe.Name())
}
