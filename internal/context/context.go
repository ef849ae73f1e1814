package context

import (
	"context"

	osinfo "github.com/gameap/gamesrvctl/pkg/os_info"
)

type contextKey int

const (
	osInfo contextKey = iota
	logFile
)

func OSInfoFromContext(ctx context.Context) osinfo.Info {
	info, _ := ctx.Value(osInfo).(osinfo.Info)

	return info
}

func ContextWithOSInfo(ctx context.Context, info osinfo.Info) context.Context {
	return context.WithValue(ctx, osInfo, info)
}

func SetOSContext(ctx context.Context) (context.Context, error) {
	info, err := osinfo.GetOSInfo()
	if err != nil {
		return ctx, err
	}

	return ContextWithOSInfo(ctx, info), nil
}

// LogFileFromContext returns the path of the log file of this run, empty when logging to stderr.
func LogFileFromContext(ctx context.Context) string {
	path, _ := ctx.Value(logFile).(string)

	return path
}

func ContextWithLogFile(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, logFile, path)
}
