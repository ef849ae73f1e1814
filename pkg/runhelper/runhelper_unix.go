//go:build linux || darwin

package runhelper

import (
	"context"
	"log"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/shirou/gopsutil/v3/process"
)

type Init string

const (
	InitUnknown Init = "unknown"
	InitSystemd Init = "systemd"
)

// DetectInit inspects the executable of pid 1.
func DetectInit(ctx context.Context) (Init, error) {
	p, err := process.NewProcessWithContext(ctx, 1)
	if err != nil {
		return InitUnknown, errors.WithMessage(err, "failed to load process with pid 1")
	}

	exe, err := p.ExeWithContext(ctx)
	if err != nil {
		return InitUnknown, errors.WithMessage(err, "failed to get executable path of the process")
	}

	originalExe, err := filepath.EvalSymlinks(exe)
	if err != nil {
		log.Println(errors.WithMessage(err, "failed to evaluate symlink"))
		originalExe = exe
	}

	result := initFromExecutable(originalExe)
	log.Println("Detected init:", result, "(", originalExe, ")")

	return result, nil
}

func initFromExecutable(path string) Init {
	switch filepath.Base(path) {
	case "systemd":
		return InitSystemd
	default:
		return InitUnknown
	}
}
