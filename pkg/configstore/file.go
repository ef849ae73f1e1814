package configstore

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gameap/gamesrvctl/pkg/utils"
	"github.com/gofrs/flock"
	"github.com/pkg/errors"
)

var errLockTimeout = errors.New("timed out waiting for lock")

// lockedRewrite serializes writers of path across processes.
// rewrite receives the current file contents (nil when the file does not exist)
// and returns the new contents.
func lockedRewrite(
	ctx context.Context,
	backing string,
	path string,
	lockTimeout time.Duration,
	rewrite func(current []byte) ([]byte, error),
) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return NewIOError(backing, path, "create directory for", err)
	}

	lock := flock.New(path + ".lock")

	lockCtx, cancel := context.WithTimeout(ctx, lockTimeout)
	defer cancel()

	locked, err := lock.TryLockContext(lockCtx, defaultLockRetryDelay)
	if err != nil {
		return NewIOError(backing, path, "lock", err)
	}
	if !locked {
		return NewIOError(backing, path, "lock", errLockTimeout)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			slog.Warn("failed to release config lock", slog.String("path", path), slog.String("err", err.Error()))
		}
	}()

	current, err := readIfExists(path)
	if err != nil {
		return NewIOError(backing, path, "read", err)
	}

	updated, err := rewrite(current)
	if err != nil {
		return err
	}

	if current != nil {
		if err := utils.Copy(path, path+".bak"); err != nil {
			slog.Warn("failed to back up config", slog.String("path", path), slog.String("err", err.Error()))
		}
	}

	if err := writeFileAtomic(path, updated, 0644); err != nil {
		return NewIOError(backing, path, "write", err)
	}

	return nil
}

func readIfExists(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil && errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return data, nil
}
