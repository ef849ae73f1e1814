package oscore

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/shirou/gopsutil/v3/process"
)

type ProcessInfo struct {
	PID       int32
	Name      string
	RSS       uint64
	StartedAt time.Time
}

func (i ProcessInfo) Uptime() time.Duration {
	if i.StartedAt.IsZero() {
		return 0
	}

	return time.Since(i.StartedAt).Truncate(time.Second)
}

// IsProcessRunning reports whether pid refers to a live process.
// A non-positive pid is never running.
func IsProcessRunning(ctx context.Context, pid int32) (bool, error) {
	if pid <= 0 {
		return false, nil
	}

	exists, err := process.PidExistsWithContext(ctx, pid)
	if err != nil {
		return false, errors.WithMessagef(err, "failed to check process %d", pid)
	}

	return exists, nil
}

func FindProcessInfo(ctx context.Context, pid int32) (ProcessInfo, error) {
	running, err := IsProcessRunning(ctx, pid)
	if err != nil {
		return ProcessInfo{}, err
	}
	if !running {
		return ProcessInfo{}, NewProcessNotFoundError(pid)
	}

	p, err := process.NewProcessWithContext(ctx, pid)
	if err != nil {
		return ProcessInfo{}, errors.WithMessagef(err, "failed to load process %d", pid)
	}

	info := ProcessInfo{PID: pid}

	info.Name, _ = p.NameWithContext(ctx)

	mem, err := p.MemoryInfoWithContext(ctx)
	if err == nil && mem != nil {
		info.RSS = mem.RSS
	}

	createdMillis, err := p.CreateTimeWithContext(ctx)
	if err == nil && createdMillis > 0 {
		info.StartedAt = time.UnixMilli(createdMillis)
	}

	return info, nil
}
