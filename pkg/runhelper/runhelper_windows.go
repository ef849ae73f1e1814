//go:build windows

package runhelper

import "context"

type Init string

const (
	InitUnknown Init = "unknown"
	InitSystemd Init = "systemd"
)

func DetectInit(_ context.Context) (Init, error) {
	return InitUnknown, nil
}
