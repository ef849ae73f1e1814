//go:build windows

package oscore

import "golang.org/x/sys/windows"

func IsPrivileged() bool {
	return windows.GetCurrentProcessToken().IsElevated()
}
