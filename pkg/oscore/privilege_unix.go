//go:build !windows

package oscore

import "golang.org/x/sys/unix"

func IsPrivileged() bool {
	return unix.Geteuid() == 0
}
