package oscore

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const (
	defaultGrowSize = 64
)

var ErrNotPrivileged = errors.New("insufficient privileges, run as root (or Administrator)")

type ProcessNotFoundError struct {
	pid int32
}

func NewProcessNotFoundError(pid int32) *ProcessNotFoundError {
	return &ProcessNotFoundError{pid: pid}
}

func (e *ProcessNotFoundError) Error() string {
	sb := strings.Builder{}
	sb.Grow(defaultGrowSize)

	sb.WriteString("process ")
	sb.WriteString(strconv.FormatInt(int64(e.pid), 10))
	sb.WriteString(" not found")

	return sb.String()
}
