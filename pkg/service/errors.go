package service

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrUnsupportedInit = errors.New("no supported service manager found")
	errJobFailed       = errors.New("job did not complete")
)

type NotFoundError struct {
	ServiceName string
}

func NewNotFoundError(serviceName string) *NotFoundError {
	return &NotFoundError{
		ServiceName: serviceName,
	}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("service %s not found", e.ServiceName)
}

// ControlError is returned when the service manager is unreachable
// or rejects an operation.
type ControlError struct {
	Op   string
	Unit string
	Err  error
}

func NewControlError(op, unit string, err error) *ControlError {
	return &ControlError{
		Op:   op,
		Unit: unit,
		Err:  err,
	}
}

func (e *ControlError) Error() string {
	sb := strings.Builder{}
	sb.Grow(64) //nolint:mnd

	sb.WriteString("failed to ")
	sb.WriteString(e.Op)
	if e.Unit != "" {
		sb.WriteString(" service ")
		sb.WriteString(e.Unit)
	}
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}

	return sb.String()
}

func (e *ControlError) Unwrap() error {
	return e.Err
}
