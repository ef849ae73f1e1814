package firewall

import (
	"strconv"
	"strings"
)

// Error is returned when the host firewall rejects a rule change.
type Error struct {
	Op       string
	Port     int
	Protocol Protocol
	Err      error
}

func NewError(op string, port int, protocol Protocol, err error) *Error {
	return &Error{
		Op:       op,
		Port:     port,
		Protocol: protocol,
		Err:      err,
	}
}

func (e *Error) Error() string {
	sb := strings.Builder{}
	sb.Grow(64) //nolint:mnd

	sb.WriteString("firewall: failed to ")
	sb.WriteString(e.Op)
	sb.WriteString(" ")
	sb.WriteString(strconv.Itoa(e.Port))
	sb.WriteString("/")
	sb.WriteString(string(e.Protocol))
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}

	return sb.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}
