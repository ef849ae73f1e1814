// Package firewall opens and closes host firewall ports.
//
// Every implementation is idempotent: allowing an already allowed port
// and removing a port that has no rule both succeed.
package firewall

import (
	"context"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

type Protocol string

const (
	TCP Protocol = "tcp"
	UDP Protocol = "udp"
)

var ErrInvalidProtocol = errors.New("protocol must be tcp or udp")

func ParseProtocol(s string) (Protocol, error) {
	switch Protocol(strings.ToLower(strings.TrimSpace(s))) {
	case TCP:
		return TCP, nil
	case UDP:
		return UDP, nil
	}

	return "", errors.WithMessagef(ErrInvalidProtocol, "invalid protocol '%s'", s)
}

type Firewall interface {
	Name() string
	Allow(ctx context.Context, port int, protocol Protocol, description string) error
	Remove(ctx context.Context, port int, protocol Protocol) error
}

func portSpec(port int, protocol Protocol, sep string) string {
	return strconv.Itoa(port) + sep + string(protocol)
}

func validPort(port int) bool {
	return port > 0 && port <= 65535
}
