// Package query talks to the console interface of a running game server.
//
// A session is opened per command, one command is sent and one response
// read, then the connection is closed. Nothing here returns transport
// errors to callers: a console that is disabled, not started yet, slow
// or answering garbage is reported as unavailable.
package query

import (
	"context"
	"log/slog"
	"net"
	"strconv"
	"time"

	"github.com/pkg/errors"
)

type Protocol string

const (
	ProtocolRCON    Protocol = "rcon"
	ProtocolLine    Protocol = "line"
	ProtocolWebRCON Protocol = "webrcon"
)

const DefaultTimeout = 3 * time.Second

var ErrUnknownProtocol = errors.New("unknown query protocol")

func ParseProtocol(s string) (Protocol, error) {
	switch p := Protocol(s); p {
	case ProtocolRCON, ProtocolLine, ProtocolWebRCON:
		return p, nil
	}

	return "", errors.WithMessagef(ErrUnknownProtocol, "protocol '%s'", s)
}

type Config struct {
	Protocol Protocol
	Host     string
	Port     int
	Password string
	Timeout  time.Duration
}

func (c Config) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Sender sends one console command. ok is false when the console is unavailable.
type Sender interface {
	Send(ctx context.Context, command string) (response string, ok bool)
}

type Client struct {
	cfg Config
}

func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Host == "" {
		cfg.Host = "127.0.0.1"
	}

	return &Client{cfg: cfg}
}

// Send never blocks longer than the configured timeout.
func (c *Client) Send(ctx context.Context, command string) (response string, ok bool) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			slog.DebugContext(ctx, "query session panicked", slog.Any("panic", r))
			response, ok = "", false
		}
	}()

	var err error
	switch c.cfg.Protocol {
	case ProtocolRCON:
		response, err = c.sendRCON(ctx, command)
	case ProtocolLine:
		response, err = c.sendLine(ctx, command)
	case ProtocolWebRCON:
		response, err = c.sendWebRCON(ctx, command)
	default:
		err = errors.WithMessagef(ErrUnknownProtocol, "protocol '%s'", c.cfg.Protocol)
	}
	if err != nil {
		slog.DebugContext(ctx, "query unavailable",
			slog.String("protocol", string(c.cfg.Protocol)),
			slog.String("address", c.cfg.Address()),
			slog.String("err", err.Error()),
		)

		return "", false
	}

	return response, true
}

func (c *Client) dial(ctx context.Context) (net.Conn, error) {
	dialer := net.Dialer{}

	conn, err := dialer.DialContext(ctx, "tcp", c.cfg.Address())
	if err != nil {
		return nil, errors.WithMessage(err, "failed to connect")
	}

	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetDeadline(deadline); err != nil {
			_ = conn.Close()

			return nil, errors.WithMessage(err, "failed to set deadline")
		}
	}

	return conn, nil
}
