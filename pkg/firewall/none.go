package firewall

import (
	"context"
	"log/slog"
)

// None is used on hosts without a supported firewall. Every call succeeds.
type None struct{}

func NewNone() *None {
	return &None{}
}

func (f *None) Name() string {
	return "none"
}

func (f *None) Allow(ctx context.Context, port int, protocol Protocol, _ string) error {
	slog.WarnContext(ctx, "no supported firewall found, skipping allow",
		slog.Int("port", port),
		slog.String("protocol", string(protocol)),
	)

	return nil
}

func (f *None) Remove(ctx context.Context, port int, protocol Protocol) error {
	slog.WarnContext(ctx, "no supported firewall found, skipping remove",
		slog.Int("port", port),
		slog.String("protocol", string(protocol)),
	)

	return nil
}
