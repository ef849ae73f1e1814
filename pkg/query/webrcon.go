package query

import (
	"context"
	"math/rand/v2"
	"net/url"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
)

const webRCONName = "gamesrvctl"

type webRCONMessage struct {
	Identifier int    `json:"Identifier"`
	Message    string `json:"Message"`
	Name       string `json:"Name,omitempty"`
	Type       string `json:"Type,omitempty"`
}

// sendWebRCON uses the websocket console protocol, authenticated by the
// password in the URL path. Broadcast messages are skipped until the
// reply carrying our identifier arrives.
func (c *Client) sendWebRCON(ctx context.Context, command string) (string, error) {
	u := url.URL{
		Scheme: "ws",
		Host:   c.cfg.Address(),
		Path:   "/" + c.cfg.Password,
	}

	dialer := websocket.Dialer{
		HandshakeTimeout: c.cfg.Timeout,
	}

	conn, resp, err := dialer.DialContext(ctx, u.String(), nil)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return "", errors.WithMessage(err, "failed to connect")
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetWriteDeadline(deadline)
		_ = conn.SetReadDeadline(deadline)
	}

	id := rand.IntN(1<<30) + 1 //nolint:gosec,mnd

	err = conn.WriteJSON(webRCONMessage{
		Identifier: id,
		Message:    command,
		Name:       webRCONName,
	})
	if err != nil {
		return "", errors.WithMessage(err, "failed to write command")
	}

	for {
		msg := webRCONMessage{}
		if err := conn.ReadJSON(&msg); err != nil {
			return "", errors.WithMessage(err, "failed to read response")
		}

		if msg.Identifier == id {
			return msg.Message, nil
		}
	}
}
