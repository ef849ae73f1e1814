package query

import (
	"bufio"
	"context"
	"strings"

	"github.com/pkg/errors"
)

var errEmptyResponse = errors.New("empty response")

// sendLine speaks a plain text console: the password line (when set)
// and the command line are written, the first line back is the response.
func (c *Client) sendLine(ctx context.Context, command string) (string, error) {
	conn, err := c.dial(ctx)
	if err != nil {
		return "", err
	}
	defer conn.Close()

	b := strings.Builder{}
	if c.cfg.Password != "" {
		b.WriteString(c.cfg.Password)
		b.WriteString("\n")
	}
	b.WriteString(command)
	b.WriteString("\n")

	if _, err := conn.Write([]byte(b.String())); err != nil {
		return "", errors.WithMessage(err, "failed to write command")
	}

	line, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil && line == "" {
		return "", errors.WithMessage(err, "failed to read response")
	}

	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", errEmptyResponse
	}

	return line, nil
}
