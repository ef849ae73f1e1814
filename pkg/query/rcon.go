package query

import (
	"bufio"
	"bytes"
	"context"
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

// Source RCON packet types.
const (
	rconTypeResponse     int32 = 0
	rconTypeExec         int32 = 2
	rconTypeAuthResponse int32 = 2
	rconTypeAuth         int32 = 3
)

const (
	rconAuthID int32 = 1
	rconExecID int32 = 2

	// id and type fields plus the two terminating NUL bytes
	rconHeaderSize    = 10
	rconMaxPacketSize = 64 * 1024
	rconMaxSkipped    = 4
)

var (
	errRCONAuthFailed   = errors.New("rcon authentication failed")
	errRCONPacketSize   = errors.New("rcon packet size out of bounds")
	errRCONUnexpectedID = errors.New("rcon response to unknown request")
	errRCONNoAuthAnswer = errors.New("rcon server did not answer authentication")
)

type rconPacket struct {
	id   int32
	typ  int32
	body string
}

func (c *Client) sendRCON(ctx context.Context, command string) (string, error) {
	conn, err := c.dial(ctx)
	if err != nil {
		return "", err
	}
	defer conn.Close()

	r := bufio.NewReader(conn)

	if err := writeRCONPacket(conn, rconPacket{id: rconAuthID, typ: rconTypeAuth, body: c.cfg.Password}); err != nil {
		return "", err
	}

	// servers may send an empty response packet before the auth response
	authenticated := false
	for i := 0; i < rconMaxSkipped && !authenticated; i++ {
		p, err := readRCONPacket(r)
		if err != nil {
			return "", err
		}
		if p.typ != rconTypeAuthResponse {
			continue
		}
		if p.id == -1 {
			return "", errRCONAuthFailed
		}
		if p.id != rconAuthID {
			return "", errRCONUnexpectedID
		}
		authenticated = true
	}
	if !authenticated {
		return "", errRCONNoAuthAnswer
	}

	if err := writeRCONPacket(conn, rconPacket{id: rconExecID, typ: rconTypeExec, body: command}); err != nil {
		return "", err
	}

	p, err := readRCONPacket(r)
	if err != nil {
		return "", err
	}
	if p.id != rconExecID || p.typ != rconTypeResponse {
		return "", errRCONUnexpectedID
	}

	return p.body, nil
}

func writeRCONPacket(w io.Writer, p rconPacket) error {
	size := int32(len(p.body) + rconHeaderSize) //nolint:gosec

	buf := bytes.Buffer{}
	buf.Grow(int(size) + 4) //nolint:mnd

	_ = binary.Write(&buf, binary.LittleEndian, size)
	_ = binary.Write(&buf, binary.LittleEndian, p.id)
	_ = binary.Write(&buf, binary.LittleEndian, p.typ)
	buf.WriteString(p.body)
	buf.Write([]byte{0, 0})

	if _, err := w.Write(buf.Bytes()); err != nil {
		return errors.WithMessage(err, "failed to write rcon packet")
	}

	return nil
}

func readRCONPacket(r io.Reader) (rconPacket, error) {
	var size int32
	if err := binary.Read(r, binary.LittleEndian, &size); err != nil {
		return rconPacket{}, errors.WithMessage(err, "failed to read rcon packet size")
	}
	if size < rconHeaderSize || size > rconMaxPacketSize {
		return rconPacket{}, errRCONPacketSize
	}

	data := make([]byte, size)
	if _, err := io.ReadFull(r, data); err != nil {
		return rconPacket{}, errors.WithMessage(err, "failed to read rcon packet")
	}

	return rconPacket{
		id:   int32(binary.LittleEndian.Uint32(data[0:4])), //nolint:gosec
		typ:  int32(binary.LittleEndian.Uint32(data[4:8])), //nolint:gosec
		body: string(bytes.TrimRight(data[8:], "\x00")),
	}, nil
}
