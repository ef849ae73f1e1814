package query_test

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"io"
	"net"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

// listen starts a TCP server on a random local port and serves every
// connection with handle until the test ends.
func listen(t *testing.T, handle func(conn net.Conn)) (host string, port int) {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = ln.Close()
	})

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go func() {
				defer conn.Close()
				handle(conn)
			}()
		}
	}()

	return splitAddr(t, ln.Addr().String())
}

// closedPort returns an address nothing listens on.
func closedPort(t *testing.T) (host string, port int) {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	return splitAddr(t, addr)
}

func splitAddr(t *testing.T, addr string) (string, int) {
	t.Helper()

	host, portStr, err := net.SplitHostPort(addr)
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	return host, port
}

type packet struct {
	id   int32
	typ  int32
	body string
}

func readPacket(r io.Reader) (packet, error) {
	var size int32
	if err := binary.Read(r, binary.LittleEndian, &size); err != nil {
		return packet{}, err
	}
	data := make([]byte, size)
	if _, err := io.ReadFull(r, data); err != nil {
		return packet{}, err
	}

	return packet{
		id:   int32(binary.LittleEndian.Uint32(data[0:4])),
		typ:  int32(binary.LittleEndian.Uint32(data[4:8])),
		body: string(bytes.TrimRight(data[8:], "\x00")),
	}, nil
}

func writePacket(w io.Writer, p packet) error {
	buf := bytes.Buffer{}
	_ = binary.Write(&buf, binary.LittleEndian, int32(len(p.body)+10))
	_ = binary.Write(&buf, binary.LittleEndian, p.id)
	_ = binary.Write(&buf, binary.LittleEndian, p.typ)
	buf.WriteString(p.body)
	buf.Write([]byte{0, 0})

	_, err := w.Write(buf.Bytes())

	return err
}

// rconServer answers like a Source RCON server: an empty response packet
// and the auth response, then one response per exec packet.
func rconServer(password string, answer func(command string) string) func(conn net.Conn) {
	return func(conn net.Conn) {
		r := bufio.NewReader(conn)

		auth, err := readPacket(r)
		if err != nil || auth.typ != 3 {
			return
		}

		_ = writePacket(conn, packet{id: auth.id, typ: 0})
		if auth.body != password {
			_ = writePacket(conn, packet{id: -1, typ: 2})

			return
		}
		_ = writePacket(conn, packet{id: auth.id, typ: 2})

		for {
			exec, err := readPacket(r)
			if err != nil {
				return
			}
			_ = writePacket(conn, packet{id: exec.id, typ: 0, body: answer(exec.body)})
		}
	}
}
