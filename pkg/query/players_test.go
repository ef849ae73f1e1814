package query_test

import (
	"context"
	"testing"

	"github.com/gameap/gamesrvctl/pkg/query"
	"github.com/stretchr/testify/assert"
)

func Test_ParsePlayerCount(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   int
		wantOK bool
	}{
		{name: "players online", input: "There are 3 of a max 10 players online", want: 3, wantOK: true},
		{name: "with player list", input: "There are 1 of a max 10 players online: alice", want: 1, wantOK: true},
		{name: "nobody", input: "There are 0 of a max 10 players online", want: 0, wantOK: true},
		{name: "prefixed", input: "[Server] There are 12 of a max 64 players online", want: 12, wantOK: true},
		{name: "empty", input: "", wantOK: false},
		{name: "unknown command", input: "Unknown command. Type \"/help\" for help.", wantOK: false},
		{name: "not a number", input: "There are some of a max 10 players online", wantOK: false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, ok := query.ParsePlayerCount(test.input)

			assert.Equal(t, test.wantOK, ok)
			assert.Equal(t, test.want, got)
		})
	}
}

type senderFunc func(ctx context.Context, command string) (string, bool)

func (f senderFunc) Send(ctx context.Context, command string) (string, bool) {
	return f(ctx, command)
}

func Test_PlayerCount(t *testing.T) {
	var sent []string
	online := senderFunc(func(_ context.Context, command string) (string, bool) {
		sent = append(sent, command)

		return "There are 3 of a max 10 players online", true
	})
	unavailable := senderFunc(func(_ context.Context, _ string) (string, bool) {
		return "", false
	})
	garbage := senderFunc(func(_ context.Context, _ string) (string, bool) {
		return "\x00\x01", true
	})

	count, ok := query.PlayerCount(context.Background(), online)
	assert.True(t, ok)
	assert.Equal(t, 3, count)
	assert.Equal(t, []string{"/list"}, sent)

	_, ok = query.PlayerCount(context.Background(), unavailable)
	assert.False(t, ok)

	_, ok = query.PlayerCount(context.Background(), garbage)
	assert.False(t, ok)
}

func Test_PlayerCount_UnreachableServer(t *testing.T) {
	host, port := closedPort(t)
	c := query.NewClient(query.Config{Protocol: query.ProtocolRCON, Host: host, Port: port})

	_, ok := query.PlayerCount(context.Background(), c)

	assert.False(t, ok)
}
