package query

import (
	"context"
	"regexp"
	"strconv"
)

const ListPlayersCommand = "/list"

var playerCountRegexp = regexp.MustCompile(`There are\s+(\d+)\s+of a max`)

// ParsePlayerCount extracts N from "There are N of a max M players online".
// Any other text yields ok=false.
func ParsePlayerCount(s string) (count int, ok bool) {
	matches := playerCountRegexp.FindStringSubmatch(s)
	if len(matches) != 2 { //nolint:mnd
		return 0, false
	}

	count, err := strconv.Atoi(matches[1])
	if err != nil {
		return 0, false
	}

	return count, true
}

// PlayerCount asks the console for the player list. An unavailable console
// and an unexpected answer are both reported as ok=false.
func PlayerCount(ctx context.Context, s Sender) (count int, ok bool) {
	response, ok := s.Send(ctx, ListPlayersCommand)
	if !ok {
		return 0, false
	}

	return ParsePlayerCount(response)
}
