package shellquote

import (
	"runtime"
	"strings"

	"github.com/gopherclass/go-shellquote"
)

func Split(input string) (words []string, err error) {
	// Escape backslashes on Windows
	// Without it shellquote.Split will split command without backslashes
	// C:\steam\valheim\valheim_server.exe -> ["C:steamvalheimvalheim_server.exe"]
	// Should be ["C:\\steam\\valheim\\valheim_server.exe"]
	if runtime.GOOS == "windows" {
		input = strings.ReplaceAll(input, "\\", "\\\\")
	}

	return shellquote.Split(input)
}

const safeChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789_-./:,+@="

// Quote returns s as a single word for Split.
// Words with unsafe characters are wrapped in double quotes,
// which both Split and systemd ExecStart lines understand.
func Quote(s string) string {
	if s == "" {
		return `""`
	}

	if strings.Trim(s, safeChars) == "" {
		return s
	}

	b := strings.Builder{}
	b.Grow(len(s) + 2) //nolint:mnd
	b.WriteByte('"')
	for _, r := range s {
		if r == '"' || r == '\\' {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	b.WriteByte('"')

	return b.String()
}
