package actions

import (
	"strconv"

	"github.com/gameap/gamesrvctl/pkg/option"
)

const (
	UnsetValue  = "<unset>"
	HiddenValue = "********"
)

// FormatValue renders a value for operators. Unset and empty strings
// stay distinguishable.
func FormatValue(v option.Value) string {
	if !v.IsSet() {
		return UnsetValue
	}

	if s, ok := v.Str(); ok && s == "" {
		return strconv.Quote(s)
	}

	return v.String()
}
