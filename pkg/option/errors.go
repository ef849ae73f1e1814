package option

import "fmt"

// FormatError is returned when raw text does not fit the declared option type.
type FormatError struct {
	Option string
	Type   Type
	Raw    string
}

func NewFormatError(option string, t Type, raw string) *FormatError {
	return &FormatError{
		Option: option,
		Type:   t,
		Raw:    raw,
	}
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("option '%s': value '%s' is not a valid %s", e.Option, e.Raw, e.Type)
}
