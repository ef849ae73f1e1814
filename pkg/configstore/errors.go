package configstore

import (
	"fmt"
	"strings"
)

// FormatError means a backing file exists but cannot be understood.
type FormatError struct {
	Backing string
	Path    string
	Err     error
}

func NewFormatError(backing, path string, err error) *FormatError {
	return &FormatError{
		Backing: backing,
		Path:    path,
		Err:     err,
	}
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("config '%s' (%s) has invalid format: %v", e.Backing, e.Path, e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// IOError means a backing file could not be read, locked or written.
type IOError struct {
	Backing string
	Path    string
	Op      string
	Err     error
}

func NewIOError(backing, path, op string, err error) *IOError {
	return &IOError{
		Backing: backing,
		Path:    path,
		Op:      op,
		Err:     err,
	}
}

func (e *IOError) Error() string {
	sb := strings.Builder{}
	sb.Grow(64) //nolint:mnd

	sb.WriteString("config '")
	sb.WriteString(e.Backing)
	sb.WriteString("': failed to ")
	sb.WriteString(e.Op)
	sb.WriteString(" ")
	sb.WriteString(e.Path)
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}

	return sb.String()
}

func (e *IOError) Unwrap() error {
	return e.Err
}

type UnknownOptionError struct {
	Name string
}

func NewUnknownOptionError(name string) *UnknownOptionError {
	return &UnknownOptionError{Name: name}
}

func (e *UnknownOptionError) Error() string {
	return fmt.Sprintf("unknown option '%s'", e.Name)
}
