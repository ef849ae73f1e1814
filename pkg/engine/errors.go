package engine

import (
	"fmt"

	"github.com/pkg/errors"
)

var ErrValueRequired = errors.New("value is required")

// PartialFailureError means the option value was persisted but one or more
// of its side effects failed. Running Reconcile retries them.
type PartialFailureError struct {
	Option string
	Err    error
}

func NewPartialFailureError(option string, err error) *PartialFailureError {
	return &PartialFailureError{
		Option: option,
		Err:    err,
	}
}

func (e *PartialFailureError) Error() string {
	return fmt.Sprintf("option '%s' was saved, but applying it failed: %v", e.Option, e.Err)
}

func (e *PartialFailureError) Unwrap() error {
	return e.Err
}
