// Package configstore keeps option values in files and merges several
// files into a single option namespace.
//
// Every Store keeps changes in memory until Flush. Flush takes a file lock,
// re-reads the file, applies only the pending changes of this Store and
// replaces the file atomically, so concurrent writers never lose each
// other's keys and readers never observe a partial file.
package configstore

import (
	"context"
	"time"
)

type Store interface {
	// Name is the backing name option definitions refer to.
	Name() string

	// Get returns the raw value for key and whether it was found.
	// A backing file that cannot be parsed yields a *FormatError.
	Get(key string) (string, bool, error)

	Has(key string) (bool, error)

	// Set changes key in memory. Nothing is written before Flush.
	Set(key, value string) error

	Delete(key string) error

	Flush(ctx context.Context) error
}

const (
	defaultLockTimeout    = 5 * time.Second
	defaultLockRetryDelay = 50 * time.Millisecond
)

// pending holds unflushed changes. A nil value marks a deletion.
type pending map[string]*string

func (p pending) set(key, value string) {
	p[key] = &value
}

func (p pending) delete(key string) {
	p[key] = nil
}
