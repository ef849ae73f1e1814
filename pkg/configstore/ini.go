package configstore

import (
	"bytes"
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/ini.v1"
)

const (
	DefaultINISection = "manager"

	// UnnamedINISection holds keys placed before any section header,
	// as in Java properties files. Same name as ini.DefaultSection.
	UnnamedINISection = "DEFAULT"
)

var iniLoadOptions = ini.LoadOptions{
	IgnoreInlineComment: true,
}

// INI stores options as "key = value" lines inside one section of an INI file.
// Other sections and keys of the file are preserved on Flush.
type INI struct {
	name        string
	path        string
	section     string
	lockTimeout time.Duration

	mu      sync.Mutex
	loaded  bool
	loadErr error
	values  map[string]string
	pending pending
}

func NewINI(name, path, section string) *INI {
	if section == "" {
		section = DefaultINISection
	}

	return &INI{
		name:        name,
		path:        path,
		section:     section,
		lockTimeout: defaultLockTimeout,
		pending:     pending{},
	}
}

func (s *INI) Name() string {
	return s.name
}

func (s *INI) Path() string {
	return s.path
}

func (s *INI) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(); err != nil {
		return "", false, err
	}

	v, ok := s.values[key]

	return v, ok, nil
}

func (s *INI) Has(key string) (bool, error) {
	_, ok, err := s.Get(key)

	return ok, err
}

func (s *INI) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(); err != nil {
		return err
	}

	s.values[key] = value
	s.pending.set(key, value)

	return nil
}

func (s *INI) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(); err != nil {
		return err
	}

	delete(s.values, key)
	s.pending.delete(key)

	return nil
}

func (s *INI) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.pending) == 0 {
		return nil
	}

	var merged map[string]string

	err := lockedRewrite(ctx, s.name, s.path, s.lockTimeout, func(current []byte) ([]byte, error) {
		f, err := s.parse(current)
		if err != nil {
			return nil, err
		}

		sec := f.Section(s.section)
		for key, value := range s.pending {
			if value == nil {
				sec.DeleteKey(key)

				continue
			}
			sec.Key(key).SetValue(*value)
		}

		buf := &bytes.Buffer{}
		if _, err = f.WriteTo(buf); err != nil {
			return nil, NewIOError(s.name, s.path, "encode", err)
		}

		merged = sectionValues(f, s.section)

		return buf.Bytes(), nil
	})
	if err != nil {
		return err
	}

	s.values = merged
	s.pending = pending{}

	return nil
}

func (s *INI) ensureLoaded() error {
	if s.loaded {
		return s.loadErr
	}

	s.loaded = true

	current, err := readIfExists(s.path)
	if err != nil {
		s.loadErr = NewIOError(s.name, s.path, "read", err)

		return s.loadErr
	}

	f, err := s.parse(current)
	if err != nil {
		s.loadErr = err

		return err
	}

	s.values = sectionValues(f, s.section)

	return nil
}

func (s *INI) parse(data []byte) (*ini.File, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return ini.Empty(iniLoadOptions), nil
	}

	f, err := ini.LoadSources(iniLoadOptions, data)
	if err != nil {
		return nil, NewFormatError(s.name, s.path, errors.WithMessage(err, "failed to parse ini"))
	}

	return f, nil
}

func sectionValues(f *ini.File, section string) map[string]string {
	values := map[string]string{}

	sec, err := f.GetSection(section)
	if err != nil {
		return values
	}

	for _, key := range sec.Keys() {
		values[key.Name()] = key.Value()
	}

	return values
}
