package configstore

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/gameap/gamesrvctl/pkg/shellquote"
	"github.com/pkg/errors"
)

const (
	OptionsPlaceholder = "[OPTIONS]"
	DefaultFlagSep     = " "
)

var (
	ErrInvalidTemplate   = errors.New("template must contain " + OptionsPlaceholder + " exactly once")
	errLaunchLineMissing = errors.New("launch line matching the template not found")
)

// Flags stores options as command line flags of a generated launch file,
// for example a systemd drop-in overriding ExecStart.
//
// Template is the whole file with the flag list replaced by [OPTIONS].
// Each flag is rendered as <key><sep><value>; a flag without value is rendered bare.
type Flags struct {
	name        string
	path        string
	sep         string
	lockTimeout time.Duration

	before string // template text before the launch line
	prefix string // launch line up to the placeholder
	suffix string // launch line after the placeholder
	after  string // template text after the launch line

	mu       sync.Mutex
	declared map[string]bool
	loaded   bool
	loadErr  error
	keys     []string
	values   map[string]string
	pending  pending
}

func NewFlags(name, path, template, sep string) (*Flags, error) {
	if strings.Count(template, OptionsPlaceholder) != 1 {
		return nil, ErrInvalidTemplate
	}
	if sep == "" {
		sep = DefaultFlagSep
	}

	idx := strings.Index(template, OptionsPlaceholder)
	lineStart := strings.LastIndex(template[:idx], "\n") + 1
	lineEnd := len(template)
	if i := strings.Index(template[idx:], "\n"); i >= 0 {
		lineEnd = idx + i
	}

	return &Flags{
		name:        name,
		path:        path,
		sep:         sep,
		lockTimeout: defaultLockTimeout,
		before:      template[:lineStart],
		prefix:      template[lineStart:idx],
		suffix:      template[idx+len(OptionsPlaceholder) : lineEnd],
		after:       template[lineEnd:],
		declared:    map[string]bool{},
		values:      map[string]string{},
		pending:     pending{},
	}, nil
}

// Declare registers keys owned by option definitions. With a whitespace
// separator a declared key always takes the next word as its value, even when
// the value starts with a dash, and an empty value is rendered as "".
func (s *Flags) Declare(keys ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range keys {
		s.declared[key] = true
	}

	if len(s.pending) == 0 {
		s.loaded = false
		s.loadErr = nil
	}
}

func (s *Flags) Name() string {
	return s.name
}

func (s *Flags) Path() string {
	return s.path
}

func (s *Flags) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(); err != nil {
		return "", false, err
	}

	v, ok := s.values[key]

	return v, ok, nil
}

func (s *Flags) Has(key string) (bool, error) {
	_, ok, err := s.Get(key)

	return ok, err
}

func (s *Flags) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(); err != nil {
		return err
	}

	if _, ok := s.values[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.values[key] = value
	s.pending.set(key, value)

	return nil
}

func (s *Flags) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(); err != nil {
		return err
	}

	s.keys, s.values = removeKey(s.keys, s.values, key)
	s.pending.delete(key)

	return nil
}

// Flags returns the flag list in launch order.
func (s *Flags) Flags() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(); err != nil {
		return nil, err
	}

	return s.args(s.keys, s.values), nil
}

func (s *Flags) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.pending) == 0 {
		return nil
	}

	var (
		mergedKeys   []string
		mergedValues map[string]string
	)

	err := lockedRewrite(ctx, s.name, s.path, s.lockTimeout, func(current []byte) ([]byte, error) {
		keys, values, err := s.parse(current)
		if err != nil {
			return nil, err
		}

		// apply in our key order so new flags keep the order they were set in
		for _, key := range s.keys {
			value, ok := s.pending[key]
			if !ok || value == nil {
				continue
			}
			if _, exists := values[key]; !exists {
				keys = append(keys, key)
			}
			values[key] = *value
		}
		for key, value := range s.pending {
			if value == nil {
				keys, values = removeKey(keys, values, key)
			}
		}

		mergedKeys, mergedValues = keys, values

		return []byte(s.render(keys, values)), nil
	})
	if err != nil {
		return err
	}

	s.keys, s.values = mergedKeys, mergedValues
	s.pending = pending{}

	return nil
}

func (s *Flags) ensureLoaded() error {
	if s.loaded {
		return s.loadErr
	}

	s.loaded = true

	current, err := readIfExists(s.path)
	if err != nil {
		s.loadErr = NewIOError(s.name, s.path, "read", err)

		return s.loadErr
	}

	keys, values, err := s.parse(current)
	if err != nil {
		s.loadErr = err

		return err
	}

	s.keys, s.values = keys, values

	return nil
}

func (s *Flags) parse(data []byte) ([]string, map[string]string, error) {
	values := map[string]string{}

	if len(bytes.TrimSpace(data)) == 0 {
		return nil, values, nil
	}

	prefix := strings.TrimSpace(s.prefix)
	suffix := strings.TrimSpace(s.suffix)

	// systemd uses the last ExecStart line, so does this parser
	launchLine := ""
	found := false
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if len(line) < len(prefix)+len(suffix) {
			continue
		}
		if strings.HasPrefix(line, prefix) && strings.HasSuffix(line, suffix) {
			launchLine = line
			found = true
		}
	}
	if !found {
		return nil, nil, NewFormatError(s.name, s.path, errLaunchLineMissing)
	}

	middle := launchLine[len(prefix) : len(launchLine)-len(suffix)]
	words, err := shellquote.Split(unescapeSpecifiers(middle))
	if err != nil {
		return nil, nil, NewFormatError(s.name, s.path, errors.WithMessage(err, "failed to split flags"))
	}

	return s.pairUp(words, values), values, nil
}

func (s *Flags) pairUp(words []string, values map[string]string) []string {
	keys := make([]string, 0, len(words))
	add := func(key, value string) {
		if _, ok := values[key]; !ok {
			keys = append(keys, key)
		}
		values[key] = value
	}

	if strings.TrimSpace(s.sep) != "" {
		for _, word := range words {
			key, value, _ := strings.Cut(word, s.sep)
			add(key, value)
		}

		return keys
	}

	for i := 0; i < len(words); i++ {
		key := words[i]
		if i+1 < len(words) && s.takesValue(key, words[i+1]) {
			add(key, words[i+1])
			i++

			continue
		}
		add(key, "")
	}

	return keys
}

func (s *Flags) render(keys []string, values map[string]string) string {
	b := strings.Builder{}
	b.WriteString(s.before)
	b.WriteString(s.prefix)
	b.WriteString(escapeSpecifiers(strings.Join(s.args(keys, values), " ")))
	b.WriteString(s.suffix)
	b.WriteString(s.after)

	out := b.String()
	if !strings.HasSuffix(out, "\n") {
		out += "\n"
	}

	return out
}

func (s *Flags) args(keys []string, values map[string]string) []string {
	args := make([]string, 0, len(keys)*2) //nolint:mnd
	whitespaceSep := strings.TrimSpace(s.sep) == ""

	for _, key := range keys {
		value := values[key]

		switch {
		case value == "" && whitespaceSep && s.declared[key]:
			args = append(args, shellquote.Quote(key), shellquote.Quote(value))
		case value == "":
			args = append(args, shellquote.Quote(key))
		case whitespaceSep:
			args = append(args, shellquote.Quote(key), shellquote.Quote(value))
		default:
			args = append(args, shellquote.Quote(key+s.sep+value))
		}
	}

	return args
}

// takesValue reports whether next is the value of key. A declared key takes any
// word except another declared key; unknown keys fall back to isFlag.
func (s *Flags) takesValue(key, next string) bool {
	if s.declared[key] {
		return !s.declared[next]
	}

	return !isFlag(next)
}

// isFlag reports whether word starts a new flag. Negative numbers are values.
func isFlag(word string) bool {
	if len(word) < 2 || word[0] != '-' {
		return false
	}

	return !unicode.IsDigit(rune(word[1]))
}

func removeKey(keys []string, values map[string]string, key string) ([]string, map[string]string) {
	delete(values, key)

	result := keys[:0]
	for _, k := range keys {
		if k != key {
			result = append(result, k)
		}
	}

	return result, values
}

var (
	specifierEscaper   = strings.NewReplacer("%", "%%", "$", "$$")
	specifierUnescaper = strings.NewReplacer("%%", "%", "$$", "$")
)

func escapeSpecifiers(s string) string {
	return specifierEscaper.Replace(s)
}

func unescapeSpecifiers(s string) string {
	return specifierUnescaper.Replace(s)
}
