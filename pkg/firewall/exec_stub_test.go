package firewall_test

import (
	"context"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

type execResult struct {
	out string
	err error
}

// execStub records commands and answers them by their joined command line.
type execStub struct {
	mu       sync.Mutex
	calls    []string
	results  map[string]execResult
	fallback execResult
}

func newExecStub() *execStub {
	return &execStub{results: map[string]execResult{}}
}

func (s *execStub) on(cmdline, out string, failed bool) *execStub {
	r := execResult{out: out}
	if failed {
		r.err = errors.New("exit status 1")
	}
	s.results[cmdline] = r

	return s
}

func (s *execStub) exec(_ context.Context, command string, args ...string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cmdline := strings.Join(append([]string{command}, args...), " ")
	s.calls = append(s.calls, cmdline)

	if r, ok := s.results[cmdline]; ok {
		return r.out, r.err
	}

	return s.fallback.out, s.fallback.err
}
