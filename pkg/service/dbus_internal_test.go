package service

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubDBusAPI struct {
	mu sync.Mutex

	calls        []string
	props        map[string]interface{}
	serviceProps map[string]interface{}
	jobResult    string
	jobErr       error
	reloadErr    error
	closed       int
}

func (s *stubDBusAPI) record(call string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls = append(s.calls, call)
}

func (s *stubDBusAPI) queueJob(call, name, mode string, ch chan<- string) (int, error) {
	s.record(call + " " + name + " " + mode)
	if s.jobErr != nil {
		return 0, s.jobErr
	}
	if s.jobResult != "" {
		go func() {
			ch <- s.jobResult
		}()
	}

	return 1, nil
}

func (s *stubDBusAPI) StartUnitContext(_ context.Context, name string, mode string, ch chan<- string) (int, error) {
	return s.queueJob("start", name, mode, ch)
}

func (s *stubDBusAPI) StopUnitContext(_ context.Context, name string, mode string, ch chan<- string) (int, error) {
	return s.queueJob("stop", name, mode, ch)
}

func (s *stubDBusAPI) RestartUnitContext(_ context.Context, name string, mode string, ch chan<- string) (int, error) {
	return s.queueJob("restart", name, mode, ch)
}

func (s *stubDBusAPI) ReloadContext(_ context.Context) error {
	s.record("reload")

	return s.reloadErr
}

func (s *stubDBusAPI) GetUnitPropertiesContext(_ context.Context, unit string) (map[string]interface{}, error) {
	s.record("properties " + unit)

	return s.props, nil
}

func (s *stubDBusAPI) GetUnitTypePropertiesContext(
	_ context.Context, unit string, unitType string,
) (map[string]interface{}, error) {
	s.record("type properties " + unit + " " + unitType)

	return s.serviceProps, nil
}

func (s *stubDBusAPI) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed++
}

func newStubbedDBus(stub *stubDBusAPI) *DBus {
	return NewDBus(func(_ context.Context) (DBusAPI, error) {
		return stub, nil
	})
}

func Test_DBus_StatusAndPID(t *testing.T) {
	selfPID := os.Getpid()

	tests := []struct {
		name      string
		active    string
		mainPID   uint32
		wantState State
		wantPID   int
	}{
		{name: "running", active: "active", mainPID: uint32(selfPID), wantState: StateRunning, wantPID: selfPID},
		{name: "stopped", active: "inactive", wantState: StateStopped},
		{name: "failed", active: "failed", wantState: StateFailed},
		{name: "starting", active: "activating", mainPID: uint32(selfPID), wantState: StateStarting},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			stub := &stubDBusAPI{
				props:        map[string]interface{}{"LoadState": "loaded", "ActiveState": test.active},
				serviceProps: map[string]interface{}{"MainPID": test.mainPID},
			}
			svc := newStubbedDBus(stub)

			state, err := svc.Status(context.Background(), "valheim-server")
			require.NoError(t, err)
			assert.Equal(t, test.wantState, state)

			pid, err := svc.PID(context.Background(), "valheim-server")
			require.NoError(t, err)
			assert.Equal(t, test.wantPID, pid)
			assert.Equal(t, 2, stub.closed)
		})
	}
}

func Test_DBus_NotFound(t *testing.T) {
	stub := &stubDBusAPI{
		props: map[string]interface{}{"LoadState": "not-found", "ActiveState": "inactive"},
	}
	svc := newStubbedDBus(stub)

	err := svc.Start(context.Background(), "valheim-server")

	var notFoundErr *NotFoundError
	require.ErrorAs(t, err, &notFoundErr)
	assert.Equal(t, []string{"properties valheim-server.service"}, stub.calls)
}

func Test_DBus_StartWaitsForJob(t *testing.T) {
	stub := &stubDBusAPI{
		props:     map[string]interface{}{"LoadState": "loaded", "ActiveState": "inactive"},
		jobResult: "done",
	}
	svc := newStubbedDBus(stub)

	require.NoError(t, svc.Start(context.Background(), "valheim-server"))
	assert.Contains(t, stub.calls, "start valheim-server.service replace")
}

func Test_DBus_JobFailures(t *testing.T) {
	tests := []struct {
		name      string
		jobResult string
		jobErr    error
	}{
		{name: "job failed", jobResult: "failed"},
		{name: "job rejected", jobErr: errors.New("Access denied")},
		{name: "job never finishes"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			stub := &stubDBusAPI{
				props:     map[string]interface{}{"LoadState": "loaded", "ActiveState": "active"},
				jobResult: test.jobResult,
				jobErr:    test.jobErr,
			}
			svc := newStubbedDBus(stub)
			svc.timeout = 100 * time.Millisecond

			started := time.Now()
			err := svc.Stop(context.Background(), "valheim-server")

			var controlErr *ControlError
			require.ErrorAs(t, err, &controlErr)
			assert.Equal(t, "stop", controlErr.Op)
			assert.Less(t, time.Since(started), 2*time.Second)
		})
	}
}

func Test_DBus_ConnectFailure(t *testing.T) {
	svc := NewDBus(func(_ context.Context) (DBusAPI, error) {
		return nil, errors.New("dial unix /run/systemd/private: connect: permission denied")
	})

	_, err := svc.Status(context.Background(), "valheim-server")

	var controlErr *ControlError
	require.ErrorAs(t, err, &controlErr)

	err = svc.ReloadUnits(context.Background())
	require.ErrorAs(t, err, &controlErr)
}

func Test_DBus_ReloadUnits(t *testing.T) {
	stub := &stubDBusAPI{}
	svc := newStubbedDBus(stub)

	require.NoError(t, svc.ReloadUnits(context.Background()))
	assert.Equal(t, []string{"reload"}, stub.calls)
	assert.Equal(t, 1, stub.closed)
}
