package sessionbus

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"nros/internal/envfile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const launcherOutput = "DBUS_SESSION_BUS_ADDRESS='unix:abstract=/tmp/dbus-test,guid=cafe';\n" +
	"DBUS_SESSION_BUS_PID=4321;\n"

// newTestSupervisor returns a supervisor bound to a temp env file whose
// launcher writes canned output and counts invocations.
func newTestSupervisor(t *testing.T) (*Supervisor, *int) {
	t.Helper()
	launches := 0
	s := &Supervisor{
		EnvFilePath: filepath.Join(t.TempDir(), "nros-bus.env"),
		runLauncher: func(_ context.Context, path string) error {
			launches++
			return os.WriteFile(path, []byte(launcherOutput), 0o644)
		},
		runMonitor: func(context.Context, string) error { return nil },
		signalPID:  func(int) error { return nil },
	}
	return s, &launches
}

func TestStartWhenNotRunning(t *testing.T) {
	s, launches := newTestSupervisor(t)

	require.False(t, s.IsRunning())

	cfg, alreadyRunning, err := s.Start(context.Background())
	require.NoError(t, err)
	assert.False(t, alreadyRunning)
	assert.Equal(t, 1, *launches)
	assert.True(t, s.IsRunning())
	assert.Equal(t, "unix:abstract=/tmp/dbus-test,guid=cafe", cfg[envfile.AddressVar])
	assert.Equal(t, "4321", cfg[envfile.PIDVar])
}

func TestStartIsIdempotent(t *testing.T) {
	s, launches := newTestSupervisor(t)

	_, _, err := s.Start(context.Background())
	require.NoError(t, err)

	cfg, alreadyRunning, err := s.Start(context.Background())
	require.NoError(t, err)
	assert.True(t, alreadyRunning)
	assert.Equal(t, 1, *launches, "second start must not spawn a launcher")
	assert.Equal(t, "4321", cfg[envfile.PIDVar])
}

func TestStartLauncherFailureRemovesPartialFile(t *testing.T) {
	s, _ := newTestSupervisor(t)
	s.runLauncher = func(_ context.Context, path string) error {
		// simulate a launcher that wrote half a file before dying
		_ = os.WriteFile(path, []byte("DBUS_SESSION_BUS_ADD"), 0o644)
		return &LaunchError{Code: 3}
	}

	_, _, err := s.Start(context.Background())

	var launchErr *LaunchError
	require.ErrorAs(t, err, &launchErr)
	assert.Equal(t, 3, launchErr.Code)
	assert.False(t, s.IsRunning(), "partial env file must be cleaned up")
}

func TestStopWhenNotRunningIsNoOp(t *testing.T) {
	s, _ := newTestSupervisor(t)

	require.NoError(t, s.Stop())
	assert.False(t, s.IsRunning())
}

func TestStopSignalsDaemonAndRemovesEnvFile(t *testing.T) {
	s, _ := newTestSupervisor(t)
	var signalled int
	s.signalPID = func(pid int) error {
		signalled = pid
		return nil
	}

	_, _, err := s.Start(context.Background())
	require.NoError(t, err)

	require.NoError(t, s.Stop())
	assert.Equal(t, 4321, signalled)
	assert.False(t, s.IsRunning())
}

func TestStopIgnoresSignalFailure(t *testing.T) {
	s, _ := newTestSupervisor(t)
	s.signalPID = func(int) error { return errors.New("no such process") }

	_, _, err := s.Start(context.Background())
	require.NoError(t, err)

	require.NoError(t, s.Stop(), "signal delivery is best-effort")
	assert.False(t, s.IsRunning())
}

func TestReadConfigWhenNotRunning(t *testing.T) {
	s, _ := newTestSupervisor(t)

	_, err := s.ReadConfig()
	assert.ErrorIs(t, err, ErrNotRunning)
}

func TestReadConfigEmptyFile(t *testing.T) {
	s, _ := newTestSupervisor(t)
	require.NoError(t, os.WriteFile(s.EnvFilePath, nil, 0o644))

	cfg, err := s.ReadConfig()
	require.NoError(t, err)
	assert.Empty(t, cfg)
}

func TestMonitorWhenNotRunning(t *testing.T) {
	s, _ := newTestSupervisor(t)

	err := s.Monitor(context.Background())
	assert.ErrorIs(t, err, ErrNotRunning)
}

func TestMonitorPassesRecordedAddress(t *testing.T) {
	s, _ := newTestSupervisor(t)
	var monitored string
	s.runMonitor = func(_ context.Context, address string) error {
		monitored = address
		return nil
	}

	_, _, err := s.Start(context.Background())
	require.NoError(t, err)

	require.NoError(t, s.Monitor(context.Background()))
	assert.Equal(t, "unix:abstract=/tmp/dbus-test,guid=cafe", monitored)
}

func TestMonitorSurfacesFailure(t *testing.T) {
	s, _ := newTestSupervisor(t)
	s.runMonitor = func(context.Context, string) error {
		return &MonitorError{Code: 2}
	}

	_, _, err := s.Start(context.Background())
	require.NoError(t, err)

	var monitorErr *MonitorError
	require.ErrorAs(t, s.Monitor(context.Background()), &monitorErr)
	assert.Equal(t, 2, monitorErr.Code)
}

func TestExportEnvironment(t *testing.T) {
	t.Setenv("NROS_TEST_ADDR", "")
	t.Setenv("NROS_TEST_PID", "")

	err := ExportEnvironment(envfile.Config{
		"NROS_TEST_ADDR": "unix:path=/tmp/sock",
		"NROS_TEST_PID":  "77",
	})

	require.NoError(t, err)
	assert.Equal(t, "unix:path=/tmp/sock", os.Getenv("NROS_TEST_ADDR"))
	assert.Equal(t, "77", os.Getenv("NROS_TEST_PID"))
}

func TestWatchReportsTransitions(t *testing.T) {
	s, _ := newTestSupervisor(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	transitions := make(chan bool, 4)
	done := make(chan error, 1)
	go func() {
		done <- s.Watch(ctx, func(running bool) {
			transitions <- running
		})
	}()

	// give the watcher a moment to register, then flip the bus state
	time.Sleep(200 * time.Millisecond)
	_, _, err := s.Start(ctx)
	require.NoError(t, err)
	require.True(t, <-transitions, "start must be reported as running")

	require.NoError(t, s.Stop())
	require.False(t, <-transitions, "stop must be reported as stopped")

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}
