package sessionbus

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"syscall"

	"nros/internal/envfile"
	"nros/pkg/logging"
)

const (
	envFileName     = "nros-bus.env"
	launcherProgram = "dbus-launch"
	monitorProgram  = "dbus-monitor"

	logSubsystem = "Supervisor"
)

// ErrNotRunning reports that the shared bus has not been started through
// this supervisor (no env file exists).
var ErrNotRunning = errors.New("nROS bus is not running")

// LaunchError reports a bus launcher subprocess that exited non-zero.
type LaunchError struct {
	Code int
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("bus launcher exited with code %d", e.Code)
}

// MonitorError reports a monitor subprocess that failed for a reason other
// than being interrupted.
type MonitorError struct {
	Code int
}

func (e *MonitorError) Error() string {
	return fmt.Sprintf("bus monitor exited with code %d", e.Code)
}

// Supervisor owns the lifecycle of the singleton session bus daemon shared
// by every node on the host. The env file at EnvFilePath is the rendezvous
// point: its existence is the liveness proxy for the bus. That proxy is
// necessary but not sufficient: "exists" means "started and not yet stopped
// through this supervisor", not "the daemon is currently alive".
type Supervisor struct {
	EnvFilePath string

	// subprocess hooks, swapped in tests
	runLauncher func(ctx context.Context, path string) error
	runMonitor  func(ctx context.Context, address string) error
	signalPID   func(pid int) error
}

// DefaultEnvFilePath returns the well-known env file location shared by all
// nodes on the host.
func DefaultEnvFilePath() string {
	return filepath.Join(os.TempDir(), envFileName)
}

// New returns a Supervisor bound to the default env file path and the real
// dbus-launch / dbus-monitor programs.
func New() *Supervisor {
	return &Supervisor{
		EnvFilePath: DefaultEnvFilePath(),
		runLauncher: launchBus,
		runMonitor:  monitorBus,
		signalPID:   terminatePID,
	}
}

// IsRunning reports whether the shared bus is considered running. This is a
// single stat of the env file; see the Supervisor doc for the limits of the
// file-existence proxy.
func (s *Supervisor) IsRunning() bool {
	_, err := os.Stat(s.EnvFilePath)
	return err == nil
}

// ReadConfig decodes the env file. It fails with ErrNotRunning when the file
// is absent; an existing but empty file decodes to an empty mapping.
func (s *Supervisor) ReadConfig() (envfile.Config, error) {
	f, err := os.Open(s.EnvFilePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotRunning
		}
		return nil, err
	}
	defer f.Close()
	return envfile.Decode(f)
}

// Start ensures the shared bus is running and returns its configuration.
// When the bus is already running no subprocess is spawned and alreadyRunning
// is true. Otherwise the launcher is invoked synchronously, writing its
// shell-syntax output to the env file; there is no timeout, so a hung
// launcher blocks indefinitely.
func (s *Supervisor) Start(ctx context.Context) (cfg envfile.Config, alreadyRunning bool, err error) {
	if s.IsRunning() {
		cfg, err = s.ReadConfig()
		return cfg, true, err
	}

	logging.Info(logSubsystem, "starting session bus")
	if err := s.runLauncher(ctx, s.EnvFilePath); err != nil {
		// the launcher may have written a partial file before failing
		os.Remove(s.EnvFilePath)
		logging.Error(logSubsystem, err, "session bus launch failed")
		return nil, false, err
	}

	cfg, err = s.ReadConfig()
	if err != nil {
		return nil, false, err
	}
	logging.Info(logSubsystem, "session bus started, pid=%s", cfg[envfile.PIDVar])
	return cfg, false, nil
}

// Stop tears the shared bus down. When the bus is not running this is a
// no-op. Otherwise the recorded daemon pid is sent SIGTERM (best-effort, no
// confirmation of death) and the env file is removed. Removing the file
// before the daemon is confirmed dead means an immediate Start could race
// with a not-yet-dead daemon; that hazard is inherited from the env-file
// contract and left unresolved.
func (s *Supervisor) Stop() error {
	if !s.IsRunning() {
		return nil
	}

	cfg, err := s.ReadConfig()
	if err != nil {
		return err
	}
	if raw, ok := cfg[envfile.PIDVar]; ok {
		if pid, err := strconv.Atoi(raw); err == nil {
			// best effort, the daemon may already be gone
			_ = s.signalPID(pid)
		}
	}

	logging.Info(logSubsystem, "stopping session bus")
	return os.Remove(s.EnvFilePath)
}

// Monitor attaches a blocking monitor subprocess to the bus address and
// waits until it exits or ctx is cancelled. A non-zero exit that is not an
// interruption surfaces as a MonitorError.
func (s *Supervisor) Monitor(ctx context.Context) error {
	cfg, err := s.ReadConfig()
	if err != nil {
		return err
	}
	return s.runMonitor(ctx, cfg[envfile.AddressVar])
}

// ExportEnvironment injects the bus variables into the process environment
// so the transport client library can locate the shared bus.
func ExportEnvironment(cfg envfile.Config) error {
	for name, value := range cfg {
		if err := os.Setenv(name, value); err != nil {
			return fmt.Errorf("export %s: %w", name, err)
		}
	}
	return nil
}

// launchBus runs the external launcher and captures its shell-syntax output
// into the env file.
func launchBus(ctx context.Context, path string) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create env file %s: %w", path, err)
	}
	defer out.Close()

	cmd := exec.CommandContext(ctx, launcherProgram, "--sh-syntax")
	cmd.Stdout = out
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &LaunchError{Code: exitErr.ExitCode()}
		}
		return fmt.Errorf("run %s: %w", launcherProgram, err)
	}
	return nil
}

// monitorBus streams bus traffic to the terminal until the monitor exits or
// the caller is interrupted.
func monitorBus(ctx context.Context, address string) error {
	cmd := exec.CommandContext(ctx, monitorProgram, "--address", address)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	err := cmd.Run()
	if err == nil || ctx.Err() != nil {
		// cancellation is the normal way to leave the monitor
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
			// Ctrl-C reaches the child through the foreground process group
			return nil
		}
		return &MonitorError{Code: exitErr.ExitCode()}
	}
	return fmt.Errorf("run %s: %w", monitorProgram, err)
}

// terminatePID delivers the termination signal to the bus daemon.
func terminatePID(pid int) error {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return err
	}
	return proc.Signal(syscall.SIGTERM)
}
