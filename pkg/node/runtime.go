package node

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/coreos/go-systemd/v22/daemon"

	"nros/internal/sessionbus"
	"nros/pkg/logging"
	"nros/pkg/transport"
)

const bannerWidth = 60

// Runtime drives a single node through its lifecycle. Exactly one Runtime
// exists per node process; it owns the lifecycle state for the lifetime of
// the process and is the explicit context every hook can reach, replacing
// any ambient global state.
type Runtime struct {
	impl Node
	opts Options

	name string
	pid  int

	mu    sync.Mutex
	state State
	conn  transport.Connection

	supervisor *sessionbus.Supervisor

	// swapped in tests
	ensureBus func(ctx context.Context) error
	connect   func() (transport.Connection, error)
	notify    func(state string)
}

// NewRuntime resolves the node identity and binds the runtime to the real
// session bus supervisor and transport.
func NewRuntime(impl Node, opts Options) *Runtime {
	name := opts.Name
	if name == "" {
		name = fmt.Sprintf("nros.%s-%d", opts.Kind, os.Getpid())
	}
	r := &Runtime{
		impl:       impl,
		opts:       opts,
		name:       name,
		pid:        os.Getpid(),
		supervisor: sessionbus.New(),
		connect:    transport.ConnectSession,
		notify: func(state string) {
			// ignored outside a systemd unit
			_, _ = daemon.SdNotify(false, state)
		},
	}
	r.ensureBus = r.ensureSharedBus
	return r
}

// Name returns the resolved node identity, which is also the well-known
// name the node registers on the bus.
func (r *Runtime) Name() string { return r.name }

// State returns the current lifecycle state.
func (r *Runtime) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Verbose reports whether --verbose was given.
func (r *Runtime) Verbose() bool { return r.opts.Verbose }

// Debug reports whether --debug was given.
func (r *Runtime) Debug() bool { return r.opts.Debug }

// Run executes the node main line: ensure the shared bus, construct and
// configure the node, register it on the bus, then block in the dispatch
// loop until Terminate is triggered by a signal or programmatically. It
// returns nil after a clean loop exit; any error means the process must
// exit non-zero.
func (r *Runtime) Run(ctx context.Context) error {
	logging.Info(r.opts.Kind, "%s", banner(" NODE STARTED ", '-'))
	logging.Info(r.opts.Kind, "pid=%d", r.pid)

	if err := r.ensureBus(ctx); err != nil {
		return r.die(err)
	}

	logging.Info(r.opts.Kind, "initializing node '%s'", r.name)
	r.impl.OnInit(r)
	r.setState(StateCreated)

	cfg, err := NormalizeConfig(r.opts.Config)
	if err != nil {
		return r.die(err)
	}
	if err := r.impl.OnConfigure(cfg); err != nil {
		// configuration failures abort cleanly: no later hook, no loop
		return r.die(err)
	}
	r.setState(StateConfigured)

	if err := r.impl.OnPrepare(); err != nil {
		return err
	}
	r.setState(StatePrepared)

	logging.Info(r.opts.Kind, "connecting to bus as %s", r.name)
	conn, err := r.connect()
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.conn = conn
	r.mu.Unlock()

	if err := conn.Register(r.name); err != nil {
		return err
	}
	if err := r.impl.OnRegister(conn); err != nil {
		return err
	}
	r.setState(StateRegistered)

	// Installed only now: a handler firing before registration would hit a
	// node that is not ready to shut down. The handler captures this
	// runtime; SIGINT (keyboard interrupt) is treated exactly like the
	// termination signal.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGTERM, os.Interrupt)
	defer func() {
		signal.Stop(sigs)
		close(sigs)
	}()
	go func() {
		sig, ok := <-sigs
		if !ok {
			return
		}
		logging.Info(r.opts.Kind, "%s", banner(fmt.Sprintf(" %s caught ", sig), '!'))
		r.Terminate()
	}()

	r.notify(daemon.SdNotifyReady)
	r.setState(StateRunning)

	logging.Info(r.opts.Kind, "starting loop")
	if err := conn.Run(); err != nil {
		return err
	}
	logging.Info(r.opts.Kind, "loop exited")

	if err := conn.Close(); err != nil {
		logging.Warn(r.opts.Kind, "closing bus connection: %v", err)
	}
	logging.Info(r.opts.Kind, "%s", banner(" TERMINATED ", '-'))
	return nil
}

// Terminate triggers the node termination stage: OnShutdown runs while the
// transport is still connected, then the dispatch loop is asked to stop.
// Callable from the signal handler or programmatically; the guarded state
// swap makes a second or concurrent call a safe no-op.
func (r *Runtime) Terminate() {
	r.mu.Lock()
	if r.state >= StateTerminating {
		r.mu.Unlock()
		return
	}
	r.state = StateTerminating
	conn := r.conn
	r.mu.Unlock()

	logging.Info(r.opts.Kind, "terminate called")
	r.notify(daemon.SdNotifyStopping)
	r.impl.OnShutdown()
	if conn != nil {
		conn.Stop()
	}

	r.mu.Lock()
	r.state = StateTerminated
	r.mu.Unlock()
}

// ensureSharedBus starts the shared session bus if needed and exports its
// endpoint variables so the transport client can discover it.
func (r *Runtime) ensureSharedBus(ctx context.Context) error {
	cfg, alreadyRunning, err := r.supervisor.Start(ctx)
	if err != nil {
		return err
	}
	if alreadyRunning {
		logging.Debug(r.opts.Kind, "shared bus already running")
	}
	return sessionbus.ExportEnvironment(cfg)
}

// die logs a fatal cause and the abort banner, then hands the error back to
// the caller for a non-zero exit. Used only for pre-loop failures.
func (r *Runtime) die(err error) error {
	logging.Error(r.opts.Kind, err, "node aborted")
	logging.Info(r.opts.Kind, "%s", banner(" ABORTED ", '-'))
	return err
}

func (r *Runtime) setState(s State) {
	r.mu.Lock()
	// states are strictly monotonic; a termination racing the Running
	// transition must not be rolled back
	if s > r.state {
		r.state = s
	}
	r.mu.Unlock()
	logging.Debug(r.opts.Kind, "state -> %s", s)
}

// banner centers msg in a fixed-width rule of fill characters.
func banner(msg string, fill byte) string {
	pad := bannerWidth - len(msg)
	if pad < 0 {
		return msg
	}
	left := pad / 2
	return strings.Repeat(string(fill), left) + msg + strings.Repeat(string(fill), pad-left)
}
