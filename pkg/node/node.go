package node

import (
	"github.com/spf13/pflag"

	"nros/pkg/transport"
)

// Node is the capability set a concrete node implements. The runtime drives
// the hooks in a fixed, total order: OnInit, OnConfigure, OnPrepare,
// OnRegister, then OnShutdown during termination. Each hook runs at most
// once in a normal run.
//
// Error handling differs by hook, matching the lifecycle contract:
//
//   - OnConfigure errors are caught by the runtime and turned into a fatal
//     abort: the process exits non-zero and no later hook or the dispatch
//     loop is ever entered.
//   - OnPrepare and OnRegister errors are not handled by the runtime; they
//     propagate and crash the process. Robustness there is deliberately the
//     node implementation's job.
type Node interface {
	// OnInit is called once, right after the runtime has resolved the node
	// identity. Keep a reference to the runtime here if the node needs its
	// name or wants to trigger Terminate programmatically.
	OnInit(rt *Runtime)

	// OnConfigure receives the normalized configuration mapping (possibly
	// empty). This is the place to build the objects doing the real work.
	OnConfigure(cfg map[string]any) error

	// OnPrepare runs last pre-flight checks with everything constructed but
	// nothing connected yet.
	OnPrepare() error

	// OnRegister is called once the node's well-known name is claimed on
	// the bus. Export service objects on conn here.
	OnRegister(conn transport.Connection) error

	// OnShutdown runs during termination, while the transport is still
	// connected, just before the dispatch loop is stopped. It must be fast:
	// it can execute in signal-handling context.
	OnShutdown()
}

// FlagContributor is implemented by nodes that contribute their own command
// line flags on top of the recognized common set.
type FlagContributor interface {
	AddFlags(fs *pflag.FlagSet)
}

// Options carries the invocation arguments of a node process.
type Options struct {
	// Kind is the node type name, used for the generated identity.
	Kind string

	// Name overrides the generated node name. It must be a valid bus name;
	// when empty the identity defaults to nros.<Kind>-<pid>, unique per
	// host without external coordination.
	Name string

	// Config is the -C/--config input. The flag always supplies a path
	// string; programmatic callers may instead pass an in-memory mapping or
	// an open reader. See NormalizeConfig for the accepted forms.
	Config any

	// LoggerConfig is the path of a JSON logging override file.
	LoggerConfig string

	Verbose bool
	Debug   bool
}
