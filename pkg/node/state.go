package node

// State identifies where a node is in its lifecycle. Transitions are
// strictly monotonic; no state is ever revisited and exactly one node
// instance exists per process.
type State int

const (
	StateCreated State = iota
	StateConfigured
	StatePrepared
	StateRegistered
	StateRunning
	StateTerminating
	StateTerminated
)

// String makes State satisfy the fmt.Stringer interface.
func (s State) String() string {
	switch s {
	case StateCreated:
		return "Created"
	case StateConfigured:
		return "Configured"
	case StatePrepared:
		return "Prepared"
	case StateRegistered:
		return "Registered"
	case StateRunning:
		return "Running"
	case StateTerminating:
		return "Terminating"
	case StateTerminated:
		return "Terminated"
	default:
		return "Unknown"
	}
}
