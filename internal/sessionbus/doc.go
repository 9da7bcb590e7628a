// Package sessionbus supervises the singleton session bus daemon every nROS
// node on the host shares.
//
// The supervisor's contract is deliberately simple. A single well-known env
// file, written by the external launcher and decoded by the envfile package,
// is both the rendezvous point (nodes read the bus address from it) and the
// liveness proxy (the bus counts as running while the file exists). The
// proxy is necessary but not sufficient: a daemon that died without cleanup
// still looks running, and concurrent Start calls from independent node
// processes can race to launch the daemon. Neither hazard is mitigated here;
// both are part of the inherited contract and called out on the operations
// they affect.
//
// Start is idempotent: when the bus is already running it returns the
// decoded configuration without spawning anything. Stop is a no-op when the
// bus is not running.
package sessionbus
