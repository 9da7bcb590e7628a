// Package node implements the nROS node lifecycle.
//
// A node is a worker process handling one specific functionality of the
// system: a driver for a piece of hardware, on-the-fly image processing, an
// AI task. Nodes communicate over the shared session bus by publishing
// signals, subscribing to them or calling methods on other nodes.
//
// A concrete node implements the Node interface and hands itself to Main:
//
//	type heartbeat struct{ ... }
//
//	func main() {
//	    node.Main("Heartbeat", &heartbeat{})
//	}
//
// The runtime then drives the fixed lifecycle:
//
//	Created -> Configured -> Prepared -> Registered -> Running
//	        -> Terminating -> Terminated
//
// Command line parsing, logging setup and the shared bus startup all happen
// before the first hook runs; the termination signal handler is installed
// only after the node is registered on the bus and triggers Terminate on
// the one runtime instance it captured. SIGINT and SIGTERM are handled
// identically.
package node
