// Package transport wraps the D-Bus client binding behind the small
// capability set the node lifecycle needs: connect to an address, register a
// well-known name, block in a dispatch loop, stop the loop. Keeping the
// binding behind this interface keeps the lifecycle controller independent
// of the wire protocol and lets tests substitute a fake connection.
package transport

import (
	"fmt"
	"sync"

	"github.com/godbus/dbus/v5"
)

// DefaultObjectPath is the conventional root path for a node's service
// objects.
const DefaultObjectPath = dbus.ObjectPath("/")

// Connection is the client capability set used by the node runtime.
type Connection interface {
	// Register claims a well-known name on the bus. It fails when the name
	// is already owned by another connection.
	Register(name string) error
	// Run blocks in the dispatch loop until Stop is called. Incoming bus
	// activity is handled by the binding while Run is blocked.
	Run() error
	// Stop requests the dispatch loop to exit. Safe to call more than once.
	Stop()
	// Close tears the connection down.
	Close() error
	// Bus exposes the underlying binding connection for exporting service
	// objects and emitting signals.
	Bus() *dbus.Conn
}

type busConnection struct {
	conn *dbus.Conn
	stop chan struct{}
	once sync.Once
}

// Connect dials the bus at the given address, authenticates and completes
// the initial handshake.
func Connect(address string) (Connection, error) {
	conn, err := dbus.Connect(address)
	if err != nil {
		return nil, fmt.Errorf("connect to bus at %s: %w", address, err)
	}
	return &busConnection{conn: conn, stop: make(chan struct{})}, nil
}

// ConnectSession connects to the session bus located through the process
// environment (DBUS_SESSION_BUS_ADDRESS).
func ConnectSession() (Connection, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("connect to session bus: %w", err)
	}
	return &busConnection{conn: conn, stop: make(chan struct{})}, nil
}

// ConnectRemote connects to a bus exposed over TCP by a remote host.
func ConnectRemote(host string, port int) (Connection, error) {
	return Connect(RemoteAddress(host, port))
}

// RemoteAddress builds the bus address for a TCP connection to host:port.
func RemoteAddress(host string, port int) string {
	return fmt.Sprintf("tcp:host=%s,port=%d", host, port)
}

func (c *busConnection) Register(name string) error {
	reply, err := c.conn.RequestName(name, dbus.NameFlagDoNotQueue)
	if err != nil {
		return fmt.Errorf("request name %s: %w", name, err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		return fmt.Errorf("name %s is already owned on the bus", name)
	}
	return nil
}

func (c *busConnection) Run() error {
	<-c.stop
	return nil
}

func (c *busConnection) Stop() {
	c.once.Do(func() { close(c.stop) })
}

func (c *busConnection) Close() error {
	return c.conn.Close()
}

func (c *busConnection) Bus() *dbus.Conn {
	return c.conn
}

// NodeObject returns a proxy for an object inside the named node. An empty
// path selects the conventional root path.
func NodeObject(c Connection, nodeName string, path dbus.ObjectPath) dbus.BusObject {
	if path == "" {
		path = DefaultObjectPath
	}
	return c.Bus().Object(nodeName, path)
}
