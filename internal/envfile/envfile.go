// Package envfile decodes the shell-syntax environment file written by the
// session bus launcher. The file holds one variable assignment per line, in
// the form produced by `dbus-launch --sh-syntax`:
//
//	DBUS_SESSION_BUS_ADDRESS='unix:path=/tmp/x';
//	DBUS_SESSION_BUS_PID=1234;
//
// This package only reads the format. The file is authored by the launcher
// subprocess and deleted by the session bus supervisor; nothing in nROS ever
// writes it.
package envfile

import (
	"bufio"
	"io"
	"strings"
)

// Variable names the supervisor relies on. The launcher may emit more; they
// are decoded and exported to the environment unchanged.
const (
	// AddressVar holds the bus endpoint address.
	AddressVar = "DBUS_SESSION_BUS_ADDRESS"
	// PIDVar holds the pid of the bus daemon process.
	PIDVar = "DBUS_SESSION_BUS_PID"
)

// Config maps variable names to their decoded values.
type Config map[string]string

// Decode reads variable assignments from r, one per line. A line qualifies
// only if it contains '='; anything else (blank lines, launcher chatter) is
// skipped silently. When the same variable appears more than once the last
// occurrence wins. Empty input yields an empty, non-nil Config.
func Decode(r io.Reader) (Config, error) {
	cfg := Config{}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		name, raw, ok := strings.Cut(scanner.Text(), "=")
		if !ok {
			continue
		}
		cfg[name] = cleanValue(raw)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DecodeString decodes assignments from an in-memory string.
func DecodeString(s string) (Config, error) {
	return Decode(strings.NewReader(s))
}

// cleanValue strips surrounding whitespace, one trailing ';' and one pair of
// enclosing single quotes, in that order.
func cleanValue(raw string) string {
	v := strings.TrimSpace(raw)
	v = strings.TrimSuffix(v, ";")
	if len(v) >= 2 && strings.HasPrefix(v, "'") && strings.HasSuffix(v, "'") {
		v = v[1 : len(v)-1]
	}
	return v
}
