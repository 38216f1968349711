// Package pio provides byte-granular access to x86 I/O ports. The real
// implementation needs raw-I/O privilege; tests substitute a simulated
// backend behind the same interface.
package pio

import "errors"

var (
	// ErrPermission wraps an OS denial of the port access grant. There is
	// no meaningful retry: the process either has the privilege or it
	// does not.
	ErrPermission = errors.New("pio: port access denied")

	// ErrUnsupported is returned on platforms without raw port I/O.
	ErrUnsupported = errors.New("pio: raw port I/O not supported on this platform")
)

// PortIO is the capability for port byte transfers. A value is created once
// at startup and passed explicitly to everything that touches the ports.
type PortIO interface {
	ReadPort(port uint16) (byte, error)
	WritePort(port uint16, value byte) error
	Close() error
}
