//go:build !linux || (!amd64 && !386)

package pio

// RawPort is unavailable off linux/x86: there is no ioperm and no /dev/port.
// The stub keeps the package compiling so the simulated backend still works
// everywhere.
type RawPort struct{}

// NewRawPort always fails on this platform.
func NewRawPort(ports ...uint16) (*RawPort, error) {
	return nil, ErrUnsupported
}

func (r *RawPort) ReadPort(port uint16) (byte, error) { return 0, ErrUnsupported }

func (r *RawPort) WritePort(port uint16, value byte) error { return ErrUnsupported }

func (r *RawPort) Close() error { return nil }
