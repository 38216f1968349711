//go:build linux && (amd64 || 386)

package pio

import (
	"fmt"

	"github.com/u-root/u-root/pkg/memio"
	"golang.org/x/sys/unix"
)

// RawPort holds ioperm grants for a fixed set of ports and moves bytes
// through /dev/port. It rejects ports outside the granted set so a stray
// address can never reach other hardware.
type RawPort struct {
	granted map[uint16]bool
}

// NewRawPort requests OS permission for each of the given ports via
// ioperm(2). A denial (not root, or missing CAP_SYS_RAWIO) returns an error
// wrapping ErrPermission; callers treat it as fatal. Grants already acquired
// are released before returning the error.
func NewRawPort(ports ...uint16) (*RawPort, error) {
	granted := make(map[uint16]bool, len(ports))
	for _, p := range ports {
		if err := unix.Ioperm(int(p), 1, 1); err != nil {
			for g := range granted {
				unix.Ioperm(int(g), 1, 0)
			}
			return nil, fmt.Errorf("pio: ioperm(0x%x): %v: %w", p, err, ErrPermission)
		}
		granted[p] = true
	}
	return &RawPort{granted: granted}, nil
}

func (r *RawPort) check(port uint16) error {
	if !r.granted[port] {
		return fmt.Errorf("pio: port 0x%x is outside the granted set", port)
	}
	return nil
}

// ReadPort reads one byte from port.
func (r *RawPort) ReadPort(port uint16) (byte, error) {
	if err := r.check(port); err != nil {
		return 0, err
	}
	var v memio.Uint8
	if err := memio.In(port, &v); err != nil {
		return 0, fmt.Errorf("pio: in(0x%x): %w", port, err)
	}
	return byte(v), nil
}

// WritePort writes one byte to port.
func (r *RawPort) WritePort(port uint16, value byte) error {
	if err := r.check(port); err != nil {
		return err
	}
	v := memio.Uint8(value)
	if err := memio.Out(port, &v); err != nil {
		return fmt.Errorf("pio: out(0x%x): %w", port, err)
	}
	return nil
}

// Close releases the ioperm grants. The RawPort must not be used afterwards.
func (r *RawPort) Close() error {
	var firstErr error
	for p := range r.granted {
		if err := unix.Ioperm(int(p), 1, 0); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("pio: releasing ioperm(0x%x): %w", p, err)
		}
	}
	r.granted = nil
	return firstErr
}
