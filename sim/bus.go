// Package sim provides a simulated embedded controller behind an in-memory
// port bus. It exists so the transaction engine, the reporter and the
// monitor can be exercised without raw-I/O privilege, and so tests can
// inspect the exact sequence of port accesses a transaction produced.
package sim

import (
	"fmt"
	"sync"
)

// Device handles byte-wide I/O on the ports it is registered for. Devices
// do their own locking; the bus only serializes the routing table.
type Device interface {
	ReadPort(port uint16) byte
	WritePort(port uint16, value byte)
}

// Bus routes port accesses to registered devices. It implements pio.PortIO,
// so a Controller can run against simulated hardware unchanged.
type Bus struct {
	lock  sync.Mutex
	ports map[uint16]Device
}

// NewBus creates an empty bus. Accessing an unregistered port is an error,
// mirroring the fact that the real backend refuses ports it was not
// granted.
func NewBus() *Bus {
	return &Bus{ports: make(map[uint16]Device)}
}

// Handle registers device for each of the given ports. Re-registering a
// port replaces the previous device.
func (b *Bus) Handle(device Device, ports ...uint16) {
	b.lock.Lock()
	defer b.lock.Unlock()
	for _, p := range ports {
		b.ports[p] = device
	}
}

func (b *Bus) device(port uint16) (Device, error) {
	b.lock.Lock()
	defer b.lock.Unlock()
	d, ok := b.ports[port]
	if !ok {
		return nil, fmt.Errorf("sim: unhandled I/O on port 0x%x", port)
	}
	return d, nil
}

// ReadPort reads one byte from the device registered at port.
func (b *Bus) ReadPort(port uint16) (byte, error) {
	d, err := b.device(port)
	if err != nil {
		return 0, err
	}
	return d.ReadPort(port), nil
}

// WritePort writes one byte to the device registered at port.
func (b *Bus) WritePort(port uint16, value byte) error {
	d, err := b.device(port)
	if err != nil {
		return err
	}
	d.WritePort(port, value)
	return nil
}

// Close is a no-op; the bus holds no OS resources.
func (b *Bus) Close() error { return nil }
