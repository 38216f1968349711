// Package ec drives read/write transactions against an embedded controller
// exposed through a command/data port pair, and layers register reporting
// and periodic monitoring on top.
package ec

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/m4rba4s/hyper-processor/pio"
)

// ErrProtocolStall is returned when the EC never reaches the handshake
// state a transaction step requires within the controller's poll budget.
// The classic causes are a wedged EC, wrong port numbers, or a racing
// transaction that corrupted the handshake.
var ErrProtocolStall = errors.New("ec: handshake stalled")

// Controller implements the EC transaction protocol. Every transaction is a
// multi-step handshake over a single shared port pair with no hardware
// mutual exclusion, so the controller runs each complete transaction under
// one lock. All methods are safe for concurrent use; two controllers on the
// same port pair are not.
type Controller struct {
	ports    pio.PortIO
	cmdPort  uint16
	dataPort uint16

	pollInterval time.Duration
	pollLimit    int

	lock sync.Mutex // held for the whole transaction, never across unrelated work
}

// Option adjusts a Controller at construction time.
type Option func(*Controller)

// WithPorts overrides the default 0x66/0x62 port pair.
func WithPorts(cmdPort, dataPort uint16) Option {
	return func(c *Controller) {
		c.cmdPort = cmdPort
		c.dataPort = dataPort
	}
}

// WithPollInterval sets the delay between status polls. Zero polls without
// sleeping.
func WithPollInterval(d time.Duration) Option {
	return func(c *Controller) { c.pollInterval = d }
}

// WithPollLimit sets how many status polls a gated step may spend before it
// counts as stalled.
func WithPollLimit(n int) Option {
	return func(c *Controller) { c.pollLimit = n }
}

// NewController creates a controller over the given port capability. The
// defaults match the ACPI fixed ports and a 100ms worst-case poll budget
// (100 polls at 1ms).
func NewController(ports pio.PortIO, opts ...Option) *Controller {
	c := &Controller{
		ports:        ports,
		cmdPort:      EC_CMD_PORT,
		dataPort:     EC_DATA_PORT,
		pollInterval: time.Millisecond,
		pollLimit:    100,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// waitInputClear polls the status port until the EC has drained the host's
// last byte (IBF clear), so the next command or data byte may be written.
func (c *Controller) waitInputClear() error {
	for i := 0; i < c.pollLimit; i++ {
		status, err := c.ports.ReadPort(c.cmdPort)
		if err != nil {
			return fmt.Errorf("ec: status read: %w", err)
		}
		if status&EC_STATUS_IBF == 0 {
			return nil
		}
		if c.pollInterval > 0 {
			time.Sleep(c.pollInterval)
		}
	}
	return fmt.Errorf("ec: input buffer never drained after %d polls: %w", c.pollLimit, ErrProtocolStall)
}

// waitOutputFull polls the status port until the EC has a byte ready on the
// data port (OBF set).
func (c *Controller) waitOutputFull() error {
	for i := 0; i < c.pollLimit; i++ {
		status, err := c.ports.ReadPort(c.cmdPort)
		if err != nil {
			return fmt.Errorf("ec: status read: %w", err)
		}
		if status&EC_STATUS_OBF != 0 {
			return nil
		}
		if c.pollInterval > 0 {
			time.Sleep(c.pollInterval)
		}
	}
	return fmt.Errorf("ec: output buffer never filled after %d polls: %w", c.pollLimit, ErrProtocolStall)
}

// readRegister runs the read protocol. Caller holds the lock.
func (c *Controller) readRegister(addr byte) (byte, error) {
	if err := c.waitInputClear(); err != nil {
		return 0, fmt.Errorf("ec: read 0x%02x, command gate: %w", addr, err)
	}
	if err := c.ports.WritePort(c.cmdPort, EC_CMD_READ); err != nil {
		return 0, err
	}
	if err := c.waitInputClear(); err != nil {
		return 0, fmt.Errorf("ec: read 0x%02x, address gate: %w", addr, err)
	}
	if err := c.ports.WritePort(c.dataPort, addr); err != nil {
		return 0, err
	}
	if err := c.waitOutputFull(); err != nil {
		return 0, fmt.Errorf("ec: read 0x%02x, data gate: %w", addr, err)
	}
	return c.ports.ReadPort(c.dataPort)
}

// ReadRegister reads one byte of EC address space.
func (c *Controller) ReadRegister(addr byte) (byte, error) {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.readRegister(addr)
}

// WriteRegister writes one byte of EC address space. The EC does not echo a
// result, so the final step is IBF-gated like the others and nothing is
// read back.
func (c *Controller) WriteRegister(addr, value byte) error {
	c.lock.Lock()
	defer c.lock.Unlock()

	if err := c.waitInputClear(); err != nil {
		return fmt.Errorf("ec: write 0x%02x, command gate: %w", addr, err)
	}
	if err := c.ports.WritePort(c.cmdPort, EC_CMD_WRITE); err != nil {
		return err
	}
	if err := c.waitInputClear(); err != nil {
		return fmt.Errorf("ec: write 0x%02x, address gate: %w", addr, err)
	}
	if err := c.ports.WritePort(c.dataPort, addr); err != nil {
		return err
	}
	if err := c.waitInputClear(); err != nil {
		return fmt.Errorf("ec: write 0x%02x, value gate: %w", addr, err)
	}
	return c.ports.WritePort(c.dataPort, value)
}

// ReadWord reads two consecutive registers as one big-endian 16-bit value;
// tachometer and similar readings exceed one byte. Both reads run under a
// single lock acquisition so the pair cannot be split by another
// transaction.
func (c *Controller) ReadWord(addr byte) (uint16, error) {
	c.lock.Lock()
	defer c.lock.Unlock()

	hi, err := c.readRegister(addr)
	if err != nil {
		return 0, err
	}
	lo, err := c.readRegister(addr + 1)
	if err != nil {
		return 0, err
	}
	return uint16(hi)<<8 | uint16(lo), nil
}
