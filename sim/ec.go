package sim

import (
	"fmt"
	"sync"

	"github.com/m4rba4s/hyper-processor/ec"
)

// I/O directions recorded in the access trace.
const (
	DirIn  uint8 = 0 // host read from the device
	DirOut uint8 = 1 // host wrote to the device
)

// Access is one recorded port operation, in the order the host issued it.
type Access struct {
	Dir   uint8
	Port  uint16
	Value byte
}

// EC simulates an embedded controller behind a command/data port pair. It
// implements the IBF/OBF handshake: a host write raises IBF, which stays
// visible for ConsumeDelay status reads before the byte counts as drained;
// a completed read command raises OBF until the host consumes the data
// port. Commands 0x80/0x81 operate on the backing register file, so a write
// immediately echoes back on a following read.
//
// The device is deliberately strict: any byte that arrives outside the
// handshake discipline (written while IBF is still set, a data byte with no
// command pending, a data read with OBF clear) is recorded as a protocol
// violation. Interleaved transactions from unsynchronized callers trip at
// least one of these checks.
type EC struct {
	lock sync.Mutex

	cmdPort  uint16
	dataPort uint16

	// Regs is the EC-internal register file. Tests may pre-load it.
	Regs [256]byte

	// ConsumeDelay is how many status reads still report IBF set after a
	// host write. A value of at least 1 forces callers through the polling
	// loop on every gated step.
	ConsumeDelay int

	// HoldIBF freezes the input buffer: status reads always report IBF
	// set, so every gated write stalls. Used to exercise the poll budget.
	HoldIBF bool

	ibfReads int // status reads remaining before IBF clears

	obf    bool // a read result is waiting on the data port
	output byte

	cmd      byte // pending command, 0 when idle
	haveAddr bool // write command has its address byte
	addr     byte

	trace      []Access
	violations []string
}

// NewEC creates a simulated EC answering on the given command/status and
// data ports, with a one-poll consume delay.
func NewEC(cmdPort, dataPort uint16) *EC {
	return &EC{cmdPort: cmdPort, dataPort: dataPort, ConsumeDelay: 1}
}

// ReadPort handles host reads: status on the command port, transaction
// results on the data port.
func (e *EC) ReadPort(port uint16) byte {
	e.lock.Lock()
	defer e.lock.Unlock()

	var v byte
	switch port {
	case e.cmdPort:
		if e.obf {
			v |= ec.EC_STATUS_OBF
		}
		if e.HoldIBF {
			v |= ec.EC_STATUS_IBF
		} else if e.ibfReads > 0 {
			v |= ec.EC_STATUS_IBF
			e.ibfReads--
		}
	case e.dataPort:
		if !e.obf {
			e.violate("data read on port 0x%x with OBF clear", port)
			break
		}
		v = e.output
		e.obf = false
	default:
		e.violate("read on unexpected port 0x%x", port)
	}
	e.trace = append(e.trace, Access{Dir: DirIn, Port: port, Value: v})
	return v
}

// WritePort handles host writes: commands on the command port, address and
// value bytes on the data port.
func (e *EC) WritePort(port uint16, value byte) {
	e.lock.Lock()
	defer e.lock.Unlock()

	e.trace = append(e.trace, Access{Dir: DirOut, Port: port, Value: value})

	if e.HoldIBF || e.ibfReads > 0 {
		e.violate("write of 0x%02x to port 0x%x while IBF set", value, port)
	}
	e.ibfReads = e.ConsumeDelay

	switch port {
	case e.cmdPort:
		if e.cmd != 0 {
			e.violate("command 0x%02x while command 0x%02x still in progress", value, e.cmd)
		}
		switch value {
		case ec.EC_CMD_READ, ec.EC_CMD_WRITE:
			e.cmd = value
			e.haveAddr = false
		default:
			e.violate("unknown command 0x%02x", value)
			e.cmd = 0
			e.haveAddr = false
		}
	case e.dataPort:
		switch {
		case e.cmd == 0:
			e.violate("data byte 0x%02x with no command pending", value)
		case e.cmd == ec.EC_CMD_READ:
			e.output = e.Regs[value]
			e.obf = true
			e.cmd = 0
		case !e.haveAddr:
			e.addr = value
			e.haveAddr = true
		default:
			e.Regs[e.addr] = value
			e.cmd = 0
			e.haveAddr = false
		}
	default:
		e.violate("write on unexpected port 0x%x", port)
	}
}

func (e *EC) violate(format string, args ...any) {
	e.violations = append(e.violations, fmt.Sprintf(format, args...))
}

// Corrupted reports whether any protocol violation has been observed.
func (e *EC) Corrupted() bool {
	e.lock.Lock()
	defer e.lock.Unlock()
	return len(e.violations) > 0
}

// Violations returns a copy of the recorded protocol violations.
func (e *EC) Violations() []string {
	e.lock.Lock()
	defer e.lock.Unlock()
	out := make([]string, len(e.violations))
	copy(out, e.violations)
	return out
}

// TakeTrace returns the recorded port accesses in order and clears the
// trace.
func (e *EC) TakeTrace() []Access {
	e.lock.Lock()
	defer e.lock.Unlock()
	out := e.trace
	e.trace = nil
	return out
}
