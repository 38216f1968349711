package ec

// Default EC I/O port pair on x86 systems (ACPI fixed hardware addresses).
// The command port doubles as the status port on reads.
const (
	EC_CMD_PORT  uint16 = 0x66 // EC_SC: status on read, command on write
	EC_DATA_PORT uint16 = 0x62 // EC_DATA: address/value bytes and read results
)

// EC status register bits, observed on reads of the command/status port.
const (
	EC_STATUS_OBF byte = 0x01 // Output Buffer Full: EC has a byte ready for the host
	EC_STATUS_IBF byte = 0x02 // Input Buffer Full: EC has not yet drained the host's last byte
)

// EC commands, written to the command port to open a transaction.
const (
	EC_CMD_READ  byte = 0x80 // RD_EC: read one byte of EC address space
	EC_CMD_WRITE byte = 0x81 // WR_EC: write one byte of EC address space
)
