package ec

import "fmt"

// RegisterInfo describes one EC register of interest: its address, a human
// label, and an optional interpretation rule applied to the raw value when
// rendering. A nil Interpret means the register is dumped raw only.
type RegisterInfo struct {
	Addr      byte
	Label     string
	Interpret func(value byte) string
}

// DefaultCatalog returns the SSRM region registers (0x50-0x59) with the
// interpretations taken from the board's ACPI tables: temperature, fan
// speed and a single-bit flag. The remaining addresses in the region have
// no known meaning and render raw only.
func DefaultCatalog() []RegisterInfo {
	catalog := make([]RegisterInfo, 0, 10)
	for addr := byte(0x50); addr <= 0x59; addr++ {
		info := RegisterInfo{Addr: addr}
		switch addr {
		case 0x50:
			info.Label = "Temperature"
			info.Interpret = func(v byte) string { return fmt.Sprintf("Temperature: %d", v) }
		case 0x51:
			info.Label = "Fan Speed"
			info.Interpret = func(v byte) string { return fmt.Sprintf("Fan Speed: %d", v) }
		case 0x52:
			info.Label = "Flag"
			info.Interpret = func(v byte) string { return fmt.Sprintf("Flag: %d", v&0x01) }
		}
		catalog = append(catalog, info)
	}
	return catalog
}
