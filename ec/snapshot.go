package ec

import (
	"fmt"
	"io"
)

// Reading is one sampled register with its optional interpretation.
type Reading struct {
	Addr        byte
	Value       byte
	Interpreted string // empty when the address has no interpretation rule
}

// Snapshot samples every catalog register, in catalog order. Each register
// is one full read transaction; the snapshot as a whole is not atomic, and
// repeated calls re-sample current EC state. On error the readings taken so
// far are returned alongside it.
func Snapshot(ctrl *Controller, catalog []RegisterInfo) ([]Reading, error) {
	readings := make([]Reading, 0, len(catalog))
	for _, info := range catalog {
		v, err := ctrl.ReadRegister(info.Addr)
		if err != nil {
			return readings, fmt.Errorf("ec: snapshot of 0x%02x: %w", info.Addr, err)
		}
		r := Reading{Addr: info.Addr, Value: v}
		if info.Interpret != nil {
			r.Interpreted = info.Interpret(v)
		}
		readings = append(readings, r)
	}
	return readings, nil
}

// WriteSnapshot samples the catalog and renders the readings to w, one
// register per line plus the interpreted line where one exists.
func WriteSnapshot(w io.Writer, ctrl *Controller, catalog []RegisterInfo) error {
	readings, err := Snapshot(ctrl, catalog)
	for _, r := range readings {
		fmt.Fprintf(w, "Register 0x%02X: 0x%02X\n", r.Addr, r.Value)
		if r.Interpreted != "" {
			fmt.Fprintln(w, r.Interpreted)
		}
	}
	return err
}
