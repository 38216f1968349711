package ec

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"
)

// MonitorConfig configures a background Monitor. The register assignment is
// supplied by the caller: boards disagree on where the monitored sensor
// lives, so nothing here is hardwired.
type MonitorConfig struct {
	Register  byte          // register sampled each tick
	Threshold byte          // values above this emit a warning
	Interval  time.Duration // tick pacing; defaults to one second
	Warnings  io.Writer     // warning sink; defaults to os.Stdout
}

// Monitor periodically samples one EC register and reports threshold
// breaches. Ticks are independent transactions: a failed sample is logged
// and the loop carries on. The loop holds no port state between ticks, so
// it coexists with foreground transactions on the same Controller.
type Monitor struct {
	ctrl   *Controller
	cfg    MonitorConfig
	cancel context.CancelFunc
	done   chan struct{}
}

// NewMonitor creates a stopped monitor. Call Start to begin sampling.
func NewMonitor(ctrl *Controller, cfg MonitorConfig) *Monitor {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Second
	}
	if cfg.Warnings == nil {
		cfg.Warnings = os.Stdout
	}
	return &Monitor{ctrl: ctrl, cfg: cfg}
}

// Start launches the sampling loop and returns immediately.
func (m *Monitor) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.done = make(chan struct{})
	go m.run(ctx)
}

// Stop cancels the loop and waits for it to exit. A tick blocked inside a
// stalled transaction delays Stop until the poll budget expires.
func (m *Monitor) Stop() {
	if m.cancel == nil {
		return
	}
	m.cancel()
	<-m.done
}

func (m *Monitor) run(ctx context.Context) {
	defer close(m.done)
	ticker := time.NewTicker(m.cfg.Interval)
	defer ticker.Stop()
	for {
		if err := m.Sample(); err != nil {
			log.Printf("monitor: sample of register 0x%02x failed: %v", m.cfg.Register, err)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Sample runs one tick: a single read transaction and a threshold compare.
// It is also usable directly for an ad-hoc foreground check.
func (m *Monitor) Sample() error {
	v, err := m.ctrl.ReadRegister(m.cfg.Register)
	if err != nil {
		return err
	}
	if v > m.cfg.Threshold {
		fmt.Fprintf(m.cfg.Warnings, "Warning: High temperature detected: %d\n", v)
	}
	return nil
}
