// ecmon dumps the EC's documented register region, then watches one
// register for an out-of-range condition until interrupted. Running against
// real hardware needs raw-I/O privilege (root or CAP_SYS_RAWIO); -sim runs
// the same paths against a simulated EC.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"golang.org/x/sys/unix"

	"github.com/m4rba4s/hyper-processor/ec"
	"github.com/m4rba4s/hyper-processor/pio"
	"github.com/m4rba4s/hyper-processor/sim"
)

func main() {
	var (
		cmdPort      = flag.Uint("cmd-port", uint(ec.EC_CMD_PORT), "EC status/command port")
		dataPort     = flag.Uint("data-port", uint(ec.EC_DATA_PORT), "EC data port")
		monitorReg   = flag.Uint("monitor-reg", 0x00, "register sampled by the background monitor")
		acpiReg      = flag.Uint("acpi-reg", 0x01, "ACPI flag register for the one-shot check")
		threshold    = flag.Uint("threshold", 75, "monitor warning threshold")
		interval     = flag.Duration("interval", time.Second, "monitor sampling interval")
		pollLimit    = flag.Int("poll-limit", 100, "status polls before a handshake counts as stalled")
		pollInterval = flag.Duration("poll-interval", time.Millisecond, "delay between status polls")
		useSim       = flag.Bool("sim", false, "run against a simulated EC instead of hardware")
	)
	flag.Parse()

	ports, err := openPorts(*useSim, uint16(*cmdPort), uint16(*dataPort))
	if err != nil {
		log.Fatalf("port access denied: %v", err)
	}
	defer ports.Close()

	ctrl := ec.NewController(ports,
		ec.WithPorts(uint16(*cmdPort), uint16(*dataPort)),
		ec.WithPollLimit(*pollLimit),
		ec.WithPollInterval(*pollInterval),
	)

	fmt.Println("Dumping SSRM region (0x50-0x59)...")
	if err := ec.WriteSnapshot(os.Stdout, ctrl, ec.DefaultCatalog()); err != nil {
		log.Printf("snapshot incomplete: %v", err)
	}

	monitor := ec.NewMonitor(ctrl, ec.MonitorConfig{
		Register:  byte(*monitorReg),
		Threshold: byte(*threshold),
		Interval:  *interval,
		Warnings:  os.Stdout,
	})
	fmt.Println("Starting EC monitor loop...")
	monitor.Start()

	fmt.Println("Checking ACPI flags...")
	if v, err := ctrl.ReadRegister(byte(*acpiReg)); err != nil {
		log.Printf("ACPI flag read failed: %v", err)
	} else {
		fmt.Printf("ACPI Flag: 0x%02X\n", v)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, unix.SIGINT, unix.SIGTERM)
	s := <-sig
	log.Printf("received %v, stopping monitor", s)
	monitor.Stop()
}

// openPorts builds the port capability: ioperm-backed real ports, or a
// simulated EC mounted on the same port numbers when -sim is set.
func openPorts(simulated bool, cmdPort, dataPort uint16) (pio.PortIO, error) {
	if simulated {
		bus := sim.NewBus()
		bus.Handle(sim.NewEC(cmdPort, dataPort), cmdPort, dataPort)
		return bus, nil
	}
	return pio.NewRawPort(cmdPort, dataPort)
}
