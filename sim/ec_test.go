package sim_test

import (
	"testing"

	"github.com/m4rba4s/hyper-processor/ec"
	"github.com/m4rba4s/hyper-processor/sim"
)

const (
	cmdPort  uint16 = 0x66
	dataPort uint16 = 0x62
)

func TestStatusTracksHandshake(t *testing.T) {
	dev := sim.NewEC(cmdPort, dataPort)
	dev.Regs[0x50] = 0x42

	if s := dev.ReadPort(cmdPort); s != 0 {
		t.Fatalf("idle status = 0x%02x, want 0x00", s)
	}

	// A host write raises IBF for one status read.
	dev.WritePort(cmdPort, ec.EC_CMD_READ)
	if s := dev.ReadPort(cmdPort); s&ec.EC_STATUS_IBF == 0 {
		t.Error("IBF not set after command write")
	}
	if s := dev.ReadPort(cmdPort); s&ec.EC_STATUS_IBF != 0 {
		t.Error("IBF still set after consume delay")
	}

	// Completing the read command raises OBF until the data port is read.
	dev.WritePort(dataPort, 0x50)
	dev.ReadPort(cmdPort) // drain the address byte's IBF
	if s := dev.ReadPort(cmdPort); s&ec.EC_STATUS_OBF == 0 {
		t.Error("OBF not set after read command completed")
	}
	if v := dev.ReadPort(dataPort); v != 0x42 {
		t.Errorf("data port = 0x%02x, want 0x42", v)
	}
	if s := dev.ReadPort(cmdPort); s&ec.EC_STATUS_OBF != 0 {
		t.Error("OBF still set after data was consumed")
	}
	if dev.Corrupted() {
		t.Errorf("violations on a clean handshake: %v", dev.Violations())
	}
}

func TestUnsolicitedDataReadIsViolation(t *testing.T) {
	dev := sim.NewEC(cmdPort, dataPort)
	dev.ReadPort(dataPort)
	if !dev.Corrupted() {
		t.Error("data read with OBF clear went unrecorded")
	}
}

func TestDataByteWithoutCommandIsViolation(t *testing.T) {
	dev := sim.NewEC(cmdPort, dataPort)
	dev.ReadPort(cmdPort) // status poll, IBF clear
	dev.WritePort(dataPort, 0x50)
	if !dev.Corrupted() {
		t.Error("data byte with no command pending went unrecorded")
	}
}

func TestHoldIBFNeverDrains(t *testing.T) {
	dev := sim.NewEC(cmdPort, dataPort)
	dev.HoldIBF = true
	for i := 0; i < 5; i++ {
		if s := dev.ReadPort(cmdPort); s&ec.EC_STATUS_IBF == 0 {
			t.Fatalf("poll %d: IBF cleared despite HoldIBF", i)
		}
	}
}

func TestBusRejectsUnhandledPort(t *testing.T) {
	bus := sim.NewBus()
	bus.Handle(sim.NewEC(cmdPort, dataPort), cmdPort, dataPort)

	if _, err := bus.ReadPort(0x80); err == nil {
		t.Error("read of unhandled port succeeded")
	}
	if err := bus.WritePort(0x80, 1); err == nil {
		t.Error("write to unhandled port succeeded")
	}
}
