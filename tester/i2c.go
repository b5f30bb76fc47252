// Package tester provides a fake I2C bus for driver tests. Devices behind it are the register files of
// tinygo.org/x/drivers/tester with every access recorded, so tests can check both the resulting register state and
// the exact transaction order.
package tester

import (
	"errors"
	"strconv"

	drivertester "tinygo.org/x/drivers/tester"
)

// ErrNoDevice is returned for transactions addressed to a device that was never added.
var ErrNoDevice = errors.New("tester: no device at address")

// Failer is the subset of testing.TB used by the fakes.
type Failer interface {
	Helper()
	Fatalf(format string, args ...interface{})
}

// Op is one recorded register access.
type Op struct {
	Write bool
	Reg   uint8
	Data  []byte
}

func (o Op) String() string {
	s := "read "
	if o.Write {
		s = "write "
	}
	s += "0x" + strconv.FormatUint(uint64(o.Reg), 16) + " ["
	for i, b := range o.Data {
		if i > 0 {
			s += " "
		}
		s += "0x" + strconv.FormatUint(uint64(b), 16)
	}
	return s + "]"
}

// I2CBus implements drivers.I2C on top of fake devices. Unlike the upstream bus, a transaction to an unknown address
// fails with ErrNoDevice instead of failing the test, so drivers can be tested against a missing part.
type I2CBus struct {
	c       Failer
	devices []*I2CDevice
}

func NewI2CBus(c Failer) *I2CBus {
	return &I2CBus{c: c}
}

// AddDevice attaches d to the bus. Adding two devices with the same address fails the test.
func (bus *I2CBus) AddDevice(d *I2CDevice) {
	for _, other := range bus.devices {
		if other.Addr() == d.Addr() {
			bus.c.Helper()
			bus.c.Fatalf("device already added at address %#x", d.Addr())
		}
	}
	bus.devices = append(bus.devices, d)
}

// NewDevice creates a device at addr and attaches it to the bus.
func (bus *I2CBus) NewDevice(addr uint8) *I2CDevice {
	d := NewI2CDevice(bus.c, addr)
	bus.AddDevice(d)
	return d
}

func (bus *I2CBus) Tx(addr uint16, w, r []byte) error {
	if addr > 0xFF {
		return ErrNoDevice
	}
	for _, d := range bus.devices {
		if d.Addr() == uint8(addr) {
			return d.Tx(w, r)
		}
	}
	return ErrNoDevice
}

// I2CDevice is a fake register based device. Multi-byte accesses auto-increment the register address.
type I2CDevice struct {
	*drivertester.I2CDevice8

	// Ops lists every successful access in order.
	Ops []Op

	// OnWrite, when set, is called after every write with the register address and the byte written to it.
	OnWrite func(reg, value uint8)
}

func NewI2CDevice(c Failer, addr uint8) *I2CDevice {
	return &I2CDevice{I2CDevice8: drivertester.NewI2CDevice8(c, addr)}
}

// Tx hands the transaction to the register file and records it. A single written byte selects the register to read
// from, more bytes are written starting at the register named by the first.
func (d *I2CDevice) Tx(w, r []byte) error {
	err := d.I2CDevice8.Tx(w, r)
	if err != nil || len(w) == 0 {
		return err
	}
	if len(w) == 1 {
		d.Ops = append(d.Ops, Op{Reg: w[0], Data: append([]byte(nil), r...)})
		return nil
	}

	d.Ops = append(d.Ops, Op{Write: true, Reg: w[0], Data: append([]byte(nil), w[1:]...)})
	if d.OnWrite != nil {
		for i, b := range w[1:] {
			d.OnWrite(w[0]+uint8(i), b)
		}
	}
	return nil
}

// Writes returns only the recorded writes.
func (d *I2CDevice) Writes() []Op {
	var ops []Op
	for _, op := range d.Ops {
		if op.Write {
			ops = append(ops, op)
		}
	}
	return ops
}

// Reset forgets all recorded operations, keeping the register contents.
func (d *I2CDevice) Reset() {
	d.Ops = nil
}
