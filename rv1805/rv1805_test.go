package rv1805

import (
	"errors"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"

	"github.com/ajanata/rv1805c3/tester"
)

func newDevice(c *qt.C) (Device, *tester.I2CDevice) {
	bus := tester.NewI2CBus(c)
	fake := bus.NewDevice(Address)
	return New(bus), fake
}

func write(reg uint8, data ...byte) tester.Op {
	return tester.Op{Write: true, Reg: reg, Data: data}
}

func TestDefaultAddress(t *testing.T) {
	c := qt.New(t)
	dev, fake := newDevice(c)
	c.Assert(dev.Address, qt.Equals, uint8(Address))
	c.Assert(fake.Ops, qt.HasLen, 0)
}

func TestConfigure(t *testing.T) {
	c := qt.New(t)
	dev, fake := newDevice(c)
	fake.Registers[ID0] = PartNumberMSB
	fake.Registers[ID1] = PartNumberLSB
	fake.Registers[OscControl] = 0b1110_0101
	fake.Registers[Control2] = 0xFF

	err := dev.Configure(Config{})
	c.Assert(err, qt.IsNil)
	c.Assert(fake.Writes(), qt.DeepEquals, []tester.Op{
		write(ConfigKey, uint8(KeyOscControl)),
		write(OscControl, 0b1111_1000),
		write(Control2, 0b1101_1111),
		write(ConfigKey, uint8(KeyRegisters)),
		write(IOBatmode, 0x00),
		write(ConfigKey, uint8(KeyRegisters)),
		write(OutputControl, 0x30),
	})
}

func TestConfigureWrongPart(t *testing.T) {
	c := qt.New(t)
	dev, fake := newDevice(c)
	fake.Registers[ID0] = 0x18
	fake.Registers[ID1] = 0x03

	err := dev.Configure(Config{})
	c.Assert(errors.Is(err, ErrNotDetected), qt.IsTrue)
	c.Assert(err, qt.ErrorMatches, `.*part number 0x1803`)
	c.Assert(fake.Writes(), qt.HasLen, 0)
}

func TestConfigureAddress(t *testing.T) {
	c := qt.New(t)
	bus := tester.NewI2CBus(c)
	fake := bus.NewDevice(0x42)
	fake.Registers[ID0] = PartNumberMSB
	fake.Registers[ID1] = PartNumberLSB
	dev := New(bus)

	c.Assert(dev.Configure(Config{Address: 0x42}), qt.IsNil)
	c.Assert(dev.Address, qt.Equals, uint8(0x42))
	c.Assert(fake.Writes(), qt.Not(qt.HasLen), 0)
}

func TestReset(t *testing.T) {
	c := qt.New(t)
	dev, fake := newDevice(c)
	c.Assert(dev.Reset(), qt.IsNil)
	c.Assert(fake.Ops, qt.DeepEquals, []tester.Op{write(ConfigKey, 0x3C)})
}

func TestCrystalOscillator(t *testing.T) {
	c := qt.New(t)
	dev, fake := newDevice(c)

	fake.Registers[OscControl] = 0b1111_1111
	c.Assert(dev.EnableCrystalOscillator(), qt.IsNil)
	c.Assert(fake.Registers[OscControl], qt.Equals, uint8(0b0001_1111))

	fake.Registers[OscControl] = 0b0000_0100
	fake.Reset()
	c.Assert(dev.DisableCrystalOscillator(), qt.IsNil)
	c.Assert(fake.Ops, qt.DeepEquals, []tester.Op{
		{Reg: OscControl, Data: []byte{0b0000_0100}},
		write(ConfigKey, 0xA1),
		write(OscControl, 0b1110_0100),
	})
}

func TestProtectedWritesFollowKey(t *testing.T) {
	c := qt.New(t)
	dev, fake := newDevice(c)
	protected := map[uint8]Key{
		OscControl:    KeyOscControl,
		IOBatmode:     KeyRegisters,
		OutputControl: KeyRegisters,
	}

	ops := []func() error{
		dev.EnableCrystalOscillator,
		dev.DisableCrystalOscillator,
		dev.EnableOscillatorSwitching,
		dev.ReduceLeakage,
		func() error { return dev.Sleep(SleepImmediately, true) },
	}
	for _, op := range ops {
		c.Assert(op(), qt.IsNil)
	}

	for i, op := range fake.Ops {
		key, ok := protected[op.Reg]
		if !ok || !op.Write {
			continue
		}
		c.Assert(i > 0, qt.IsTrue)
		c.Assert(fake.Ops[i-1], qt.DeepEquals, write(ConfigKey, uint8(key)), qt.Commentf("op %d: %v", i, op))
	}
}

func TestSynchronizeRoundTrip(t *testing.T) {
	c := qt.New(t)
	dev, fake := newDevice(c)

	var dt DateTime
	c.Assert(dt.Set(2023, 11, 5, Sunday, 23, 59, 58, 42), qt.IsNil)
	c.Assert(dev.Synchronize(dt), qt.IsNil)
	c.Assert(fake.Ops, qt.DeepEquals, []tester.Op{
		write(TimeHundredths, 0x42, 0x58, 0x59, 0x23, 0x05, 0x11, 0x23, 0x00),
	})

	s, err := dev.CurrentDateTime()
	c.Assert(err, qt.IsNil)
	c.Assert(s, qt.Equals, "2023-11-05T23:59:58")

	got, err := dev.ReadDateTime()
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.Equals, dt)
}

func TestCurrentDateTimeIsOwned(t *testing.T) {
	c := qt.New(t)
	dev, _ := newDevice(c)

	_, err := dev.SetDateTimeFromISO8601("2021-07-15T08:09:10")
	c.Assert(err, qt.IsNil)
	first, err := dev.CurrentDateTime()
	c.Assert(err, qt.IsNil)

	_, err = dev.SetDateTimeFromISO8601("2022-01-02T03:04:05")
	c.Assert(err, qt.IsNil)
	second, err := dev.CurrentDateTime()
	c.Assert(err, qt.IsNil)

	c.Assert(first, qt.Equals, "2021-07-15T08:09:10")
	c.Assert(second, qt.Equals, "2022-01-02T03:04:05")
}

func TestSetComponent(t *testing.T) {
	c := qt.New(t)
	dev, fake := newDevice(c)
	copy(fake.Registers[TimeHundredths:], []byte{0x10, 0x20, 0x30, 0x12, 0x24, 0x06, 0x19, 0x01})

	dt := DateTime{1, 2, 3, 4, 5, 6, 7, 0}
	c.Assert(dev.SetComponent(&dt, Minute, 45), qt.IsNil)
	c.Assert(dt, qt.Equals, DateTime{0x10, 0x20, 0x45, 0x12, 0x24, 0x06, 0x19, 0x01})
	c.Assert(fake.Ops, qt.HasLen, 1)
	c.Assert(fake.Ops[0].Write, qt.IsFalse)
	c.Assert(fake.Ops[0].Reg, qt.Equals, uint8(TimeHundredths))

	c.Assert(dev.Synchronize(dt), qt.IsNil)
	s, err := dev.CurrentDateTime()
	c.Assert(err, qt.IsNil)
	c.Assert(s, qt.Equals, "2019-06-24T12:45:20")
}

func TestSetComponentInvalid(t *testing.T) {
	c := qt.New(t)
	dev, fake := newDevice(c)
	dt := DateTime{1, 2, 3, 4, 5, 6, 7, 0}
	c.Assert(dev.SetComponent(&dt, Component(9), 1), qt.Equals, ErrInvalidComponent)
	c.Assert(dt, qt.Equals, DateTime{1, 2, 3, 4, 5, 6, 7, 0})
	c.Assert(fake.Ops, qt.HasLen, 0)
}

// txBus records raw transactions, for checking the bytes a driver puts on the wire.
type txBus struct {
	addrs []uint16
	ws    [][]byte
	reply []byte
}

func (b *txBus) Tx(addr uint16, w, r []byte) error {
	b.addrs = append(b.addrs, addr)
	b.ws = append(b.ws, append([]byte(nil), w...))
	copy(r, b.reply)
	return nil
}

func TestWireFormat(t *testing.T) {
	c := qt.New(t)
	bus := &txBus{reply: []byte{0x00, 0x10, 0x09, 0x08, 0x15, 0x07, 0x21, 0x04}}
	dev := New(bus)

	s, err := dev.CurrentDateTime()
	c.Assert(err, qt.IsNil)
	c.Assert(s, qt.Equals, "2021-07-15T08:09:10")
	c.Assert(dev.Reset(), qt.IsNil)
	c.Assert(dev.SetAlarmDate(2030, 12, 24, Tuesday, 18, 0, 0, 0), qt.IsNil)

	c.Assert(bus.addrs, qt.DeepEquals, []uint16{Address, Address, Address})
	c.Assert(bus.ws, qt.DeepEquals, [][]byte{
		{TimeHundredths},
		{ConfigKey, 0x3C},
		{AlarmHundredths, 0x00, 0x00, 0x00, 0x18, 0x24, 0x12, 0x02},
	})
}

func TestNowAndSet(t *testing.T) {
	c := qt.New(t)
	dev, _ := newDevice(c)

	want := time.Date(2006, 1, 2, 15, 4, 5, 70*int(time.Millisecond), time.UTC)
	c.Assert(dev.Set(want), qt.IsNil)
	got, err := dev.Now()
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.Equals, want)

	dt, err := dev.ReadDateTime()
	c.Assert(err, qt.IsNil)
	c.Assert(dt.Weekday(), qt.Equals, Monday)

	err = dev.Set(time.Date(1999, 12, 31, 0, 0, 0, 0, time.UTC))
	c.Assert(errors.Is(err, ErrOutOfRange), qt.IsTrue)
}

func TestSetDateTimeFromText(t *testing.T) {
	c := qt.New(t)
	dev, fake := newDevice(c)

	dt, err := dev.SetDateTimeFromHTTPDate("Date: Wed, 21 Oct 2015 07:28:00 GMT")
	c.Assert(err, qt.IsNil)
	c.Assert(dt.Weekday(), qt.Equals, Wednesday)
	c.Assert(fake.Registers[Weekdays], qt.Equals, uint8(3))
	s, err := dev.CurrentDateTime()
	c.Assert(err, qt.IsNil)
	c.Assert(s, qt.Equals, "2015-10-21T07:28:00")

	fake.Reset()
	_, err = dev.SetDateTimeFromISO8601("2021-07-15 08:09:10")
	c.Assert(errors.Is(err, ErrMalformed), qt.IsTrue)
	_, err = dev.SetDateTimeFromHTTPDate("Wed, 21 Oct 2015 24:28:00 GMT")
	c.Assert(errors.Is(err, ErrOutOfRange), qt.IsTrue)
	c.Assert(fake.Ops, qt.HasLen, 0)
}

func TestBusErrors(t *testing.T) {
	c := qt.New(t)
	dev, fake := newDevice(c)
	broken := errors.New("nack")
	fake.Err = broken

	c.Assert(dev.Configure(Config{}), qt.Equals, broken)
	_, err := dev.CurrentDateTime()
	c.Assert(err, qt.Equals, broken)
	_, err = dev.Now()
	c.Assert(err, qt.Equals, broken)
	var dt DateTime
	c.Assert(dev.SetComponent(&dt, Second, 1), qt.Equals, broken)
	c.Assert(dt, qt.Equals, DateTime{})
	_, err = dev.ClearInterrupts()
	c.Assert(err, qt.Equals, broken)
	c.Assert(dev.Sleep(SleepWait8ms, true), qt.Equals, broken)
}

func TestNoDevice(t *testing.T) {
	c := qt.New(t)
	dev := New(tester.NewI2CBus(c))
	_, err := dev.ReadDateTime()
	c.Assert(err, qt.Equals, tester.ErrNoDevice)
}
