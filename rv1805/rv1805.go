// Package rv1805 implements a driver for the Micro Crystal RV-1805-C3 extreme low power Real-Time Clock (RTC).
//
// The time registers are exchanged through DateTime, an eight byte value mirroring the register layout in BCD. It
// can be filled from the device, from Set, or by parsing ISO 8601 and HTTP dates, and written back with Synchronize
// or SetAlarm. Device methods talk to the bus immediately; a Device is not safe for concurrent use.
//
// Datasheet: https://www.microcrystal.com/fileadmin/Media/Products/RTC/App.Manual/RV-1805-C3_App-Manual.pdf
package rv1805

import (
	"fmt"
	"time"

	"tinygo.org/x/drivers"
)

type Device struct {
	bus     drivers.I2C
	Address uint8
}

type Config struct {
	// Address defaults to Address (0x69), which is fixed on this part.
	Address uint8
}

// New creates a new RV-1805-C3 driver on a preconfigured I2C bus. It does not touch the device.
func New(bus drivers.I2C) Device {
	return Device{
		bus:     bus,
		Address: Address,
	}
}

// Configure checks the part number and, if it matches, enables automatic switching to the RC oscillator and the
// leakage reduction settings. A mismatch returns ErrNotDetected and leaves the device unconfigured.
func (d *Device) Configure(c Config) error {
	if c.Address != 0 {
		d.Address = c.Address
	}
	if d.Address == 0 {
		d.Address = Address
	}

	id := [2]byte{}
	err := d.readRegisters(ID0, id[:])
	if err != nil {
		return err
	}
	if id[0] != PartNumberMSB || id[1] != PartNumberLSB {
		return fmt.Errorf("%w: part number %#02x%02x", ErrNotDetected, id[0], id[1])
	}

	err = d.EnableOscillatorSwitching()
	if err != nil {
		return err
	}
	return d.ReduceLeakage()
}

// Reset performs a software reset.
func (d *Device) Reset() error {
	return d.write(ConfigKey, uint8(KeyReset))
}

// EnableCrystalOscillator selects the 32.768 kHz crystal oscillator and turns off autocalibration.
func (d *Device) EnableCrystalOscillator() error {
	value, err := d.read(OscControl)
	if err != nil {
		return err
	}
	value &= oscKeepMask
	return d.writeProtected(KeyOscControl, OscControl, value)
}

// DisableCrystalOscillator runs the device from the RC oscillator all the time to minimize power usage, with
// autocalibration against the crystal every 512 seconds (about 22 nA).
func (d *Device) DisableCrystalOscillator() error {
	value, err := d.read(OscControl)
	if err != nil {
		return err
	}
	value &= oscKeepMask
	value |= oscSelectRC
	value |= oscAutocal512s
	return d.writeProtected(KeyOscControl, OscControl, value)
}

// EnableOscillatorSwitching lets the device fall back to the RC oscillator when running on backup power or when the
// crystal fails.
func (d *Device) EnableOscillatorSwitching() error {
	value, err := d.read(OscControl)
	if err != nil {
		return err
	}
	value &= oscSwitchKeepMask
	value |= oscBackupSwitch
	value |= oscFailSwitch
	return d.writeProtected(KeyOscControl, OscControl, value)
}

// ReduceLeakage disables the I2C interface and the WDI, nRST and CLK/nINT pins while on backup power or asleep.
func (d *Device) ReduceLeakage() error {
	value, err := d.read(Control2)
	if err != nil {
		return err
	}
	value &= control2OutBKeep
	err = d.write(Control2, value)
	if err != nil {
		return err
	}

	err = d.writeProtected(KeyRegisters, IOBatmode, ioBatmodeNoI2C)
	if err != nil {
		return err
	}
	return d.writeProtected(KeyRegisters, OutputControl, outputControlLeak)
}

// ReadDateTime reads the eight time registers.
func (d *Device) ReadDateTime() (DateTime, error) {
	var dt DateTime
	err := d.readRegisters(TimeHundredths, dt[:])
	return dt, err
}

// SetComponent reloads dt from the device and then replaces a single field with value, so dt can be written back
// with Synchronize without disturbing the other fields. The value is not range checked. An unknown component returns
// ErrInvalidComponent without touching the bus.
func (d *Device) SetComponent(dt *DateTime, c Component, value uint8) error {
	if c >= numComponents {
		return ErrInvalidComponent
	}
	current, err := d.ReadDateTime()
	if err != nil {
		return err
	}
	*dt = current
	dt[c] = DecimalToBCD(value)
	return nil
}

// Synchronize writes all eight fields of dt to the time registers, hundredths first.
func (d *Device) Synchronize(dt DateTime) error {
	return d.writeRegisters(TimeHundredths, dt[:])
}

// CurrentDateTime reads the time registers and formats them as YYYY-MM-DDTHH:MM:SS.
func (d *Device) CurrentDateTime() (string, error) {
	dt, err := d.ReadDateTime()
	if err != nil {
		return "", err
	}
	return dt.String(), nil
}

// Now reads the current time in UTC.
func (d *Device) Now() (time.Time, error) {
	dt, err := d.ReadDateTime()
	if err != nil {
		return time.Time{}, err
	}
	return dt.Time(), nil
}

// Set writes t to the time registers. Only years 2000 to 2099 can be stored.
func (d *Device) Set(t time.Time) error {
	dt, err := FromTime(t)
	if err != nil {
		return err
	}
	return d.Synchronize(dt)
}

// SetDateTimeFromISO8601 parses s with ParseISO8601 and writes the result to the time registers. Nothing is written
// if s does not parse.
func (d *Device) SetDateTimeFromISO8601(s string) (DateTime, error) {
	dt, err := ParseISO8601(s)
	if err != nil {
		return dt, err
	}
	return dt, d.Synchronize(dt)
}

// SetDateTimeFromHTTPDate parses s with ParseHTTPDate and writes the result to the time registers. Nothing is
// written if s does not parse.
func (d *Device) SetDateTimeFromHTTPDate(s string) (DateTime, error) {
	dt, err := ParseHTTPDate(s)
	if err != nil {
		return dt, err
	}
	return dt, d.Synchronize(dt)
}

func (d *Device) read(reg uint8) (uint8, error) {
	buf := [1]byte{}
	err := d.readRegisters(reg, buf[:])
	return buf[0], err
}

func (d *Device) write(reg, val uint8) error {
	return d.bus.Tx(uint16(d.Address), []byte{reg, val}, nil)
}

// readRegisters reads len(buf) registers starting at reg; the address auto-increments.
func (d *Device) readRegisters(reg uint8, buf []byte) error {
	return d.bus.Tx(uint16(d.Address), []byte{reg}, buf)
}

func (d *Device) writeRegisters(reg uint8, data []byte) error {
	return d.bus.Tx(uint16(d.Address), append([]byte{reg}, data...), nil)
}

// writeProtected unlocks reg with key and writes val. The device re-locks on any other access, so nothing may go
// between the two writes: callers do all their reads first.
func (d *Device) writeProtected(key Key, reg, val uint8) error {
	err := d.write(ConfigKey, uint8(key))
	if err != nil {
		return err
	}
	return d.write(reg, val)
}
