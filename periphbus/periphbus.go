// Package periphbus adapts a periph.io I2C bus to the drivers.I2C interface, so the drivers in this module can run
// on Linux hosts (Raspberry Pi, BeagleBone, USB bridges) as well as under TinyGo.
package periphbus

import (
	"fmt"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
	"tinygo.org/x/drivers"
)

// Bus implements drivers.I2C on top of an i2c.Bus.
type Bus struct {
	bus    i2c.Bus
	closer i2c.BusCloser
}

var _ drivers.I2C = (*Bus)(nil)

// New wraps an already opened bus. Closing it stays the caller's job.
func New(bus i2c.Bus) *Bus {
	return &Bus{bus: bus}
}

// Open initializes the periph host drivers and opens the named bus, or the first one found when name is empty.
// A zero speed keeps the bus default.
func Open(name string, speed physic.Frequency) (*Bus, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph host init: %w", err)
	}
	bc, err := i2creg.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open i2c bus %q: %w", name, err)
	}
	if speed != 0 {
		if err := bc.SetSpeed(speed); err != nil {
			bc.Close()
			return nil, fmt.Errorf("set i2c bus speed to %s: %w", speed, err)
		}
	}
	return &Bus{bus: bc, closer: bc}, nil
}

// Close closes the bus if it was opened by Open.
func (b *Bus) Close() error {
	if b.closer == nil {
		return nil
	}
	return b.closer.Close()
}

func (b *Bus) String() string {
	return b.bus.String()
}

// Tx writes w and then reads into r in one transaction with a repeated start in between.
func (b *Bus) Tx(addr uint16, w, r []byte) error {
	return b.bus.Tx(addr, w, r)
}
