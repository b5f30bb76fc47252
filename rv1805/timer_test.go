package rv1805

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/ajanata/rv1805c3/tester"
)

func TestSetCountdownTimerZero(t *testing.T) {
	c := qt.New(t)
	dev, fake := newDevice(c)
	err := dev.SetCountdownTimer(CountdownConfig{Period: 0, Unit: CountdownMinutes, Repeat: true})
	c.Assert(err, qt.IsNil)
	c.Assert(fake.Ops, qt.HasLen, 0)
}

func TestSetCountdownTimer(t *testing.T) {
	tests := []struct {
		name    string
		config  CountdownConfig
		control uint8
	}{
		{"seconds level once", CountdownConfig{Period: 10, Unit: CountdownSeconds}, 0b1101_0110},
		{"minutes pulse repeat", CountdownConfig{Period: 1, Unit: CountdownMinutes, Repeat: true, InterruptAsPulse: true}, 0b1011_0111},
		{"max period", CountdownConfig{Period: 255, Unit: CountdownSeconds, Repeat: true}, 0b1111_0110},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := qt.New(t)
			dev, fake := newDevice(c)
			// alarm repeat bits set, everything else must be replaced
			fake.Registers[CountdownControl] = 0b0001_0100 | 0b1110_0011

			c.Assert(dev.SetCountdownTimer(tt.config), qt.IsNil)
			c.Assert(fake.Writes(), qt.DeepEquals, []tester.Op{
				write(CountdownTimer, tt.config.Period-1),
				write(TimerInitValue, tt.config.Period-1),
				write(CountdownControl, tt.control),
			})
		})
	}
}
