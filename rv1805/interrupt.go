package rv1805

// InterruptType is a maskable interrupt source, valued as its bit in the InterruptMask register.
type InterruptType uint8

const (
	InterruptExternal   InterruptType = 1
	InterruptAlarm      InterruptType = 2
	InterruptTimer      InterruptType = 3
	InterruptBatteryLow InterruptType = 4
	InterruptWatchdog   InterruptType = 5
)

// InterruptFlags holds the interrupt flags returned by ClearInterrupts, shifted down so the external flag is bit 0.
type InterruptFlags uint8

// Has reports whether the flag of the given source was set.
func (f InterruptFlags) Has(t InterruptType) bool {
	if t < InterruptExternal || t > InterruptWatchdog {
		return false
	}
	return f&(1<<(t-1)) != 0
}

func (d *Device) EnableInterrupt(t InterruptType) error {
	if t < InterruptExternal || t > InterruptWatchdog {
		return ErrInvalidInterrupt
	}
	value, err := d.read(InterruptMask)
	if err != nil {
		return err
	}
	value |= 1 << t
	return d.write(InterruptMask, value)
}

func (d *Device) DisableInterrupt(t InterruptType) error {
	if t < InterruptExternal || t > InterruptWatchdog {
		return ErrInvalidInterrupt
	}
	value, err := d.read(InterruptMask)
	if err != nil {
		return err
	}
	value &^= 1 << t
	return d.write(InterruptMask, value)
}

// ClearInterrupts clears the watchdog, battery low, timer, alarm and external interrupt flags and returns the ones
// that were set. The two top status bits are left as they were.
func (d *Device) ClearInterrupts() (InterruptFlags, error) {
	value, err := d.read(Status)
	if err != nil {
		return 0, err
	}
	flags := value & statusFlagsMask
	value &= statusKeepMask
	err = d.write(Status, value)
	if err != nil {
		return 0, err
	}
	return InterruptFlags(flags >> 1), nil
}
