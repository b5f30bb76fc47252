package rv1805

// CountdownUnit selects the countdown timer clock.
type CountdownUnit uint8

const (
	CountdownSeconds CountdownUnit = 0b10 // 1 Hz
	CountdownMinutes CountdownUnit = 0b11 // 1/60 Hz
)

type CountdownConfig struct {
	// Period is the number of units until the timer fires, 1 to 255. 0 leaves the timer alone.
	Period uint8
	Unit   CountdownUnit
	// Repeat reloads the timer every time it reaches zero.
	Repeat bool
	// InterruptAsPulse makes the timer interrupt a short pulse instead of a level held until cleared.
	InterruptAsPulse bool
}

// SetCountdownTimer loads and starts the countdown timer. The alarm repeat bits sharing the control register are
// preserved.
func (d *Device) SetCountdownTimer(c CountdownConfig) error {
	if c.Period == 0 {
		return nil
	}

	err := d.write(CountdownTimer, c.Period-1)
	if err != nil {
		return err
	}
	err = d.write(TimerInitValue, c.Period-1)
	if err != nil {
		return err
	}

	value, err := d.read(CountdownControl)
	if err != nil {
		return err
	}
	value &= countdownAlarmKeep
	value |= uint8(c.Unit) & 0b11
	if !c.InterruptAsPulse {
		value |= countdownLevelIRQ
	}
	if c.Repeat {
		value |= countdownRepeat
	}
	value |= countdownEnable
	return d.write(CountdownControl, value)
}
