package rv1805

// SleepWait is the delay between a sleep request and the device entering sleep.
type SleepWait uint8

const (
	SleepImmediately SleepWait = iota
	SleepWait8ms
	SleepWait16ms
	SleepWait24ms
	SleepWait32ms
	SleepWait40ms
	SleepWait48ms
	SleepWait56ms
)

// PowerSwitchFunction selects what drives the PSW/nIRQ2 pin.
type PowerSwitchFunction uint8

const (
	PowerSwitchInverseCombinedIRQ PowerSwitchFunction = 0b000
	PowerSwitchSquareWave         PowerSwitchFunction = 0b001
	PowerSwitchInverseAlarmIRQ    PowerSwitchFunction = 0b011
	PowerSwitchTimerIRQ           PowerSwitchFunction = 0b100
	PowerSwitchInverseTimerIRQ    PowerSwitchFunction = 0b101
	PowerSwitchSleep              PowerSwitchFunction = 0b110
	PowerSwitchStatic             PowerSwitchFunction = 0b111
)

// Sleep requests the sleep state after the wait period. With disableInterface the I2C interface is switched off
// while asleep, so the device will not answer until an interrupt wakes it up. Use with caution.
func (d *Device) Sleep(wait SleepWait, disableInterface bool) error {
	if disableInterface {
		value, err := d.read(OscControl)
		if err != nil {
			return err
		}
		value &= oscSleepIfaceClear
		value |= oscPowerWithSleep
		err = d.writeProtected(KeyOscControl, OscControl, value)
		if err != nil {
			return err
		}
	}

	value, err := d.read(SleepControl)
	if err != nil {
		return err
	}
	value |= sleepRequest
	value |= uint8(wait) & 0b111
	return d.write(SleepControl, value)
}

func (d *Device) SetPowerSwitchFunction(f PowerSwitchFunction) error {
	value, err := d.read(Control2)
	if err != nil {
		return err
	}
	value &= control2PSWMask
	value |= (uint8(f) & 0b111) << control2PSWShift
	return d.write(Control2, value)
}

// LockPowerSwitch latches the power switch output.
func (d *Device) LockPowerSwitch() error {
	value, err := d.read(OscStatus)
	if err != nil {
		return err
	}
	value |= oscStatusLockPSW
	return d.write(OscStatus, value)
}

func (d *Device) UnlockPowerSwitch() error {
	value, err := d.read(OscStatus)
	if err != nil {
		return err
	}
	value &^= oscStatusLockPSW
	return d.write(OscStatus, value)
}

// SetStaticPowerSwitchOutput drives the power switch pin high or low when its function is PowerSwitchStatic. The
// switch must be unlocked first.
func (d *Device) SetStaticPowerSwitchOutput(high bool) error {
	value, err := d.read(Control1)
	if err != nil {
		return err
	}
	value &^= control1PSWStatic
	if high {
		value |= control1PSWStatic
	}
	return d.write(Control1, value)
}
