package rv1805

// AlarmMode selects which fields of the alarm registers must match the time registers for the alarm to fire.
type AlarmMode uint8

const (
	AlarmDisabled         AlarmMode = iota // no alarm
	AlarmOncePerYear                       // hundredths, seconds, minutes, hours, date and month match
	AlarmOncePerMonth                      // hundredths, seconds, minutes, hours and date match
	AlarmOncePerWeek                       // hundredths, seconds, minutes, hours and weekday match
	AlarmOncePerDay                        // hundredths, seconds, minutes and hours match
	AlarmOncePerHour                       // hundredths, seconds and minutes match
	AlarmOncePerMinute                     // hundredths and seconds match
	AlarmOncePerSecond                     // hundredths match
	AlarmOncePerTenth                      // hundredths alarm is preset to match any tenths digit
	AlarmOncePerHundredth                  // hundredths alarm is preset to match anything
)

const (
	alarmEveryTenth     = 0xF0
	alarmEveryHundredth = 0xFF
)

// SetAlarmMode sets the alarm repeat function. The tenth and hundredth modes overwrite the hundredths alarm
// register, so call SetAlarm before them, not after.
func (d *Device) SetAlarmMode(mode AlarmMode) error {
	if mode > AlarmOncePerHundredth {
		return ErrInvalidAlarmMode
	}

	value, err := d.read(CountdownControl)
	if err != nil {
		return err
	}
	value &= countdownAlarmMask

	switch mode {
	case AlarmOncePerTenth:
		err = d.write(AlarmHundredths, alarmEveryTenth)
		value |= countdownAlarmRepeat << countdownAlarmShift
	case AlarmOncePerHundredth:
		err = d.write(AlarmHundredths, alarmEveryHundredth)
		value |= countdownAlarmRepeat << countdownAlarmShift
	default:
		value |= uint8(mode) << countdownAlarmShift
	}
	if err != nil {
		return err
	}

	return d.write(CountdownControl, value)
}

// SetAlarm writes dt to the alarm registers. The alarm has no year register, so the year is dropped.
func (d *Device) SetAlarm(dt DateTime) error {
	buf := [7]byte{
		dt[Hundredth],
		dt[Second],
		dt[Minute],
		dt[Hour],
		dt[DayOfMonth],
		dt[Month],
		dt[DayOfWeek],
	}
	return d.writeRegisters(AlarmHundredths, buf[:])
}

// SetAlarmDate validates the fields like DateTime.Set and writes them to the alarm registers. On a validation error
// the alarm registers are left untouched.
func (d *Device) SetAlarmDate(year, month, day int, weekday Weekday, hour, minute, second, hundredth int) error {
	var dt DateTime
	err := dt.Set(year, month, day, weekday, hour, minute, second, hundredth)
	if err != nil {
		return err
	}
	return d.SetAlarm(dt)
}

// SetAlarmFromISO8601 parses s with ParseISO8601 and writes it to the alarm registers.
func (d *Device) SetAlarmFromISO8601(s string) (DateTime, error) {
	dt, err := ParseISO8601(s)
	if err != nil {
		return dt, err
	}
	return dt, d.SetAlarm(dt)
}

// SetAlarmFromHTTPDate parses s with ParseHTTPDate and writes it to the alarm registers.
func (d *Device) SetAlarmFromHTTPDate(s string) (DateTime, error) {
	dt, err := ParseHTTPDate(s)
	if err != nil {
		return dt, err
	}
	return dt, d.SetAlarm(dt)
}

// ReadAlarm reads the alarm registers. The year of the result is always 0.
func (d *Device) ReadAlarm() (DateTime, error) {
	buf := [7]byte{}
	err := d.readRegisters(AlarmHundredths, buf[:])
	if err != nil {
		return DateTime{}, err
	}
	var dt DateTime
	copy(dt[:Year], buf[:6])
	dt[DayOfWeek] = buf[6]
	return dt, nil
}
