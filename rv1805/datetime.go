package rv1805

import (
	"strconv"
	"time"
)

// Component indexes a field of a DateTime, in the same order as the time registers.
type Component uint8

const (
	Hundredth Component = iota
	Second
	Minute
	Hour
	DayOfMonth
	Month
	Year
	DayOfWeek

	numComponents = 8
)

var componentNames = [numComponents]string{
	"hundredth", "second", "minute", "hour", "day of month", "month", "year", "day of week",
}

func (c Component) String() string {
	if c >= numComponents {
		return "component(" + strconv.Itoa(int(c)) + ")"
	}
	return componentNames[c]
}

type Weekday uint8

const (
	Sunday Weekday = iota
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

// DateTime mirrors the eight time registers of the device, each field stored as BCD exactly as it goes over the
// wire. Year is the offset from 2000.
//
// The zero value is not a valid date (day and month are 0); populate it with Set, a parser or Device.ReadDateTime.
type DateTime [numComponents]uint8

// Set validates and stores every field in the order year, month, day, weekday, hour, minute, second, hundredth.
// It stops at the first invalid field and returns a *FieldError for it. Fields validated before that one have
// already been stored and are not rolled back.
//
// Only 2000 to 2099 is representable: years from 2100 on are silently truncated to their last two digits.
func (dt *DateTime) Set(year, month, day int, weekday Weekday, hour, minute, second, hundredth int) error {
	if year < 2000 {
		return &FieldError{Year, year}
	}
	dt[Year] = DecimalToBCD(uint8((year - 2000) % 100))

	if month < 1 || month > 12 {
		return &FieldError{Month, month}
	}
	dt[Month] = DecimalToBCD(uint8(month))

	if day < 1 || day > 31 {
		return &FieldError{DayOfMonth, day}
	}
	dt[DayOfMonth] = DecimalToBCD(uint8(day))

	if weekday > Saturday {
		return &FieldError{DayOfWeek, int(weekday)}
	}
	dt[DayOfWeek] = DecimalToBCD(uint8(weekday))

	// 24-hour notation only
	if hour < 0 || hour > 23 {
		return &FieldError{Hour, hour}
	}
	dt[Hour] = DecimalToBCD(uint8(hour))

	if minute < 0 || minute > 59 {
		return &FieldError{Minute, minute}
	}
	dt[Minute] = DecimalToBCD(uint8(minute))

	if second < 0 || second > 59 {
		return &FieldError{Second, second}
	}
	dt[Second] = DecimalToBCD(uint8(second))

	if hundredth < 0 || hundredth > 99 {
		return &FieldError{Hundredth, hundredth}
	}
	dt[Hundredth] = DecimalToBCD(uint8(hundredth))

	return nil
}

// Get returns the decoded decimal value of a single field, or 0 for an unknown component.
func (dt DateTime) Get(c Component) uint8 {
	if c >= numComponents {
		return 0
	}
	return BCDToDecimal(dt[c])
}

// Weekday returns the decoded day of the week.
func (dt DateTime) Weekday() Weekday {
	return Weekday(dt.Get(DayOfWeek))
}

// String formats the date as YYYY-MM-DDTHH:MM:SS. Hundredths and the weekday are not included.
func (dt DateTime) String() string {
	buf := make([]byte, 0, 19)
	buf = append(buf, '2', '0')
	buf = appendTwo(buf, dt.Get(Year))
	buf = append(buf, '-')
	buf = appendTwo(buf, dt.Get(Month))
	buf = append(buf, '-')
	buf = appendTwo(buf, dt.Get(DayOfMonth))
	buf = append(buf, 'T')
	buf = appendTwo(buf, dt.Get(Hour))
	buf = append(buf, ':')
	buf = appendTwo(buf, dt.Get(Minute))
	buf = append(buf, ':')
	buf = appendTwo(buf, dt.Get(Second))
	return string(buf)
}

// Time converts to a time.Time in UTC, keeping hundredths as nanoseconds.
func (dt DateTime) Time() time.Time {
	return time.Date(
		2000+int(dt.Get(Year)),
		time.Month(dt.Get(Month)),
		int(dt.Get(DayOfMonth)),
		int(dt.Get(Hour)),
		int(dt.Get(Minute)),
		int(dt.Get(Second)),
		int(dt.Get(Hundredth))*int(10*time.Millisecond),
		time.UTC)
}

// FromTime builds a DateTime from t, which must fall in 2000 to 2099. The location of t is used as is.
func FromTime(t time.Time) (DateTime, error) {
	var dt DateTime
	err := dt.Set(t.Year(), int(t.Month()), t.Day(), Weekday(t.Weekday()),
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond()/int(10*time.Millisecond))
	return dt, err
}

// appendTwo appends v (0..99) as two decimal digits. Corrupt BCD above 99 is shown as-is mod 100.
func appendTwo(buf []byte, v uint8) []byte {
	v %= 100
	return append(buf, '0'+v/10, '0'+v%10)
}
