package rv1805

const Address = 0x69 // I2C address for RV-1805-C3

// Time and alarm registers
const (
	TimeHundredths  = 0x00 // Hundredths, start of the time block
	TimeSeconds     = 0x01
	TimeMinutes     = 0x02
	TimeHours       = 0x03
	Date            = 0x04
	Months          = 0x05
	Years           = 0x06
	Weekdays        = 0x07
	AlarmHundredths = 0x08 // Hundredths alarm, start of the alarm block
	AlarmSeconds    = 0x09
	AlarmMinutes    = 0x0A
	AlarmHours      = 0x0B
	AlarmDate       = 0x0C
	AlarmMonths     = 0x0D
	AlarmWeekdays   = 0x0E
)

// Status, control and configuration registers
const (
	Status           = 0x0F
	Control1         = 0x10
	Control2         = 0x11
	InterruptMask    = 0x12
	SquareWave       = 0x13
	CalibrationXT    = 0x14
	CalibrationRCHi  = 0x15
	CalibrationRCLo  = 0x16
	SleepControl     = 0x17
	CountdownControl = 0x18
	CountdownTimer   = 0x19
	TimerInitValue   = 0x1A // reload value of the countdown timer
	WatchdogTimer    = 0x1B
	OscControl       = 0x1C
	OscStatus        = 0x1D
	ConfigKey        = 0x1F // write a key here immediately before a protected write
	TrickleCharge    = 0x20
	BREFControl      = 0x21
	CapRCControl     = 0x26
	IOBatmode        = 0x27
	ID0              = 0x28 // part number, read only
	ID1              = 0x29
	AnalogStatus     = 0x2F
	OutputControl    = 0x30
)

const (
	PartNumberMSB = 0x18
	PartNumberLSB = 0x05
)

// Key is a value written to ConfigKey to unlock the next write.
type Key uint8

const (
	KeyOscControl Key = 0xA1 // unlocks OscControl
	KeyReset      Key = 0x3C // triggers a software reset, no write follows
	KeyRegisters  Key = 0x9D // unlocks TrickleCharge, BREFControl, CapRCControl, IOBatmode, OutputControl
)

// bitfields
const (
	// OscControl
	oscSelectRC        = 1 << 7
	oscAutocal512s     = 0b11 << 5
	oscBackupSwitch    = 1 << 4 // switch to RC when on backup power
	oscFailSwitch      = 1 << 3 // switch to RC when XT fails
	oscPowerWithSleep  = 1 << 2 // disable the I2C interface in sleep
	oscKeepMask        = 0b0001_1111
	oscSwitchKeepMask  = 0b1110_0000
	oscSleepIfaceClear = 0b1111_1011

	// OscStatus
	oscStatusLockPSW = 1 << 5

	// Control1
	control1PSWStatic = 1 << 5

	// Control2
	control2OutBKeep = 0b1101_1111 // clears OUT2S bit X
	control2PSWMask  = 0b1110_0011
	control2PSWShift = 2

	// CountdownControl
	countdownEnable      = 1 << 7
	countdownLevelIRQ    = 1 << 6
	countdownRepeat      = 1 << 5
	countdownAlarmMask   = 0b1110_0011
	countdownAlarmKeep   = 0b0001_1100
	countdownAlarmShift  = 2
	countdownAlarmRepeat = 7

	// SleepControl
	sleepRequest = 1 << 7

	// Status
	statusFlagsMask = 0b0011_1110
	statusKeepMask  = 0b1100_0001

	// IOBatmode / OutputControl presets applied by ReduceLeakage
	ioBatmodeNoI2C    = 0x00
	outputControlLeak = 0x30
)
