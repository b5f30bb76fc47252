package rv1805

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	// ErrNotDetected is returned by Configure when the part number does not match an RV-1805-C3.
	ErrNotDetected = errors.New("rv1805: device not detected")
	// ErrOutOfRange is matched by every *FieldError.
	ErrOutOfRange = errors.New("rv1805: value out of range")
	// ErrMalformed is matched by every *ParseError.
	ErrMalformed = errors.New("rv1805: malformed date")

	ErrInvalidAlarmMode = errors.New("rv1805: invalid alarm mode")
	ErrInvalidInterrupt = errors.New("rv1805: invalid interrupt type")
	ErrInvalidComponent = errors.New("rv1805: invalid date/time component")
)

// FieldError reports the first date/time field that failed validation.
type FieldError struct {
	Component Component
	Value     int
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("rv1805: %s %d out of range", e.Component, e.Value)
}

func (e *FieldError) Unwrap() error {
	return ErrOutOfRange
}

// ParseError reports text that could not be tokenized as the expected date format.
type ParseError struct {
	Format string
	Input  string
	Msg    string
}

func (e *ParseError) Error() string {
	return "rv1805: parsing " + e.Format + " " + strconv.Quote(e.Input) + ": " + e.Msg
}

func (e *ParseError) Unwrap() error {
	return ErrMalformed
}
