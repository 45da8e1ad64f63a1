package control

import "errors"

var (
	// ErrUnknownGain indicates a gain name other than kp, ki or kd.
	ErrUnknownGain = errors.New("control: unknown gain")

	// ErrUnknownRounding indicates an unsupported rounding mode name.
	ErrUnknownRounding = errors.New("control: unknown rounding mode")

	// ErrInvalidOptions indicates controller options outside their valid range.
	ErrInvalidOptions = errors.New("control: invalid options")
)
