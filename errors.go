package bmp280

import "errors"

var (
	// ErrIdentityMismatch is returned by New when the chip id register does
	// not read 0x58.
	ErrIdentityMismatch = errors.New("bmp280: unexpected chip id")

	// ErrDivisionByZero is returned by pressure compensation when the
	// calibration data is degenerate (P1 of zero). The device stays usable.
	ErrDivisionByZero = errors.New("bmp280: division by zero in pressure compensation")

	ErrNotReady    = errors.New("bmp280: device not ready")
	ErrNoReference = errors.New("bmp280: no positive reference pressure")
)

// TransportError is a failed bus transaction. Err is the error returned by
// the bus.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return "bmp280: " + e.Op + ": " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
