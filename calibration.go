package bmp280

import "github.com/calmh/bmp280/i2c"

// Calibration holds the factory trimming parameters stored in the sensor's
// non-volatile memory.
type Calibration struct {
	T1 uint16
	T2 int16
	T3 int16

	P1 uint16
	P2 int16
	P3 int16
	P4 int16
	P5 int16
	P6 int16
	P7 int16
	P8 int16
	P9 int16
}

// loadCalibration reads the twelve trimming words, little endian, in
// register order.
func loadCalibration(r *i2c.Reader) (Calibration, error) {
	var c Calibration

	c.T1 = r.Uint16LE(DigT1.Addr())
	c.T2 = r.Int16LE(DigT2.Addr())
	c.T3 = r.Int16LE(DigT3.Addr())

	c.P1 = r.Uint16LE(DigP1.Addr())
	c.P2 = r.Int16LE(DigP2.Addr())
	c.P3 = r.Int16LE(DigP3.Addr())
	c.P4 = r.Int16LE(DigP4.Addr())
	c.P5 = r.Int16LE(DigP5.Addr())
	c.P6 = r.Int16LE(DigP6.Addr())
	c.P7 = r.Int16LE(DigP7.Addr())
	c.P8 = r.Int16LE(DigP8.Addr())
	c.P9 = r.Int16LE(DigP9.Addr())

	if err := r.Error(); err != nil {
		return Calibration{}, &TransportError{Op: "read calibration data", Err: err}
	}
	return c, nil
}
