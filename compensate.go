package bmp280

// Integer compensation from the BMP280 datasheet, section 3.11.3. The
// arithmetic is bit exact with the Bosch reference code; do not replace it
// with floating point.

// Temperature converts a 20 bit raw temperature sample to degrees Celsius.
// fine is the intermediate needed by Pressure for a sample taken in the same
// measurement cycle.
func (c Calibration) Temperature(raw uint32) (celsius float64, fine int32) {
	adc := int32(raw)
	t1 := int32(c.T1)
	t2 := int32(c.T2)
	t3 := int32(c.T3)

	var1 := (((adc >> 3) - (t1 << 1)) * t2) >> 11
	var2 := (((((adc >> 4) - t1) * ((adc >> 4) - t1)) >> 12) * t3) >> 14

	fine = var1 + var2
	t := (fine*5 + 128) >> 8
	return float64(t) / 100, fine
}

// Pressure converts a 20 bit raw pressure sample to kPa. The result is
// ErrDivisionByZero when the calibration is degenerate.
func (c Calibration) Pressure(raw uint32, fine int32) (kPa float64, err error) {
	p1 := int64(c.P1)
	p2 := int64(c.P2)
	p3 := int64(c.P3)
	p4 := int64(c.P4)
	p5 := int64(c.P5)
	p6 := int64(c.P6)
	p7 := int64(c.P7)
	p8 := int64(c.P8)
	p9 := int64(c.P9)

	var1 := int64(fine) - 128000
	var2 := var1 * var1 * p6
	var2 += (var1 * p5) << 17
	var2 += p4 << 35
	var1 = ((var1 * var1 * p3) >> 8) + ((var1 * p2) << 12)
	var1 = (((int64(1) << 47) + var1) * p1) >> 33
	if var1 == 0 {
		return 0, ErrDivisionByZero
	}

	p := 1048576 - int64(raw)
	p = (((p << 31) - var2) * 3125) / var1
	var1 = (p9 * (p >> 13) * (p >> 13)) >> 25
	var2 = (p8 * p) >> 19
	p = ((p + var1 + var2) >> 8) + (p7 << 4)

	// p is Pa in Q24.8.
	return float64(p) / 256000, nil
}
