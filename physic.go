package bmp280

import "periph.io/x/conn/v3/physic"

// Sense fills e.Temperature and e.Pressure from one measurement cycle. The
// BMP280 has no humidity channel; e.Humidity is left untouched.
func (d *Dev) Sense(e *physic.Env) error {
	celsius, kPa, err := d.sense()
	if err != nil {
		return err
	}
	e.Temperature = physic.ZeroCelsius + physic.Temperature(celsius*float64(physic.Kelvin))
	e.Pressure = physic.Pressure(kPa * float64(physic.KiloPascal))
	return nil
}
