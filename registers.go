package bmp280

import "fmt"

// Register is a BMP280 register. Its value is the bus address.
type Register uint8

const (
	DigT1 Register = 0x88
	DigT2 Register = 0x8a
	DigT3 Register = 0x8c

	DigP1 Register = 0x8e
	DigP2 Register = 0x90
	DigP3 Register = 0x92
	DigP4 Register = 0x94
	DigP5 Register = 0x96
	DigP6 Register = 0x98
	DigP7 Register = 0x9a
	DigP8 Register = 0x9c
	DigP9 Register = 0x9e

	ChipID    Register = 0xd0
	Version   Register = 0xd1
	SoftReset Register = 0xe0

	// Cal26 is the start of the 0xE1-0xF0 calibration block used by the
	// BME280 humidity channel.
	Cal26 Register = 0xe1

	Control         Register = 0xf4
	Config          Register = 0xf5
	PressureData    Register = 0xf7
	TemperatureData Register = 0xfa
)

var registerNames = map[Register]string{
	DigT1:           "DigT1",
	DigT2:           "DigT2",
	DigT3:           "DigT3",
	DigP1:           "DigP1",
	DigP2:           "DigP2",
	DigP3:           "DigP3",
	DigP4:           "DigP4",
	DigP5:           "DigP5",
	DigP6:           "DigP6",
	DigP7:           "DigP7",
	DigP8:           "DigP8",
	DigP9:           "DigP9",
	ChipID:          "ChipID",
	Version:         "Version",
	SoftReset:       "SoftReset",
	Cal26:           "Cal26",
	Control:         "Control",
	Config:          "Config",
	PressureData:    "PressureData",
	TemperatureData: "TemperatureData",
}

func (r Register) Addr() uint8 {
	return uint8(r)
}

func (r Register) String() string {
	if name, ok := registerNames[r]; ok {
		return name
	}
	return fmt.Sprintf("Register(0x%02x)", uint8(r))
}
