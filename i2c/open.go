package i2c

import "fmt"

const (
	DriverSysfs  = "sysfs"
	DriverPeriph = "periph"
)

// Open opens path at addr using the named driver.
func Open(driver, path string, addr uint16) (BusCloser, error) {
	switch driver {
	case DriverSysfs, "":
		b, err := OpenSysfs(path, addr)
		if err != nil {
			return nil, err
		}
		return b, nil
	case DriverPeriph:
		b, err := OpenPeriph(path, addr)
		if err != nil {
			return nil, err
		}
		return b, nil
	default:
		return nil, fmt.Errorf("unknown I2C driver %q", driver)
	}
}
