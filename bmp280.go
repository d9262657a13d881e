// Package bmp280 drives a Bosch BMP280 pressure and temperature sensor on
// an I²C bus.
//
// Pressure is reported in kPa. Ground and reference pressures used for
// altitude are in Pa.
package bmp280

import (
	"fmt"
	"io"
	"math"

	"github.com/calmh/bmp280/i2c"
)

const (
	DefaultAddress = 0x77
	DefaultPath    = "/dev/i2c-1"

	bmp280ChipID = 0x58

	// osrs_t=x16, osrs_p=x16, mode=normal
	bmp280CtrlMeas = 0x3f
)

// Opts configures New. A nil Bus means New opens Path at Address with the
// sysfs driver and closes it again in Close.
type Opts struct {
	Address uint16
	Path    string

	// GroundPressure is the initial altitude reference in Pa. When nonzero
	// New zeroes the sensor, replacing it with the current pressure.
	GroundPressure float64

	Bus i2c.Bus
}

var DefaultOpts = Opts{
	Address: DefaultAddress,
	Path:    DefaultPath,
}

// openBus opens the bus used when Opts.Bus is nil.
var openBus = func(path string, addr uint16) (i2c.BusCloser, error) {
	b, err := i2c.OpenSysfs(path, addr)
	if err != nil {
		return nil, err
	}
	return b, nil
}

type State int

const (
	Uninitialized State = iota
	Ready
	Faulted
	Closed
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Ready:
		return "ready"
	case Faulted:
		return "faulted"
	case Closed:
		return "closed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Dev is a BMP280. It is not safe for concurrent use.
type Dev struct {
	bus    i2c.Bus
	closer io.Closer
	cal    Calibration
	fine   int32
	ground float64
	state  State
}

// New verifies the chip id, loads the calibration and puts the sensor in
// normal mode with 16x oversampling on both channels.
func New(opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &DefaultOpts
	}

	d := &Dev{bus: opts.Bus, ground: opts.GroundPressure}
	if d.bus == nil {
		path := opts.Path
		if path == "" {
			path = DefaultPath
		}
		addr := opts.Address
		if addr == 0 {
			addr = DefaultAddress
		}
		b, err := openBus(path, addr)
		if err != nil {
			return nil, &TransportError{Op: "open bus", Err: err}
		}
		d.bus = b
		d.closer = b
	}

	if err := d.init(); err != nil {
		d.Close()
		return nil, err
	}

	if opts.GroundPressure != 0 {
		if _, err := d.Zero(); err != nil {
			d.state = Faulted
			d.Close()
			return nil, fmt.Errorf("zero: %w", err)
		}
	}

	return d, nil
}

func (d *Dev) init() error {
	d.state = Faulted

	r := i2c.NewReader(d.bus)

	id := r.Byte(ChipID.Addr())
	if err := r.Error(); err != nil {
		return &TransportError{Op: "read chip id", Err: err}
	}
	if id != bmp280ChipID {
		return fmt.Errorf("chip id 0x%02x: %w", id, ErrIdentityMismatch)
	}

	cal, err := loadCalibration(r)
	if err != nil {
		return err
	}

	r.WriteReg(Control.Addr(), bmp280CtrlMeas)
	if err := r.Error(); err != nil {
		return &TransportError{Op: "write control register", Err: err}
	}

	d.cal = cal
	d.state = Ready
	return nil
}

func (d *Dev) State() State {
	return d.state
}

// Calibration returns a copy of the trimming parameters read at
// initialization.
func (d *Dev) Calibration() Calibration {
	return d.cal
}

// Temperature reads the temperature in degrees Celsius.
func (d *Dev) Temperature() (float64, error) {
	if d.state != Ready {
		return 0, ErrNotReady
	}

	raw, err := d.readSample(TemperatureData)
	if err != nil {
		return 0, err
	}

	celsius, fine := d.cal.Temperature(raw)
	d.fine = fine
	return celsius, nil
}

// Pressure reads the pressure in kPa. Every call first reads the
// temperature, since pressure compensation depends on it.
func (d *Dev) Pressure() (float64, error) {
	_, kPa, err := d.sense()
	return kPa, err
}

func (d *Dev) sense() (celsius, kPa float64, err error) {
	celsius, err = d.Temperature()
	if err != nil {
		return 0, 0, err
	}

	raw, err := d.readSample(PressureData)
	if err != nil {
		return 0, 0, err
	}

	kPa, err = d.cal.Pressure(raw, d.fine)
	if err != nil {
		return 0, 0, err
	}
	return celsius, kPa, nil
}

func (d *Dev) readSample(reg Register) (uint32, error) {
	r := i2c.NewReader(d.bus)
	v := r.Uint24BE(reg.Addr())
	if err := r.Error(); err != nil {
		return 0, &TransportError{Op: "read " + reg.String(), Err: err}
	}
	// The lowest nibble of xlsb is unused at 20 bit resolution.
	return v >> 4, nil
}

// Zero makes the current pressure the altitude reference and returns it
// in Pa.
func (d *Dev) Zero() (float64, error) {
	kPa, err := d.Pressure()
	if err != nil {
		return 0, err
	}
	d.ground = kPa * 1000
	return d.ground, nil
}

// GroundPressure returns the altitude reference in Pa.
func (d *Dev) GroundPressure() float64 {
	return d.ground
}

func (d *Dev) SetGroundPressure(pa float64) {
	d.ground = pa
}

// Altitude returns the height in meters above the point where Zero was last
// called, or above GroundPressure. It fails with ErrNoReference if no
// reference has been set.
func (d *Dev) Altitude() (float64, error) {
	return d.AltitudeRelative(d.ground)
}

// AltitudeRelative returns the height in meters relative to the given
// reference pressure in Pa, usually the sea level pressure. A reference that
// is not a positive number gives ErrNoReference.
func (d *Dev) AltitudeRelative(referencePa float64) (float64, error) {
	if d.state != Ready {
		return 0, ErrNotReady
	}
	if !(referencePa > 0) {
		return 0, ErrNoReference
	}
	kPa, err := d.Pressure()
	if err != nil {
		return 0, err
	}
	return Altitude(kPa*1000, referencePa), nil
}

// Altitude is the international barometric formula, heights in meters and
// pressures in Pa.
func Altitude(pressurePa, referencePa float64) float64 {
	return 44330 * (1 - math.Pow(pressurePa/referencePa, 0.1903))
}

func (d *Dev) String() string {
	if s, ok := d.bus.(fmt.Stringer); ok {
		return "BMP280{" + s.String() + "}"
	}
	return "BMP280"
}

// Halt is a no-op. The sensor keeps sampling in normal mode.
func (d *Dev) Halt() error {
	return nil
}

// Close releases the bus if New opened it. A bus passed in Opts is left
// open.
func (d *Dev) Close() error {
	if d.state != Faulted {
		d.state = Closed
	}
	if d.closer == nil {
		return nil
	}
	err := d.closer.Close()
	d.closer = nil
	return err
}
