package sensor

import (
	"fmt"
	"io"
	"time"

	"periph.io/x/conn/v3/physic"

	"github.com/calmh/bmp280"
	"github.com/calmh/bmp280/i2c"
	"github.com/calmh/bmp280/internal/config"
)

var openBus = i2c.Open

// Open opens the bus described by cfg and initializes the sensor on it. A
// nonzero cfg.GroundPressure becomes the altitude reference as given. The
// returned closer releases the bus.
func Open(cfg config.Config) (*bmp280.Dev, io.Closer, error) {
	bus, err := openBus(cfg.Driver, cfg.Path, cfg.Address)
	if err != nil {
		return nil, nil, fmt.Errorf("open I2C device: %w", err)
	}

	dev, err := bmp280.New(&bmp280.Opts{
		Address: cfg.Address,
		Path:    cfg.Path,
		Bus:     bus,
	})
	if err != nil {
		bus.Close()
		return nil, nil, fmt.Errorf("init BMP280: %w", err)
	}
	if cfg.GroundPressure != 0 {
		dev.SetGroundPressure(cfg.GroundPressure)
	}
	return dev, bus, nil
}

// Reading is one measurement cycle. Altitude is nil until the sensor has
// a ground pressure.
type Reading struct {
	Time        time.Time `json:"time"`
	Temperature float64   `json:"temperature_c"`
	Pressure    float64   `json:"pressure_kpa"`
	Altitude    *float64  `json:"altitude_m,omitempty"`
}

func Read(dev *bmp280.Dev, now time.Time) (Reading, error) {
	var e physic.Env
	if err := dev.Sense(&e); err != nil {
		return Reading{}, err
	}

	pa := float64(e.Pressure) / float64(physic.Pascal)
	r := Reading{
		Time:        now,
		Temperature: e.Temperature.Celsius(),
		Pressure:    pa / 1000,
	}
	if ground := dev.GroundPressure(); ground != 0 {
		alt := bmp280.Altitude(pa, ground)
		r.Altitude = &alt
	}
	return r, nil
}
