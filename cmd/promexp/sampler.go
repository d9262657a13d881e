package main

import (
	"sync"
	"time"

	"periph.io/x/conn/v3/physic"

	"github.com/calmh/bmp280"
)

// sampler caches the latest BMP280 reading so that a scrape reading
// several gauges touches the bus once.
type sampler struct {
	dev *bmp280.Dev

	mut         sync.Mutex
	lastRead    time.Time
	temperature float64
	pressure    float64
	errors      int
}

func newSampler(dev *bmp280.Dev) *sampler {
	return &sampler{dev: dev}
}

// Refresh reads the sensor unless the cached values are younger than age.
func (s *sampler) Refresh(age time.Duration) error {
	s.mut.Lock()
	defer s.mut.Unlock()

	if time.Since(s.lastRead) < age {
		return nil
	}

	var e physic.Env
	if err := s.dev.Sense(&e); err != nil {
		s.errors++
		return err
	}

	s.temperature = e.Temperature.Celsius()
	s.pressure = float64(e.Pressure) / float64(physic.Pascal)
	s.lastRead = time.Now()
	return nil
}

// Temperature is in degrees Celsius.
func (s *sampler) Temperature() float64 {
	s.mut.Lock()
	defer s.mut.Unlock()
	return s.temperature
}

// Pressure is in Pa.
func (s *sampler) Pressure() float64 {
	s.mut.Lock()
	defer s.mut.Unlock()
	return s.pressure
}

// Altitude is relative to the ground pressure, or zero when there is none.
func (s *sampler) Altitude() float64 {
	s.mut.Lock()
	defer s.mut.Unlock()
	ground := s.dev.GroundPressure()
	if ground == 0 || s.pressure == 0 {
		return 0
	}
	return bmp280.Altitude(s.pressure, ground)
}

func (s *sampler) GroundPressure() float64 {
	s.mut.Lock()
	defer s.mut.Unlock()
	return s.dev.GroundPressure()
}

func (s *sampler) Errors() int {
	s.mut.Lock()
	defer s.mut.Unlock()
	return s.errors
}
