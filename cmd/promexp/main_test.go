package main

import (
	"encoding/hex"
	"io"
	"log/slog"
	"math"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/calmh/bmp280"
	"github.com/calmh/bmp280/i2c/i2ctest"
)

func newDev(t *testing.T) (*bmp280.Dev, *i2ctest.Registers) {
	t.Helper()
	nvm, err := hex.DecodeString("706b436718fc7d8e43d6d00b270b8c00f9ff8c3cf8c67017")
	if err != nil {
		t.Fatal(err)
	}
	regs := &i2ctest.Registers{}
	copy(regs.Mem[0x88:], nvm)
	regs.Mem[0xd0] = 0x58
	regs.SetUint24BE(0xfa, 519888<<4)
	regs.SetUint24BE(0xf7, 415148<<4)

	dev, err := bmp280.New(&bmp280.Opts{Bus: regs})
	if err != nil {
		t.Fatal(err)
	}
	return dev, regs
}

func TestSamplerRefreshCaches(t *testing.T) {
	dev, regs := newDev(t)
	s := newSampler(dev)

	for i := 0; i < 3; i++ {
		if err := s.Refresh(time.Hour); err != nil {
			t.Fatal(err)
		}
	}
	if n := regs.Count(0xfa); n != 1 {
		t.Errorf("%d temperature reads != expected 1", n)
	}

	if err := s.Refresh(0); err != nil {
		t.Fatal(err)
	}
	if n := regs.Count(0xfa); n != 2 {
		t.Errorf("%d temperature reads != expected 2", n)
	}

	if math.Abs(s.Temperature()-25.08) > 1e-6 {
		t.Errorf("temperature %v", s.Temperature())
	}
	if math.Abs(s.Pressure()-100653.25390625) > 1e-6 {
		t.Errorf("pressure %v", s.Pressure())
	}
}

func TestSamplerAltitude(t *testing.T) {
	dev, _ := newDev(t)
	s := newSampler(dev)
	if err := s.Refresh(0); err != nil {
		t.Fatal(err)
	}
	if a := s.Altitude(); a != 0 {
		t.Errorf("altitude %v without ground pressure", a)
	}

	dev.SetGroundPressure(101325)
	if a := s.Altitude(); a < 50 || a > 60 {
		t.Errorf("altitude %v not near 56 m", a)
	}
}

func TestSamplerErrors(t *testing.T) {
	dev, regs := newDev(t)
	regs.ReadErr = map[uint8]error{0xfa: i2ctest.ErrInjected}
	s := newSampler(dev)

	if err := s.Refresh(time.Hour); err == nil {
		t.Fatal("missing error")
	}
	if err := s.Refresh(time.Hour); err == nil {
		t.Fatal("failed read was cached")
	}
	if n := s.Errors(); n != 2 {
		t.Errorf("%d errors != expected 2", n)
	}
}

func TestRegisterMetrics(t *testing.T) {
	dev, regs := newDev(t)
	if _, err := dev.Zero(); err != nil {
		t.Fatal(err)
	}

	reg := prometheus.NewRegistry()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	registerMetrics(reg, newSampler(dev), time.Hour, logger)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatal(err)
	}
	got := make(map[string]float64)
	for _, mf := range mfs {
		m := mf.GetMetric()[0]
		switch {
		case m.GetGauge() != nil:
			got[mf.GetName()] = m.GetGauge().GetValue()
		case m.GetCounter() != nil:
			got[mf.GetName()] = m.GetCounter().GetValue()
		}
	}

	exp := map[string]float64{
		"sensors_bmp280_temperature_celsius": 25.08,
		"sensors_bmp280_pressure_kpa":        100.653,
		"sensors_bmp280_altitude_meters":     0,
		"sensors_bmp280_ground_pressure_pa":  100653.25,
		"sensors_bmp280_read_errors_total":   0,
	}
	for k, v := range exp {
		if g, ok := got[k]; !ok {
			t.Errorf("missing %s", k)
		} else if g != v {
			t.Errorf("%s: %v != expected %v", k, g, v)
		}
	}

	// Zero read the sensor once; the scrape once more.
	if n := regs.Count(0xfa); n != 2 {
		t.Errorf("%d temperature reads != expected 2", n)
	}
}
