package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/calmh/bmp280/internal/config"
	"github.com/calmh/bmp280/internal/logging"
	"github.com/calmh/bmp280/internal/sensor"
)

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	flag.StringVar(&cfg.Driver, "driver", cfg.Driver, "I2C driver (sysfs, periph)")
	flag.StringVar(&cfg.Path, "device", cfg.Path, "I2C device")
	address := flag.Uint("address", uint(cfg.Address), "I2C address")
	flag.Float64Var(&cfg.GroundPressure, "ground", cfg.GroundPressure, "Altitude reference pressure (Pa); 0 zeroes at startup")
	flag.StringVar(&cfg.PrometheusAddr, "prometheus", cfg.PrometheusAddr, "Prometheus exporter address")
	maxAge := flag.Duration("max-age", time.Second, "Maximum age of a reading served to a scrape")
	flag.Parse()
	cfg.Address = uint16(*address)

	logger := logging.New(os.Stderr, cfg, "bmp280-promexp")

	dev, bus, err := sensor.Open(cfg)
	if err != nil {
		logger.Error("open sensor", "device", cfg.Path, "address", cfg.Address, "error", err)
		os.Exit(1)
	}
	defer bus.Close()

	if cfg.GroundPressure == 0 {
		if _, err := dev.Zero(); err != nil {
			logger.Error("zero", "error", err)
			os.Exit(1)
		}
	}
	logger.Info("altitude reference", "ground_pressure_pa", dev.GroundPressure())

	registerMetrics(prometheus.DefaultRegisterer, newSampler(dev), *maxAge, logger)

	http.Handle("/metrics", promhttp.Handler())
	logger.Info("serving metrics", "addr", cfg.PrometheusAddr)
	if err := http.ListenAndServe(cfg.PrometheusAddr, nil); err != nil {
		logger.Error("serve", "error", err)
		os.Exit(1)
	}
}

func registerMetrics(reg prometheus.Registerer, s *sampler, maxAge time.Duration, logger *slog.Logger) {
	factory := promauto.With(reg)

	refresh := func() {
		if err := s.Refresh(maxAge); err != nil {
			logger.Warn("refresh bmp280", "error", err)
		}
	}

	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "sensors",
		Subsystem: "bmp280",
		Name:      "temperature_celsius",
	}, func() float64 {
		refresh()
		return round(s.Temperature(), 2)
	})

	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "sensors",
		Subsystem: "bmp280",
		Name:      "pressure_kpa",
	}, func() float64 {
		refresh()
		return round(s.Pressure()/1000, 3)
	})

	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "sensors",
		Subsystem: "bmp280",
		Name:      "altitude_meters",
	}, func() float64 {
		refresh()
		return round(s.Altitude(), 2)
	})

	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "sensors",
		Subsystem: "bmp280",
		Name:      "ground_pressure_pa",
	}, func() float64 {
		return round(s.GroundPressure(), 2)
	})

	factory.NewCounterFunc(prometheus.CounterOpts{
		Namespace: "sensors",
		Subsystem: "bmp280",
		Name:      "read_errors_total",
	}, func() float64 {
		return float64(s.Errors())
	})
}

func round(x float64, prec int) float64 {
	pow := math.Pow10(prec)
	return math.Round(x*pow) / pow
}
