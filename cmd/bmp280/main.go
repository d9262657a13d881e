package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/calmh/bmp280"
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
	flag.DurationVar(&cfg.PollInterval, "interval", cfg.PollInterval, "Interval between measurements")
	decimals := flag.Int("decimals", 2, "Rounding precision")
	flag.Parse()
	cfg.Address = uint16(*address)

	logger := logging.New(os.Stderr, cfg, "bmp280")

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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, dev, os.Stdout, logger, cfg.PollInterval, *decimals); err != nil {
		logger.Error("read", "error", err)
		bus.Close()
		os.Exit(1)
	}
}

// run prints one JSON object per interval until ctx is done. Bus errors
// are fatal; compensation errors are logged and the read is retried on the
// next tick.
func run(ctx context.Context, dev *bmp280.Dev, out io.Writer, logger *slog.Logger, interval time.Duration, decimals int) error {
	enc := json.NewEncoder(out)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			fields, err := measure(dev, decimals)
			if err != nil {
				var terr *bmp280.TransportError
				if errors.As(err, &terr) {
					return err
				}
				logger.Warn("read", "error", err)
				continue
			}
			fields["when"] = now
			if err := enc.Encode(fields); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
		}
	}
}

// measure reads pressure, altitude and temperature, in that order.
func measure(dev *bmp280.Dev, decimals int) (map[string]interface{}, error) {
	fields := make(map[string]interface{})

	kPa, err := dev.Pressure()
	if err != nil {
		return nil, fmt.Errorf("pressure: %w", err)
	}
	fields["pressure_kpa"] = round(kPa, decimals+1)

	alt, err := dev.Altitude()
	if err != nil {
		return nil, fmt.Errorf("altitude: %w", err)
	}
	fields["altitude_m"] = round(alt, decimals)

	celsius, err := dev.Temperature()
	if err != nil {
		return nil, fmt.Errorf("temperature: %w", err)
	}
	fields["temperature_c"] = round(celsius, decimals)

	return fields, nil
}

func round(x float64, prec int) float64 {
	pow := math.Pow10(prec)
	return math.Round(x*pow) / pow
}
