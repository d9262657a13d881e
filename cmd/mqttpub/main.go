package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/calmh/bmp280"
	"github.com/calmh/bmp280/internal/config"
	"github.com/calmh/bmp280/internal/logging"
	"github.com/calmh/bmp280/internal/mqtt"
	"github.com/calmh/bmp280/internal/sensor"
)

const appName = "bmp280-mqttpub"

type publisher interface {
	Publish(sensor.Reading) error
}

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
	flag.StringVar(&cfg.MQTTBroker, "broker", cfg.MQTTBroker, "MQTT broker host")
	flag.IntVar(&cfg.MQTTPort, "port", cfg.MQTTPort, "MQTT broker port")
	flag.StringVar(&cfg.MQTTTopic, "topic", cfg.MQTTTopic, "MQTT topic")
	flag.Parse()
	cfg.Address = uint16(*address)

	logger := logging.New(os.Stderr, cfg, appName)
	slog.SetDefault(logger)
	logger.Info("starting", "env", cfg.AppEnv, "log_level", cfg.LogLevel.String())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("run failed", "error", err)
		os.Exit(1)
	}
	logger.Info("shutting down")
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	dev, bus, err := sensor.Open(cfg)
	if err != nil {
		return err
	}
	defer bus.Close()

	client := mqtt.NewClient(cfg, logger)
	defer client.Disconnect()
	if err := client.Connect(ctx); err != nil {
		return err
	}

	return serve(ctx, dev, client, cfg, logger)
}

// serve zeroes the sensor unless a ground pressure was configured, then
// publishes readings until ctx is done.
func serve(ctx context.Context, dev *bmp280.Dev, pub publisher, cfg config.Config, logger *slog.Logger) error {
	if cfg.GroundPressure == 0 {
		if _, err := dev.Zero(); err != nil {
			return fmt.Errorf("zero: %w", err)
		}
	}
	logger.Info("altitude reference", "ground_pressure_pa", dev.GroundPressure())

	return publishLoop(ctx, dev, pub, cfg.PollInterval, logger)
}

// publishLoop publishes one reading per interval until ctx is done. Failed
// publishes are logged and dropped; bus errors end the loop.
func publishLoop(ctx context.Context, dev *bmp280.Dev, pub publisher, interval time.Duration, logger *slog.Logger) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			r, err := sensor.Read(dev, now)
			if err != nil {
				var terr *bmp280.TransportError
				if errors.As(err, &terr) {
					return err
				}
				logger.Warn("read", "error", err)
				continue
			}
			if err := pub.Publish(r); err != nil {
				logger.Warn("publish", "error", err)
			}
		}
	}
}
