package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/calmh/bmp280"
	"github.com/calmh/bmp280/i2c"
)

// Config is the environment provided defaults for the commands. Flags
// override it.
type Config struct {
	AppEnv   string
	LogLevel slog.Level

	Driver         string
	Path           string
	Address        uint16
	GroundPressure float64
	PollInterval   time.Duration

	PrometheusAddr string

	MQTTBroker   string
	MQTTPort     int
	MQTTClientID string
	MQTTTopic    string
}

func LoadFromEnv() (Config, error) {
	appEnv := getenv("APP_ENV", "dev")
	switch appEnv {
	case "dev", "prod":
	default:
		return Config{}, fmt.Errorf("invalid APP_ENV %q (allowed: dev, prod)", appEnv)
	}

	level, err := parseLogLevel(getenv("LOG_LEVEL", "info"))
	if err != nil {
		return Config{}, err
	}

	driver := getenv("BMP280_DRIVER", i2c.DriverSysfs)
	switch driver {
	case i2c.DriverSysfs, i2c.DriverPeriph:
	default:
		return Config{}, fmt.Errorf("invalid BMP280_DRIVER %q (allowed: sysfs, periph)", driver)
	}

	addressStr := getenv("BMP280_ADDRESS", "0x77")
	address, err := strconv.ParseUint(addressStr, 0, 16)
	if err != nil {
		return Config{}, fmt.Errorf("invalid BMP280_ADDRESS %q: %w", addressStr, err)
	}
	if address > 0x7f {
		return Config{}, fmt.Errorf("BMP280_ADDRESS must be a 7 bit address, got %#x", address)
	}

	groundStr := getenv("BMP280_GROUND_PRESSURE", "0")
	ground, err := strconv.ParseFloat(groundStr, 64)
	if err != nil {
		return Config{}, fmt.Errorf("invalid BMP280_GROUND_PRESSURE %q: %w", groundStr, err)
	}
	if ground < 0 {
		return Config{}, fmt.Errorf("BMP280_GROUND_PRESSURE must not be negative, got %v", ground)
	}

	intervalStr := getenv("SENSOR_POLL_INTERVAL", "250ms")
	interval, err := time.ParseDuration(intervalStr)
	if err != nil {
		return Config{}, fmt.Errorf("invalid SENSOR_POLL_INTERVAL %q: %w", intervalStr, err)
	}
	if interval <= 0 {
		return Config{}, fmt.Errorf("SENSOR_POLL_INTERVAL must be positive, got %v", interval)
	}

	mqttPortStr := getenv("MQTT_PORT", "1883")
	mqttPort, err := strconv.Atoi(mqttPortStr)
	if err != nil {
		return Config{}, fmt.Errorf("invalid MQTT_PORT %q: %w", mqttPortStr, err)
	}

	return Config{
		AppEnv:         appEnv,
		LogLevel:       level,
		Driver:         driver,
		Path:           getenv("BMP280_PATH", bmp280.DefaultPath),
		Address:        uint16(address),
		GroundPressure: ground,
		PollInterval:   interval,
		PrometheusAddr: getenv("PROMETHEUS_ADDR", ":9120"),
		MQTTBroker:     getenv("MQTT_BROKER", "localhost"),
		MQTTPort:       mqttPort,
		MQTTClientID:   getenv("MQTT_CLIENT_ID", "bmp280"),
		MQTTTopic:      getenv("MQTT_TOPIC", "sensors/bmp280"),
	}, nil
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q (allowed: debug, info, warn, error)", s)
	}
}
