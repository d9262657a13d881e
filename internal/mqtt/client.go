// Package mqtt publishes sensor readings to an MQTT broker.
//
// Readings go to the configured topic as JSON. The retained
// <topic>/status topic holds "online" while the publisher is connected and
// "offline" once it disconnects or the broker loses it.
package mqtt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/calmh/bmp280/internal/config"
	"github.com/calmh/bmp280/internal/sensor"
)

var ErrNotConnected = errors.New("mqtt client not connected")

const (
	publishTimeout = 5 * time.Second

	statusOnline  = "online"
	statusOffline = "offline"
)

type Client struct {
	client mqtt.Client
	topic  string
	logger *slog.Logger

	mu        sync.RWMutex
	connected bool
}

// StatusTopic is where the retained online/offline state for readings
// published on topic lives.
func StatusTopic(topic string) string {
	return topic + "/status"
}

func NewClient(cfg config.Config, logger *slog.Logger) *Client {
	c := &Client{topic: cfg.MQTTTopic, logger: logger}
	c.client = mqtt.NewClient(c.options(cfg))
	return c
}

func (c *Client) options(cfg config.Config) *mqtt.ClientOptions {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s:%d", cfg.MQTTBroker, cfg.MQTTPort))
	opts.SetClientID(cfg.MQTTClientID)
	opts.SetCleanSession(true)
	opts.SetWill(StatusTopic(c.topic), statusOffline, 1, true)

	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(5 * time.Second)
	opts.SetMaxReconnectInterval(60 * time.Second)
	opts.SetKeepAlive(30 * time.Second)
	opts.SetPingTimeout(10 * time.Second)

	opts.SetOnConnectHandler(c.onConnect)
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		c.setConnected(false)
		c.logger.Warn("mqtt connection lost", "error", err)
	})
	return opts
}

// onConnect runs on every (re)connect and republishes the online state the
// will replaces on an unclean disconnect.
func (c *Client) onConnect(cl mqtt.Client) {
	c.setConnected(true)
	c.logger.Info("mqtt connected", "topic", c.topic)
	cl.Publish(StatusTopic(c.topic), 1, true, statusOnline)
}

// Connect waits for the first connection or for ctx to be done. Paho keeps
// retrying in the background meanwhile.
func (c *Client) Connect(ctx context.Context) error {
	if c.IsConnected() {
		return nil
	}

	token := c.client.Connect()
	select {
	case <-token.Done():
		if err := token.Error(); err != nil {
			return fmt.Errorf("mqtt connect: %w", err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Publish sends r as JSON with QoS 1.
func (c *Client) Publish(r sensor.Reading) error {
	if !c.IsConnected() {
		return ErrNotConnected
	}

	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal reading: %w", err)
	}
	if err := c.wait(c.client.Publish(c.topic, 1, false, data)); err != nil {
		return fmt.Errorf("publish reading: %w", err)
	}

	c.logger.Debug("published reading", "topic", c.topic, "pressure_kpa", r.Pressure)
	return nil
}

func (c *Client) wait(token mqtt.Token) error {
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("timeout after %v", publishTimeout)
	}
	return token.Error()
}

func (c *Client) IsConnected() bool {
	c.mu.RLock()
	connected := c.connected
	c.mu.RUnlock()
	return connected && c.client.IsConnected()
}

// Disconnect marks the sensor offline and closes the connection. The will
// is not sent on a clean disconnect, so the offline state is published here.
func (c *Client) Disconnect() {
	if c.IsConnected() {
		if err := c.wait(c.client.Publish(StatusTopic(c.topic), 1, true, statusOffline)); err != nil {
			c.logger.Warn("publish offline status", "error", err)
		}
	}
	c.client.Disconnect(250)
	c.setConnected(false)
	c.logger.Info("mqtt disconnected")
}

func (c *Client) setConnected(v bool) {
	c.mu.Lock()
	c.connected = v
	c.mu.Unlock()
}
