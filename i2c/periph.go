package i2c

import (
	"fmt"

	pi2c "periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

// PeriphBus adapts a periph.io I²C bus. A read is a read-only transaction
// following the previous write, so the register pointer set by Write is
// honored.
type PeriphBus struct {
	bus pi2c.BusCloser
	dev *pi2c.Dev
}

// OpenPeriph opens the named bus from the periph.io registry. An empty name
// selects the first available bus.
func OpenPeriph(name string, addr uint16) (*PeriphBus, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph host init: %w", err)
	}
	bus, err := i2creg.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open I2C bus %q: %w", name, err)
	}
	return &PeriphBus{bus: bus, dev: &pi2c.Dev{Bus: bus, Addr: addr}}, nil
}

func (b *PeriphBus) Write(p []byte) (int, error) {
	return b.dev.Write(p)
}

func (b *PeriphBus) Read(p []byte) (int, error) {
	if err := b.dev.Tx(nil, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (b *PeriphBus) Close() error {
	return b.bus.Close()
}

func (b *PeriphBus) String() string {
	return b.dev.String()
}
