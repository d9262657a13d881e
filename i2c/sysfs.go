package i2c

import (
	"fmt"

	"gobot.io/x/gobot/sysfs"
)

type sysfsDevice interface {
	SetAddress(address int) error
	Read(b []byte) (int, error)
	Write(b []byte) (int, error)
	Close() error
}

// SysfsBus is a Linux /dev/i2c-N character device bound to one slave
// address.
type SysfsBus struct {
	dev  sysfsDevice
	path string
	addr uint16
}

func OpenSysfs(path string, addr uint16) (*SysfsBus, error) {
	dev, err := sysfs.NewI2cDevice(path)
	if err != nil {
		return nil, fmt.Errorf("open I2C device: %w", err)
	}
	return newSysfsBus(dev, path, addr)
}

func newSysfsBus(dev sysfsDevice, path string, addr uint16) (*SysfsBus, error) {
	if err := dev.SetAddress(int(addr)); err != nil {
		dev.Close()
		return nil, fmt.Errorf("set device address: %w", err)
	}
	return &SysfsBus{dev: dev, path: path, addr: addr}, nil
}

func (b *SysfsBus) Write(p []byte) (int, error) {
	return b.dev.Write(p)
}

func (b *SysfsBus) Read(p []byte) (int, error) {
	return b.dev.Read(p)
}

func (b *SysfsBus) Close() error {
	return b.dev.Close()
}

func (b *SysfsBus) String() string {
	return fmt.Sprintf("%s@0x%02x", b.path, b.addr)
}
