package i2c

import (
	"encoding/binary"
	"fmt"
	"io"
)

// A Bus is a device handle with its slave address already selected,
// typically from OpenSysfs (gobot.io/x/gobot/sysfs) or OpenPeriph
// (periph.io/x/conn/v3/i2c).
type Bus interface {
	Write(b []byte) (int, error)
	Read(b []byte) (int, error)
}

type BusCloser interface {
	Bus
	io.Closer
}

// Reader performs register-address-then-read transactions on a Bus. The
// first error is sticky: once set, further reads return zero values
// without touching the bus until Reset is called.
type Reader struct {
	bus   Bus
	error error
}

func NewReader(bus Bus) *Reader {
	return &Reader{bus: bus}
}

func (r *Reader) Error() error {
	return r.error
}

func (r *Reader) Reset() {
	r.error = nil
}

// Read writes the register address and then reads len(buf) bytes.
func (r *Reader) Read(reg uint8, buf []byte) error {
	n, err := r.bus.Write([]byte{reg})
	if err != nil {
		return fmt.Errorf("write register address 0x%02x: %w", reg, err)
	}
	if n != 1 {
		return fmt.Errorf("write register address 0x%02x: %w", reg, io.ErrShortWrite)
	}
	n, err = r.bus.Read(buf)
	if err != nil {
		return fmt.Errorf("read register 0x%02x: %w", reg, err)
	}
	if n != len(buf) {
		return fmt.Errorf("read register 0x%02x: %w", reg, io.ErrUnexpectedEOF)
	}
	return nil
}

func (r *Reader) read(reg uint8, n int) []byte {
	if r.error != nil {
		return nil
	}
	buf := make([]byte, n)
	if err := r.Read(reg, buf); err != nil {
		r.error = err
		return nil
	}
	return buf
}

func (r *Reader) Byte(reg uint8) uint8 {
	data := r.read(reg, 1)
	if data == nil {
		return 0
	}
	return data[0]
}

func (r *Reader) Uint16BE(reg uint8) uint16 {
	data := r.read(reg, 2)
	if data == nil {
		return 0
	}
	return uint16(unsigned(data))
}

func (r *Reader) Int16BE(reg uint8) int16 {
	data := r.read(reg, 2)
	if data == nil {
		return 0
	}
	return int16(signed(data))
}

func (r *Reader) Uint16LE(reg uint8) uint16 {
	data := r.read(reg, 2)
	if data == nil {
		return 0
	}
	return binary.LittleEndian.Uint16(data)
}

func (r *Reader) Int16LE(reg uint8) int16 {
	data := r.read(reg, 2)
	if data == nil {
		return 0
	}
	return int16(binary.LittleEndian.Uint16(data))
}

// Uint24BE reads three consecutive registers starting at reg, MSB first.
func (r *Reader) Uint24BE(reg uint8) uint32 {
	data := r.read(reg, 3)
	if data == nil {
		return 0
	}
	return uint32(unsigned(data))
}

func (r *Reader) WriteReg(reg, val uint8) {
	if r.error != nil {
		return
	}
	n, err := r.bus.Write([]byte{reg, val})
	if err != nil {
		r.error = fmt.Errorf("write register 0x%02x: %w", reg, err)
		return
	}
	if n != 2 {
		r.error = fmt.Errorf("write register 0x%02x: %w", reg, io.ErrShortWrite)
	}
}

func signed(data []byte) int {
	res := int(int8(data[0]))
	for _, val := range data[1:] {
		res <<= 8
		res |= int(val)
	}
	return res
}

func unsigned(data []byte) int {
	res := 0
	for _, val := range data {
		res <<= 8
		res |= int(val)
	}
	return res
}
