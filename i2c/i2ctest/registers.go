// Package i2ctest provides an in-memory register file implementing i2c.Bus.
package i2ctest

import (
	"encoding/binary"
	"errors"
)

var ErrInjected = errors.New("i2ctest: injected failure")

// Registers emulates a device with a 256 byte register space and an
// auto-incrementing register pointer. A one byte write sets the pointer;
// longer writes store data starting at the first byte's address.
type Registers struct {
	Mem [256]byte

	// Reads records the register pointer at the start of each read.
	Reads []uint8
	// Writes records every write transaction.
	Writes [][]byte

	// ReadErr maps a register pointer to the error returned when it is read.
	ReadErr  map[uint8]error
	WriteErr error

	ptr uint8
}

func (r *Registers) Write(b []byte) (int, error) {
	if r.WriteErr != nil {
		return 0, r.WriteErr
	}
	r.Writes = append(r.Writes, append([]byte(nil), b...))
	if len(b) == 0 {
		return 0, nil
	}
	r.ptr = b[0]
	for i, v := range b[1:] {
		r.Mem[b[0]+uint8(i)] = v
	}
	return len(b), nil
}

func (r *Registers) Read(b []byte) (int, error) {
	if err, ok := r.ReadErr[r.ptr]; ok {
		return 0, err
	}
	r.Reads = append(r.Reads, r.ptr)
	for i := range b {
		b[i] = r.Mem[r.ptr+uint8(i)]
	}
	return len(b), nil
}

func (r *Registers) SetUint16LE(reg uint8, v uint16) {
	binary.LittleEndian.PutUint16(r.Mem[reg:], v)
}

func (r *Registers) SetInt16LE(reg uint8, v int16) {
	r.SetUint16LE(reg, uint16(v))
}

// SetUint24BE stores the low 24 bits of v MSB first.
func (r *Registers) SetUint24BE(reg uint8, v uint32) {
	r.Mem[reg] = byte(v >> 16)
	r.Mem[reg+1] = byte(v >> 8)
	r.Mem[reg+2] = byte(v)
}

// Count returns how many reads started at reg.
func (r *Registers) Count(reg uint8) int {
	n := 0
	for _, v := range r.Reads {
		if v == reg {
			n++
		}
	}
	return n
}

// Closer wraps a Registers and records Close calls.
type Closer struct {
	*Registers
	Closed int
}

func (c *Closer) Close() error {
	c.Closed++
	return nil
}
