package i2c

import "testing"

func TestSigned(t *testing.T) {
	cases := []struct {
		in  []byte
		out int
	}{
		{[]byte{1, 2, 3, 4}, 1<<24 + 2<<16 + 3<<8 + 4},
		{[]byte{0x7f, 0xff}, 0x7fff},
		{[]byte{0xff, 0xff}, -1},
		{[]byte{0x80, 0x00}, -32768},
	}

	for _, tc := range cases {
		if res := signed(tc.in); res != tc.out {
			t.Errorf("%d != expected %d for %v", res, tc.out, tc.in)
		}
	}
}

func TestUnsigned(t *testing.T) {
	cases := []struct {
		in  []byte
		out int
	}{
		{[]byte{0xff, 0xff}, 0xffff},
		{[]byte{0x7e, 0xed, 0x00}, 0x7eed00},
		{[]byte{0x01}, 1},
	}

	for _, tc := range cases {
		if res := unsigned(tc.in); res != tc.out {
			t.Errorf("%d != expected %d for %v", res, tc.out, tc.in)
		}
	}
}

type fakeSysfs struct {
	addr   int
	closed bool
	err    error
}

func (f *fakeSysfs) SetAddress(address int) error {
	f.addr = address
	return f.err
}
func (f *fakeSysfs) Read(b []byte) (int, error)  { return len(b), nil }
func (f *fakeSysfs) Write(b []byte) (int, error) { return len(b), nil }
func (f *fakeSysfs) Close() error {
	f.closed = true
	return nil
}

func TestSysfsBusAddress(t *testing.T) {
	dev := &fakeSysfs{}
	b, err := newSysfsBus(dev, "/dev/i2c-1", 0x77)
	if err != nil {
		t.Fatal(err)
	}
	if dev.addr != 0x77 {
		t.Errorf("address 0x%x != expected 0x77", dev.addr)
	}
	if s := b.String(); s != "/dev/i2c-1@0x77" {
		t.Errorf("%q", s)
	}

	dev = &fakeSysfs{err: errTest}
	if _, err := newSysfsBus(dev, "/dev/i2c-1", 0x76); err == nil {
		t.Fatal("expected error")
	}
	if !dev.closed {
		t.Error("device not closed after SetAddress failure")
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	if _, err := Open("spi", "/dev/spidev0.0", 0x77); err == nil {
		t.Error("expected error for unknown driver")
	}
}

type testError string

func (e testError) Error() string { return string(e) }

const errTest = testError("set address failed")
