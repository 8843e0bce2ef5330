package cpu

import "github.com/pkg/errors"

const (
	MemorySize   = 4096
	FontBase     = 0x050
	ProgramStart = 0x200
	MaxROMSize   = MemorySize - ProgramStart
)

// Memory is the 4 KB address space. Every accessor is bounds checked and
// reports ErrAddressOutOfRange instead of panicking.
type Memory struct {
	data [MemorySize]byte
}

func (m *Memory) Read8(addr uint16) (byte, error) {
	if int(addr) >= MemorySize {
		return 0, errors.Wrapf(ErrAddressOutOfRange, "read 0x%04X", addr)
	}
	return m.data[addr], nil
}

// Read16 reads a big-endian word from addr and addr+1.
func (m *Memory) Read16(addr uint16) (uint16, error) {
	if int(addr)+1 >= MemorySize {
		return 0, errors.Wrapf(ErrAddressOutOfRange, "read16 0x%04X", addr)
	}
	return uint16(m.data[addr])<<8 | uint16(m.data[addr+1]), nil
}

func (m *Memory) Write8(addr uint16, val byte) error {
	if int(addr) >= MemorySize {
		return errors.Wrapf(ErrAddressOutOfRange, "write 0x%04X", addr)
	}
	m.data[addr] = val
	return nil
}

// Load copies src to addr. Nothing is written unless all of src fits.
func (m *Memory) Load(addr uint16, src []byte) error {
	if int(addr)+len(src) > MemorySize {
		return errors.Wrapf(ErrAddressOutOfRange, "load %d bytes at 0x%04X", len(src), addr)
	}
	copy(m.data[addr:], src)
	return nil
}

// Bytes returns a copy of the whole address space.
func (m *Memory) Bytes() []byte {
	out := make([]byte, MemorySize)
	copy(out, m.data[:])
	return out
}

func (m *Memory) clear() {
	m.data = [MemorySize]byte{}
}
