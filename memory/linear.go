package memory

import (
	"bytes"
	"math"

	"github.com/tetratelabs/wazero/api"

	ffibridge "github.com/wippyai/ffi-bridge"
	"github.com/wippyai/ffi-bridge/errors"
)

var _ ffibridge.Memory = (*Linear)(nil)

// Linear adapts a wazero api.Memory to ffibridge.Memory. Addresses are
// 32-bit offsets; offset 0 is treated as a null pointer.
type Linear struct {
	Mem api.Memory
}

// WrapLinear wraps mem. It returns nil for a nil memory.
func WrapLinear(mem api.Memory) *Linear {
	if mem == nil {
		return nil
	}
	return &Linear{Mem: mem}
}

func (*Linear) PointerSize() uint32 {
	return 4
}

// ReadU8 reads an unsigned 8-bit value.
func (m *Linear) ReadU8(addr uint64) (uint8, error) {
	off, err := m.offset(addr, 1, "u8")
	if err != nil {
		return 0, err
	}
	v, ok := m.Mem.ReadByte(off)
	if !ok {
		return 0, errors.OutOfBounds(errors.PhaseMemory, addr, 1)
	}
	return v, nil
}

// ReadU32 reads an unsigned 32-bit little-endian value.
func (m *Linear) ReadU32(addr uint64) (uint32, error) {
	off, err := m.offset(addr, 4, "u32")
	if err != nil {
		return 0, err
	}
	v, ok := m.Mem.ReadUint32Le(off)
	if !ok {
		return 0, errors.OutOfBounds(errors.PhaseMemory, addr, 4)
	}
	return v, nil
}

// ReadU64 reads an unsigned 64-bit little-endian value.
func (m *Linear) ReadU64(addr uint64) (uint64, error) {
	off, err := m.offset(addr, 8, "u64")
	if err != nil {
		return 0, err
	}
	v, ok := m.Mem.ReadUint64Le(off)
	if !ok {
		return 0, errors.OutOfBounds(errors.PhaseMemory, addr, 8)
	}
	return v, nil
}

// ReadPointer reads a 32-bit offset.
func (m *Linear) ReadPointer(addr uint64) (uint64, error) {
	v, err := m.ReadU32(addr)
	return uint64(v), err
}

func (m *Linear) View(addr, length uint64) ([]byte, error) {
	if length == 0 {
		return []byte{}, nil
	}
	off, err := m.offset(addr, length, "buffer")
	if err != nil {
		return nil, err
	}
	data, ok := m.Mem.Read(off, uint32(length))
	if !ok {
		return nil, errors.OutOfBounds(errors.PhaseMemory, addr, length)
	}
	return data, nil
}

func (m *Linear) CString(addr uint64) ([]byte, error) {
	off, err := m.offset(addr, 1, "char*")
	if err != nil {
		return nil, err
	}
	size := m.Mem.Size()
	if off >= size {
		return nil, errors.OutOfBounds(errors.PhaseMemory, addr, 1)
	}
	rest, ok := m.Mem.Read(off, size-off)
	if !ok {
		return nil, errors.OutOfBounds(errors.PhaseMemory, addr, uint64(size-off))
	}
	n := bytes.IndexByte(rest, 0)
	if n < 0 {
		return nil, errors.New(errors.PhaseMemory, errors.KindInvalidData).
			Value(addr).
			Detail("unterminated string at 0x%x", addr).
			Build()
	}
	return rest[:n:n], nil
}

// Write copies data into memory at addr.
func (m *Linear) Write(addr uint64, data []byte) error {
	if addr > math.MaxUint32 {
		return errors.Overflow(errors.PhaseMemory, nil, addr, "linear address")
	}
	if !m.Mem.Write(uint32(addr), data) {
		return errors.OutOfBounds(errors.PhaseMemory, addr, uint64(len(data)))
	}
	return nil
}

// WriteU32 writes an unsigned 32-bit little-endian value.
func (m *Linear) WriteU32(addr uint64, v uint32) error {
	if addr > math.MaxUint32 {
		return errors.Overflow(errors.PhaseMemory, nil, addr, "linear address")
	}
	if !m.Mem.WriteUint32Le(uint32(addr), v) {
		return errors.OutOfBounds(errors.PhaseMemory, addr, 4)
	}
	return nil
}

// WriteU64 writes an unsigned 64-bit little-endian value.
func (m *Linear) WriteU64(addr uint64, v uint64) error {
	if addr > math.MaxUint32 {
		return errors.Overflow(errors.PhaseMemory, nil, addr, "linear address")
	}
	if !m.Mem.WriteUint64Le(uint32(addr), v) {
		return errors.OutOfBounds(errors.PhaseMemory, addr, 8)
	}
	return nil
}

func (m *Linear) offset(addr, length uint64, what string) (uint32, error) {
	if addr == 0 {
		return 0, errors.NilPointer(errors.PhaseMemory, nil, what)
	}
	if addr > math.MaxUint32 {
		return 0, errors.Overflow(errors.PhaseMemory, nil, addr, "linear address")
	}
	if length > math.MaxUint32 || addr+length > uint64(m.Mem.Size()) {
		return 0, errors.OutOfBounds(errors.PhaseMemory, addr, length)
	}
	return uint32(addr), nil
}
