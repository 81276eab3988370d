package memory

import (
	"encoding/binary"
	"unsafe"

	ffibridge "github.com/wippyai/ffi-bridge"
	"github.com/wippyai/ffi-bridge/errors"
)

// MaxCString bounds the scan for a terminating NUL in native memory.
const MaxCString = 1 << 30

var _ ffibridge.Memory = NativeMemory{}

// NativeMemory reads the address space of the current process.
type NativeMemory struct{}

// Native returns the process memory accessor.
func Native() NativeMemory {
	return NativeMemory{}
}

// Addr returns the native address of the first byte of b. The caller keeps b
// alive for as long as the address is in use.
func Addr(b []byte) uint64 {
	if len(b) == 0 {
		return 0
	}
	return uint64(uintptr(unsafe.Pointer(&b[0])))
}

func (NativeMemory) PointerSize() uint32 {
	return uint32(unsafe.Sizeof(uintptr(0)))
}

func (m NativeMemory) ReadU8(addr uint64) (uint8, error) {
	b, err := m.span(addr, 1, "u8")
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (m NativeMemory) ReadU32(addr uint64) (uint32, error) {
	b, err := m.span(addr, 4, "u32")
	if err != nil {
		return 0, err
	}
	return binary.NativeEndian.Uint32(b), nil
}

func (m NativeMemory) ReadU64(addr uint64) (uint64, error) {
	b, err := m.span(addr, 8, "u64")
	if err != nil {
		return 0, err
	}
	return binary.NativeEndian.Uint64(b), nil
}

func (m NativeMemory) ReadPointer(addr uint64) (uint64, error) {
	if m.PointerSize() == 4 {
		v, err := m.ReadU32(addr)
		return uint64(v), err
	}
	return m.ReadU64(addr)
}

func (m NativeMemory) View(addr, length uint64) ([]byte, error) {
	if length == 0 {
		return []byte{}, nil
	}
	return m.span(addr, length, "buffer")
}

func (NativeMemory) CString(addr uint64) ([]byte, error) {
	if addr == 0 {
		return nil, errors.NilPointer(errors.PhaseMemory, nil, "char*")
	}
	base := unsafe.Pointer(uintptr(addr))
	n := 0
	for *(*byte)(unsafe.Add(base, n)) != 0 {
		n++
		if n >= MaxCString {
			return nil, errors.OutOfBounds(errors.PhaseMemory, addr, uint64(n))
		}
	}
	return unsafe.Slice((*byte)(base), n), nil
}

func (NativeMemory) span(addr, length uint64, what string) ([]byte, error) {
	if addr == 0 {
		return nil, errors.NilPointer(errors.PhaseMemory, nil, what)
	}
	if addr+length < addr || length > uint64(^uintptr(0)>>1) {
		return nil, errors.OutOfBounds(errors.PhaseMemory, addr, length)
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(uintptr(addr))), int(length)), nil
}
