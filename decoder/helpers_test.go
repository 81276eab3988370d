package decoder

import (
	"context"
	"math"
	"testing"

	"github.com/tetratelabs/wazero"

	"github.com/wippyai/ffi-bridge/internal/guest"
	"github.com/wippyai/ffi-bridge/memory"
	"github.com/wippyai/ffi-bridge/shape"
)

func newLinear(t *testing.T) *memory.Linear {
	t.Helper()
	ctx := context.Background()
	rt := wazero.NewRuntime(ctx)
	t.Cleanup(func() { rt.Close(ctx) })

	mod, err := rt.Instantiate(ctx, guest.MemoryModule(1))
	if err != nil {
		t.Fatalf("failed to instantiate: %v", err)
	}
	return memory.WrapLinear(mod.ExportedMemory(guest.MemoryExport))
}

func write(t *testing.T, mem *memory.Linear, addr uint64, data []byte) {
	t.Helper()
	if err := mem.Write(addr, data); err != nil {
		t.Fatalf("write at %d: %v", addr, err)
	}
}

func writeU32(t *testing.T, mem *memory.Linear, addr uint64, vals ...uint32) {
	t.Helper()
	for i, v := range vals {
		if err := mem.WriteU32(addr+uint64(i)*4, v); err != nil {
			t.Fatalf("write u32 at %d: %v", addr, err)
		}
	}
}

func writeU64(t *testing.T, mem *memory.Linear, addr uint64, vals ...uint64) {
	t.Helper()
	for i, v := range vals {
		if err := mem.WriteU64(addr+uint64(i)*8, v); err != nil {
			t.Fatalf("write u64 at %d: %v", addr, err)
		}
	}
}

func f64bits(f float64) uint64 {
	return math.Float64bits(f)
}

func scalar(tag int32) shape.Shape {
	return shape.Scalar{Tag: tag}
}

func field(name string, s shape.Shape) shape.Field {
	return shape.Field{Name: name, Shape: s}
}

// trapMemory fails the test on any access.
type trapMemory struct {
	t   *testing.T
	ptr uint32
}

func (m trapMemory) PointerSize() uint32 { return m.ptr }

func (m trapMemory) ReadU8(addr uint64) (uint8, error) {
	m.t.Fatalf("unexpected ReadU8(%d)", addr)
	return 0, nil
}

func (m trapMemory) ReadU32(addr uint64) (uint32, error) {
	m.t.Fatalf("unexpected ReadU32(%d)", addr)
	return 0, nil
}

func (m trapMemory) ReadU64(addr uint64) (uint64, error) {
	m.t.Fatalf("unexpected ReadU64(%d)", addr)
	return 0, nil
}

func (m trapMemory) ReadPointer(addr uint64) (uint64, error) {
	m.t.Fatalf("unexpected ReadPointer(%d)", addr)
	return 0, nil
}

func (m trapMemory) View(addr, length uint64) ([]byte, error) {
	m.t.Fatalf("unexpected View(%d, %d)", addr, length)
	return nil, nil
}

func (m trapMemory) CString(addr uint64) ([]byte, error) {
	m.t.Fatalf("unexpected CString(%d)", addr)
	return nil, nil
}
