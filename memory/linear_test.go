package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/tetratelabs/wazero"

	ferrors "github.com/wippyai/ffi-bridge/errors"
	"github.com/wippyai/ffi-bridge/internal/guest"
)

func newLinear(t *testing.T) *Linear {
	t.Helper()
	ctx := context.Background()
	rt := wazero.NewRuntime(ctx)
	t.Cleanup(func() { rt.Close(ctx) })

	mod, err := rt.Instantiate(ctx, guest.MemoryModule(1))
	if err != nil {
		t.Fatalf("failed to instantiate: %v", err)
	}
	mem := WrapLinear(mod.ExportedMemory(guest.MemoryExport))
	if mem == nil {
		t.Fatal("expected non-nil wrapped memory")
	}
	return mem
}

func TestWrapLinear_Nil(t *testing.T) {
	if WrapLinear(nil) != nil {
		t.Error("expected nil for nil memory")
	}
}

func TestLinear_ReadWrite(t *testing.T) {
	mem := newLinear(t)

	if mem.PointerSize() != 4 {
		t.Errorf("PointerSize() = %d, want 4", mem.PointerSize())
	}
	if err := mem.Write(16, []byte{9, 0, 0, 0}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := mem.WriteU32(20, 0xcafebabe); err != nil {
		t.Fatalf("WriteU32: %v", err)
	}
	if err := mem.WriteU64(24, 1<<40); err != nil {
		t.Fatalf("WriteU64: %v", err)
	}

	if v, err := mem.ReadU8(16); err != nil || v != 9 {
		t.Errorf("ReadU8 = %d, %v", v, err)
	}
	if v, err := mem.ReadU32(20); err != nil || v != 0xcafebabe {
		t.Errorf("ReadU32 = %x, %v", v, err)
	}
	if v, err := mem.ReadU64(24); err != nil || v != 1<<40 {
		t.Errorf("ReadU64 = %d, %v", v, err)
	}
	if v, err := mem.ReadPointer(20); err != nil || v != 0xcafebabe {
		t.Errorf("ReadPointer = %x, %v", v, err)
	}
	view, err := mem.View(16, 4)
	if err != nil || len(view) != 4 || view[0] != 9 {
		t.Errorf("View = %v, %v", view, err)
	}
}

func TestLinear_CString(t *testing.T) {
	mem := newLinear(t)
	if err := mem.Write(100, []byte("hello\x00world\x00")); err != nil {
		t.Fatal(err)
	}

	got, err := mem.CString(100)
	if err != nil || string(got) != "hello" {
		t.Errorf("CString(100) = %q, %v", got, err)
	}
	got, err = mem.CString(106)
	if err != nil || string(got) != "world" {
		t.Errorf("CString(106) = %q, %v", got, err)
	}
	got, err = mem.CString(105)
	if err != nil || len(got) != 0 {
		t.Errorf("CString(105) = %q, %v", got, err)
	}
}

func TestLinear_CStringUnterminated(t *testing.T) {
	mem := newLinear(t)
	size := uint64(mem.Mem.Size())
	if err := mem.Write(size-3, []byte("abc")); err != nil {
		t.Fatal(err)
	}
	_, err := mem.CString(size - 3)
	if !errors.Is(err, &ferrors.Error{Phase: ferrors.PhaseMemory, Kind: ferrors.KindInvalidData}) {
		t.Errorf("CString = %v, want invalid_data", err)
	}
}

func TestLinear_Errors(t *testing.T) {
	mem := newLinear(t)
	size := uint64(mem.Mem.Size())

	tests := []struct {
		name string
		call func() error
		kind ferrors.Kind
	}{
		{"nil u32", func() error { _, err := mem.ReadU32(0); return err }, ferrors.KindNilPointer},
		{"nil string", func() error { _, err := mem.CString(0); return err }, ferrors.KindNilPointer},
		{"u32 past end", func() error { _, err := mem.ReadU32(size - 2); return err }, ferrors.KindOutOfBounds},
		{"u64 past end", func() error { _, err := mem.ReadU64(size); return err }, ferrors.KindOutOfBounds},
		{"view past end", func() error { _, err := mem.View(size-4, 8); return err }, ferrors.KindOutOfBounds},
		{"string past end", func() error { _, err := mem.CString(size); return err }, ferrors.KindOutOfBounds},
		{"address above 32 bits", func() error { _, err := mem.ReadU8(1 << 33); return err }, ferrors.KindOverflow},
		{"write past end", func() error { return mem.Write(size-1, []byte{1, 2}) }, ferrors.KindOutOfBounds},
		{"write above 32 bits", func() error { return mem.WriteU32(1<<32, 1) }, ferrors.KindOverflow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			var ferr *ferrors.Error
			if !errors.As(err, &ferr) {
				t.Fatalf("error = %v, want structured error", err)
			}
			if ferr.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", ferr.Kind, tt.kind)
			}
		})
	}
}

func TestLinear_ZeroLengthView(t *testing.T) {
	mem := newLinear(t)
	b, err := mem.View(0, 0)
	if err != nil || len(b) != 0 {
		t.Errorf("View(0, 0) = %v, %v", b, err)
	}
}
