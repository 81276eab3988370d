package buffer

import (
	"testing"

	"github.com/wippyai/ffi-bridge/value"
)

func TestPolicies(t *testing.T) {
	tests := []struct {
		name       string
		policy     Policy
		threadSafe bool
		owned      bool
	}{
		{"default on host thread", Default, false, false},
		{"default off host thread", Default, true, true},
		{"always copy on host thread", AlwaysCopy, false, true},
		{"always copy off host thread", AlwaysCopy, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := []byte{1, 2, 3}
			v := tt.policy.ExposeBytes(raw, tt.threadSafe)
			b, ok := v.(value.Bytes)
			if !ok {
				t.Fatalf("got %T, want value.Bytes", v)
			}
			if b.Owned != tt.owned {
				t.Errorf("Owned = %v, want %v", b.Owned, tt.owned)
			}
			if string(b.Data) != string(raw) {
				t.Errorf("Data = %v, want %v", b.Data, raw)
			}

			raw[0] = 9
			aliased := b.Data[0] == 9
			if aliased == tt.owned {
				t.Errorf("aliased = %v with Owned = %v", aliased, tt.owned)
			}
		})
	}
}

func TestCopy_Empty(t *testing.T) {
	b := Copy(nil)
	if !b.Owned || b.Data == nil || len(b.Data) != 0 {
		t.Errorf("Copy(nil) = %+v", b)
	}
}
