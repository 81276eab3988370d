package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:  PhaseDecode,
				Kind:   KindUnrecognizedShape,
				Path:   []string{"arg[2]", "inner", "items"},
				Shape:  "composite{length=3}",
				Detail: "missing element tag",
			},
			contains: []string{"[decode]", "unrecognized_shape", "arg[2].inner.items", "composite{length=3}", "missing element tag"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseMemory,
				Kind:  KindOutOfBounds,
			},
			contains: []string{"[memory]", "out_of_bounds"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseResolve,
				Kind:   KindUnknownTag,
				Detail: "unknown scalar tag 99",
				Cause:  errors.New("underlying error"),
			},
			contains: []string{"[resolve]", "unknown_tag", "99", "caused by", "underlying error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{
		Phase: PhaseDecode,
		Kind:  KindInvalidData,
		Cause: cause,
	}

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}

	if !errors.Is(errors.Unwrap(err), cause) {
		t.Error("errors.Unwrap did not return cause")
	}
}

func TestError_Is(t *testing.T) {
	err := &Error{
		Phase: PhaseDecode,
		Kind:  KindUnsupported,
		Path:  []string{"arg[0]"},
	}

	if !err.Is(&Error{Phase: PhaseDecode, Kind: KindUnsupported}) {
		t.Error("Is should match same phase and kind")
	}

	if err.Is(&Error{Phase: PhaseRegister, Kind: KindUnsupported}) {
		t.Error("Is should not match different phase")
	}

	if err.Is(&Error{Phase: PhaseDecode, Kind: KindUnrecognizedShape}) {
		t.Error("Is should not match different kind")
	}

	target := &Error{Phase: PhaseDecode, Kind: KindUnsupported}
	if !errors.Is(err, target) {
		t.Error("errors.Is should match")
	}
}

func TestError_IsThroughCause(t *testing.T) {
	tagErr := UnknownTag(PhaseResolve, "scalar", 77)
	shapeErr := UnrecognizedShape([]string{"arg[0]"}, "scalar(77)", tagErr)

	if !errors.Is(shapeErr, &Error{Phase: PhaseResolve, Kind: KindUnknownTag}) {
		t.Error("errors.Is should find unknown tag in cause chain")
	}

	var target *Error
	if !errors.As(shapeErr, &target) || target.Kind != KindUnrecognizedShape {
		t.Errorf("errors.As returned %v", target)
	}
}

func TestError_WithPath(t *testing.T) {
	base := NilPointer(PhaseMemory, []string{"name"}, "char*")
	got := base.WithPath("arg[1]", "user")

	if want := []string{"arg[1]", "user", "name"}; strings.Join(got.Path, ".") != strings.Join(want, ".") {
		t.Errorf("Path = %v, want %v", got.Path, want)
	}
	if len(base.Path) != 1 {
		t.Errorf("WithPath mutated the original: %v", base.Path)
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhaseDecode, KindUnrecognizedShape).
		Path("arg[0]", "items").
		Shape("composite{length=-1}").
		Value(-1).
		Cause(cause).
		Detail("negative length %d", -1).
		Build()

	if err.Phase != PhaseDecode {
		t.Errorf("Phase = %v, want %v", err.Phase, PhaseDecode)
	}
	if err.Kind != KindUnrecognizedShape {
		t.Errorf("Kind = %v, want %v", err.Kind, KindUnrecognizedShape)
	}
	if len(err.Path) != 2 || err.Path[0] != "arg[0]" || err.Path[1] != "items" {
		t.Errorf("Path = %v, want [arg[0] items]", err.Path)
	}
	if err.Shape != "composite{length=-1}" {
		t.Errorf("Shape = %v", err.Shape)
	}
	if err.Value != -1 {
		t.Errorf("Value = %v, want -1", err.Value)
	}
	if !errors.Is(err.Cause, cause) {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if err.Detail != "negative length -1" {
		t.Errorf("Detail = %v, want 'negative length -1'", err.Detail)
	}
}

func TestConvenienceConstructors(t *testing.T) {
	t.Run("UnknownTag", func(t *testing.T) {
		err := UnknownTag(PhaseResolve, "element", 42)
		if err.Kind != KindUnknownTag {
			t.Errorf("Kind = %v, want %v", err.Kind, KindUnknownTag)
		}
		if err.Value != int32(42) {
			t.Errorf("Value = %v, want 42", err.Value)
		}
		if !strings.Contains(err.Detail, "element") {
			t.Errorf("Detail = %v, should name the tag family", err.Detail)
		}
	})

	t.Run("UnrecognizedShape", func(t *testing.T) {
		err := UnrecognizedShape([]string{"arg[3]"}, "<nil>", nil)
		if err.Kind != KindUnrecognizedShape || err.Phase != PhaseDecode {
			t.Errorf("got %v/%v", err.Phase, err.Kind)
		}
		if err.Shape != "<nil>" {
			t.Errorf("Shape = %q", err.Shape)
		}
	})

	t.Run("Unsupported", func(t *testing.T) {
		err := Unsupported(PhaseDecode, "double callback parameter")
		if err.Kind != KindUnsupported {
			t.Errorf("Kind = %v, want %v", err.Kind, KindUnsupported)
		}
	})

	t.Run("OutOfBounds", func(t *testing.T) {
		err := OutOfBounds(PhaseMemory, 0x10000, 4)
		if err.Kind != KindOutOfBounds {
			t.Errorf("Kind = %v, want %v", err.Kind, KindOutOfBounds)
		}
		if err.Value != uint64(0x10000) {
			t.Errorf("Value = %v, want 0x10000", err.Value)
		}
		if !strings.Contains(err.Detail, "0x10000") {
			t.Errorf("Detail = %v, should contain address", err.Detail)
		}
	})

	t.Run("NilPointer", func(t *testing.T) {
		err := NilPointer(PhaseMemory, []string{"arg[0]"}, "char*")
		if err.Kind != KindNilPointer {
			t.Errorf("Kind = %v, want %v", err.Kind, KindNilPointer)
		}
		if err.Detail != "nil char*" {
			t.Errorf("Detail = %q", err.Detail)
		}
	})

	t.Run("Overflow", func(t *testing.T) {
		err := Overflow(PhaseMemory, nil, uint64(1<<40), "linear address")
		if err.Kind != KindOverflow {
			t.Errorf("Kind = %v, want %v", err.Kind, KindOverflow)
		}
	})

	t.Run("Registration", func(t *testing.T) {
		cause := Unsupported(PhaseRegister, "double parameter")
		err := Registration("on-tick", cause)
		if err.Kind != KindRegistration {
			t.Errorf("Kind = %v, want %v", err.Kind, KindRegistration)
		}
		if !strings.Contains(err.Error(), "on-tick") {
			t.Errorf("Error() = %q, should name callback", err.Error())
		}
		if !errors.Is(err, &Error{Phase: PhaseRegister, Kind: KindUnsupported}) {
			t.Error("cause should be reachable through errors.Is")
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		err := NotFound(PhaseInvoke, "callback", "missing")
		if err.Kind != KindNotFound {
			t.Errorf("Kind = %v, want %v", err.Kind, KindNotFound)
		}
	})
}
