package shape

import (
	"fmt"

	"github.com/wippyai/ffi-bridge/errors"
)

// Validate checks that every tag in s resolves and every array length is
// non-negative. Double scalars are accepted; see ValidateParam.
func Validate(s Shape) error {
	return validate(s, nil)
}

// ValidateParam is Validate for a callback parameter: a double scalar cannot
// be delivered as a callback argument and is rejected.
func ValidateParam(s Shape) error {
	if sc, ok := s.(Scalar); ok && sc.Tag == TagDouble {
		return errors.New(errors.PhaseRegister, errors.KindUnsupported).
			Shape(sc.String()).
			Detail("double cannot be used as a callback parameter").
			Build()
	}
	return validate(s, nil)
}

func validate(s Shape, path []string) error {
	switch s := s.(type) {
	case Scalar:
		if _, err := ResolveScalar(s.Tag); err != nil {
			return errors.New(errors.PhaseRegister, errors.KindUnrecognizedShape).
				Path(path...).
				Shape(s.String()).
				Cause(err).
				Build()
		}
		return nil
	case *Composite:
		if s == nil {
			break
		}
		if s.Array != nil {
			if s.Array.Length < 0 {
				return errors.New(errors.PhaseRegister, errors.KindUnrecognizedShape).
					Path(path...).
					Shape(s.String()).
					Detail("negative array length %d", s.Array.Length).
					Build()
			}
			if _, err := ResolveElement(s.Array.ElementTag); err != nil {
				return errors.New(errors.PhaseRegister, errors.KindUnrecognizedShape).
					Path(path...).
					Shape(s.String()).
					Cause(err).
					Build()
			}
			return nil
		}
		for _, f := range s.Fields {
			fieldPath := append(append([]string{}, path...), f.Name)
			if err := validate(f.Shape, fieldPath); err != nil {
				return err
			}
		}
		return nil
	}
	return errors.New(errors.PhaseRegister, errors.KindUnrecognizedShape).
		Path(path...).
		Shape(fmt.Sprintf("%T", s)).
		Detail("not a scalar or composite shape").
		Build()
}
