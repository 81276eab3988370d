package shape

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go.bytecodealliance.org/wit"

	"github.com/wippyai/ffi-bridge/errors"
)

// FromWIT maps a WIT type to a shape. Records become struct composites in
// field order; lists have no static length and are rejected.
func FromWIT(t wit.Type) (Shape, error) {
	switch typ := t.(type) {
	case wit.Bool:
		return Scalar{Tag: TagBoolean}, nil
	case wit.U8:
		return Scalar{Tag: TagU8}, nil
	case wit.S32:
		return Scalar{Tag: TagI32}, nil
	case wit.S64:
		return Scalar{Tag: TagI64}, nil
	case wit.U64:
		return Scalar{Tag: TagU64}, nil
	case wit.F64:
		return Scalar{Tag: TagDouble}, nil
	case wit.String:
		return Scalar{Tag: TagString}, nil
	case *wit.TypeDef:
		return fromTypeDef(typ)
	}
	return nil, errors.Unsupported(errors.PhaseParse, fmt.Sprintf("WIT type %T has no callback shape", t))
}

func fromTypeDef(t *wit.TypeDef) (Shape, error) {
	switch kind := t.Kind.(type) {
	case *wit.Record:
		c := &Composite{Fields: make([]Field, 0, len(kind.Fields))}
		for _, f := range kind.Fields {
			s, err := FromWIT(f.Type)
			if err != nil {
				return nil, errors.Wrap(errors.PhaseParse, errors.KindUnsupported, err, "record field "+f.Name)
			}
			c.Fields = append(c.Fields, Field{Name: f.Name, Shape: s})
		}
		return c, nil
	case *wit.List:
		return nil, errors.Unsupported(errors.PhaseParse, "list without a fixed length; use list<T, N>")
	case wit.Type:
		return FromWIT(kind)
	}
	return nil, errors.Unsupported(errors.PhaseParse, fmt.Sprintf("WIT type definition %T has no callback shape", t.Kind))
}

// Param is one named parameter of a parsed callback signature.
type Param struct {
	Shape Shape
	Name  string
}

// Signature is a callback declaration.
type Signature struct {
	Name   string
	Params []Param
}

// Shapes returns the parameter shapes in order.
func (s Signature) Shapes() []Shape {
	out := make([]Shape, len(s.Params))
	for i, p := range s.Params {
		out[i] = p.Shape
	}
	return out
}

var signaturePattern = regexp.MustCompile(`([a-zA-Z_][a-zA-Z0-9_-]*)\s*:\s*func\s*\(([^)]*)\)`)

var fixedListPattern = regexp.MustCompile(`^list\s*<\s*([a-z0-9]+)\s*,\s*([0-9]+)\s*>$`)

// ParseSignatures extracts callback declarations of the form
//
//	name: func(a: u8, b: string, c: pointer, d: list<s32, 4>)
//
// in declaration order. pointer declares an opaque handle, void the unit
// value, and list<T, N> a fixed-length array. Other types go through WIT.
func ParseSignatures(text string) ([]Signature, error) {
	matches := signaturePattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil, errors.InvalidInput(errors.PhaseParse, "no callback signatures found")
	}

	sigs := make([]Signature, 0, len(matches))
	for _, match := range matches {
		sig := Signature{Name: match[1]}
		paramsStr := strings.TrimSpace(match[2])
		if paramsStr != "" {
			for i, p := range splitParams(paramsStr) {
				name := "arg" + strconv.Itoa(i)
				typStr := p
				if idx := strings.Index(p, ":"); idx != -1 {
					name = strings.TrimSpace(p[:idx])
					typStr = strings.TrimSpace(p[idx+1:])
				}
				s, err := parseParamType(typStr)
				if err != nil {
					return nil, errors.Wrap(errors.PhaseParse, errors.KindInvalidData, err,
						fmt.Sprintf("%s: param %s", sig.Name, name))
				}
				sig.Params = append(sig.Params, Param{Name: name, Shape: s})
			}
		}
		sigs = append(sigs, sig)
	}
	return sigs, nil
}

func parseParamType(s string) (Shape, error) {
	s = strings.TrimSpace(s)
	switch s {
	case "pointer":
		return Scalar{Tag: TagExternal}, nil
	case "void":
		return Scalar{Tag: TagVoid}, nil
	}

	if m := fixedListPattern.FindStringSubmatch(s); m != nil {
		n, err := strconv.Atoi(m[2])
		if err != nil {
			return nil, err
		}
		var elem int32
		switch m[1] {
		case "u8":
			elem = TagU8Array
		case "s32":
			elem = TagI32Array
		case "f64":
			elem = TagDoubleArray
		case "string":
			elem = TagStringArray
		case "pointer":
			elem = TagExternalArray
		default:
			return nil, fmt.Errorf("unsupported array element %q", m[1])
		}
		return Array(elem, n), nil
	}

	t, err := wit.ParseType(s)
	if err != nil {
		return nil, err
	}
	return FromWIT(t)
}

// splitParams splits a parameter list on top-level commas.
func splitParams(s string) []string {
	var result []string
	var current strings.Builder
	depth := 0

	for _, ch := range s {
		switch ch {
		case '(', '<':
			depth++
			current.WriteRune(ch)
		case ')', '>':
			depth--
			current.WriteRune(ch)
		case ',':
			if depth == 0 {
				if str := strings.TrimSpace(current.String()); str != "" {
					result = append(result, str)
				}
				current.Reset()
			} else {
				current.WriteRune(ch)
			}
		default:
			current.WriteRune(ch)
		}
	}

	if str := strings.TrimSpace(current.String()); str != "" {
		result = append(result, str)
	}

	return result
}
