package decoder

import (
	"math"
	"strconv"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/text/encoding/unicode"

	ffibridge "github.com/wippyai/ffi-bridge"
	"github.com/wippyai/ffi-bridge/errors"
	"github.com/wippyai/ffi-bridge/shape"
	"github.com/wippyai/ffi-bridge/value"
)

// Decoder converts raw callback words into values. It holds no per-call
// state and may be used from several threads at once as long as its
// collaborators allow it; the defaults do.
type Decoder struct {
	mem      ffibridge.Memory
	resolver TagResolver
	structs  StructMaterializer
	handles  HostRuntime
	buffers  BufferPolicy
}

// New returns a decoder reading from mem.
func New(mem ffibridge.Memory, opts Options) *Decoder {
	opts = opts.withDefaults()
	return &Decoder{
		mem:      mem,
		resolver: opts.Resolver,
		structs:  opts.Structs,
		handles:  opts.Handles,
		buffers:  opts.Buffers,
	}
}

// Memory returns the memory the decoder reads from.
func (d *Decoder) Memory() ffibridge.Memory {
	return d.mem
}

// Resolver returns the tag resolver shapes are resolved with.
func (d *Decoder) Resolver() TagResolver {
	return d.resolver
}

// Handles returns the host runtime external values are registered with.
func (d *Decoder) Handles() HostRuntime {
	return d.handles
}

// Decode converts raw according to s. threadSafe requests that byte data be
// copied out of native memory.
func (d *Decoder) Decode(s shape.Shape, raw uint64, threadSafe bool) (value.Value, error) {
	v, err := d.decode(s, raw, threadSafe)
	if err != nil {
		Logger().Debug("decode failed",
			zap.String("shape", shape.Describe(s)),
			zap.Uint64("raw", raw),
			zap.Error(err))
		return nil, err
	}
	return v, nil
}

// MustDecode is Decode for callers that treat a failed decode as fatal.
func (d *Decoder) MustDecode(s shape.Shape, raw uint64, threadSafe bool) value.Value {
	v, err := d.Decode(s, raw, threadSafe)
	if err != nil {
		panic(err)
	}
	return v
}

func (d *Decoder) decode(s shape.Shape, raw uint64, threadSafe bool) (value.Value, error) {
	switch s := s.(type) {
	case shape.Scalar:
		kind, err := d.resolver.ResolveScalar(s.Tag)
		if err != nil {
			return nil, errors.UnrecognizedShape(nil, s.String(), err)
		}
		return d.DecodeScalar(kind, raw)

	case *shape.Composite:
		if s == nil {
			break
		}
		if s.Array == nil {
			st, err := d.DecodeStruct(raw, s, threadSafe)
			if err != nil {
				return nil, err
			}
			return st, nil
		}
		if s.Array.Length < 0 {
			return nil, errors.New(errors.PhaseDecode, errors.KindUnrecognizedShape).
				Shape(s.String()).
				Value(s.Array.Length).
				Detail("negative array length %d", s.Array.Length).
				Build()
		}
		kind, err := d.resolver.ResolveElement(s.Array.ElementTag)
		if err != nil {
			return nil, errors.UnrecognizedShape(nil, s.String(), err)
		}
		return d.DecodeArray(kind, raw, s.Array.Length, threadSafe)
	}

	return nil, errors.New(errors.PhaseDecode, errors.KindUnrecognizedShape).
		Shape(shape.Describe(s)).
		Detail("not a scalar or composite shape").
		Build()
}

// DecodeScalar reinterprets raw as one scalar of kind.
func (d *Decoder) DecodeScalar(kind shape.ScalarKind, raw uint64) (value.Value, error) {
	switch kind {
	case shape.ScalarU8:
		return value.U8(uint8(raw)), nil
	case shape.ScalarI32:
		return value.I32(int32(uint32(raw))), nil
	case shape.ScalarI64:
		return value.I64(int64(raw)), nil
	case shape.ScalarU64:
		return value.U64(raw), nil
	case shape.ScalarBool:
		return value.Bool(int32(uint32(raw)) != 0), nil
	case shape.ScalarString:
		s, err := d.readString(d.pointer(raw))
		if err != nil {
			return nil, err
		}
		return value.String(s), nil
	case shape.ScalarExternal:
		return d.handles.WrapOpaqueHandle(d.pointer(raw)), nil
	case shape.ScalarVoid:
		return value.Void{}, nil
	case shape.ScalarDouble:
		return nil, errors.New(errors.PhaseDecode, errors.KindUnsupported).
			Shape(kind.String()).
			Detail("double cannot be used as a callback parameter").
			Build()
	}
	return nil, errors.New(errors.PhaseDecode, errors.KindUnrecognizedShape).
		Shape(kind.String()).
		Detail("unknown scalar kind %d", kind).
		Build()
}

// DecodeArray reads length elements of kind starting at base. A zero length
// never touches memory.
func (d *Decoder) DecodeArray(kind shape.ElementKind, base uint64, length int, threadSafe bool) (value.Value, error) {
	if length < 0 {
		return nil, errors.New(errors.PhaseDecode, errors.KindUnrecognizedShape).
			Value(length).
			Detail("negative array length %d", length).
			Build()
	}
	base = d.pointer(base)
	n := uint64(length)
	ptrSize := uint64(d.mem.PointerSize())

	switch kind {
	case shape.ElemU8:
		if n == 0 {
			return d.buffers.ExposeBytes([]byte{}, threadSafe), nil
		}
		data, err := d.mem.View(base, n)
		if err != nil {
			return nil, err
		}
		return d.buffers.ExposeBytes(data, threadSafe), nil

	case shape.ElemI32:
		if err := checkSpan(base, n, 4); err != nil {
			return nil, err
		}
		out := make(value.I32Array, n)
		for i := range out {
			v, err := d.mem.ReadU32(base + uint64(i)*4)
			if err != nil {
				return nil, elemErr(err, i)
			}
			out[i] = int32(v)
		}
		return out, nil

	case shape.ElemDouble:
		if err := checkSpan(base, n, 8); err != nil {
			return nil, err
		}
		out := make(value.F64Array, n)
		for i := range out {
			v, err := d.mem.ReadU64(base + uint64(i)*8)
			if err != nil {
				return nil, elemErr(err, i)
			}
			out[i] = math.Float64frombits(v)
		}
		return out, nil

	case shape.ElemString:
		if err := checkSpan(base, n, ptrSize); err != nil {
			return nil, err
		}
		out := make(value.StringArray, n)
		for i := range out {
			p, err := d.mem.ReadPointer(base + uint64(i)*ptrSize)
			if err != nil {
				return nil, elemErr(err, i)
			}
			s, err := d.readString(p)
			if err != nil {
				return nil, elemErr(err, i)
			}
			out[i] = s
		}
		return out, nil

	case shape.ElemExternal:
		if err := checkSpan(base, n, ptrSize); err != nil {
			return nil, err
		}
		out := make(value.ExternalArray, n)
		for i := range out {
			// Each slot points at the handle pointer.
			p, err := d.mem.ReadPointer(base + uint64(i)*ptrSize)
			if err != nil {
				return nil, elemErr(err, i)
			}
			h, err := d.mem.ReadPointer(p)
			if err != nil {
				return nil, elemErr(err, i)
			}
			out[i] = d.handles.WrapOpaqueHandle(h)
		}
		return out, nil
	}

	return nil, errors.New(errors.PhaseDecode, errors.KindUnrecognizedShape).
		Shape(kind.String()).
		Detail("unknown element kind %d", kind).
		Build()
}

// DecodeStruct hands the struct at base to the struct materializer.
func (d *Decoder) DecodeStruct(base uint64, c *shape.Composite, threadSafe bool) (value.Struct, error) {
	if c == nil || c.Array != nil {
		return value.Struct{}, errors.New(errors.PhaseDecode, errors.KindUnrecognizedShape).
			Shape(shape.Describe(c)).
			Detail("not a struct shape").
			Build()
	}
	return d.structs.Materialize(d, d.pointer(base), c, threadSafe)
}

// pointer truncates raw to the pointer width of the memory.
func (d *Decoder) pointer(raw uint64) uint64 {
	if d.mem != nil && d.mem.PointerSize() == 4 {
		return raw & math.MaxUint32
	}
	return raw
}

// readString reads a NUL-terminated string, replacing invalid UTF-8 with
// U+FFFD.
func (d *Decoder) readString(addr uint64) (string, error) {
	b, err := d.mem.CString(addr)
	if err != nil {
		return "", err
	}
	if utf8.Valid(b) {
		return string(b), nil
	}
	out, err := unicode.UTF8.NewDecoder().Bytes(b)
	if err != nil {
		return "", errors.Wrap(errors.PhaseDecode, errors.KindInvalidData, err, "decode string")
	}
	return string(out), nil
}

func checkSpan(base, n, stride uint64) error {
	if n == 0 {
		return nil
	}
	if n > math.MaxUint64/stride || base > math.MaxUint64-n*stride {
		return errors.Overflow(errors.PhaseDecode, nil, n, "array span")
	}
	return nil
}

func elemErr(err error, i int) error {
	return WithPath(err, "["+strconv.Itoa(i)+"]")
}

// WithPath prefixes the path of err when it is an *errors.Error.
func WithPath(err error, prefix ...string) error {
	if e, ok := err.(*errors.Error); ok {
		return e.WithPath(prefix...)
	}
	return err
}
