package decoder

import (
	"math"
	"reflect"
	"sync"

	"github.com/wippyai/ffi-bridge/errors"
	"github.com/wippyai/ffi-bridge/layout"
	"github.com/wippyai/ffi-bridge/shape"
	"github.com/wippyai/ffi-bridge/value"
)

// LayoutMaterializer reads structs laid out by the C rules of package
// layout. Each field slot is loaded by width and decoded again through the
// Decoder; strings, externals, arrays and nested structs are pointer slots.
// Double fields are read as F64.
// Field tags are resolved with the Decoder's TagResolver.
type LayoutMaterializer struct {
	calcs map[calcKey]*layout.Calculator
	mu    sync.Mutex
}

type calcKey struct {
	resolver TagResolver
	ptrSize  uint32
}

// NewLayoutMaterializer returns a materializer with an empty layout cache.
func NewLayoutMaterializer() *LayoutMaterializer {
	return &LayoutMaterializer{calcs: make(map[calcKey]*layout.Calculator)}
}

// Materialize implements StructMaterializer.
func (m *LayoutMaterializer) Materialize(d *Decoder, base uint64, c *shape.Composite, threadSafe bool) (value.Struct, error) {
	info, err := m.calculator(d.Resolver(), d.Memory().PointerSize()).Struct(c)
	if err != nil {
		return value.Struct{}, err
	}

	fields := make([]value.StructField, len(c.Fields))
	for i, f := range c.Fields {
		v, err := m.field(d, f.Shape, base+uint64(info.Offsets[i]), threadSafe)
		if err != nil {
			return value.Struct{}, WithPath(err, f.Name)
		}
		fields[i] = value.StructField{Name: f.Name, Value: v}
	}
	return value.Struct{Fields: fields}, nil
}

func (m *LayoutMaterializer) field(d *Decoder, s shape.Shape, addr uint64, threadSafe bool) (value.Value, error) {
	mem := d.Memory()

	sc, ok := s.(shape.Scalar)
	if !ok {
		word, err := mem.ReadPointer(addr)
		if err != nil {
			return nil, err
		}
		return d.Decode(s, word, threadSafe)
	}

	kind, err := d.Resolver().ResolveScalar(sc.Tag)
	if err != nil {
		return nil, errors.UnrecognizedShape(nil, sc.String(), err)
	}

	var word uint64
	switch kind {
	case shape.ScalarVoid:
		return value.Void{}, nil
	case shape.ScalarU8, shape.ScalarBool:
		b, err := mem.ReadU8(addr)
		if err != nil {
			return nil, err
		}
		word = uint64(b)
	case shape.ScalarI32:
		v, err := mem.ReadU32(addr)
		if err != nil {
			return nil, err
		}
		word = uint64(v)
	case shape.ScalarI64, shape.ScalarU64:
		word, err = mem.ReadU64(addr)
		if err != nil {
			return nil, err
		}
	case shape.ScalarDouble:
		bits, err := mem.ReadU64(addr)
		if err != nil {
			return nil, err
		}
		return value.F64(math.Float64frombits(bits)), nil
	default:
		word, err = mem.ReadPointer(addr)
		if err != nil {
			return nil, err
		}
	}
	return d.Decode(s, word, threadSafe)
}

func (m *LayoutMaterializer) calculator(r TagResolver, ptrSize uint32) *layout.Calculator {
	// Resolvers that cannot be map keys get an uncached calculator.
	if !reflect.TypeOf(r).Comparable() {
		return layout.NewCalculatorWithResolver(ptrSize, r)
	}

	key := calcKey{resolver: r, ptrSize: ptrSize}
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.calcs[key]
	if !ok {
		c = layout.NewCalculatorWithResolver(ptrSize, r)
		m.calcs[key] = c
	}
	return c
}
