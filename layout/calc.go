package layout

import (
	"sync"

	"github.com/wippyai/ffi-bridge/errors"
	"github.com/wippyai/ffi-bridge/shape"
)

// Info is the size and alignment of a slot. For structs Offsets holds the
// byte offset of each field, indexed like Composite.Fields.
type Info struct {
	Offsets []uint32
	Size    uint32
	Align   uint32
}

// ScalarResolver maps scalar tags to kinds.
type ScalarResolver interface {
	ResolveScalar(tag int32) (shape.ScalarKind, error)
}

type Calculator struct {
	resolver ScalarResolver
	cache    map[*shape.Composite]Info
	mu       sync.RWMutex
	ptrSize  uint32
}

// NewCalculator returns a calculator for memories with ptrSize byte pointers
// that resolves tags with shape.Resolver.
func NewCalculator(ptrSize uint32) *Calculator {
	return NewCalculatorWithResolver(ptrSize, shape.Resolver{})
}

// NewCalculatorWithResolver is like NewCalculator but resolves scalar tags
// with r.
func NewCalculatorWithResolver(ptrSize uint32, r ScalarResolver) *Calculator {
	return &Calculator{
		resolver: r,
		cache:    make(map[*shape.Composite]Info),
		ptrSize:  ptrSize,
	}
}

// PointerSize returns the pointer width the calculator lays out for.
func (c *Calculator) PointerSize() uint32 {
	return c.ptrSize
}

// Slot returns the layout of a field declared as s.
func (c *Calculator) Slot(s shape.Shape) (Info, error) {
	switch typ := s.(type) {
	case shape.Scalar:
		kind, err := c.resolver.ResolveScalar(typ.Tag)
		if err != nil {
			return Info{}, err
		}
		switch kind {
		case shape.ScalarU8, shape.ScalarBool:
			return Info{Size: 1, Align: 1}, nil
		case shape.ScalarI32:
			return Info{Size: 4, Align: 4}, nil
		case shape.ScalarI64, shape.ScalarU64, shape.ScalarDouble:
			return Info{Size: 8, Align: 8}, nil
		case shape.ScalarString, shape.ScalarExternal:
			return Info{Size: c.ptrSize, Align: c.ptrSize}, nil
		case shape.ScalarVoid:
			return Info{Size: 0, Align: 1}, nil
		}
	case *shape.Composite:
		if typ != nil {
			return Info{Size: c.ptrSize, Align: c.ptrSize}, nil
		}
	}
	return Info{}, errors.InvalidInput(errors.PhaseDecode, "no layout for shape "+shape.Describe(s))
}

// Struct returns the layout of the struct described by comp.
func (c *Calculator) Struct(comp *shape.Composite) (Info, error) {
	if comp == nil || comp.IsArray() {
		return Info{}, errors.InvalidInput(errors.PhaseDecode, "no struct layout for shape "+shape.Describe(comp))
	}

	c.mu.RLock()
	cached, ok := c.cache[comp]
	c.mu.RUnlock()
	if ok {
		return cached, nil
	}

	info, err := c.calculateStruct(comp)
	if err != nil {
		return Info{}, err
	}

	c.mu.Lock()
	c.cache[comp] = info
	c.mu.Unlock()
	return info, nil
}

func (c *Calculator) calculateStruct(comp *shape.Composite) (Info, error) {
	if len(comp.Fields) == 0 {
		return Info{Size: 0, Align: 1}, nil
	}

	offsets := make([]uint32, len(comp.Fields))
	maxAlign := uint32(1)
	offset := uint32(0)

	for i, field := range comp.Fields {
		slot, err := c.Slot(field.Shape)
		if err != nil {
			return Info{}, errors.New(errors.PhaseDecode, errors.KindUnrecognizedShape).
				Path(field.Name).
				Shape(shape.Describe(field.Shape)).
				Cause(err).
				Build()
		}

		offset = AlignTo(offset, slot.Align)
		offsets[i] = offset

		if slot.Align > maxAlign {
			maxAlign = slot.Align
		}

		offset += slot.Size
	}

	return Info{
		Size:    AlignTo(offset, maxAlign),
		Align:   maxAlign,
		Offsets: offsets,
	}, nil
}

// AlignTo rounds offset up to a multiple of align, a power of two.
func AlignTo(offset, align uint32) uint32 {
	if align == 0 {
		return offset
	}
	return (offset + align - 1) &^ (align - 1)
}
