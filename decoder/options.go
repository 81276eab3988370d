package decoder

import (
	"github.com/wippyai/ffi-bridge/buffer"
	"github.com/wippyai/ffi-bridge/resource"
	"github.com/wippyai/ffi-bridge/shape"
	"github.com/wippyai/ffi-bridge/value"
)

// TagResolver maps type tags to kinds. Unknown tags return an error.
type TagResolver interface {
	ResolveScalar(tag int32) (shape.ScalarKind, error)
	ResolveElement(tag int32) (shape.ElementKind, error)
}

// StructMaterializer builds a struct value from the memory at base.
// Implementations decode fields through d and pass threadSafe on unchanged.
type StructMaterializer interface {
	Materialize(d *Decoder, base uint64, c *shape.Composite, threadSafe bool) (value.Struct, error)
}

// HostRuntime registers opaque pointers with the host.
type HostRuntime interface {
	WrapOpaqueHandle(ptr uint64) value.External
}

// BufferPolicy decides whether byte arrays alias native memory or are
// copied. threadSafe is set when the callback runs off the host thread.
type BufferPolicy interface {
	ExposeBytes(raw []byte, threadSafe bool) value.Value
}

// Options configures a Decoder. Nil fields take the defaults.
type Options struct {
	Resolver TagResolver
	Structs  StructMaterializer
	Handles  HostRuntime
	Buffers  BufferPolicy
}

// DefaultOptions returns the default collaborators. Each call creates a new
// handle table.
func DefaultOptions() Options {
	return Options{
		Resolver: shape.Resolver{},
		Structs:  NewLayoutMaterializer(),
		Handles:  resource.NewTable(),
		Buffers:  buffer.Default,
	}
}

func (o Options) withDefaults() Options {
	if o.Resolver == nil {
		o.Resolver = shape.Resolver{}
	}
	if o.Structs == nil {
		o.Structs = NewLayoutMaterializer()
	}
	if o.Handles == nil {
		o.Handles = resource.NewTable()
	}
	if o.Buffers == nil {
		o.Buffers = buffer.Default
	}
	return o
}
