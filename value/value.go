package value

// Value is one decoded argument.
type Value interface {
	Kind() Kind
	isValue()
}

type U8 uint8

type I32 int32

type I64 int64

type U64 uint64

type F64 float64

type Bool bool

type String string

// External is an opaque native pointer registered with the host handle table.
// Ptr is never dereferenced by the decoder.
type External struct {
	Handle uint32
	Ptr    uint64
}

type Void struct{}

// Bytes is a byte array. When Owned is false Data aliases the native buffer
// and is only valid for the duration of the callback.
type Bytes struct {
	Data  []byte
	Owned bool
}

type I32Array []int32

type F64Array []float64

type StringArray []string

type ExternalArray []External

// StructField is one named member of a materialized struct.
type StructField struct {
	Value Value
	Name  string
}

// Struct is a materialized struct with fields in declaration order.
type Struct struct {
	Fields []StructField
}

func (U8) Kind() Kind            { return KindU8 }
func (I32) Kind() Kind           { return KindI32 }
func (I64) Kind() Kind           { return KindI64 }
func (U64) Kind() Kind           { return KindU64 }
func (F64) Kind() Kind           { return KindF64 }
func (Bool) Kind() Kind          { return KindBool }
func (String) Kind() Kind        { return KindString }
func (External) Kind() Kind      { return KindExternal }
func (Void) Kind() Kind          { return KindVoid }
func (Bytes) Kind() Kind         { return KindBytes }
func (I32Array) Kind() Kind      { return KindI32Array }
func (F64Array) Kind() Kind      { return KindF64Array }
func (StringArray) Kind() Kind   { return KindStringArray }
func (ExternalArray) Kind() Kind { return KindExternalArray }
func (Struct) Kind() Kind        { return KindStruct }

func (U8) isValue()            {}
func (I32) isValue()           {}
func (I64) isValue()           {}
func (U64) isValue()           {}
func (F64) isValue()           {}
func (Bool) isValue()          {}
func (String) isValue()        {}
func (External) isValue()      {}
func (Void) isValue()          {}
func (Bytes) isValue()         {}
func (I32Array) isValue()      {}
func (F64Array) isValue()      {}
func (StringArray) isValue()   {}
func (ExternalArray) isValue() {}
func (Struct) isValue()        {}

// Get returns the value of the named field.
func (s Struct) Get(name string) (Value, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// Names returns field names in declaration order.
func (s Struct) Names() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}

// Len returns the element count of an array value, or -1 for scalars and
// structs.
func Len(v Value) int {
	switch v := v.(type) {
	case Bytes:
		return len(v.Data)
	case I32Array:
		return len(v)
	case F64Array:
		return len(v)
	case StringArray:
		return len(v)
	case ExternalArray:
		return len(v)
	}
	return -1
}
