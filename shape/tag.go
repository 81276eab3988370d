package shape

import (
	"github.com/wippyai/ffi-bridge/errors"
)

// Type tags as declared by the host.
const (
	TagString        int32 = 0
	TagI32           int32 = 1
	TagDouble        int32 = 2
	TagI32Array      int32 = 3
	TagStringArray   int32 = 4
	TagDoubleArray   int32 = 5
	TagBoolean       int32 = 6
	TagVoid          int32 = 7
	TagI64           int32 = 8
	TagU8            int32 = 9
	TagU8Array       int32 = 10
	TagExternal      int32 = 11
	TagU64           int32 = 12
	TagExternalArray int32 = 13
)

// Reserved keys of a composite description.
const (
	ArrayLengthKey = "length"
	ArrayTypeKey   = "type"
)

// ScalarKind is the semantic kind a scalar tag resolves to.
type ScalarKind uint8

const (
	ScalarU8 ScalarKind = iota
	ScalarI32
	ScalarI64
	ScalarU64
	ScalarBool
	ScalarString
	ScalarExternal
	ScalarVoid
	ScalarDouble
)

var scalarNames = [...]string{
	ScalarU8:       "u8",
	ScalarI32:      "i32",
	ScalarI64:      "i64",
	ScalarU64:      "u64",
	ScalarBool:     "bool",
	ScalarString:   "string",
	ScalarExternal: "external",
	ScalarVoid:     "void",
	ScalarDouble:   "double",
}

func (k ScalarKind) String() string {
	if int(k) < len(scalarNames) {
		return scalarNames[k]
	}
	return "unknown"
}

// ElementKind is the semantic kind of each item of an array shape.
type ElementKind uint8

const (
	ElemString ElementKind = iota
	ElemI32
	ElemU8
	ElemDouble
	ElemExternal
)

var elementNames = [...]string{
	ElemString:   "string",
	ElemI32:      "i32",
	ElemU8:       "u8",
	ElemDouble:   "double",
	ElemExternal: "external",
}

func (k ElementKind) String() string {
	if int(k) < len(elementNames) {
		return elementNames[k]
	}
	return "unknown"
}

var scalarTags = map[int32]ScalarKind{
	TagU8:       ScalarU8,
	TagI32:      ScalarI32,
	TagI64:      ScalarI64,
	TagU64:      ScalarU64,
	TagBoolean:  ScalarBool,
	TagString:   ScalarString,
	TagExternal: ScalarExternal,
	TagVoid:     ScalarVoid,
	TagDouble:   ScalarDouble,
}

var elementTags = map[int32]ElementKind{
	TagStringArray:   ElemString,
	TagI32Array:      ElemI32,
	TagU8Array:       ElemU8,
	TagDoubleArray:   ElemDouble,
	TagExternalArray: ElemExternal,
}

// Resolver is the default tag resolver. It covers exactly the tag table of
// this package.
type Resolver struct{}

// ResolveScalar maps a scalar tag to its kind.
func (Resolver) ResolveScalar(tag int32) (ScalarKind, error) {
	return ResolveScalar(tag)
}

// ResolveElement maps an array element tag to its kind.
func (Resolver) ResolveElement(tag int32) (ElementKind, error) {
	return ResolveElement(tag)
}

// ResolveScalar maps a scalar tag to its kind.
func ResolveScalar(tag int32) (ScalarKind, error) {
	k, ok := scalarTags[tag]
	if !ok {
		return 0, errors.UnknownTag(errors.PhaseResolve, "scalar", tag)
	}
	return k, nil
}

// ResolveElement maps an array element tag to its kind.
func ResolveElement(tag int32) (ElementKind, error) {
	k, ok := elementTags[tag]
	if !ok {
		return 0, errors.UnknownTag(errors.PhaseResolve, "element", tag)
	}
	return k, nil
}

var scalarKindTags = [...]int32{
	ScalarU8:       TagU8,
	ScalarI32:      TagI32,
	ScalarI64:      TagI64,
	ScalarU64:      TagU64,
	ScalarBool:     TagBoolean,
	ScalarString:   TagString,
	ScalarExternal: TagExternal,
	ScalarVoid:     TagVoid,
	ScalarDouble:   TagDouble,
}

var elementKindTags = [...]int32{
	ElemString:   TagStringArray,
	ElemI32:      TagI32Array,
	ElemU8:       TagU8Array,
	ElemDouble:   TagDoubleArray,
	ElemExternal: TagExternalArray,
}

// ScalarTag returns the tag declaring kind, or -1.
func ScalarTag(kind ScalarKind) int32 {
	if int(kind) < len(scalarKindTags) {
		return scalarKindTags[kind]
	}
	return -1
}

// ElementTag returns the tag declaring an array of kind, or -1.
func ElementTag(kind ElementKind) int32 {
	if int(kind) < len(elementKindTags) {
		return elementKindTags[kind]
	}
	return -1
}
