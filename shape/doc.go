// Package shape describes how a raw callback argument is to be interpreted.
//
// A Shape is either a Scalar, which carries one integer type tag, or a
// Composite, an ordered name to shape mapping. A Composite that carries array
// metadata (the "length" and "type" keys of a description) describes a flat
// array of known length; any other Composite describes a struct whose fields
// are its entries.
//
// # Tags
//
// Tags are plain integers shared with the host's registration API:
//
//	String=0 I32=1 Double=2 I32Array=3 StringArray=4 DoubleArray=5
//	Boolean=6 Void=7 I64=8 U8=9 U8Array=10 External=11 U64=12
//	ExternalArray=13
//
// The Resolver maps a tag to a ScalarKind or an ElementKind and returns an
// explicit error for anything else.
//
// # Construction
//
// Shapes are built once, at registration time:
//
//	s, err := shape.ParseJSON([]byte(`{"length": 3, "type": 3}`))
//	s, err := shape.FromWIT(wit.S32{})
//	sigs, err := shape.ParseSignatures(`on-data: func(n: s32, buf: list<u8, 16>)`)
//
// Shapes are read-only after construction and safe for concurrent use.
package shape
