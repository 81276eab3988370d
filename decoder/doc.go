// Package decoder turns raw callback arguments into host values.
//
// A Decoder is bound to one Memory and a set of collaborators. Decode takes
// a declared shape and the raw machine word native code passed for it:
//
//	d := decoder.New(memory.Native(), decoder.Options{})
//	v, err := d.Decode(shape.Scalar{Tag: shape.TagString}, raw, false)
//
// Dispatch is structural:
//
//	Scalar                       DecodeScalar, by resolved kind
//	Composite with array meta    DecodeArray, exactly Length elements
//	Composite without            DecodeStruct, via the StructMaterializer
//
// Nothing checks that the shape matches what the caller actually passed.
// A wrong shape reads wrong memory; with native memory that can fault.
//
// # Collaborators
//
// Options carries the pluggable parts; zero fields take the defaults from
// DefaultOptions:
//
//	Resolver  shape.Resolver          tag table
//	Structs   LayoutMaterializer      C layout struct reads
//	Handles   resource.Table          opaque pointer handles
//	Buffers   buffer.Default          copy bytes only off the host thread
//
// # Errors
//
// Every failure is an *errors.Error in the decode phase. A double scalar is
// unsupported; unknown tags, negative lengths and nil or foreign shapes are
// unrecognized. Memory errors keep their own phase and carry the argument
// path, e.g. "items.[2]".
package decoder
