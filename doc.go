// Package ffibridge decodes the arguments of callbacks that foreign code
// invokes on a dynamic host.
//
// A host registers a callback together with one Shape per parameter. When the
// foreign side calls back, it passes nothing but raw machine words. The bridge
// turns each word into a tagged Value by following the declared Shape: scalars
// are reinterpreted at their width, arrays are walked from a base pointer,
// structs are materialized field by field, and pointers the host must not look
// into are wrapped as opaque handles.
//
// # Architecture Overview
//
//	ffibridge/       Root package with the Memory interface
//	├── shape/       Shape sum type, tag table, resolver, JSON/WIT constructors
//	├── value/       Decoded value sum type
//	├── decoder/     Shape dispatcher, scalar/array decoders, struct materializer
//	├── layout/      C struct layout for a pointer width
//	├── memory/      Native process memory and wazero linear memory
//	├── buffer/      Byte buffer exposure policies (view or copy)
//	├── resource/    Opaque handle table
//	├── hostthread/  Owning OS thread detection
//	├── callback/    Registry, invocation site, wazero host bridge
//	├── errors/      Structured error types
//	└── cmd/cbdecode Fixture-driven decoder CLI
//
// # Quick Start
//
//	reg := callback.NewRegistry()
//	err := reg.Register("on-data", []shape.Shape{
//	    shape.Scalar{Tag: shape.TagI32},
//	    shape.Array(shape.TagU8Array, 4),
//	}, func(ctx context.Context, args []value.Value) {
//	    fmt.Println(args[0], args[1])
//	})
//
//	inv := callback.NewInvoker(reg, callback.DefaultOptions())
//	if err := inv.Invoke(ctx, "on-data", memory.Native(), raws); err != nil {
//	    return err
//	}
//
// # Failure Model
//
// A shape that cannot be decoded reflects a registration bug, not a runtime
// condition. The decoder reports it as an error; the invocation site treats it
// as fatal and aborts the process after logging it.
//
// # Double Parameters
//
// Doubles never arrive as a raw word in the callback direction, so a double
// callback parameter is rejected at registration and again at decode time.
// Double struct fields and double arrays are supported.
package ffibridge
