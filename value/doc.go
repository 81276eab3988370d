// Package value holds decoded callback arguments.
//
// Value is a closed set. Every decoded argument is exactly one of:
//
//	U8, I32, I64, U64, F64, Bool, String, External, Void   scalars
//	Bytes                                                   byte arrays
//	I32Array, F64Array, StringArray, ExternalArray          other arrays
//	Struct                                                  materialized structs
//
// F64 only appears as a struct field; double callback parameters are rejected
// before decoding.
package value
