// Package layout computes the C layout of struct shapes.
//
// A struct field occupies a slot whose size and alignment follow the C ABI
// of the memory being read:
//
//	u8, bool                         1 / 1
//	i32                              4 / 4
//	i64, u64, double                 8 / 8
//	string, external, arrays, structs  pointer size
//	void                             0 / 1
//
// Fields are placed in declaration order at the next aligned offset and the
// struct size is rounded up to its largest alignment. Results are cached per
// composite.
package layout
