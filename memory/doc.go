// Package memory implements ffibridge.Memory over the two kinds of memory a
// callback argument can point into.
//
// # Native memory
//
// Native reads the address space of the current process. Raw values are
// real pointers handed over by C code:
//
//	mem := memory.Native()
//	s, err := mem.CString(raw)
//
// Address 0 is rejected with a nil_pointer error; any other invalid address
// faults like it would in C.
//
// # Linear memory
//
// Linear wraps a wazero api.Memory. Raw values are 32-bit offsets and every
// access is bounds checked:
//
//	mem := memory.WrapLinear(caller.Memory())
//
// Both implementations return slices that alias the underlying memory from
// View and CString.
package memory
