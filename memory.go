package ffibridge

// Memory is the only way the bridge touches memory owned by the caller of a
// callback. Every reinterpretation of a raw address goes through one of these
// methods, one per width.
type Memory interface {
	// PointerSize is the width in bytes of an address in this memory.
	PointerSize() uint32
	ReadU8(addr uint64) (uint8, error)
	ReadU32(addr uint64) (uint32, error)
	ReadU64(addr uint64) (uint64, error)
	// ReadPointer reads a PointerSize-wide address stored at addr.
	ReadPointer(addr uint64) (uint64, error)
	// View returns length bytes starting at addr. The slice aliases the
	// underlying memory and is only valid for the current invocation.
	View(addr, length uint64) ([]byte, error)
	// CString returns the bytes starting at addr up to, not including, the
	// first NUL byte. The slice aliases the underlying memory.
	CString(addr uint64) ([]byte, error)
}
