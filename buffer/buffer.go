// Package buffer decides how byte arrays read from native memory are exposed
// to the host.
package buffer

import (
	"github.com/wippyai/ffi-bridge/value"
)

// Policy is a function adapter for buffer policies.
type Policy func(raw []byte, threadSafe bool) value.Value

// ExposeBytes calls p.
func (p Policy) ExposeBytes(raw []byte, threadSafe bool) value.Value {
	return p(raw, threadSafe)
}

// Default aliases the native bytes unless the callback runs off the host
// thread, in which case the bytes are copied.
var Default = Policy(func(raw []byte, threadSafe bool) value.Value {
	if threadSafe {
		return Copy(raw)
	}
	return View(raw)
})

// AlwaysCopy copies the native bytes regardless of the calling thread.
var AlwaysCopy = Policy(func(raw []byte, _ bool) value.Value {
	return Copy(raw)
})

// Copy returns an owned copy of raw.
func Copy(raw []byte) value.Bytes {
	data := make([]byte, len(raw))
	copy(data, raw)
	return value.Bytes{Data: data, Owned: true}
}

// View returns raw without copying.
func View(raw []byte) value.Bytes {
	return value.Bytes{Data: raw}
}
