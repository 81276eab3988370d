package resource

import (
	"sync"

	"github.com/wippyai/ffi-bridge/value"
)

// Table hands out handles for opaque native pointers and notifies observers.
// It is safe for concurrent use; callbacks may arrive on any thread.
type Table struct {
	backend   *LocalBackend
	observers []Observer
	obsMu     sync.RWMutex
	closed    bool
	closeMu   sync.RWMutex
}

// NewTable creates a new table with a LocalBackend.
func NewTable() *Table {
	return &Table{
		backend: NewLocalBackend(),
	}
}

// WrapOpaqueHandle registers ptr and returns it as an external value. The
// pointer is stored as is and never dereferenced. A closed table returns a
// value with handle 0.
func (t *Table) WrapOpaqueHandle(ptr uint64) value.External {
	return value.External{Handle: uint32(t.Insert(ptr)), Ptr: ptr}
}

// Insert stores ptr and returns its handle, or 0 if the table is closed.
func (t *Table) Insert(ptr uint64) Handle {
	t.closeMu.RLock()
	if t.closed {
		t.closeMu.RUnlock()
		return 0
	}
	t.closeMu.RUnlock()

	handle, err := t.backend.Create(ptr)
	if err != nil {
		return 0
	}

	t.notify(Event{
		Type:   EventWrapped,
		Handle: handle,
		Ptr:    ptr,
	})

	return handle
}

// Pointer returns the pointer registered under handle.
func (t *Table) Pointer(handle Handle) (uint64, bool) {
	return t.backend.Get(handle)
}

// Resolve returns the pointer behind an external value, checking that the
// handle still refers to the same pointer.
func (t *Table) Resolve(ext value.External) (uint64, bool) {
	ptr, ok := t.backend.Get(Handle(ext.Handle))
	if !ok || ptr != ext.Ptr {
		return 0, false
	}
	return ptr, true
}

// Release drops handle and returns the pointer it held.
func (t *Table) Release(handle Handle) (uint64, bool) {
	ptr, ok := t.backend.Drop(handle)
	if !ok {
		return 0, false
	}

	t.notify(Event{
		Type:   EventReleased,
		Handle: handle,
		Ptr:    ptr,
	})

	return ptr, true
}

// Subscribe adds an observer for lifecycle events.
func (t *Table) Subscribe(o Observer) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	t.observers = append(t.observers, o)
}

// Unsubscribe removes an observer.
func (t *Table) Unsubscribe(o Observer) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	for i, obs := range t.observers {
		if obs == o {
			t.observers = append(t.observers[:i], t.observers[i+1:]...)
			return
		}
	}
}

// Len returns the number of live handles.
func (t *Table) Len() int {
	return t.backend.Len()
}

// Clear releases all handles.
func (t *Table) Clear() {
	// Collect handles first to avoid holding lock during Release
	var handles []Handle
	t.backend.Each(func(h Handle, _ uint64) bool {
		handles = append(handles, h)
		return true
	})
	for _, h := range handles {
		t.Release(h)
	}
}

// Close releases all handles and stops accepting new ones.
func (t *Table) Close() error {
	t.closeMu.Lock()
	t.closed = true
	t.closeMu.Unlock()

	return t.backend.Close()
}

func (t *Table) notify(e Event) {
	t.obsMu.RLock()
	defer t.obsMu.RUnlock()
	for _, o := range t.observers {
		o.OnHandleEvent(e)
	}
}
