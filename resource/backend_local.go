package resource

import (
	"errors"
	"sync"
)

var ErrClosed = errors.New("handle backend closed")

// LocalBackend is an in-memory pointer store with handle reuse.
type LocalBackend struct {
	entries  []entry
	freeList []Handle
	mu       sync.RWMutex
	closed   bool
}

type entry struct {
	ptr   uint64
	valid bool
}

// NewLocalBackend creates a new in-memory backend.
func NewLocalBackend() *LocalBackend {
	return &LocalBackend{
		entries:  make([]entry, 0, 64),
		freeList: make([]Handle, 0, 16),
	}
}

// Create stores ptr and returns a handle.
func (b *LocalBackend) Create(ptr uint64) (Handle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return 0, ErrClosed
	}

	e := entry{ptr: ptr, valid: true}

	if len(b.freeList) > 0 {
		handle := b.freeList[len(b.freeList)-1]
		b.freeList = b.freeList[:len(b.freeList)-1]
		b.entries[handle-1] = e
		return handle, nil
	}

	b.entries = append(b.entries, e)
	return Handle(len(b.entries)), nil
}

// Get returns the pointer stored under handle.
func (b *LocalBackend) Get(handle Handle) (uint64, bool) {
	if handle == 0 {
		return 0, false
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	idx := handle - 1
	if int(idx) >= len(b.entries) {
		return 0, false
	}

	e := b.entries[idx]
	if !e.valid {
		return 0, false
	}
	return e.ptr, true
}

// Drop removes handle and returns the pointer it held.
func (b *LocalBackend) Drop(handle Handle) (uint64, bool) {
	if handle == 0 {
		return 0, false
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	idx := handle - 1
	if int(idx) >= len(b.entries) {
		return 0, false
	}

	e := &b.entries[idx]
	if !e.valid {
		return 0, false
	}

	ptr := e.ptr
	e.valid = false
	e.ptr = 0
	b.freeList = append(b.freeList, handle)

	return ptr, true
}

// Close releases all entries. Later Create calls fail with ErrClosed.
func (b *LocalBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true
	b.entries = nil
	b.freeList = nil
	return nil
}

// Len returns the number of live handles.
func (b *LocalBackend) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	count := 0
	for _, e := range b.entries {
		if e.valid {
			count++
		}
	}
	return count
}

// Each iterates over all live handles.
func (b *LocalBackend) Each(fn func(Handle, uint64) bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for i, e := range b.entries {
		if e.valid {
			if !fn(Handle(i+1), e.ptr) {
				break
			}
		}
	}
}
