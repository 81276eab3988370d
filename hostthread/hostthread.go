// Package hostthread tracks the OS thread the host runs on.
//
// Native code may invoke callbacks from any thread. Byte buffers read from a
// foreign thread must be copied before the host sees them, so the invoker
// asks the Owner whether the current thread is the host thread.
package hostthread

import "runtime"

// Owner records the host thread.
type Owner struct {
	tid   int
	known bool
}

// Lock pins the calling goroutine to its OS thread and records that thread
// as the owner. Call Unlock from the same goroutine when done.
func Lock() *Owner {
	runtime.LockOSThread()
	tid, ok := currentThread()
	return &Owner{tid: tid, known: ok}
}

// Unlock releases the goroutine pinned by Lock.
func (o *Owner) Unlock() {
	runtime.UnlockOSThread()
}

// ThreadID returns the recorded thread id and whether the platform
// provides one.
func (o *Owner) ThreadID() (int, bool) {
	if o == nil {
		return 0, false
	}
	return o.tid, o.known
}

// IsCurrent reports whether the caller runs on the owner thread. A nil
// owner, or a platform without thread ids, is never current.
func (o *Owner) IsCurrent() bool {
	if o == nil || !o.known {
		return false
	}
	tid, ok := currentThread()
	return ok && tid == o.tid
}

// NeedsCopy reports whether byte data must be copied for the current
// thread; it is the decoder's thread-safety flag.
func (o *Owner) NeedsCopy() bool {
	return !o.IsCurrent()
}
