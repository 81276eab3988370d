//go:build linux

package hostthread

import "golang.org/x/sys/unix"

func currentThread() (int, bool) {
	return unix.Gettid(), true
}
