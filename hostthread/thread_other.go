//go:build !linux

package hostthread

func currentThread() (int, bool) {
	return 0, false
}
