package core

// EnsureLen returns a slice with the requested length, reusing buf capacity if possible.
func EnsureLen[T Float](buf []T, n int) []T {
	if n <= 0 {
		return buf[:0]
	}
	if cap(buf) >= n {
		return buf[:n]
	}
	return make([]T, n)
}
