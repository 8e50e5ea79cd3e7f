package utils

// Chunk splits s into consecutive slices of at most size elements.
// The returned slices share the backing array of s.
func Chunk[T any](s []T, size int) [][]T {
	if size <= 0 || len(s) == 0 {
		return nil
	}

	chunks := make([][]T, 0, (len(s)+size-1)/size)
	for size < len(s) {
		s, chunks = s[size:], append(chunks, s[:size:size])
	}
	return append(chunks, s)
}
