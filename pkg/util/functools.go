package util

func Map[T, V any](ts []T, fn func(T) V) []V {
	result := make([]V, len(ts))
	for i, t := range ts {
		result[i] = fn(t)
	}
	return result
}

func Filter[T any](ts []T, keep func(T) bool) []T {
	var result []T
	for _, t := range ts {
		if keep(t) {
			result = append(result, t)
		}
	}
	return result
}

// Chunk splits ts into consecutive slices of at most size elements.
// A non-positive size yields a single chunk holding everything.
func Chunk[T any](ts []T, size int) [][]T {
	if len(ts) == 0 {
		return nil
	}
	if size <= 0 || size >= len(ts) {
		return [][]T{ts}
	}
	chunks := make([][]T, 0, (len(ts)+size-1)/size)
	for start := 0; start < len(ts); start += size {
		end := min(start+size, len(ts))
		chunks = append(chunks, ts[start:end])
	}
	return chunks
}
