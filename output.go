package keyreduce

type (
	// An Output is a write-only destination for the keys or values
	// produced by reduce-by-key. Set stores v at index i. Engines call Set
	// exactly once per index, for indices 0 up to the number of runs, and
	// may call it from several goroutines at once for different indices.
	Output[T any] interface {
		Set(i int, v T)
	}

	// Slice is an Output backed by a slice. The slice must be at least as
	// long as the number of runs.
	Slice[T any] []T

	// Discard is an Output that accepts every value and retains none.
	Discard[T any] struct{}
)

// Set implements the method of the Output interface.
func (s Slice[T]) Set(i int, v T) {
	s[i] = v
}

// Set implements the method of the Output interface.
func (Discard[T]) Set(int, T) {}
