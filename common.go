package keyreduce

type (
	// An Equivalence reports whether two keys belong to the same run.
	//
	// The engines call it with the earlier key as the first argument. The
	// sequential engine compares each candidate against the first key of the
	// current run, the parallel engine compares neighbors. Both agree as long
	// as the function is a proper equivalence relation.
	Equivalence[K any] func(a, b K) bool

	// An Operator combines two values of the same run. It must be
	// associative, but need not be commutative.
	Operator[V any] func(x, y V) V

	// Number is the set of types for which Plus is defined.
	Number interface {
		~int | ~int8 | ~int16 | ~int32 | ~int64 |
			~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr |
			~float32 | ~float64
	}

	/*
	  A Policy is an engine that implements reduce-by-key for keys of type
	  K and values of type V.

	  ReduceByKey reads len(keys) keys and as many values, writes one key
	  to keysOut and one value to valuesOut per run, starting at index 0,
	  and returns the number of entries written to each output. Neither
	  keys nor values are modified, and outputs are never read.

	  The sequential and parallel packages provide the two built-in
	  policies. User programs can provide their own policies, for example
	  to route calls for tagged data to a special engine.
	*/
	Policy[K, V any] interface {
		ReduceByKey(
			keys []K, values []V,
			keysOut Output[K], valuesOut Output[V],
			eq Equivalence[K], op Operator[V],
		) (keysEnd, valuesEnd int)
	}
)

// EqualTo is the default Equivalence, which uses the == operator.
func EqualTo[K comparable](a, b K) bool {
	return a == b
}

// Plus is the default Operator, which uses the + operator.
func Plus[V Number](x, y V) V {
	return x + y
}
