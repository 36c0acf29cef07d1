package internal

import (
	"fmt"
	"runtime"
)

// ComputeNofBatches divides the size of the range (high - low) by n. If n is 0,
// a default is used that takes runtime.GOMAXPROCS(0) into account. The result
// never exceeds the size of the range, and is 1 for an empty range.
func ComputeNofBatches(low, high, n int) (batches int) {
	switch size := high - low; {
	case size > 0:
		switch {
		case n == 0:
			batches = 2 * runtime.GOMAXPROCS(0)
		case n > 0:
			batches = n
		default:
			panic(fmt.Sprintf("invalid number of batches: %v", n))
		}
		if batches > size {
			batches = size
		}
	case size == 0:
		batches = 1
	default:
		panic(fmt.Sprintf("invalid range: %v:%v", low, high))
	}
	return
}

// Bounds splits the range from low to high into n batches whose sizes differ
// by at most one. Batch i covers the half-open interval from bounds[i] to
// bounds[i+1], so len(bounds) == n+1.
func Bounds(low, high, n int) (bounds []int) {
	if (low < 0) || (high < low) {
		panic(fmt.Sprintf("invalid range: %v:%v", low, high))
	}
	if n <= 0 {
		panic(fmt.Sprintf("invalid number of batches: %v", n))
	}
	size := high - low
	bounds = make([]int, n+1)
	for i := range bounds {
		bounds[i] = low + (size*i)/n
	}
	return
}
