/*
Package speculative provides parallel checks that terminate early when
they can.

RangeAnd and RangeOr terminate early if the final return value is known
early, that is if any of the predicates invoked in parallel returns false
for RangeAnd, or true for RangeOr. HasEquivalentPair builds on RangeOr,
and IsReduced on HasEquivalentPair.

Panics in the predicates are recovered and passed on to the invoking
goroutine. However, panics may not propagate in case the functions
terminate early because of a known return value.

None of the functions stop the execution of predicates that may still be
running in parallel after an early return. Predicates that run long
should check some form of shared state, like the flag polled by
HasEquivalentPair, to stop on their own.
*/
package speculative

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/exascience/keyreduce"
	"github.com/exascience/keyreduce/internal"
)

/*
RangeAnd receives a range, a batch count n, and a range predicate
function f, divides the range into batches, and invokes the range
predicate for each of these batches in parallel, covering the half-open
interval from low to high, including low but excluding high.

The range is specified by a low and high integer, with low <= high. The
batches are determined by dividing up the size of the range (high - low)
by n. If n is 0, a reasonable default is used that takes
runtime.GOMAXPROCS(0) into account.

The range predicate is invoked for each batch in its own goroutine, with
0 <= low <= high, and RangeAnd returns true if all of them return true;
or RangeAnd returns false when at least one of them returns false,
without waiting for the other range predicates to terminate.

RangeAnd panics if high < low, or if n < 0.

If one or more range predicate invocations panic, the corresponding
goroutines recover the panics, and RangeAnd may eventually panic with
the left-most recovered panic value.
*/
func RangeAnd(low, high, n int, f func(low, high int) bool) bool {
	var recur func(int, int, int) bool
	recur = func(low, high, n int) bool {
		switch {
		case n == 1:
			return f(low, high)
		case n > 1:
			batchSize := ((high - low - 1) / n) + 1
			half := n / 2
			mid := low + batchSize*half
			if mid >= high {
				return f(low, high)
			}
			var b1 bool
			var p interface{}
			var wg sync.WaitGroup
			wg.Add(1)
			go func() {
				defer func() {
					p = recover()
					wg.Done()
				}()
				b1 = recur(mid, high, n-half)
			}()
			if !recur(low, mid, half) {
				return false
			}
			wg.Wait()
			if p != nil {
				panic(p)
			}
			return b1
		default:
			panic(fmt.Sprintf("invalid number of batches: %v", n))
		}
	}
	return recur(low, high, internal.ComputeNofBatches(low, high, n))
}

// RangeOr is like RangeAnd, but returns true as soon as one invocation of
// f returns true, and false if all of them return false.
func RangeOr(low, high, n int, f func(low, high int) bool) bool {
	return !RangeAnd(low, high, n, func(low, high int) bool {
		return !f(low, high)
	})
}

// HasEquivalentPair reports whether two adjacent keys are equivalent under
// eq. The check runs in n parallel batches, and batches that are still
// running poll a shared flag and stop once a pair has been found anywhere.
func HasEquivalentPair[K any](keys []K, eq keyreduce.Equivalence[K], n int) bool {
	if len(keys) < 2 {
		return false
	}
	var found atomic.Bool
	return RangeOr(1, len(keys), n, func(low, high int) bool {
		for i := low; i < high; i++ {
			if ((i % 1024) == 0) && found.Load() {
				return true
			}
			if eq(keys[i-1], keys[i]) {
				found.Store(true)
				return true
			}
		}
		return false
	})
}

// IsReduced reports whether every run of keys has length one. For such
// keys, reduce-by-key copies keys and values unchanged.
func IsReduced[K any](keys []K, eq keyreduce.Equivalence[K], n int) bool {
	return !HasEquivalentPair(keys, eq, n)
}
