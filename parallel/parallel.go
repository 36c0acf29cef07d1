// Package parallel provides the parallel reduce-by-key engine, together with
// the small set of fork/join helpers it is built from.
//
// All functions in this package recover panics in the goroutines they
// spawn, wait for all goroutines to terminate, and then panic again in the
// invoking goroutine with the left-most recovered panic value, unchanged.
package parallel

import (
	"fmt"
	"sync"

	"github.com/exascience/keyreduce/internal"
)

// Do receives zero or more thunks and executes them in parallel.
//
// Each thunk is invoked in its own goroutine, and Do returns only
// when all thunks have terminated.
//
// If one or more thunks panic, the corresponding goroutines recover
// the panics, and Do eventually panics with the left-most
// recovered panic value.
func Do(thunks ...func()) {
	switch len(thunks) {
	case 0:
		return
	case 1:
		thunks[0]()
		return
	}
	var p0, p1 interface{}
	var wg sync.WaitGroup
	wg.Add(1)
	half := len(thunks) / 2
	go func() {
		defer func() {
			p1 = recover()
			wg.Done()
		}()
		Do(thunks[half:]...)
	}()
	func() {
		defer func() {
			p0 = recover()
		}()
		Do(thunks[:half]...)
	}()
	wg.Wait()
	if p0 != nil {
		panic(p0)
	}
	if p1 != nil {
		panic(p1)
	}
}

// Range receives a range, a batch count n, and a range function f,
// divides the range into batches, and invokes the range function for
// each of these batches in parallel, covering the half-open interval
// from low to high, including low but excluding high.
//
// The range is specified by a low and high integer, with low <=
// high. The batches are determined by dividing up the size of the
// range (high - low) by n. If n is 0, a reasonable default is used
// that takes runtime.GOMAXPROCS(0) into account.
//
// The range function is invoked for each batch in its own goroutine,
// with 0 <= low <= high, and Range returns only when all range
// functions have terminated.
//
// Range panics if high < low, or if n < 0.
//
// If one or more range function invocations panic, the corresponding
// goroutines recover the panics, and Range eventually panics with
// the left-most recovered panic value.
func Range(low, high, n int, f func(low, high int)) {
	var recur func(int, int, int)
	recur = func(low, high, n int) {
		switch {
		case n == 1:
			f(low, high)
		case n > 1:
			batchSize := ((high - low - 1) / n) + 1
			half := n / 2
			mid := low + batchSize*half
			if mid >= high {
				f(low, high)
				return
			}
			Do(
				func() { recur(low, mid, half) },
				func() { recur(mid, high, n-half) },
			)
		default:
			panic(fmt.Sprintf("invalid number of batches: %v", n))
		}
	}
	recur(low, high, internal.ComputeNofBatches(low, high, n))
}

// ForEach invokes f once for each index from 0 to n-1, all in parallel.
// It is a shorthand for Range with one index per batch.
func ForEach(n int, f func(i int)) {
	Range(0, n, n, func(low, high int) {
		for i := low; i < high; i++ {
			f(i)
		}
	})
}
