package parallel

import (
	"fmt"

	"github.com/exascience/keyreduce"
	"github.com/exascience/keyreduce/internal"
)

// batch summarizes the part of the input covered by one batch, as seen by
// the phases of ReduceByKey.
type batch[V any] struct {
	low, high int

	// heads is the number of head-of-run positions in the batch, and
	// firstRun the run index of the first of them.
	heads, firstRun int

	// lead is the reduction of the positions before the first head of the
	// batch. It is only meaningful if hasLead is true, which is the case
	// when the batch starts in the middle of a run.
	lead    V
	hasLead bool

	// tail is the reduction of the last run that starts in the batch, up
	// to the end of the batch. That run may continue in later batches, so
	// its value is written in the carry phase.
	tail V
}

/*
ReduceByKey receives keys and values, and writes one key and one reduced
value for each maximal run of consecutive equivalent keys to keysOut and
valuesOut, computing the result in parallel batches. It returns the number
of runs twice, as the number of entries written to keysOut and valuesOut.

Only the first min(len(keys), len(values)) positions are reduced. The
batches are determined by dividing up that size by n. If n is 0, a
reasonable default is used that takes runtime.GOMAXPROCS(0) into account.

ReduceByKey proceeds in phases that are separated by barriers. First,
each batch computes the head-of-run flags for its positions, where a
position p is a head if p is 0 or eq(keys[p-1], keys[p]) is false, and
counts them. eq is invoked exactly once per adjacent pair. Second, an
exclusive prefix sum over the head counts determines the run index of
the first head of each batch; the run index of any position is that
offset plus the number of heads in the batch up to and including the
position, minus one. Third, each batch reduces its values from left to
right, restarting at each head; each head writes its key at its run
index, and each run that both starts and ends in the batch writes its
value. Finally, the partial reductions of runs that cross batch
boundaries are combined from left to right and written at their run
indices.

Within each run, values are combined in input order, but partial results
of different batches are combined with each other, so op is applied in a
different association than by the sequential engine. For associative
operators on exact types, such as integer addition, the results are
identical. The value of a run of length one is its only value; op is not
invoked for it.

Each run index is written by exactly one goroutine, so keysOut and
valuesOut need only support concurrent writes to distinct indices. If
the size is 0, ReduceByKey returns 0, 0 without invoking any function.

ReduceByKey panics if n < 0. If eq or op panic, ReduceByKey panics with
the left-most recovered panic value.
*/
func ReduceByKey[K, V any](
	keys []K, values []V,
	keysOut keyreduce.Output[K], valuesOut keyreduce.Output[V],
	eq keyreduce.Equivalence[K], op keyreduce.Operator[V],
	n int,
) (keysEnd, valuesEnd int) {
	if n < 0 {
		panic(fmt.Sprintf("invalid number of batches: %v", n))
	}
	size := min(len(keys), len(values))
	if size == 0 {
		return 0, 0
	}
	nofBatches := internal.ComputeNofBatches(0, size, n)
	bounds := internal.Bounds(0, size, nofBatches)
	batches := make([]batch[V], nofBatches)
	heads := make([]bool, size)

	// flags
	ForEach(nofBatches, func(b int) {
		low, high := bounds[b], bounds[b+1]
		bt := &batches[b]
		bt.low, bt.high = low, high
		p := low
		if p == 0 {
			heads[0] = true
			bt.heads = 1
			p = 1
		}
		for ; p < high; p++ {
			if !eq(keys[p-1], keys[p]) {
				heads[p] = true
				bt.heads++
			}
		}
	})

	// scan
	runs := 0
	for b := range batches {
		batches[b].firstRun = runs
		runs += batches[b].heads
	}

	// segmented reduce and compaction
	ForEach(nofBatches, func(b int) {
		bt := &batches[b]
		p := bt.low
		if !heads[p] {
			acc := values[p]
			for p++; (p < bt.high) && !heads[p]; p++ {
				acc = op(acc, values[p])
			}
			bt.lead, bt.hasLead = acc, true
		}
		run := bt.firstRun
		for p < bt.high {
			keysOut.Set(run, keys[p])
			acc := values[p]
			for p++; (p < bt.high) && !heads[p]; p++ {
				acc = op(acc, values[p])
			}
			if run == bt.firstRun+bt.heads-1 {
				bt.tail = acc
				break
			}
			valuesOut.Set(run, acc)
			run++
		}
	})

	// carry
	var carry V
	for b := range batches {
		bt := &batches[b]
		if bt.hasLead {
			carry = op(carry, bt.lead)
		}
		if bt.heads == 0 {
			continue
		}
		if b > 0 {
			valuesOut.Set(bt.firstRun-1, carry)
		}
		carry = bt.tail
	}
	valuesOut.Set(runs-1, carry)

	return runs, runs
}

// Policy is the keyreduce.Policy of the parallel engine. Batches is passed
// as the batch count n to ReduceByKey.
type Policy[K, V any] struct {
	Batches int
}

// ReduceByKey implements the method of the keyreduce.Policy interface.
func (p Policy[K, V]) ReduceByKey(
	keys []K, values []V,
	keysOut keyreduce.Output[K], valuesOut keyreduce.Output[V],
	eq keyreduce.Equivalence[K], op keyreduce.Operator[V],
) (keysEnd, valuesEnd int) {
	return ReduceByKey(keys, values, keysOut, valuesOut, eq, op, p.Batches)
}
