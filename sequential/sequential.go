// Package sequential provides the sequential reduce-by-key engine.
//
// It is used for host-resident data, and it is the reference against which
// the results of the parallel engine are checked. Its behavior is the
// definition of what reduce-by-key computes.
package sequential

import "github.com/exascience/keyreduce"

/*
ReduceByKey receives keys and values, and writes one key and one reduced
value for each maximal run of consecutive equivalent keys to keysOut and
valuesOut, in a single pass from left to right. It returns the number of
runs twice, as the number of entries written to keysOut and valuesOut.

The key written for a run is the first key of the run. Each following
key is compared against that first key with eq(first, candidate), not
against its immediate predecessor; this only makes a difference if eq is
not transitive. The value written for a run is the left fold of its
values with op, so a run of length one yields its only value without
invoking op.

Only the first min(len(keys), len(values)) positions are reduced. If
that is 0, ReduceByKey returns 0, 0 without accessing any of its
arguments.
*/
func ReduceByKey[K, V any](
	keys []K, values []V,
	keysOut keyreduce.Output[K], valuesOut keyreduce.Output[V],
	eq keyreduce.Equivalence[K], op keyreduce.Operator[V],
) (keysEnd, valuesEnd int) {
	size := min(len(keys), len(values))
	if size == 0 {
		return 0, 0
	}
	runs := 0
	anchor, acc := keys[0], values[0]
	for i := 1; i < size; i++ {
		if eq(anchor, keys[i]) {
			acc = op(acc, values[i])
			continue
		}
		keysOut.Set(runs, anchor)
		valuesOut.Set(runs, acc)
		runs++
		anchor, acc = keys[i], values[i]
	}
	keysOut.Set(runs, anchor)
	valuesOut.Set(runs, acc)
	runs++
	return runs, runs
}

// Policy is the keyreduce.Policy of the sequential engine.
type Policy[K, V any] struct{}

// ReduceByKey implements the method of the keyreduce.Policy interface.
func (Policy[K, V]) ReduceByKey(
	keys []K, values []V,
	keysOut keyreduce.Output[K], valuesOut keyreduce.Output[V],
	eq keyreduce.Equivalence[K], op keyreduce.Operator[V],
) (keysEnd, valuesEnd int) {
	return ReduceByKey(keys, values, keysOut, valuesOut, eq, op)
}
