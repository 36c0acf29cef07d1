// Package keyreduce provides a reduce-by-key primitive for Go programs that
// can be executed either sequentially or in parallel, with identical results.
//
// Reduce-by-key receives a slice of keys and a slice of values of the same
// length, partitions the input into maximal runs of consecutive keys that are
// considered equivalent by an equivalence function, reduces the values of each
// run from left to right with an associative operator, and writes one key and
// one reduced value per run to two outputs, without gaps. Runs are defined by
// adjacency only: equal keys that are not next to each other end up in
// different runs.
//
// Keyreduce provides the following subpackages:
//
// keyreduce/sequential provides the single-threaded reference engine. It is
// the oracle against which the parallel engine is tested.
//
// keyreduce/parallel provides the segmented-reduction engine, which computes
// head-of-run flags, run indices by prefix sum, and per-run reductions in
// parallel batches.
//
// keyreduce/speculative provides parallel checks that terminate early as soon
// as their result is known.
//
// keyreduce/system provides host and device containers and the functions that
// dispatch a reduce-by-key call to an engine, either from the containers the
// data lives in, from an explicit policy, or from a tag attached to the data.
//
// keyreduce/generate provides deterministic, seeded input data for tests and
// benchmarks.
//
// The key output may be a Discard sink. The engines never read back what they
// have written, so the value output and the returned counts are correct even
// when the keys are thrown away.
package keyreduce
