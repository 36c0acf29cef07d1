/*
Package system provides host and device containers, and the functions
that dispatch a reduce-by-key call to an engine.

There are three ways to select an engine.

ReduceByKey, ReduceByKeyEq, and ReduceByKeyFunc look at the memory space
of their inputs. Data in HostVectors is reduced by the sequential engine,
data in DeviceVectors by the parallel engine. The space is resolved once
per call.

ReduceByKeyOn and ReduceByKeyOnFunc receive an explicit policy as their
first argument, and always call that policy.

ReduceByKeyTagged and ReduceByKeyTaggedFunc receive data that has been
wrapped with Retag. The tag type must itself implement
keyreduce.Policy for the key and value types, and its ReduceByKey method
is called. Which method that is follows from the static types of the
arguments, so there is no fallback at run time: a tag type without a
matching method does not compile.
*/
package system

import (
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/exascience/keyreduce"
	"github.com/exascience/keyreduce/parallel"
	"github.com/exascience/keyreduce/sequential"
)

// A Space identifies the memory space a Sequence lives in, and thereby the
// engine that reduces it by default.
type Space uint8

const (
	// Host data is reduced by the sequential engine.
	Host Space = iota
	// Device data is reduced by the parallel engine.
	Device
)

func (s Space) String() string {
	switch s {
	case Host:
		return "host"
	case Device:
		return "device"
	default:
		return "unknown"
	}
}

var logger atomic.Pointer[zap.Logger]

func init() {
	logger.Store(zap.NewNop())
}

// SetLogger sets the logger that receives debug messages about dispatch
// decisions. A nil logger disables logging. SetLogger may be called while
// reductions are running.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger.Store(l)
}

// policyFor maps a space to its engine.
func policyFor[K, V any](space Space) keyreduce.Policy[K, V] {
	switch space {
	case Device:
		return parallel.Policy[K, V]{}
	default:
		return sequential.Policy[K, V]{}
	}
}

// resolve determines the space of a call. Mixed spaces are reduced on the
// host.
func resolve(keys, values Space) Space {
	if keys == values {
		return keys
	}
	logger.Load().Debug("mixed memory spaces, reducing on host",
		zap.Stringer("keys", keys), zap.Stringer("values", values))
	return Host
}

// ReduceByKey reduces keys and values with the engine of their memory
// space, using EqualTo as the equivalence and Plus as the operator. It
// returns the number of entries written to keysOut and valuesOut.
func ReduceByKey[K comparable, V keyreduce.Number](
	keys Sequence[K], values Sequence[V],
	keysOut keyreduce.Output[K], valuesOut keyreduce.Output[V],
) (keysEnd, valuesEnd int) {
	return ReduceByKeyFunc(keys, values, keysOut, valuesOut, keyreduce.EqualTo[K], keyreduce.Plus[V])
}

// ReduceByKeyEq is like ReduceByKey, but uses eq as the equivalence.
func ReduceByKeyEq[K any, V keyreduce.Number](
	keys Sequence[K], values Sequence[V],
	keysOut keyreduce.Output[K], valuesOut keyreduce.Output[V],
	eq keyreduce.Equivalence[K],
) (keysEnd, valuesEnd int) {
	return ReduceByKeyFunc(keys, values, keysOut, valuesOut, eq, keyreduce.Plus[V])
}

// ReduceByKeyFunc is like ReduceByKey, but uses eq as the equivalence and
// op as the operator.
func ReduceByKeyFunc[K, V any](
	keys Sequence[K], values Sequence[V],
	keysOut keyreduce.Output[K], valuesOut keyreduce.Output[V],
	eq keyreduce.Equivalence[K], op keyreduce.Operator[V],
) (keysEnd, valuesEnd int) {
	space := resolve(keys.Space(), values.Space())
	logger.Load().Debug("reduce by key", zap.Stringer("space", space), zap.Int("size", len(keys.Elems())))
	return policyFor[K, V](space).ReduceByKey(keys.Elems(), values.Elems(), keysOut, valuesOut, eq, op)
}

// ReduceByKeyOn reduces keys and values with the given policy, using
// EqualTo as the equivalence and Plus as the operator.
func ReduceByKeyOn[K comparable, V keyreduce.Number](
	policy keyreduce.Policy[K, V],
	keys []K, values []V,
	keysOut keyreduce.Output[K], valuesOut keyreduce.Output[V],
) (keysEnd, valuesEnd int) {
	return policy.ReduceByKey(keys, values, keysOut, valuesOut, keyreduce.EqualTo[K], keyreduce.Plus[V])
}

// ReduceByKeyOnFunc reduces keys and values with the given policy, using
// eq as the equivalence and op as the operator.
func ReduceByKeyOnFunc[K, V any](
	policy keyreduce.Policy[K, V],
	keys []K, values []V,
	keysOut keyreduce.Output[K], valuesOut keyreduce.Output[V],
	eq keyreduce.Equivalence[K], op keyreduce.Operator[V],
) (keysEnd, valuesEnd int) {
	return policy.ReduceByKey(keys, values, keysOut, valuesOut, eq, op)
}

// ReduceByKeyTagged reduces tagged keys and values with the policy
// implemented by their tag type, using EqualTo as the equivalence and Plus
// as the operator.
func ReduceByKeyTagged[K comparable, V keyreduce.Number, S keyreduce.Policy[K, V]](
	keys Tagged[K, S], values Tagged[V, S],
	keysOut keyreduce.Output[K], valuesOut keyreduce.Output[V],
) (keysEnd, valuesEnd int) {
	return ReduceByKeyTaggedFunc(keys, values, keysOut, valuesOut, keyreduce.EqualTo[K], keyreduce.Plus[V])
}

// ReduceByKeyTaggedFunc is like ReduceByKeyTagged, but uses eq as the
// equivalence and op as the operator.
func ReduceByKeyTaggedFunc[K, V any, S keyreduce.Policy[K, V]](
	keys Tagged[K, S], values Tagged[V, S],
	keysOut keyreduce.Output[K], valuesOut keyreduce.Output[V],
	eq keyreduce.Equivalence[K], op keyreduce.Operator[V],
) (keysEnd, valuesEnd int) {
	return keys.Tag.ReduceByKey(keys.Elems, values.Elems, keysOut, valuesOut, eq, op)
}
