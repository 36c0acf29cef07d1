package system_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/exascience/keyreduce"
	"github.com/exascience/keyreduce/generate"
	"github.com/exascience/keyreduce/parallel"
	"github.com/exascience/keyreduce/sequential"
	"github.com/exascience/keyreduce/system"
)

// mySystem records whether it has been dispatched to.
type mySystem struct {
	valid bool
}

func (s *mySystem) ReduceByKey(
	keys []int, values []int,
	keysOut keyreduce.Output[int], valuesOut keyreduce.Output[int],
	eq keyreduce.Equivalence[int], op keyreduce.Operator[int],
) (int, int) {
	s.valid = true
	return 0, 0
}

// myTag marks data so that reduce-by-key writes a sentinel instead of
// computing a result.
type myTag struct{}

func (myTag) ReduceByKey(
	keys []int, values []int,
	keysOut keyreduce.Output[int], valuesOut keyreduce.Output[int],
	eq keyreduce.Equivalence[int], op keyreduce.Operator[int],
) (int, int) {
	keysOut.Set(0, 13)
	return 0, 0
}

type DispatchSuite struct {
	suite.Suite
	keys, values []int
}

func (s *DispatchSuite) SetupTest() {
	s.keys = []int{11, 11, 21, 20, 21, 21, 21, 37, 37}
	s.values = []int{0, 1, 2, 3, 4, 5, 6, 7, 8}
}

func (s *DispatchSuite) TestHost() {
	require := require.New(s.T())
	keysOut, valuesOut := make(system.HostVector[int], 9), make(system.HostVector[int], 9)
	k, v := system.ReduceByKey(system.HostVector[int](s.keys), system.HostVector[int](s.values), keysOut, valuesOut)
	require.Equal(5, k)
	require.Equal(5, v)
	require.Equal(system.HostVector[int]{11, 21, 20, 21, 37}, keysOut[:k])
	require.Equal(system.HostVector[int]{1, 2, 3, 15, 15}, valuesOut[:v])
}

func (s *DispatchSuite) TestDevice() {
	require := require.New(s.T())
	keys := system.ToDevice(system.HostVector[int](s.keys))
	values := system.ToDevice(system.HostVector[int](s.values))
	keysOut, valuesOut := make(system.DeviceVector[int], 9), make(system.DeviceVector[int], 9)

	k, v := system.ReduceByKeyEq(keys, values, keysOut, valuesOut, func(x, y int) bool { return x/10 == y/10 })
	require.Equal(3, k)
	require.Equal(3, v)
	require.Equal(system.HostVector[int]{11, 21, 37}, system.ToHost(keysOut[:k]))
	require.Equal(system.HostVector[int]{1, 20, 15}, system.ToHost(valuesOut[:v]))
}

func (s *DispatchSuite) TestFunc() {
	require := require.New(s.T())
	keysOut, valuesOut := make([]int, 9), make([]int, 9)
	k, v := system.ReduceByKeyFunc(system.DeviceVector[int](s.keys), system.DeviceVector[int](s.values),
		keyreduce.Slice[int](keysOut), keyreduce.Slice[int](valuesOut),
		keyreduce.EqualTo[int], keyreduce.Plus[int])
	require.Equal(5, k)
	require.Equal(5, v)
	require.Equal([]int{11, 21, 20, 21, 37}, keysOut[:k])
	require.Equal([]int{1, 2, 3, 15, 15}, valuesOut[:v])
}

func (s *DispatchSuite) TestExplicit() {
	vec := make([]int, 1)
	sys := &mySystem{}
	system.ReduceByKeyOn[int, int](sys, vec[:0], vec[:0], keyreduce.Slice[int](vec), keyreduce.Slice[int](vec))
	s.True(sys.valid)
}

func (s *DispatchSuite) TestExplicitBuiltin() {
	require := require.New(s.T())
	for _, policy := range []keyreduce.Policy[int, int]{
		sequential.Policy[int, int]{},
		parallel.Policy[int, int]{Batches: 4},
	} {
		keysOut, valuesOut := make([]int, 9), make([]int, 9)
		k, _ := system.ReduceByKeyOnFunc(policy, s.keys, s.values,
			keyreduce.Slice[int](keysOut), keyreduce.Slice[int](valuesOut),
			keyreduce.EqualTo[int], keyreduce.Plus[int])
		require.Equal([]int{11, 21, 20, 21, 37}, keysOut[:k])
		require.Equal([]int{1, 2, 3, 15, 15}, valuesOut[:k])
	}
}

func (s *DispatchSuite) TestImplicit() {
	vec := make(system.DeviceVector[int], 1)
	system.ReduceByKeyTagged(
		system.Retag(myTag{}, vec[:0]),
		system.Retag(myTag{}, vec[:0]),
		system.Retag(myTag{}, vec),
		system.Retag(myTag{}, vec),
	)
	s.Equal(13, vec[0])
}

func (s *DispatchSuite) TestImplicitBuiltin() {
	require := require.New(s.T())
	tag := parallel.Policy[int, int]{Batches: 2}
	keysOut, valuesOut := make([]int, 9), make([]int, 9)
	k, _ := system.ReduceByKeyTagged(
		system.Retag(tag, s.keys), system.Retag(tag, s.values),
		system.Retag(tag, keysOut), system.Retag(tag, valuesOut),
	)
	require.Equal([]int{11, 21, 20, 21, 37}, keysOut[:k])
	require.Equal([]int{1, 2, 3, 15, 15}, valuesOut[:k])
}

func TestDispatchSuite(t *testing.T) {
	suite.Run(t, new(DispatchSuite))
}

func TestHostMatchesDevice(t *testing.T) {
	for _, size := range generate.Sizes() {
		for _, seed := range generate.Seeds() {
			keys := generate.Bools[int](size, seed)
			values, err := generate.Integers(size, 0, ^uint32(0), seed+generate.ValueSeedOffset)
			require.NoError(t, err)

			hKeys, hValues := make(system.HostVector[int], size), make(system.HostVector[uint32], size)
			hk, hv := system.ReduceByKey(system.HostVector[int](keys), system.HostVector[uint32](values), hKeys, hValues)

			dKeys, dValues := make(system.DeviceVector[int], size), make(system.DeviceVector[uint32], size)
			dk, dv := system.ReduceByKey(system.DeviceVector[int](keys), system.DeviceVector[uint32](values), dKeys, dValues)

			require.Equal(t, hk, dk, "size=%v seed=%v", size, seed)
			require.Equal(t, hv, dv, "size=%v seed=%v", size, seed)
			require.Equal(t, []int(hKeys[:hk]), []int(dKeys[:dk]), "size=%v seed=%v", size, seed)
			require.Equal(t, []uint32(hValues[:hv]), []uint32(dValues[:dv]), "size=%v seed=%v", size, seed)
		}
	}
}

func TestDiscardKeys(t *testing.T) {
	keys := system.DeviceVector[int]{11, 11, 21, 20, 21, 21, 21, 37, 37}
	values := system.DeviceVector[int]{0, 1, 2, 3, 4, 5, 6, 7, 8}
	valuesOut := make(system.DeviceVector[int], len(values))
	k, v := system.ReduceByKey(keys, values, keyreduce.Discard[int]{}, valuesOut)
	assert.Equal(t, 5, k)
	assert.Equal(t, 5, v)
	assert.Equal(t, system.DeviceVector[int]{1, 2, 3, 15, 15}, valuesOut[:v])
}

func TestMixedSpaces(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	system.SetLogger(zap.New(core))
	defer system.SetLogger(nil)

	keys := system.DeviceVector[int]{1, 1, 2}
	values := system.HostVector[int]{1, 2, 3}
	valuesOut := make(system.HostVector[int], 3)
	k, _ := system.ReduceByKey(keys, values, keyreduce.Discard[int]{}, valuesOut)
	assert.Equal(t, 2, k)
	assert.Equal(t, system.HostVector[int]{3, 3}, valuesOut[:k])
	assert.Equal(t, 1, logs.FilterMessage("mixed memory spaces, reducing on host").Len())
	require.Equal(t, 1, logs.FilterMessage("reduce by key").Len())
	assert.Equal(t, "host", logs.FilterMessage("reduce by key").All()[0].ContextMap()["space"])
}

func TestSetLoggerConcurrent(t *testing.T) {
	defer system.SetLogger(nil)
	core, _ := observer.New(zap.DebugLevel)
	keys := system.DeviceVector[int]{1, 1, 2, 3, 3}
	values := system.HostVector[int]{1, 2, 3, 4, 5}
	results := make([]int, 16)
	parallel.ForEach(len(results), func(i int) {
		if (i % 2) == 0 {
			system.SetLogger(zap.New(core))
		} else {
			system.SetLogger(nil)
		}
		k, _ := system.ReduceByKey(keys, values, keyreduce.Discard[int]{}, keyreduce.Discard[int]{})
		results[i] = k
	})
	for _, k := range results {
		assert.Equal(t, 3, k)
	}
}

func TestSpaceString(t *testing.T) {
	assert.Equal(t, "host", system.Host.String())
	assert.Equal(t, "device", system.Device.String())
	assert.Equal(t, "unknown", system.Space(7).String())
}
