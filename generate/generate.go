// Package generate provides deterministic, seeded input data for testing and
// benchmarking reduce-by-key.
//
// Element i of a generated slice is derived from a murmur3 hash of i under
// the seed alone, so the same arguments always yield the same data, no
// matter how the generation is split up across goroutines.
package generate

import (
	"encoding/binary"

	"github.com/pkg/errors"
	"github.com/spaolacci/murmur3"

	"github.com/exascience/keyreduce/parallel"
)

type (
	// Integer is the set of integer element types.
	Integer interface {
		~int | ~int8 | ~int16 | ~int32 | ~int64 |
			~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
	}

	// Float is the set of floating-point element types.
	Float interface {
		~float32 | ~float64
	}
)

// ValueSeedOffset is added to a key seed to obtain the seed for the
// matching values, so that keys and values are not correlated.
const ValueSeedOffset uint32 = 123456

// Sizes returns the input sizes used by the comparison tests.
func Sizes() []int {
	return []int{0, 1, 2, 12, 63, 64, 211, 256, 344, 1024, 2048, 5000, 34567, (1 << 16) - 1220}
}

// Seeds returns the seeds used by the comparison tests.
func Seeds() []uint32 {
	return []uint32{0, 1, 42, 0x9e3779b9}
}

func hash(i int, seed uint32) uint64 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(i))
	return murmur3.Sum64WithSeed(buf[:], seed)
}

// Check validates generator arguments.
func Check[T Integer | Float](size int, min, max T) error {
	if size < 0 {
		return errors.Errorf("invalid size: %v", size)
	}
	if max < min {
		return errors.Errorf("invalid value range: [%v, %v]", min, max)
	}
	return nil
}

func fill[T any](size int, seed uint32, f func(h uint64) T) []T {
	result := make([]T, size)
	parallel.Range(0, size, 0, func(low, high int) {
		for i := low; i < high; i++ {
			result[i] = f(hash(i, seed))
		}
	})
	return result
}

// Integers returns size integers from the closed interval [min, max].
func Integers[T Integer](size int, min, max T, seed uint32) ([]T, error) {
	if err := Check(size, min, max); err != nil {
		return nil, errors.Wrap(err, "generate integers")
	}
	span := uint64(max) - uint64(min) + 1
	return fill(size, seed, func(h uint64) T {
		if span == 0 {
			return min + T(h)
		}
		return min + T(h%span)
	}), nil
}

// Floats returns size floating-point numbers from the interval [min, max].
func Floats[T Float](size int, min, max T, seed uint32) ([]T, error) {
	if err := Check(size, min, max); err != nil {
		return nil, errors.Wrap(err, "generate floats")
	}
	return fill(size, seed, func(h uint64) T {
		u := float64(h>>11) / ((1 << 53) - 1)
		return min + T(u*(float64(max)-float64(min)))
	}), nil
}

// Bools returns size keys from {0, 1}, which produces many short runs.
func Bools[T Integer](size int, seed uint32) []T {
	return fill(size, seed, func(h uint64) T {
		return T(h & 1)
	})
}
