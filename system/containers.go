package system

type (
	// A Sequence is input data for reduce-by-key that knows its memory
	// space.
	Sequence[T any] interface {
		Elems() []T
		Space() Space
	}

	// HostVector is host-resident data. It is a Sequence in the Host space
	// and a keyreduce.Output.
	HostVector[T any] []T

	// DeviceVector is device-resident data. It is a Sequence in the Device
	// space and a keyreduce.Output.
	DeviceVector[T any] []T

	// Tagged is data that has been wrapped with a tag by Retag. The tag
	// type S determines the engine used by ReduceByKeyTagged. Tagged is
	// also a keyreduce.Output that writes to Elems.
	Tagged[T, S any] struct {
		Elems []T
		Tag   S
	}
)

// Elems implements the method of the Sequence interface.
func (v HostVector[T]) Elems() []T { return v }

// Space implements the method of the Sequence interface.
func (HostVector[T]) Space() Space { return Host }

// Set implements the method of the keyreduce.Output interface.
func (v HostVector[T]) Set(i int, x T) { v[i] = x }

// Elems implements the method of the Sequence interface.
func (v DeviceVector[T]) Elems() []T { return v }

// Space implements the method of the Sequence interface.
func (DeviceVector[T]) Space() Space { return Device }

// Set implements the method of the keyreduce.Output interface.
func (v DeviceVector[T]) Set(i int, x T) { v[i] = x }

// Set implements the method of the keyreduce.Output interface.
func (t Tagged[T, S]) Set(i int, x T) { t.Elems[i] = x }

// ToDevice returns a copy of host data in the Device space.
func ToDevice[T any](v HostVector[T]) DeviceVector[T] {
	d := make(DeviceVector[T], len(v))
	copy(d, v)
	return d
}

// ToHost returns a copy of device data in the Host space.
func ToHost[T any](v DeviceVector[T]) HostVector[T] {
	h := make(HostVector[T], len(v))
	copy(h, v)
	return h
}

// Retag wraps elems with a tag, without copying them. Reducing the result
// with ReduceByKeyTagged calls the ReduceByKey method of the tag.
func Retag[S, T any](tag S, elems []T) Tagged[T, S] {
	return Tagged[T, S]{Elems: elems, Tag: tag}
}
