package mutator

import (
	"encoding/binary"
	"math"

	"google.golang.org/protobuf/reflect/protoreflect"

	"github.com/jyh0082007/libprotobuf-mutator/rand"
)

// ScalarHooks holds the overridable per-primitive-type mutation
// functions (spec.md §6, "Overridable scalar hooks"). A Mutator embeds
// one; callers may replace any field to change how that primitive type
// is mutated without touching the traversal/sampling/repair logic.
type ScalarHooks struct {
	MutateInt32   func(int32) int32
	MutateInt64   func(int64) int64
	MutateUint32  func(uint32) uint32
	MutateUint64  func(uint64) uint64
	MutateFloat32 func(float32) float32
	MutateFloat64 func(float64) float64
	MutateBool    func(bool) bool

	// MutateEnum takes the current value's position in the enum's
	// declared value list and the number of declared values, and
	// returns a new position in [0, count). For count > 1 the result is
	// guaranteed different from index (spec.md §8, "Enum change law").
	MutateEnum func(index, count int) int

	MutateString func(v string, sizeHint int) string
}

// newScalarHooks returns the default hook set, grounded on
// ProtobufMutator::Mutate{Int32,...,String} (protobuf_mutator.cc
// lines 542–588): bit-flip for every fixed-width numeric type, logical
// negation for bool, modular rotation for enum, and the shrink/grow/
// bit-flip algorithm of spec.md §4.5 for strings.
func newScalarHooks(random *rand.Source) *ScalarHooks {
	return &ScalarHooks{
		MutateInt32:   func(v int32) int32 { return int32(flipBitsUint32(random, uint32(v))) },
		MutateInt64:   func(v int64) int64 { return int64(flipBitsUint64(random, uint64(v))) },
		MutateUint32:  func(v uint32) uint32 { return flipBitsUint32(random, v) },
		MutateUint64:  func(v uint64) uint64 { return flipBitsUint64(random, v) },
		MutateFloat32: func(v float32) float32 { return math.Float32frombits(flipBitsUint32(random, math.Float32bits(v))) },
		MutateFloat64: func(v float64) float64 { return math.Float64frombits(flipBitsUint64(random, math.Float64bits(v))) },
		MutateBool:    func(v bool) bool { return !v },
		MutateEnum:    func(index, count int) int { return mutateEnumIndex(random, index, count) },
		MutateString:  func(v string, sizeHint int) string { return mutateString(random, v, sizeHint) },
	}
}

func flipBitsUint32(random *rand.Source, v uint32) uint32 {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	random.FlipBit(buf[:])
	return binary.LittleEndian.Uint32(buf[:])
}

func flipBitsUint64(random *rand.Source, v uint64) uint64 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	random.FlipBit(buf[:])
	return binary.LittleEndian.Uint64(buf[:])
}

// mutateEnumIndex implements spec.md §4.4's enum rotation:
// new = (old + 1 + uniform_index(count-1)) mod count, which guarantees
// new != old whenever count > 1.
func mutateEnumIndex(random *rand.Source, index, count int) int {
	if count <= 1 {
		return index
	}
	return (index + 1 + random.UniformIndex(count-1)) % count
}

// mutateString implements spec.md §4.5: a shrink phase (erase at a
// uniform index while a fair coin favours it), a grow phase (insert a
// uniform byte at a uniform position while both the coin favours it and
// the buffer is still under sizeHint), and a final mandatory bit-flip
// when the result is non-empty.
func mutateString(random *rand.Source, v string, sizeHint int) string {
	buf := []byte(v)

	for len(buf) > 0 && random.BiasedBool(2) {
		i := random.UniformIndex(len(buf))
		buf = append(buf[:i], buf[i+1:]...)
	}

	for len(buf) < sizeHint && random.BiasedBool(2) {
		i := random.UniformIndex(len(buf) + 1)
		buf = append(buf, 0)
		copy(buf[i+1:], buf[i:])
		buf[i] = random.Uint8()
	}

	if len(buf) > 0 {
		random.FlipBit(buf)
	}
	return string(buf)
}

// mutateBytes applies the same algorithm as mutateString (spec.md §4.5
// groups string and bytes together) directly over a byte slice, without
// a string round-trip. Unlike the hooks above, it is not independently
// overridable: spec.md §6's external-interface list names only
// mutate_string among the overridable hooks.
func mutateBytes(random *rand.Source, v []byte, sizeHint int) []byte {
	buf := append([]byte(nil), v...)

	for len(buf) > 0 && random.BiasedBool(2) {
		i := random.UniformIndex(len(buf))
		buf = append(buf[:i], buf[i+1:]...)
	}

	for len(buf) < sizeHint && random.BiasedBool(2) {
		i := random.UniformIndex(len(buf) + 1)
		buf = append(buf, 0)
		copy(buf[i+1:], buf[i:])
		buf[i] = random.Uint8()
	}

	if len(buf) > 0 {
		random.FlipBit(buf)
	}
	return buf
}

// mutateValue is the eleven-arm type dispatch of spec.md §4.3/Design
// Notes, realised as a switch over protoreflect.Kind rather than a
// compile-time template instantiation. The MessageKind/GroupKind arm is
// intentionally a no-op: the spec's Design Notes call out that
// sub-message Mutate is absent by design, because mutation of a
// sub-message's contents happens through the recursive traversal
// selecting one of its scalar descendants, never as a whole-subtree
// operation.
func mutateValue(random *rand.Source, fd protoreflect.FieldDescriptor, hooks *ScalarHooks, v protoreflect.Value, sizeHint int) protoreflect.Value {
	switch fd.Kind() {
	case protoreflect.BoolKind:
		return protoreflect.ValueOfBool(hooks.MutateBool(v.Bool()))
	case protoreflect.Int32Kind, protoreflect.Sint32Kind, protoreflect.Sfixed32Kind:
		return protoreflect.ValueOfInt32(hooks.MutateInt32(int32(v.Int())))
	case protoreflect.Int64Kind, protoreflect.Sint64Kind, protoreflect.Sfixed64Kind:
		return protoreflect.ValueOfInt64(hooks.MutateInt64(v.Int()))
	case protoreflect.Uint32Kind, protoreflect.Fixed32Kind:
		return protoreflect.ValueOfUint32(hooks.MutateUint32(uint32(v.Uint())))
	case protoreflect.Uint64Kind, protoreflect.Fixed64Kind:
		return protoreflect.ValueOfUint64(hooks.MutateUint64(v.Uint()))
	case protoreflect.FloatKind:
		return protoreflect.ValueOfFloat32(hooks.MutateFloat32(float32(v.Float())))
	case protoreflect.DoubleKind:
		return protoreflect.ValueOfFloat64(hooks.MutateFloat64(v.Float()))
	case protoreflect.EnumKind:
		return protoreflect.ValueOfEnum(mutateEnumValue(hooks, fd, v.Enum()))
	case protoreflect.StringKind:
		return protoreflect.ValueOfString(hooks.MutateString(v.String(), sizeHint))
	case protoreflect.BytesKind:
		return protoreflect.ValueOfBytes(mutateBytes(random, v.Bytes(), sizeHint))
	case protoreflect.MessageKind, protoreflect.GroupKind:
		return v
	default:
		panic("mutator: unhandled field kind " + fd.Kind().String())
	}
}

// mutateEnumValue maps the declared-value-list index rotation of
// hooks.MutateEnum onto the enum's actual (possibly non-contiguous,
// non-ordered) wire numbers.
func mutateEnumValue(hooks *ScalarHooks, fd protoreflect.FieldDescriptor, cur protoreflect.EnumNumber) protoreflect.EnumNumber {
	values := fd.Enum().Values()
	count := values.Len()
	index := 0
	if evd := values.ByNumber(cur); evd != nil {
		index = evd.Index()
	}
	newIndex := hooks.MutateEnum(index, count)
	return values.Get(newIndex).Number()
}
