package mutator

import (
	"google.golang.org/protobuf/reflect/protoreflect"

	"github.com/jyh0082007/libprotobuf-mutator/rand"
)

// CrossOver recombines source (left untouched) into target, which must
// share the same schema (spec.md §6: "source.schema == target.schema
// required"). It panics if the descriptors differ — an invariant
// violation per spec.md §7, not a recoverable error.
//
// target is mutated in place; the caller must not hold external aliases
// into it across this call (spec.md §5). source is genuinely left
// untouched: every message-typed value pulled from it crosses over
// through appendField/copyField (transform.go), which clone before
// storing, so no slot in target ever aliases a sub-message still owned
// by source — including the cross-blend step below, which merges
// elements of target's own list (its original elements and the clones
// appended from source) into each other.
func (m *Mutator) CrossOver(source protoreflect.Message, target protoreflect.Message) {
	if source.Descriptor() != target.Descriptor() {
		panic("mutator: CrossOver requires source and target to share a schema")
	}

	crossOver(source, target, m.random)

	if m.keepInitialized && !isInitialized(target) {
		repair(target, maxInitializeDepth)
	}
}

// crossOver is CrossOverImpl (protobuf_mutator.cc lines 438–509): for
// every field, recombine src into dst per spec.md §4.10's per-cardinality
// rule. Unlike the mutation sampler, it does not special-case oneof
// membership — every field, whether or not it belongs to a choice group,
// is visited by the same three branches below, exactly as the original
// does (Set/Clear already maintain the choice-group invariant).
func crossOver(src, dst protoreflect.Message, random *rand.Source) {
	fields := dst.Descriptor().Fields()
	for i := 0; i < fields.Len(); i++ {
		fd := fields.Get(i)
		if fd.IsMap() {
			continue
		}

		switch {
		case fd.IsList():
			crossOverRepeated(src, dst, fd, random)
		case fd.Kind() == protoreflect.MessageKind || fd.Kind() == protoreflect.GroupKind:
			crossOverSingularMessage(src, dst, fd, random)
		default:
			crossOverScalar(src, dst, fd, random)
		}
	}
}

func crossOverRepeated(src, dst protoreflect.Message, fd protoreflect.FieldDescriptor, random *rand.Source) {
	srcLen := src.Get(fd).List().Len()
	list := dst.Mutable(fd).List()
	size := list.Len()

	for j := 0; j < srcLen; j++ {
		repeatedField(dst, fd, size).Apply(appendField{repeatedField(src, fd, j)})
		size++
	}

	// Fisher-Yates shuffle of the combined list.
	for j := 0; j < size; j++ {
		if k := random.UniformIndex(size - j); k != 0 {
			a, b := list.Get(j), list.Get(j+k)
			list.Set(j, b)
			list.Set(j+k, a)
		}
	}

	keep := random.UniformIndex(size + 1)

	if fd.Kind() == protoreflect.MessageKind || fd.Kind() == protoreflect.GroupKind {
		remove := size - keep
		cross := random.UniformIndex(min(keep, remove) + 1)
		for c := 0; c < cross; c++ {
			k := random.UniformIndex(keep)
			r := keep + random.UniformIndex(remove)
			crossOver(list.Get(r).Message(), list.Get(k).Message(), random)
		}
	}

	list.Truncate(keep)
}

func crossOverSingularMessage(src, dst protoreflect.Message, fd protoreflect.FieldDescriptor, random *rand.Source) {
	switch {
	case !src.Has(fd):
		if random.BiasedBool(2) {
			singularField(dst, fd).Apply(deleteField{})
		}
	case !dst.Has(fd):
		if random.BiasedBool(2) {
			singularField(dst, fd).Apply(copyField{singularField(src, fd)})
		}
	default:
		crossOver(src.Get(fd).Message(), dst.Mutable(fd).Message(), random)
	}
}

func crossOverScalar(src, dst protoreflect.Message, fd protoreflect.FieldDescriptor, random *rand.Source) {
	if !random.BiasedBool(2) {
		return
	}
	if src.Has(fd) {
		singularField(dst, fd).Apply(copyField{singularField(src, fd)})
	} else {
		singularField(dst, fd).Apply(deleteField{})
	}
}
