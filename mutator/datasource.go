package mutator

import (
	"google.golang.org/protobuf/reflect/protoreflect"

	"github.com/jyh0082007/libprotobuf-mutator/rand"
	"github.com/jyh0082007/libprotobuf-mutator/reservoir"
)

// dataSourceSampler implements spec.md §4.7: given a target site, walk
// the whole tree and collect every set field of the same schema type
// (same Kind; same enum type for enums; same message type for
// messages), weighting a repeated field by its size so each element is
// equally likely, then pick one with a second one-pass weighted
// reservoir. Grounded on DataSourceSampler::Sample
// (protobuf_mutator.cc lines 259–296).
//
// TODO: the source value is never checked against the destination
// value, so Copy may be a no-op — carried over verbatim from the
// original's own "make sure that values are different" TODO, which the
// original left unresolved.
type dataSourceSampler struct {
	match   protoreflect.FieldDescriptor
	random  *rand.Source
	sampler *reservoir.Sampler[FieldInstance]
}

func newDataSourceSampler(match FieldInstance, random *rand.Source, root protoreflect.Message) *dataSourceSampler {
	s := &dataSourceSampler{
		match:   match.Descriptor(),
		random:  random,
		sampler: reservoir.New[FieldInstance](random),
	}
	s.sample(root)
	return s
}

func (s *dataSourceSampler) empty() bool { return s.sampler.Empty() }

func (s *dataSourceSampler) selected() FieldInstance { return s.sampler.Selected() }

func (s *dataSourceSampler) compatible(fd protoreflect.FieldDescriptor) bool {
	if fd.Kind() != s.match.Kind() {
		return false
	}
	switch s.match.Kind() {
	case protoreflect.EnumKind:
		return fd.Enum() == s.match.Enum()
	case protoreflect.MessageKind, protoreflect.GroupKind:
		return fd.Message() == s.match.Message()
	default:
		return true
	}
}

func (s *dataSourceSampler) sample(msg protoreflect.Message) {
	fields := msg.Descriptor().Fields()
	for i := 0; i < fields.Len(); i++ {
		fd := fields.Get(i)
		if fd.IsMap() {
			continue
		}

		if fd.Kind() == protoreflect.MessageKind || fd.Kind() == protoreflect.GroupKind {
			if fd.IsList() {
				list := msg.Get(fd).List()
				for j := 0; j < list.Len(); j++ {
					s.sample(list.Get(j).Message())
				}
			} else if msg.Has(fd) {
				s.sample(msg.Get(fd).Message())
			}
		}

		if !s.compatible(fd) {
			continue
		}

		if fd.IsList() {
			size := msg.Get(fd).List().Len()
			if size > 0 {
				s.sampler.Try(uint64(size), repeatedField(msg, fd, s.random.UniformIndex(size)))
			}
		} else if msg.Has(fd) {
			s.sampler.Try(1, singularField(msg, fd))
		}
	}
}
