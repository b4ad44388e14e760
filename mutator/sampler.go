package mutator

import (
	"google.golang.org/protobuf/reflect/protoreflect"

	"github.com/jyh0082007/libprotobuf-mutator/rand"
	"github.com/jyh0082007/libprotobuf-mutator/reservoir"
)

// deletionThreshold and mutateWeight are protobuf_mutator.cc's
// kDeletionThreshold and kMutateWeight (spec.md §4.6).
const (
	deletionThreshold = 128
	mutateWeight      = 1_000_000
)

// mutationKind is the Mutation enum of protobuf_mutator.cc, minus the
// unused "None" sentinel (Go's zero-sampler-is-empty case covers that).
type mutationKind int

const (
	kindAdd mutationKind = iota
	kindMutate
	kindDelete
	kindCopy
)

// candidate is one (site, kind) pair offered to the reservoir — the
// MutationSampler::Result of protobuf_mutator.cc.
type candidate struct {
	field FieldInstance
	kind  mutationKind
}

// mutationSampler is the recursive traversal of spec.md §4.6: it visits
// every field of every message in the tree exactly once and offers zero
// or more weighted candidates to a single reservoir, so the whole tree
// is scanned in one pass without ever materialising the candidate list.
type mutationSampler struct {
	keepInitialized bool
	random          *rand.Source
	addWeight       uint64
	deleteWeight    uint64
	sampler         *reservoir.Sampler[candidate]
}

func newMutationSampler(keepInitialized bool, sizeHint int, random *rand.Source, msg protoreflect.Message) *mutationSampler {
	s := &mutationSampler{
		keepInitialized: keepInitialized,
		random:          random,
		addWeight:       mutateWeight / 10,
		deleteWeight:    mutateWeight / 10,
		sampler:         reservoir.New[candidate](random),
	}
	if sizeHint < deletionThreshold {
		// Getting close to the caller's size budget: discourage growth,
		// encourage shrinkage (spec.md §4.6 "Weights").
		adjustment := 0.5 * float64(sizeHint) / deletionThreshold
		s.addWeight = uint64(float64(s.addWeight) * adjustment)
		s.deleteWeight = uint64(float64(s.deleteWeight) * (1 - adjustment))
	}
	s.sample(msg)
	return s
}

func (s *mutationSampler) empty() bool { return s.sampler.Empty() }

func (s *mutationSampler) selected() candidate { return s.sampler.Selected() }

// copyWeight mirrors GetCopyWeight: copying a sub-message can grow the
// tree substantially, so it is priced like Add rather than like a cheap
// scalar Mutate.
func (s *mutationSampler) copyWeight(fd protoreflect.FieldDescriptor) uint64 {
	if fd.Kind() == protoreflect.MessageKind || fd.Kind() == protoreflect.GroupKind {
		return s.addWeight
	}
	return mutateWeight
}

func (s *mutationSampler) sample(msg protoreflect.Message) {
	fields := msg.Descriptor().Fields()
	seenOneof := map[protoreflect.Name]bool{}

	for i := 0; i < fields.Len(); i++ {
		fd := fields.Get(i)
		if fd.IsMap() {
			// Maps have no place in the spec's data model (spec.md §3
			// only defines optional/required/repeated scalar and message
			// fields plus choice groups); skip rather than misreport a
			// repeated-message candidate for them.
			continue
		}

		switch {
		case inOneof(fd):
			od := fd.ContainingOneof()
			if seenOneof[od.Name()] {
				break
			}
			seenOneof[od.Name()] = true
			s.sampleOneof(msg, od)
		case fd.IsList():
			s.sampleRepeated(msg, fd)
		default:
			s.sampleSingular(msg, fd)
		}

		s.recurse(msg, fd)
	}
}

func (s *mutationSampler) sampleOneof(msg protoreflect.Message, od protoreflect.OneofDescriptor) {
	member := od.Fields().Get(s.random.UniformIndex(od.Fields().Len()))
	s.sampler.Try(s.addWeight, candidate{singularField(msg, member), kindAdd})

	set := msg.WhichOneof(od)
	if set == nil {
		return
	}
	f := singularField(msg, set)
	if set.Kind() != protoreflect.MessageKind && set.Kind() != protoreflect.GroupKind {
		s.sampler.Try(mutateWeight, candidate{f, kindMutate})
	}
	s.sampler.Try(s.deleteWeight, candidate{f, kindDelete})
	s.sampler.Try(s.copyWeight(set), candidate{f, kindCopy})
}

func (s *mutationSampler) sampleRepeated(msg protoreflect.Message, fd protoreflect.FieldDescriptor) {
	size := msg.Get(fd).List().Len()
	s.sampler.Try(s.addWeight, candidate{repeatedField(msg, fd, s.random.UniformIndex(size+1)), kindAdd})

	if size == 0 {
		return
	}
	idx := s.random.UniformIndex(size)
	f := repeatedField(msg, fd, idx)
	if fd.Kind() != protoreflect.MessageKind && fd.Kind() != protoreflect.GroupKind {
		s.sampler.Try(mutateWeight, candidate{f, kindMutate})
	}
	s.sampler.Try(s.deleteWeight, candidate{f, kindDelete})
	s.sampler.Try(s.copyWeight(fd), candidate{f, kindCopy})
}

func (s *mutationSampler) sampleSingular(msg protoreflect.Message, fd protoreflect.FieldDescriptor) {
	if !msg.Has(fd) {
		s.sampler.Try(s.addWeight, candidate{singularField(msg, fd), kindAdd})
		return
	}
	f := singularField(msg, fd)
	if fd.Kind() != protoreflect.MessageKind && fd.Kind() != protoreflect.GroupKind {
		s.sampler.Try(mutateWeight, candidate{f, kindMutate})
	}
	if fd.Cardinality() != protoreflect.Required || !s.keepInitialized {
		s.sampler.Try(s.deleteWeight, candidate{f, kindDelete})
	}
	s.sampler.Try(s.copyWeight(fd), candidate{f, kindCopy})
}

// recurse descends into every present sub-message of fd, after
// candidates for fd itself have been offered — matching
// protobuf_mutator.cc's Sample, which recurses after the switch.
func (s *mutationSampler) recurse(msg protoreflect.Message, fd protoreflect.FieldDescriptor) {
	if fd.Kind() != protoreflect.MessageKind && fd.Kind() != protoreflect.GroupKind {
		return
	}
	if fd.IsList() {
		list := msg.Get(fd).List()
		for j := 0; j < list.Len(); j++ {
			s.sample(list.Get(j).Message())
		}
		return
	}
	if msg.Has(fd) {
		s.sample(msg.Get(fd).Message())
	}
}
