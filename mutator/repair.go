package mutator

import (
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
)

// isInitialized answers the "is_initialized" query spec.md §6 assigns to
// the external schema/reflection collaborator: true iff no required
// field, anywhere in the transitive message tree, is unset. Delegated to
// google.golang.org/protobuf/proto.CheckInitialized rather than
// reimplemented, for the same reason the field handle delegates to
// protoreflect directly: the spec assumes this query as given.
func isInitialized(msg protoreflect.Message) bool {
	return proto.CheckInitialized(msg.Interface()) == nil
}

// repair is the bounded-depth descent of spec.md §4.11: for every unset
// required field it installs the schema default, then recurses into
// every present sub-message (singular or repeated) that is not already
// initialized. maxDepth only bounds the recursion: the required-default
// fill at the current level always runs, even once maxDepth reaches 0,
// matching InitializeMessage, which stops descending but never skips a
// level's own fields. This guards against mutually-required cycles in
// the schema, which may be unsatisfiable; on exhaustion repair simply
// stops recursing, leaving IsInitialized as the caller's diagnostic
// (spec.md §7). Grounded on ProtobufMutator::InitializeMessage
// (protobuf_mutator.cc lines 511–540).
func repair(msg protoreflect.Message, maxDepth int) {
	fields := msg.Descriptor().Fields()
	for i := 0; i < fields.Len(); i++ {
		fd := fields.Get(i)
		if fd.IsMap() {
			continue
		}

		if fd.Cardinality() == protoreflect.Required && !msg.Has(fd) {
			singularField(msg, fd).Apply(createDefault{})
		}

		if fd.Kind() != protoreflect.MessageKind && fd.Kind() != protoreflect.GroupKind {
			continue
		}
		if maxDepth == 0 {
			continue
		}

		if fd.IsList() {
			list := msg.Get(fd).List()
			for j := 0; j < list.Len(); j++ {
				sub := list.Get(j).Message()
				if !isInitialized(sub) {
					repair(sub, maxDepth-1)
				}
			}
		} else if msg.Has(fd) {
			sub := msg.Get(fd).Message()
			if !isInitialized(sub) {
				repair(sub, maxDepth-1)
			}
		}
	}
}
