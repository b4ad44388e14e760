package mutator

import (
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"

	"github.com/jyh0082007/libprotobuf-mutator/rand"
)

// Transformation is the generic-over-field-type structural edit capability
// described in spec.md §4.8 and Design Notes ("define a single
// Transformation capability with one entry point... tagged variants
// replace templates"). Each concrete transformation below corresponds to
// one *FieldTransformation struct in protobuf_mutator.cc.
type Transformation interface {
	Apply(f FieldInstance)
}

// createDefault loads the schema default for the site and installs it —
// protobuf_mutator.cc's CreateDefaultFieldTransformation.
type createDefault struct{}

func (createDefault) Apply(f FieldInstance) {
	f.Create(f.Default())
}

// deleteField removes the site — DeleteFieldTransformation.
type deleteField struct{}

func (deleteField) Apply(f FieldInstance) {
	f.Delete()
}

// copyField overwrites an existing site with a value loaded from another
// field of the same schema type — CopyFieldTransformation.
type copyField struct {
	source FieldInstance
}

func (t copyField) Apply(f FieldInstance) {
	f.Store(cloneIfMessage(f.Descriptor(), t.source.Load()))
}

// appendField installs a value loaded from another field at a *new*
// site (used by cross-over to extend a repeated field) —
// AppendFieldTransformation.
type appendField struct {
	source FieldInstance
}

func (t appendField) Apply(f FieldInstance) {
	f.Create(cloneIfMessage(f.Descriptor(), t.source.Load()))
}

// cloneIfMessage deep-copies v when fd is message- or group-typed, and
// returns v unchanged otherwise. ConstFieldInstance::Load in the original
// loads message-typed values into a fresh unique_ptr<Message> for exactly
// this reason: protoreflect.Message.Set/List.Set/List.Append store the
// protoreflect.Value's Message reference as-is, so without this, Copy and
// Append would alias another child in the same tree rather than giving
// the destination its own copy — breaking the value tree's ownership
// invariant (spec.md §3, Design Notes: "the value tree is acyclic").
func cloneIfMessage(fd protoreflect.FieldDescriptor, v protoreflect.Value) protoreflect.Value {
	if fd.Kind() != protoreflect.MessageKind && fd.Kind() != protoreflect.GroupKind {
		return v
	}
	return protoreflect.ValueOfMessage(proto.Clone(v.Message().Interface()).ProtoReflect())
}

// mutateField loads the current value, scalar-mutates it, and stores it
// back — MutateTransformation.
type mutateField struct {
	random   *rand.Source
	hooks    *ScalarHooks
	sizeHint int
}

func (t mutateField) Apply(f FieldInstance) {
	v := mutateValue(t.random, f.Descriptor(), t.hooks, f.Load(), t.sizeHint)
	f.Store(v)
}

// createMutated loads the schema default, scalar-mutates it, and
// installs it at a *new* site — CreateFieldTransformation, used by Add
// when the coin favours a non-default initial value.
type createMutated struct {
	random   *rand.Source
	hooks    *ScalarHooks
	sizeHint int
}

func (t createMutated) Apply(f FieldInstance) {
	v := mutateValue(t.random, f.Descriptor(), t.hooks, f.Default(), t.sizeHint)
	f.Create(v)
}
