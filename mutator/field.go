package mutator

import "google.golang.org/protobuf/reflect/protoreflect"

// FieldInstance is a field handle: a reference to one concrete field
// location inside a message — the owning message, the field descriptor,
// and, for repeated fields, an element index. It is the Go realisation of
// the spec's "field instance / site" (spec.md §3, §4.3): ephemeral,
// constructed per site, and never retained across a structural edit to
// its parent message.
//
// Unlike the C++ original, FieldInstance does not need a separate
// per-primitive-type template parameter: protoreflect.Value already
// erases that distinction, so Load/Store/Create/Delete operate uniformly
// over protoreflect.Value and the eleven-arm type dispatch the spec
// describes collapses into a single Kind() switch in mutateValue
// (scalar.go); Apply below simply hands the handle to the transformation.
type FieldInstance struct {
	msg   protoreflect.Message
	fd    protoreflect.FieldDescriptor
	index int // meaningful only when repeated() is true
}

// singularField returns a handle for a non-repeated field: an optional,
// required, or oneof-member field.
func singularField(msg protoreflect.Message, fd protoreflect.FieldDescriptor) FieldInstance {
	return FieldInstance{msg: msg, fd: fd, index: -1}
}

// repeatedField returns a handle for one element of a repeated field.
// index must be < size for read operations, <= size for Create.
func repeatedField(msg protoreflect.Message, fd protoreflect.FieldDescriptor, index int) FieldInstance {
	return FieldInstance{msg: msg, fd: fd, index: index}
}

func (f FieldInstance) repeated() bool { return f.index >= 0 }

// Descriptor returns the field's schema descriptor.
func (f FieldInstance) Descriptor() protoreflect.FieldDescriptor { return f.fd }

// Message returns the message that owns this field.
func (f FieldInstance) Message() protoreflect.Message { return f.msg }

// inOneof reports whether fd is a real (non-synthetic) choice-group
// member. Proto3 "optional" scalar fields are represented internally as
// single-member synthetic oneofs purely to track presence; those are not
// choice groups in the spec's sense (spec.md §3 "Choice group") and are
// treated as ordinary optional fields here.
func inOneof(fd protoreflect.FieldDescriptor) bool {
	od := fd.ContainingOneof()
	return od != nil && !od.IsSynthetic()
}

// Default returns the schema default for one element of this field: the
// declared default for a scalar/enum field, or a fresh empty sub-message
// for a message-typed field. For repeated fields this is the default for
// a single new element, not the whole list.
func (f FieldInstance) Default() protoreflect.Value {
	if f.fd.IsList() {
		// A throwaway empty list purely to borrow its NewElement, which
		// knows how to manufacture a zero value of the list's element type
		// (a fresh sub-message for message lists, the zero scalar otherwise).
		return f.msg.NewField(f.fd).List().NewElement()
	}
	if f.fd.Kind() == protoreflect.MessageKind || f.fd.Kind() == protoreflect.GroupKind {
		return f.msg.NewField(f.fd)
	}
	return f.fd.Default()
}

// Load reads the current value at this site. The caller must ensure the
// site is set (or, for repeated fields, in range) first.
func (f FieldInstance) Load() protoreflect.Value {
	if f.repeated() {
		return f.msg.Get(f.fd).List().Get(f.index)
	}
	return f.msg.Get(f.fd)
}

// Store writes v into an already-existing field slot.
func (f FieldInstance) Store(v protoreflect.Value) {
	if f.repeated() {
		f.msg.Mutable(f.fd).List().Set(f.index, v)
		return
	}
	f.msg.Set(f.fd, v)
}

// Create installs v at this site. For a repeated field it inserts at the
// handle's index, shifting the tail one position to the right; for an
// optional or choice-group field it sets the field (the underlying
// message implementation clears any sibling oneof member automatically);
// for a required field it simply sets it.
func (f FieldInstance) Create(v protoreflect.Value) {
	if f.repeated() {
		list := f.msg.Mutable(f.fd).List()
		list.Append(v)
		for j := list.Len() - 1; j > f.index; j-- {
			list.Set(j, list.Get(j-1))
		}
		list.Set(f.index, v)
		return
	}
	f.msg.Set(f.fd, v)
}

// Delete removes this site. For a repeated field it removes the element
// at the handle's index, shifting the tail left; otherwise it clears
// field presence.
func (f FieldInstance) Delete() {
	if f.repeated() {
		list := f.msg.Mutable(f.fd).List()
		n := list.Len()
		for j := f.index; j < n-1; j++ {
			list.Set(j, list.Get(j+1))
		}
		list.Truncate(n - 1)
		return
	}
	f.msg.Clear(f.fd)
}

// Apply dispatches t against this site. This is the single point the
// spec's Design Notes describe: "the field handle's apply switches on
// its descriptor's tag and calls the matching arm" — for most
// transformations (CreateDefault, Delete, Copy, Append) the switch is
// trivial because protoreflect.Value already carries the tag; only
// scalar mutation (mutateValue, in scalar.go) genuinely branches on Kind.
func (f FieldInstance) Apply(t Transformation) {
	t.Apply(f)
}
