// Package mutator implements a structure-aware mutator for hierarchical,
// typed, schema-described messages — concretely, protocol buffer
// messages reflected on through google.golang.org/protobuf/reflect/
// protoreflect. Given a valid message, Mutator.Mutate and
// Mutator.CrossOver produce a new message that is still structurally
// well-formed but differs in content, for use as a building block inside
// a coverage-guided fuzzer that needs to explore deep, valid inputs
// rather than random byte strings.
//
// The traversal, sampling, transformation, and repair algorithms are
// ported from Google's libprotobuf-mutator (the C++ reference
// implementation this package's design is grounded on); see DESIGN.md
// for the line-by-line grounding.
package mutator

import (
	"google.golang.org/protobuf/reflect/protoreflect"

	"github.com/jyh0082007/libprotobuf-mutator/rand"
)

// maxInitializeDepth bounds the repair pass's recursion (spec.md §4.11),
// protecting against mutually-required cycles in the schema that no
// amount of recursion could satisfy.
const maxInitializeDepth = 32

// Mutator applies structural and scalar mutations to protocol buffer
// messages. It is single-threaded and synchronous (spec.md §5): each
// instance owns one random source, and concurrent use of the same
// instance is not supported.
//
// Hooks exposes the overridable per-primitive-type scalar mutation
// functions (spec.md §6). Replace any field to change how that type is
// mutated without touching the traversal, sampling, or repair logic:
//
//	m := mutator.New(1)
//	m.Hooks.MutateString = func(v string, sizeHint int) string { ... }
type Mutator struct {
	Hooks *ScalarHooks

	random          *rand.Source
	keepInitialized bool
}

// New returns a Mutator seeded deterministically from seed. Two Mutators
// constructed with the same seed, applied to equal inputs through equal
// call sequences, produce equal outputs (spec.md §8, "Determinism").
func New(seed uint32) *Mutator {
	r := rand.New(seed)
	return &Mutator{
		Hooks:  newScalarHooks(r),
		random: r,
	}
}

// SetKeepInitialized configures whether Mutate and CrossOver run the
// repair pass (spec.md §4.11) after every operation, filling any missing
// required field with its schema default so the result satisfies
// schema-level presence constraints.
func (m *Mutator) SetKeepInitialized(keep bool) {
	m.keepInitialized = keep
}

// Mutate mutates one randomly-selected site of message, biased by
// sizeHint (a soft upper bound on how much the message should grow).
// message must conform to its schema; Mutate leaves it conforming to
// that same schema (spec.md §8, "Schema preservation").
//
// message is mutated in place; the caller must not hold external
// aliases into it across this call (spec.md §5).
func (m *Mutator) Mutate(message protoreflect.Message, sizeHint int) {
	sampler := newMutationSampler(m.keepInitialized, sizeHint, m.random, message)
	if sampler.empty() {
		// Every field visited offered zero weight — only possible when the
		// message is not actually valid per spec.md §1's precondition (a
		// required field is assumed set, which always offers Mutate or
		// Copy at full weight, unaffected by the low-size_hint discount).
		// A programming error, per spec.md §7: checked by assertion, same
		// as the original's `assert(mutation() != Mutation::None)`.
		panic("mutator: no mutation candidates found in message")
	}

	c := sampler.selected()
	switch c.kind {
	case kindAdd:
		if m.random.BiasedBool(2) {
			c.field.Apply(createMutated{m.random, m.Hooks, sizeHint / 2})
		} else {
			c.field.Apply(createDefault{})
		}
	case kindMutate:
		c.field.Apply(mutateField{m.random, m.Hooks, sizeHint / 2})
	case kindDelete:
		c.field.Apply(deleteField{})
	case kindCopy:
		src := newDataSourceSampler(c.field, m.random, message)
		if src.empty() {
			// No compatible source anywhere in the tree: degrade
			// gracefully to Delete (spec.md §4.9, §7).
			c.field.Apply(deleteField{})
		} else {
			// copyField clones message-typed values (transform.go), so a
			// copy from another sub-message in the same tree never leaves
			// two slots aliasing one object.
			c.field.Apply(copyField{src.selected()})
		}
	}

	if m.keepInitialized && !isInitialized(message) {
		repair(message, maxInitializeDepth)
	}
}
