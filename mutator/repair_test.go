package mutator_test

import (
	"testing"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"

	"github.com/jyh0082007/libprotobuf-mutator/internal/fuzzschema"
	"github.com/jyh0082007/libprotobuf-mutator/mutator"
)

// TestRepairFillsRequiredDefault is spec.md §8 scenario 6, directly
// against an empty message. With seed 0 the sampler selects an Add on c,
// not on a, so a is left unset for the repair pass to fill with 0.
func TestRepairFillsRequiredDefault(t *testing.T) {
	msg := fuzzschema.NewBasic()
	a, _, _ := basicFields(msg)
	if proto.CheckInitialized(msg.Interface()) == nil {
		t.Fatal("empty message should not report as initialized")
	}

	m := mutator.New(0)
	m.SetKeepInitialized(true)
	m.Mutate(msg, 64)

	if err := proto.CheckInitialized(msg.Interface()); err != nil {
		t.Fatalf("message not initialized after repair: %v", err)
	}
	if got := int32(msg.Get(a).Int()); got != 0 {
		t.Fatalf("repaired a = %d, want 0", got)
	}
}

// TestRepairRecursesIntoNestedRequired checks that repair descends into
// a present sub-message missing a required field.
func TestRepairRecursesIntoNestedRequired(t *testing.T) {
	msg := fuzzschema.NewRich()
	fields := msg.Descriptor().Fields()
	msg.Set(fields.ByName("a"), protoreflect.ValueOfInt32(1))
	// Touch the nested message into existence without setting its
	// required field.
	msg.Mutable(fields.ByName("nested"))

	m := mutator.New(3)
	m.SetKeepInitialized(true)
	// One round is enough even if the randomly selected site is
	// unrelated: keep_initialized's post-condition check fires because
	// the message is already missing a nested required field.
	m.Mutate(msg, 64)

	if err := proto.CheckInitialized(msg.Interface()); err != nil {
		t.Fatalf("message not initialized after repair: %v", err)
	}
}
