// Command mutate is a small front end over the mutator package: it
// builds a seed message from internal/fuzzschema, applies a configurable
// number of rounds of Mutate (optionally folding in a CrossOver against
// a second seed), and dumps the result field-by-field. It exists only to
// make the engine inspectable by hand — serialization is explicitly out
// of scope for the core (spec.md §1), so the dump below walks the
// message with protoreflect.Message.Range directly rather than pulling
// in a text/wire format.
package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"google.golang.org/protobuf/reflect/protoreflect"

	"github.com/jyh0082007/libprotobuf-mutator/internal/fuzzschema"
	"github.com/jyh0082007/libprotobuf-mutator/mutator"
)

func main() {
	var (
		seed            = pflag.Uint32("seed", 1, "mutator random seed")
		sizeHint        = pflag.Int("size-hint", 64, "soft upper bound on message growth per mutation")
		rounds          = pflag.Int("count", 1, "number of Mutate rounds to apply")
		keepInitialized = pflag.Bool("keep-initialized", true, "repair missing required fields after each round")
		crossOverWith   = pflag.Bool("cross-over", false, "cross-over the result with a second, independently seeded message before dumping")
	)
	pflag.Parse()

	if err := run(*seed, *sizeHint, *rounds, *keepInitialized, *crossOverWith); err != nil {
		log.Fatalf("mutate: %v", err)
	}
}

func run(seed uint32, sizeHint, rounds int, keepInitialized, crossOver bool) error {
	if rounds < 0 {
		return fmt.Errorf("count must be >= 0, got %d", rounds)
	}

	msg := fuzzschema.NewRich()
	seedMessage(msg)

	m := mutator.New(seed)
	m.SetKeepInitialized(keepInitialized)

	for i := 0; i < rounds; i++ {
		m.Mutate(msg, sizeHint)
	}

	if crossOver {
		other := fuzzschema.NewRich()
		seedMessage(other)
		m.Mutate(other, sizeHint)
		m.CrossOver(other, msg)
	}

	dumpMessage(os.Stdout, msg, 0)
	return nil
}

func seedMessage(msg protoreflect.Message) {
	fields := msg.Descriptor().Fields()
	msg.Set(fields.ByName("a"), protoreflect.ValueOfInt32(0))
}

func dumpMessage(w *os.File, msg protoreflect.Message, depth int) {
	indent := strings.Repeat("  ", depth)
	msg.Range(func(fd protoreflect.FieldDescriptor, v protoreflect.Value) bool {
		switch {
		case fd.IsList():
			list := v.List()
			fmt.Fprintf(w, "%s%s: [%d elements]\n", indent, fd.Name(), list.Len())
			for i := 0; i < list.Len(); i++ {
				if fd.Kind() == protoreflect.MessageKind || fd.Kind() == protoreflect.GroupKind {
					fmt.Fprintf(w, "%s  [%d]:\n", indent, i)
					dumpMessage(w, list.Get(i).Message(), depth+2)
				} else {
					fmt.Fprintf(w, "%s  [%d]: %v\n", indent, i, list.Get(i).Interface())
				}
			}
		case fd.Kind() == protoreflect.MessageKind || fd.Kind() == protoreflect.GroupKind:
			fmt.Fprintf(w, "%s%s:\n", indent, fd.Name())
			dumpMessage(w, v.Message(), depth+1)
		default:
			fmt.Fprintf(w, "%s%s: %v\n", indent, fd.Name(), v.Interface())
		}
		return true
	})
}
