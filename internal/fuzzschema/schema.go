// Package fuzzschema builds a protocol buffer schema at runtime, without
// a .proto file or a protoc invocation — there is no protoc available in
// this environment. It mirrors the technique the teacher's own
// types/dynamicpb tests use (building a protoreflect.MessageDescriptor
// from a descriptorpb.FileDescriptorProto via protodesc.NewFile, then
// instantiating messages for it with dynamicpb.NewMessage) so that the
// mutator package's tests and cmd/mutate have schema-described messages
// to mutate.
//
// Basic reproduces the exact schema spec.md §8's concrete test scenarios
// are written against: `M { required int32 a = 1; optional string b = 2;
// repeated int32 c = 3; }`. Rich adds every other shape the mutator must
// handle: an enum field, a oneof choice group, a singular sub-message,
// and a repeated sub-message whose type is self-referential (so a chain
// of nested messages can run deeper than the repair pass's depth bound).
package fuzzschema

import (
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/dynamicpb"
)

var (
	file protoreflect.FileDescriptor

	// Basic is "M" from spec.md §8's concrete scenarios.
	Basic protoreflect.MessageDescriptor

	// Rich exercises every field shape the mutator handles: enum,
	// oneof, singular sub-message, repeated sub-message.
	Rich protoreflect.MessageDescriptor

	// Nested is Rich.nested's and Rich.reps' element type. It contains a
	// required field and an optional, self-referential Nested field, so
	// that a chain of them, each missing its required field, can be made
	// deeper than repair's depth bound. Because next is optional, the
	// schema has no required-field cycle.
	Nested protoreflect.MessageDescriptor

	// Color is Rich.color's enum type.
	Color protoreflect.EnumDescriptor
)

func init() {
	fd := &descriptorpb.FileDescriptorProto{
		Name:    proto.String("fuzzschema/fuzzschema.proto"),
		Package: proto.String("fuzzschema"),
		Syntax:  proto.String("proto2"),
		EnumType: []*descriptorpb.EnumDescriptorProto{
			{
				Name: proto.String("Color"),
				Value: []*descriptorpb.EnumValueDescriptorProto{
					{Name: proto.String("RED"), Number: proto.Int32(0)},
					{Name: proto.String("GREEN"), Number: proto.Int32(1)},
					{Name: proto.String("BLUE"), Number: proto.Int32(2)},
				},
			},
		},
		MessageType: []*descriptorpb.DescriptorProto{
			{
				Name: proto.String("M"),
				Field: []*descriptorpb.FieldDescriptorProto{
					field("a", 1, label(descriptorpb.FieldDescriptorProto_LABEL_REQUIRED), descriptorpb.FieldDescriptorProto_TYPE_INT32, ""),
					field("b", 2, label(descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL), descriptorpb.FieldDescriptorProto_TYPE_STRING, ""),
					field("c", 3, label(descriptorpb.FieldDescriptorProto_LABEL_REPEATED), descriptorpb.FieldDescriptorProto_TYPE_INT32, ""),
				},
			},
			{
				Name: proto.String("Nested"),
				Field: []*descriptorpb.FieldDescriptorProto{
					field("req", 1, label(descriptorpb.FieldDescriptorProto_LABEL_REQUIRED), descriptorpb.FieldDescriptorProto_TYPE_INT32, ""),
					field("next", 2, label(descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL), descriptorpb.FieldDescriptorProto_TYPE_MESSAGE, ".fuzzschema.Nested"),
				},
			},
			{
				Name: proto.String("Rich"),
				Field: []*descriptorpb.FieldDescriptorProto{
					field("a", 1, label(descriptorpb.FieldDescriptorProto_LABEL_REQUIRED), descriptorpb.FieldDescriptorProto_TYPE_INT32, ""),
					field("b", 2, label(descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL), descriptorpb.FieldDescriptorProto_TYPE_STRING, ""),
					field("c", 3, label(descriptorpb.FieldDescriptorProto_LABEL_REPEATED), descriptorpb.FieldDescriptorProto_TYPE_INT32, ""),
					field("color", 4, label(descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL), descriptorpb.FieldDescriptorProto_TYPE_ENUM, ".fuzzschema.Color"),
					field("nested", 5, label(descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL), descriptorpb.FieldDescriptorProto_TYPE_MESSAGE, ".fuzzschema.Nested"),
					field("reps", 6, label(descriptorpb.FieldDescriptorProto_LABEL_REPEATED), descriptorpb.FieldDescriptorProto_TYPE_MESSAGE, ".fuzzschema.Nested"),
					oneofField("choice_str", 7, descriptorpb.FieldDescriptorProto_TYPE_STRING, "", 0),
					oneofField("choice_int", 8, descriptorpb.FieldDescriptorProto_TYPE_INT32, "", 0),
				},
				OneofDecl: []*descriptorpb.OneofDescriptorProto{
					{Name: proto.String("choice")},
				},
			},
		},
	}

	f, err := protodesc.NewFile(fd, protoregistry.GlobalFiles)
	if err != nil {
		panic(err)
	}
	file = f

	messages := file.Messages()
	Basic = messages.ByName("M")
	Nested = messages.ByName("Nested")
	Rich = messages.ByName("Rich")
	Color = file.Enums().Get(0)
}

func label(l descriptorpb.FieldDescriptorProto_Label) *descriptorpb.FieldDescriptorProto_Label {
	return &l
}

func field(name string, number int32, lbl *descriptorpb.FieldDescriptorProto_Label, typ descriptorpb.FieldDescriptorProto_Type, typeName string) *descriptorpb.FieldDescriptorProto {
	f := &descriptorpb.FieldDescriptorProto{
		Name:     proto.String(name),
		Number:   proto.Int32(number),
		Label:    lbl,
		Type:     typ.Enum(),
		JsonName: proto.String(name),
	}
	if typeName != "" {
		f.TypeName = proto.String(typeName)
	}
	return f
}

func oneofField(name string, number int32, typ descriptorpb.FieldDescriptorProto_Type, typeName string, oneofIndex int32) *descriptorpb.FieldDescriptorProto {
	f := field(name, number, label(descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL), typ, typeName)
	f.OneofIndex = proto.Int32(oneofIndex)
	return f
}

// NewBasic returns a fresh, empty M message.
func NewBasic() protoreflect.Message { return dynamicpb.NewMessage(Basic) }

// NewRich returns a fresh, empty Rich message.
func NewRich() protoreflect.Message { return dynamicpb.NewMessage(Rich) }

// NewNested returns a fresh, empty Nested message.
func NewNested() protoreflect.Message { return dynamicpb.NewMessage(Nested) }
