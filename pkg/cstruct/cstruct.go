// Package cstruct is the public API of the binary layout and codec
// engine. It models C-like composite data shapes (structs, unions,
// bitfields, enums, fixed arrays and fixed-length text) and converts
// between those shapes and flat byte buffers with the field offsets,
// alignment padding and bit packing a C compiler would produce.
//
// A definition is built once and then reused across any number of
// buffers:
//
//	person, _ := cstruct.NewStruct(cstruct.LittleEndian, 4)
//	_ = person.Add("utf-8", "name", cstruct.WithLength(16))
//	_ = person.Add("uint8", "age")
//	_ = person.Add("float32", "height")
//
//	buf, err := person.Serialize(map[string]any{
//		"name":   "Ada",
//		"age":    36,
//		"height": 1.65,
//	})
//
// For field-at-a-time access over a shared buffer, create a zero-copy
// view with NewInstance.
package cstruct

import "github.com/layoutlabs/cstruct-go/internal/layout"

// Core types, re-exported from the engine.
type (
	Codec        = layout.Codec
	ByteOrder    = layout.ByteOrder
	Kind         = layout.Kind
	Scalar       = layout.Scalar
	Text         = layout.Text
	Array        = layout.Array
	Bitfield     = layout.Bitfield
	Enum         = layout.Enum
	Composite    = layout.Composite
	Field        = layout.Field
	Instance     = layout.Instance
	InstanceList = layout.InstanceList
	AddOption    = layout.AddOption
)

// Error kinds. Match with errors.As.
type (
	ConfigError = layout.ConfigError
	RangeError  = layout.RangeError
	SizeError   = layout.SizeError
	LookupError = layout.LookupError
)

// Byte orders.
const (
	NativeOrder  = layout.NativeOrder
	LittleEndian = layout.LittleEndian
	BigEndian    = layout.BigEndian
)

// Primitive kinds.
const (
	KindInt8    = layout.KindInt8
	KindUint8   = layout.KindUint8
	KindBool8   = layout.KindBool8
	KindInt16   = layout.KindInt16
	KindUint16  = layout.KindUint16
	KindBool16  = layout.KindBool16
	KindFloat16 = layout.KindFloat16
	KindInt32   = layout.KindInt32
	KindUint32  = layout.KindUint32
	KindBool32  = layout.KindBool32
	KindFloat32 = layout.KindFloat32
	KindInt64   = layout.KindInt64
	KindUint64  = layout.KindUint64
	KindBool64  = layout.KindBool64
	KindFloat64 = layout.KindFloat64
	KindText    = layout.KindText
)

// NewStruct builds a struct layout with the given default byte order
// and alignment unit (1 disables padding, 4/8 match common ABIs).
func NewStruct(byteOrder ByteOrder, alignment int) (*Composite, error) {
	return layout.NewStruct(byteOrder, alignment)
}

// NewUnion builds a union layout: all fields overlay at offset 0.
func NewUnion(byteOrder ByteOrder, alignment int) (*Composite, error) {
	return layout.NewUnion(byteOrder, alignment)
}

// NewBitfield builds a bitfield codec. size 0 grows with the assigned
// bits (up to 64); a positive size forces the byte width.
func NewBitfield(byteOrder ByteOrder, size int) (*Bitfield, error) {
	return layout.NewBitfield(byteOrder, size)
}

// NewEnum builds an enum codec. size 0 grows with the largest
// constant; a positive size forces the byte width.
func NewEnum(byteOrder ByteOrder, size int, signed bool) (*Enum, error) {
	return layout.NewEnum(byteOrder, size, signed)
}

// NewScalar builds a standalone scalar codec.
func NewScalar(kind Kind, byteOrder ByteOrder) (*Scalar, error) {
	return layout.NewScalar(kind, byteOrder)
}

// NewText builds a fixed-capacity UTF-8 text codec.
func NewText(length int) (*Text, error) {
	return layout.NewText(length)
}

// NewArray builds a fixed-length array of the element codec. Nest
// arrays to describe multi-dimensional data.
func NewArray(elem Codec, length int) (*Array, error) {
	return layout.NewArray(elem, length)
}

// NewInstance creates a zero-copy view of a struct, union or bitfield
// over buf starting at offset. A nil buf allocates a fresh zero-filled
// buffer.
func NewInstance(codec Codec, buf []byte, offset int) (*Instance, error) {
	return layout.NewInstance(codec, buf, offset)
}

// ParseKind resolves a primitive type name such as "uint32" or
// "utf-8".
func ParseKind(name string) (Kind, error) {
	return layout.ParseKind(name)
}

// ParseByteOrder resolves "native", "little" or "big".
func ParseByteOrder(name string) (ByteOrder, error) {
	return layout.ParseByteOrder(name)
}

// WithLength declares a field as an array of n elements (or, for
// utf-8 fields, a text capacity of n bytes).
func WithLength(n int) AddOption { return layout.WithLength(n) }

// WithByteOrder overrides the composite's default byte order for one
// field.
func WithByteOrder(bo ByteOrder) AddOption { return layout.WithByteOrder(bo) }

// WithFlatten exposes an embedded bitfield's fields directly in the
// parent's namespace.
func WithFlatten() AddOption { return layout.WithFlatten() }
