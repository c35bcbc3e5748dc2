// Package layout models C-like composite data shapes (structs, unions,
// bitfields, enums, fixed arrays and fixed-length text) and converts
// between those shapes and flat byte buffers, reproducing the memory
// layout a C compiler would produce: field ordering, alignment
// padding, union overlay and two's-complement bit packing.
//
// Definitions are built once through the Add methods and are immutable
// metadata afterwards; they can be reused across any number of
// buffers. Whole records move through Serialize/Deserialize, while
// Instance provides a zero-copy per-field view over a shared buffer.
package layout

// Codec is the capability shared by every definition in the package:
// scalars, text, arrays, bitfields, enums and composites.
type Codec interface {
	// Size returns the number of bytes the codec occupies in a buffer.
	Size() int

	// Alignment returns the codec's largest-member contribution, used
	// by the composite layout engine when computing padding.
	Alignment() int

	// TypeName returns the short type name ("uint32", "struct", ...).
	TypeName() string

	// Serialize encodes a structured value into a fresh byte slice of
	// exactly Size() bytes.
	Serialize(v any) ([]byte, error)

	// Deserialize decodes the first Size() bytes of buf into a
	// structured value. A shorter buffer is a *SizeError.
	Deserialize(buf []byte) (any, error)
}
