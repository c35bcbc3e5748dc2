package layout

import (
	"fmt"
	"strings"
)

// Bitfield packs named sub-byte fields into one integer-sized byte
// region. Fields occupy consecutive bits starting at bit 0 of the
// backing integer; the backing integer itself is read and written with
// the configured byte order. Signed fields use two's complement.
//
// Without a forced size the region grows to the smallest byte count
// holding the assigned bits, up to 64 bits total.
type Bitfield struct {
	byteOrder ByteOrder
	forced    int // forced byte size, 0 when auto
	fields    []bitfieldEntry
	index     map[string]int
}

type bitfieldEntry struct {
	name   string
	bits   int
	offset int // starting bit, sum of preceding widths
	signed bool
}

// NewBitfield builds a bitfield codec. A size of 0 lets the region
// grow as fields are added; a positive size forces the byte width.
// The backing integer is limited to 64 bits, so forced sizes above 8
// bytes are rejected.
func NewBitfield(byteOrder ByteOrder, size int) (*Bitfield, error) {
	if !byteOrder.valid() {
		return nil, errConfigf("invalid byte order %d", byteOrder)
	}
	if size < 0 || size > 8 {
		return nil, errConfigf("invalid bitfield size: %d (supported 0-8 bytes)", size)
	}
	return &Bitfield{
		byteOrder: byteOrder.resolve(),
		forced:    size,
		index:     make(map[string]int),
	}, nil
}

// Add appends a field of the given bit width directly after the
// previous field. Duplicate names and widths that would exceed the
// size ceiling are a *ConfigError.
func (b *Bitfield) Add(name string, bits int, signed bool) error {
	if name == "" {
		return errConfigf("empty bitfield field name")
	}
	if bits < 1 {
		return errConfigf("invalid bit width for %q: %d", name, bits)
	}
	if _, dup := b.index[name]; dup {
		return errConfigf("field name already exists: %q", name)
	}
	assigned := b.AssignedBits()
	if assigned+bits > b.maxBits() {
		return errConfigf("maximum number of bits (%d) exceeded: %d", b.maxBits(), assigned+bits)
	}
	b.index[name] = len(b.fields)
	b.fields = append(b.fields, bitfieldEntry{name: name, bits: bits, offset: assigned, signed: signed})
	return nil
}

// AssignedBits returns the total bit width of all fields.
func (b *Bitfield) AssignedBits() int {
	total := 0
	for _, f := range b.fields {
		total += f.bits
	}
	return total
}

func (b *Bitfield) maxBits() int {
	if b.forced > 0 {
		return b.forced * 8
	}
	return 64
}

func (b *Bitfield) Size() int {
	if b.forced > 0 {
		return b.forced
	}
	return (b.AssignedBits() + 7) / 8
}

// Alignment is the byte size rounded to the next power of two, capped
// at 16. This is a heuristic approximation of compiler-specific
// embedded-bitfield layout, not derived from any single real ABI.
func (b *Bitfield) Alignment() int { return roundPow2(b.Size()) }

func (b *Bitfield) TypeName() string { return "bitfield" }

// fieldNames returns the field names in declaration order.
func (b *Bitfield) fieldNames() []string {
	names := make([]string, len(b.fields))
	for i, f := range b.fields {
		names[i] = f.name
	}
	return names
}

// Serialize encodes a map of field name to integer value. Fields
// absent from the map stay zero.
func (b *Bitfield) Serialize(v any) ([]byte, error) {
	data, ok := v.(map[string]any)
	if !ok {
		return nil, errRangef("", "value %v (%T) is not a field map", v, v)
	}
	buf := make([]byte, b.Size())
	for _, f := range b.fields {
		if value, present := data[f.name]; present {
			if err := b.writeField(f.name, value, buf, 0); err != nil {
				return nil, err
			}
		}
	}
	return buf, nil
}

// Deserialize decodes every field into a map. Signed fields decode to
// int64, unsigned to uint64.
func (b *Bitfield) Deserialize(buf []byte) (any, error) {
	if len(buf) < b.Size() {
		return nil, errSize(len(buf), b.Size())
	}
	result := make(map[string]any, len(b.fields))
	for _, f := range b.fields {
		v, err := b.readField(f.name, buf, 0)
		if err != nil {
			return nil, err
		}
		result[f.name] = v
	}
	return result, nil
}

// readField extracts one field from the backing integer stored at
// buf[offset:].
func (b *Bitfield) readField(name string, buf []byte, offset int) (any, error) {
	i, ok := b.index[name]
	if !ok {
		return nil, errLookupf(name, "no such bitfield field")
	}
	size := b.Size()
	if len(buf) < offset+size {
		return nil, errSize(len(buf), offset+size)
	}
	f := b.fields[i]
	full := getUint(buf[offset:offset+size], b.byteOrder)
	raw := full >> f.offset & mask(f.bits)
	if !f.signed {
		return raw, nil
	}
	return signExtend(raw, f.bits), nil
}

// writeField validates the value against the field's bit width and
// OR-merges its shifted bit pattern into the backing integer, leaving
// the other fields' bits untouched.
func (b *Bitfield) writeField(name string, value any, buf []byte, offset int) error {
	i, ok := b.index[name]
	if !ok {
		return errLookupf(name, "no such bitfield field")
	}
	size := b.Size()
	if len(buf) < offset+size {
		return errSize(len(buf), offset+size)
	}
	f := b.fields[i]

	var pattern uint64
	if f.signed {
		n, err := toInt64(value)
		if err != nil {
			return named(name, err)
		}
		min := int64(-1) << (f.bits - 1)
		max := -min - 1
		if n < min || n > max {
			return errRangef(name, "signed value %d does not fit in %d bits (range [%d, %d])", n, f.bits, min, max)
		}
		pattern = uint64(n) & mask(f.bits)
	} else {
		n, err := toUint64(value)
		if err != nil {
			return named(name, err)
		}
		if n > mask(f.bits) {
			return errRangef(name, "unsigned value %d does not fit in %d bits (max %d)", n, f.bits, mask(f.bits))
		}
		pattern = n
	}

	region := buf[offset : offset+size]
	full := getUint(region, b.byteOrder)
	full |= pattern << f.offset
	putUint(region, full, b.byteOrder)
	return nil
}

// String renders the field table.
func (b *Bitfield) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%-30s%-10s%-10s%-10s", "Name", "Bits", "Offset", "Signed")
	for _, f := range b.fields {
		signed := "-"
		if f.signed {
			signed = "x"
		}
		fmt.Fprintf(&sb, "\n%-30s%-10d%-10d%-10s", f.name, f.bits, f.offset, signed)
	}
	return sb.String()
}

// mask returns bits set in the low n positions, n in [1, 64].
func mask(n int) uint64 {
	return ^uint64(0) >> (64 - n)
}

// roundPow2 rounds up to the next power of two, capped at 16.
func roundPow2(v int) int {
	switch {
	case v > 8:
		return 16
	case v > 4:
		return 8
	case v > 2:
		return 4
	default:
		return v
	}
}
