package layout

import (
	"fmt"
	"math"
	"strings"
)

// Enum maps constant names to integer values. The backing integer
// grows to the smallest byte count representing the largest-magnitude
// constant unless a size is forced.
//
// Constants are kept as an ordered list, not a map: multiple names may
// share a value, and reverse lookup deliberately returns the first
// name in insertion order.
type Enum struct {
	byteOrder ByteOrder
	forced    int // forced byte size, 0 when auto
	signed    bool
	constants []enumConstant
	index     map[string]int
}

type enumConstant struct {
	name  string
	value int64
}

// NewEnum builds an enum codec. A size of 0 lets the backing integer
// grow as constants are added; a positive size forces the byte width
// (at most 8).
func NewEnum(byteOrder ByteOrder, size int, signed bool) (*Enum, error) {
	if !byteOrder.valid() {
		return nil, errConfigf("invalid byte order %d", byteOrder)
	}
	if size < 0 || size > 8 {
		return nil, errConfigf("invalid enum size: %d (supported 0-8 bytes)", size)
	}
	return &Enum{
		byteOrder: byteOrder.resolve(),
		forced:    size,
		signed:    signed,
		index:     make(map[string]int),
	}, nil
}

// Add appends a constant with the next free value, probing 0, 1, 2, …
// and skipping values already in use.
func (e *Enum) Add(name string) error {
	value := int64(0)
	for e.hasValue(value) {
		value++
	}
	return e.AddValue(name, value)
}

// AddValue appends a constant with an explicit value. Duplicate names,
// negative values in unsigned enums and values exceeding the size
// ceiling are a *ConfigError. Duplicate values are allowed.
func (e *Enum) AddValue(name string, value int64) error {
	if name == "" {
		return errConfigf("empty enum constant name")
	}
	if _, dup := e.index[name]; dup {
		return errConfigf("constant name already exists: %q", name)
	}
	if !e.signed && value < 0 {
		return errConfigf("negative value %d not supported in unsigned enum", value)
	}
	if bits := e.bitLength(value); bits > e.maxBits() {
		return errConfigf("maximum number of bits (%d) exceeded: %d", e.maxBits(), bits)
	}
	e.index[name] = len(e.constants)
	e.constants = append(e.constants, enumConstant{name: name, value: value})
	return nil
}

func (e *Enum) hasValue(value int64) bool {
	for _, c := range e.constants {
		if c.value == value {
			return true
		}
	}
	return false
}

// bitLength returns the number of bits needed to represent value,
// two's-complement-aware for negatives, plus the sign bit when the
// enum is signed.
func (e *Enum) bitLength(value int64) int {
	if value < 0 {
		value = -(value + 1)
	}
	bits := 0
	for v := uint64(value); v != 0; v >>= 1 {
		bits++
	}
	if e.signed {
		bits++
	}
	return bits
}

func (e *Enum) maxBits() int {
	if e.forced > 0 {
		return e.forced * 8
	}
	return 64
}

func (e *Enum) Size() int {
	if e.forced > 0 {
		return e.forced
	}
	max := 1 // avoid zero size for an empty enum
	for _, c := range e.constants {
		if bits := e.bitLength(c.value); bits > max {
			max = bits
		}
	}
	return (max + 7) / 8
}

// Alignment rounds the byte size to the next power of two, capped at
// 16, the same heuristic the bitfield codec uses.
func (e *Enum) Alignment() int { return roundPow2(e.Size()) }

func (e *Enum) TypeName() string { return "enum" }

// Signed reports whether the enum may hold negative constants.
func (e *Enum) Signed() bool { return e.signed }

// ValueOf returns the value of a constant name.
func (e *Enum) ValueOf(name string) (int64, error) {
	i, ok := e.index[name]
	if !ok {
		return 0, errLookupf(name, "not a valid name in this enum")
	}
	return e.constants[i].value, nil
}

// NameOf returns the first constant name, in insertion order, mapped
// to the value.
func (e *Enum) NameOf(value int64) (string, error) {
	for _, c := range e.constants {
		if c.value == value {
			return c.name, nil
		}
	}
	return "", errLookupf(fmt.Sprintf("%d", value), "not a valid value for this enum")
}

// Serialize encodes a constant name. Unknown names are a
// *LookupError.
func (e *Enum) Serialize(v any) ([]byte, error) {
	name, ok := v.(string)
	if !ok {
		return nil, errRangef("", "value %v (%T) is not an enum constant name", v, v)
	}
	value, err := e.ValueOf(name)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, e.Size())
	putUint(buf, uint64(value), e.byteOrder)
	return buf, nil
}

// Deserialize decodes a constant name. A value with no defined name
// yields the placeholder "__VALUE__<n>" rather than an error, so
// unrecognized wire values survive a decode/encode round trip of the
// rest of the record.
func (e *Enum) Deserialize(buf []byte) (any, error) {
	size := e.Size()
	if len(buf) < size {
		return nil, errSize(len(buf), size)
	}
	u := getUint(buf[:size], e.byteOrder)
	if e.signed {
		value := signExtend(u, size*8)
		if name, err := e.NameOf(value); err == nil {
			return name, nil
		}
		return fmt.Sprintf("__VALUE__%d", value), nil
	}
	if u <= math.MaxInt64 {
		if name, err := e.NameOf(int64(u)); err == nil {
			return name, nil
		}
	}
	return fmt.Sprintf("__VALUE__%d", u), nil
}

// String renders the constant table.
func (e *Enum) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%-30s%-10s", "Name", "Value")
	for _, c := range e.constants {
		fmt.Fprintf(&sb, "\n%-30s%-10d", c.name, c.value)
	}
	return sb.String()
}
