package layout

import (
	"fmt"
	"strings"
)

const padEndName = "__pad_end"

// Field is one named member of a composite, owning its wrapped codec
// and the byte offset computed when it was added.
type Field struct {
	name    string
	codec   Codec
	length  int // declared element count, for display
	offset  int
	pad     bool
	flatten bool
}

// Name returns the field name.
func (f *Field) Name() string { return f.name }

// Offset returns the field's byte offset within its composite.
func (f *Field) Offset() int { return f.offset }

// Composite is the struct/union layout engine. Fields are appended
// with Add; the engine computes each field's byte offset as it goes,
// inserting alignment padding for structs and overlaying every field
// at offset 0 for unions.
type Composite struct {
	defaultOrder ByteOrder
	alignment    int
	union        bool
	padCount     int
	fields       []*Field
	index        map[string]int
	flattened    map[string]string // flattened bitfield name -> owning field
}

// NewStruct builds a struct layout. alignment is the alignment unit in
// bytes: 1 disables padding, 4 and 8 match typical 32/64-bit ABIs.
func NewStruct(byteOrder ByteOrder, alignment int) (*Composite, error) {
	return newComposite(byteOrder, alignment, false)
}

// NewUnion builds a union layout: every field starts at offset 0 and
// the size is that of the largest field plus trailing padding.
func NewUnion(byteOrder ByteOrder, alignment int) (*Composite, error) {
	return newComposite(byteOrder, alignment, true)
}

func newComposite(byteOrder ByteOrder, alignment int, union bool) (*Composite, error) {
	if !byteOrder.valid() {
		return nil, errConfigf("invalid byte order %d", byteOrder)
	}
	if alignment < 1 {
		return nil, errConfigf("invalid alignment: %d", alignment)
	}
	return &Composite{
		defaultOrder: byteOrder,
		alignment:    alignment,
		union:        union,
		index:        make(map[string]int),
		flattened:    make(map[string]string),
	}, nil
}

// AddOption configures one Add call.
type AddOption func(*addOptions)

type addOptions struct {
	length    int
	byteOrder ByteOrder
	orderSet  bool
	flatten   bool
}

// WithLength declares the field as an array of n elements. For utf-8
// fields n is the text capacity in bytes instead.
func WithLength(n int) AddOption {
	return func(o *addOptions) { o.length = n }
}

// WithByteOrder overrides the composite's default byte order for this
// field. It applies to primitive type names; an explicit codec keeps
// the order it was built with.
func WithByteOrder(bo ByteOrder) AddOption {
	return func(o *addOptions) { o.byteOrder = bo; o.orderSet = true }
}

// WithFlatten exposes an embedded bitfield's field names directly in
// this composite's namespace instead of nesting them under the field
// name. Only legal for a *Bitfield with length 1.
func WithFlatten() AddOption {
	return func(o *addOptions) { o.flatten = true }
}

// Add appends a field. datatype is a primitive type name (string), a
// Kind, or any Codec (nested composites, bitfields, enums, arrays).
func (c *Composite) Add(datatype any, name string, opts ...AddOption) error {
	o := addOptions{length: 1, byteOrder: c.defaultOrder}
	for _, opt := range opts {
		opt(&o)
	}

	if name == "" {
		return errConfigf("empty field name")
	}
	if o.length < 1 {
		return errConfigf("invalid length for %q: %d", name, o.length)
	}
	if _, dup := c.index[name]; dup {
		return errConfigf("field name already exists: %q", name)
	}
	if _, dup := c.flattened[name]; dup {
		return errConfigf("field name already exists: %q", name)
	}
	if !o.byteOrder.valid() {
		return errConfigf("invalid byte order %d for %q", o.byteOrder, name)
	}
	if o.flatten && o.length > 1 {
		return errConfigf("flatten not allowed in combination with length > 1 (%q)", name)
	}

	var bf *Bitfield
	if o.flatten {
		var ok bool
		if bf, ok = datatype.(*Bitfield); !ok {
			return errConfigf("flatten only allowed for bitfield fields (%q)", name)
		}
		for _, sub := range bf.fieldNames() {
			if _, dup := c.index[sub]; dup {
				return errConfigf("flattened field name already exists: %q", sub)
			}
			if _, dup := c.flattened[sub]; dup {
				return errConfigf("flattened field name already exists: %q", sub)
			}
		}
	}

	codec, displayLen, wrapLen, err := c.resolve(datatype, &o)
	if err != nil {
		return err
	}
	if wrapLen > 1 {
		if codec, err = NewArray(codec, wrapLen); err != nil {
			return err
		}
	}

	c.popEndPad()

	offset := 0
	if !c.union {
		base := c.Size()
		if pad := padBytes(c.alignment, base, codec.Alignment()); pad > 0 {
			c.appendField(&Field{
				name:   fmt.Sprintf("__pad_%d", c.padCount),
				codec:  padRegion(pad),
				length: pad,
				offset: base,
				pad:    true,
			})
			c.padCount++
		}
		offset = c.Size()
	}

	c.appendField(&Field{
		name:    name,
		codec:   codec,
		length:  displayLen,
		offset:  offset,
		flatten: o.flatten,
	})

	c.fixEndPad()

	if o.flatten {
		for _, sub := range bf.fieldNames() {
			c.flattened[sub] = name
		}
	}
	return nil
}

// resolve turns the datatype argument into a codec. It returns the
// codec, the length to display, and the array length to wrap with
// (text consumes the length itself).
func (c *Composite) resolve(datatype any, o *addOptions) (Codec, int, int, error) {
	switch dt := datatype.(type) {
	case string:
		k, err := ParseKind(dt)
		if err != nil {
			return nil, 0, 0, err
		}
		return c.resolveKind(k, o)
	case Kind:
		return c.resolveKind(dt, o)
	case Codec:
		return dt, o.length, o.length, nil
	default:
		return nil, 0, 0, errConfigf("invalid datatype: %v (%T)", datatype, datatype)
	}
}

func (c *Composite) resolveKind(k Kind, o *addOptions) (Codec, int, int, error) {
	if k == KindText {
		t, err := NewText(o.length)
		if err != nil {
			return nil, 0, 0, err
		}
		// Text handles the length internally; the field is scalar-like.
		return t, 1, 1, nil
	}
	s, err := NewScalar(k, o.byteOrder)
	if err != nil {
		return nil, 0, 0, err
	}
	return s, o.length, o.length, nil
}

func (c *Composite) appendField(f *Field) {
	c.index[f.name] = len(c.fields)
	c.fields = append(c.fields, f)
}

// padRegion builds the codec backing a synthetic padding field of n
// zero-meaning bytes.
func padRegion(n int) Codec {
	return &Array{elem: &Scalar{kind: KindUint8}, length: n}
}

// popEndPad drops the trailing padding field so it can be recomputed
// after the new field lands.
func (c *Composite) popEndPad() {
	n := len(c.fields)
	if n > 0 && c.fields[n-1].name == padEndName {
		delete(c.index, padEndName)
		c.fields = c.fields[:n-1]
	}
}

// fixEndPad appends trailing padding so that the composite's size is a
// multiple of min(alignment unit, largest member).
func (c *Composite) fixEndPad() {
	c.popEndPad()
	base := 0
	largest := 0
	for _, f := range c.fields {
		sz := f.codec.Size()
		base += sz
		if !f.pad && sz > largest {
			largest = sz
		}
	}
	if c.union {
		base = largest
	}
	if pad := padBytes(c.alignment, base, c.Alignment()); pad > 0 {
		c.appendField(&Field{
			name:   padEndName,
			codec:  padRegion(pad),
			length: pad,
			offset: base,
			pad:    true,
		})
	}
}

// padBytes returns the padding needed so that an element with the
// given alignment contribution starts aligned after current bytes.
func padBytes(alignment, current, contribution int) int {
	if alignment == 1 {
		return 0
	}
	elem := alignment
	if contribution < elem {
		elem = contribution
	}
	if elem <= 1 {
		return 0
	}
	if rem := current % elem; rem != 0 {
		return elem - rem
	}
	return 0
}

// Size returns the total byte size: for a struct the sum of all field
// sizes including padding, for a union the largest non-padding field
// plus trailing padding.
func (c *Composite) Size() int {
	total, largest, endPad := 0, 0, 0
	for _, f := range c.fields {
		sz := f.codec.Size()
		total += sz
		if !f.pad && sz > largest {
			largest = sz
		}
		if f.name == padEndName {
			endPad = sz
		}
	}
	if c.union {
		return largest + endPad
	}
	return total
}

// Alignment returns the largest member contribution across all
// fields.
func (c *Composite) Alignment() int {
	largest := 0
	for _, f := range c.fields {
		if a := f.codec.Alignment(); a > largest {
			largest = a
		}
	}
	return largest
}

func (c *Composite) TypeName() string {
	if c.union {
		return "union"
	}
	return "struct"
}

// Union reports whether this composite overlays its fields.
func (c *Composite) Union() bool { return c.union }

// ByteOrder returns the default byte order fields inherit.
func (c *Composite) ByteOrder() ByteOrder { return c.defaultOrder }

// Names returns the accessible element names in declaration order:
// every non-padding field, with flattened bitfields contributing their
// own field names in place of the wrapping field.
func (c *Composite) Names() []string {
	var names []string
	for _, f := range c.fields {
		if f.pad {
			continue
		}
		if f.flatten {
			names = append(names, f.codec.(*Bitfield).fieldNames()...)
			continue
		}
		names = append(names, f.name)
	}
	return names
}

// Serialize encodes a map of field name to value. Absent fields leave
// their region zeroed. For a union every supplied field is applied in
// declaration order to the shared storage, so the last one wins.
func (c *Composite) Serialize(v any) ([]byte, error) {
	data, ok := v.(map[string]any)
	if !ok {
		return nil, errRangef("", "value %v (%T) is not a field map", v, v)
	}
	buf := make([]byte, c.Size())
	if err := c.SerializeInto(data, buf, 0); err != nil {
		return nil, err
	}
	return buf, nil
}

// SerializeInto encodes the supplied fields in place at buf[offset:],
// leaving the bytes of absent fields untouched.
func (c *Composite) SerializeInto(data map[string]any, buf []byte, offset int) error {
	if len(buf) < offset+c.Size() {
		return errSize(len(buf), offset+c.Size())
	}
	for _, f := range c.fields {
		if f.pad {
			continue
		}
		if f.flatten {
			bf := f.codec.(*Bitfield)
			for _, sub := range bf.fieldNames() {
				if value, present := data[sub]; present {
					if err := bf.writeField(sub, value, buf, offset+f.offset); err != nil {
						return err
					}
				}
			}
			continue
		}
		value, present := data[f.name]
		if !present {
			continue
		}
		b, err := f.codec.Serialize(value)
		if err != nil {
			return named(f.name, err)
		}
		pos := offset + f.offset
		copy(buf[pos:pos+f.codec.Size()], b)
	}
	return nil
}

// Deserialize decodes every non-padding field (and every flattened
// bitfield name) into a map.
func (c *Composite) Deserialize(buf []byte) (any, error) {
	return c.DeserializeFrom(buf, 0)
}

// DeserializeFrom decodes the composite stored at buf[offset:].
func (c *Composite) DeserializeFrom(buf []byte, offset int) (map[string]any, error) {
	if len(buf) < offset+c.Size() {
		return nil, errSize(len(buf), offset+c.Size())
	}
	result := make(map[string]any)
	for _, f := range c.fields {
		if f.pad {
			continue
		}
		if f.flatten {
			bf := f.codec.(*Bitfield)
			for _, sub := range bf.fieldNames() {
				v, err := bf.readField(sub, buf, offset+f.offset)
				if err != nil {
					return nil, named(sub, err)
				}
				result[sub] = v
			}
			continue
		}
		pos := offset + f.offset
		v, err := f.codec.Deserialize(buf[pos : pos+f.codec.Size()])
		if err != nil {
			return nil, named(f.name, err)
		}
		result[f.name] = v
	}
	return result, nil
}

// CreateEmpty returns the structured value of an all-zero buffer.
func (c *Composite) CreateEmpty() (map[string]any, error) {
	v, err := c.Deserialize(make([]byte, c.Size()))
	if err != nil {
		return nil, err
	}
	return v.(map[string]any), nil
}

// serializeElement encodes a single named element at its offset inside
// buf[base:]. index selects the element of an array field.
func (c *Composite) serializeElement(name string, value any, buf []byte, base, index int) error {
	if owner, ok := c.flattened[name]; ok {
		f := c.fields[c.index[owner]]
		return f.codec.(*Bitfield).writeField(name, value, buf, base+f.offset)
	}
	f, ok := c.lookup(name)
	if !ok {
		return errLookupf(name, "no such field")
	}
	codec := f.codec
	if arr, isArr := codec.(*Array); isArr {
		if index < 0 || index >= arr.length {
			return errLookupf(name, "index %d out of range [0, %d)", index, arr.length)
		}
		codec = arr.elem
	} else if index != 0 {
		return errLookupf(name, "index %d on non-array field", index)
	}
	es := codec.Size()
	pos := base + f.offset + index*es
	if len(buf) < pos+es {
		return errSize(len(buf), pos+es)
	}
	b, err := codec.Serialize(value)
	if err != nil {
		return named(name, err)
	}
	copy(buf[pos:pos+es], b)
	return nil
}

// deserializeElement decodes a single named element from buf[base:].
func (c *Composite) deserializeElement(name string, buf []byte, base, index int) (any, error) {
	if owner, ok := c.flattened[name]; ok {
		f := c.fields[c.index[owner]]
		return f.codec.(*Bitfield).readField(name, buf, base+f.offset)
	}
	f, ok := c.lookup(name)
	if !ok {
		return nil, errLookupf(name, "no such field")
	}
	codec := f.codec
	if arr, isArr := codec.(*Array); isArr {
		if index < 0 || index >= arr.length {
			return nil, errLookupf(name, "index %d out of range [0, %d)", index, arr.length)
		}
		codec = arr.elem
	} else if index != 0 {
		return nil, errLookupf(name, "index %d on non-array field", index)
	}
	es := codec.Size()
	pos := base + f.offset + index*es
	if len(buf) < pos+es {
		return nil, errSize(len(buf), pos+es)
	}
	v, err := codec.Deserialize(buf[pos : pos+es])
	if err != nil {
		return nil, named(name, err)
	}
	return v, nil
}

func (c *Composite) lookup(name string) (*Field, bool) {
	i, ok := c.index[name]
	if !ok || c.fields[i].pad {
		return nil, false
	}
	return c.fields[i], true
}

// RemoveFrom deletes the named field and every field after it, then
// re-bases the remaining offsets to start at zero.
func (c *Composite) RemoveFrom(name string) error {
	return c.removeRange(name, false)
}

// RemoveTo deletes every field from the beginning up to and including
// the named field, then re-bases the remaining offsets to start at
// zero.
func (c *Composite) RemoveTo(name string) error {
	return c.removeRange(name, true)
}

func (c *Composite) removeRange(name string, toCriteria bool) error {
	pos, ok := c.index[name]
	if !ok {
		return errLookupf(name, "no such field")
	}
	var kept []*Field
	if toCriteria {
		kept = c.fields[pos+1:]
	} else {
		kept = c.fields[:pos]
	}
	c.fields = append([]*Field(nil), kept...)
	c.index = make(map[string]int)
	c.flattened = make(map[string]string)
	for i, f := range c.fields {
		c.index[f.name] = i
		if f.flatten {
			for _, sub := range f.codec.(*Bitfield).fieldNames() {
				c.flattened[sub] = f.name
			}
		}
	}
	if len(c.fields) > 0 {
		adjust := c.fields[0].offset
		for _, f := range c.fields {
			f.offset -= adjust
		}
	}
	return nil
}

// String renders the field table: name, type, size, length, offset
// and largest-member contribution per field, padding included.
func (c *Composite) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%-30s%-15s%-10s%-10s%-10s%-10s", "Name", "Type", "Size", "Length", "Offset", "Largest")
	for _, f := range c.fields {
		typeName, size, length := f.codec.TypeName(), f.codec.Size(), f.length
		if arr, ok := f.codec.(*Array); ok {
			typeName, size, length = arr.elem.TypeName(), arr.elem.Size(), arr.length
		}
		fmt.Fprintf(&sb, "\n%-30s%-15s%-10d%-10d%-10d%-10d", f.name, typeName, size, length, f.offset, f.codec.Alignment())
	}
	return sb.String()
}
