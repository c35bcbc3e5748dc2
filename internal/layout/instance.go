package layout

import (
	"fmt"
	"strings"
)

// Instance is a zero-copy view of a composite or bitfield bound to a
// backing buffer and a start offset. Field reads decode from the live
// buffer at access time and writes encode into it immediately; no
// values are ever cached. The buffer is shared with every descendant
// sub-view, so it must outlive the instance.
type Instance struct {
	codec     Codec
	composite *Composite // set when viewing a struct/union
	bitfield  *Bitfield  // set when viewing a bitfield
	buf       []byte
	offset    int
	attrs     []string
	attrSet   map[string]struct{}
	children  map[string]*Instance
	lists     map[string]*InstanceList
}

// NewInstance creates a view of codec over buf starting at offset. A
// nil buf allocates a fresh zero-filled buffer of codec.Size() bytes.
// Only *Composite and *Bitfield codecs can be viewed.
func NewInstance(codec Codec, buf []byte, offset int) (*Instance, error) {
	switch codec.(type) {
	case *Composite, *Bitfield:
	default:
		return nil, errConfigf("instance requires a struct, union or bitfield codec, got %s", codec.TypeName())
	}
	if buf == nil {
		buf = make([]byte, codec.Size())
	}
	if offset < 0 || len(buf) < offset+codec.Size() {
		return nil, errSize(len(buf), offset+codec.Size())
	}

	in := &Instance{codec: codec, buf: buf, offset: offset}
	switch t := codec.(type) {
	case *Composite:
		in.composite = t
		in.attrs = t.Names()
		in.children = make(map[string]*Instance)
		in.lists = make(map[string]*InstanceList)
		for _, f := range t.fields {
			if f.pad || f.flatten {
				continue
			}
			switch sub := f.codec.(type) {
			case *Array:
				list, err := newInstanceList(t, f, buf, offset)
				if err != nil {
					return nil, err
				}
				in.lists[f.name] = list
			case *Composite, *Bitfield:
				child, err := NewInstance(sub, buf, offset+f.offset)
				if err != nil {
					return nil, err
				}
				in.children[f.name] = child
			}
		}
	case *Bitfield:
		in.bitfield = t
		in.attrs = t.fieldNames()
	}

	in.attrSet = make(map[string]struct{}, len(in.attrs))
	for _, a := range in.attrs {
		in.attrSet[a] = struct{}{}
	}
	return in, nil
}

// Names returns the accessible field names in declaration order.
func (in *Instance) Names() []string {
	return append([]string(nil), in.attrs...)
}

// Get returns the value of a named field, decoded from the buffer at
// access time. Fields that are themselves structured return their
// cached sub-view (*Instance or *InstanceList).
func (in *Instance) Get(name string) (any, error) {
	if child, ok := in.children[name]; ok {
		return child, nil
	}
	if list, ok := in.lists[name]; ok {
		return list, nil
	}
	if _, ok := in.attrSet[name]; !ok {
		return nil, errLookupf(name, "instance has no element")
	}
	if in.bitfield != nil {
		return in.bitfield.readField(name, in.buf, in.offset)
	}
	return in.composite.deserializeElement(name, in.buf, in.offset, 0)
}

// Set validates value against the field's definition and encodes it
// into the buffer. Fields backed by a sub-view are navigate-only:
// mutate their leaves through the sub-view instead.
func (in *Instance) Set(name string, value any) error {
	if _, structural := in.children[name]; structural {
		return errLookupf(name, "structural field, modify it through its own view")
	}
	if _, structural := in.lists[name]; structural {
		return errLookupf(name, "structural field, modify it through its own view")
	}
	if _, ok := in.attrSet[name]; !ok {
		return errLookupf(name, "instance has no element")
	}
	if in.bitfield != nil {
		return in.bitfield.writeField(name, value, in.buf, in.offset)
	}
	return in.composite.serializeElement(name, value, in.buf, in.offset, 0)
}

// Bytes returns the instance's byte region of the shared buffer, not
// a copy: mutations through the view are immediately visible here and
// vice versa.
func (in *Instance) Bytes() []byte {
	return in.buf[in.offset : in.offset+in.codec.Size()]
}

// String renders every field recursively, qualifying nested names
// with a dotted path prefix.
func (in *Instance) String() string {
	return in.render("")
}

func (in *Instance) render(prefix string) string {
	var lines []string
	for _, attr := range in.attrs {
		if child, ok := in.children[attr]; ok {
			lines = append(lines, child.render(prefix+attr+"."))
			continue
		}
		if list, ok := in.lists[attr]; ok {
			lines = append(lines, list.render(prefix+attr+" : "))
			continue
		}
		v, err := in.Get(attr)
		if err != nil {
			v = fmt.Sprintf("<%v>", err)
		}
		lines = append(lines, fmt.Sprintf("%s%s : %v", prefix, attr, v))
	}
	return strings.Join(lines, "\n")
}

// InstanceList is the indexable accessor for an array field of an
// Instance. Elements of composite or bitfield type are backed by
// eagerly built sub-views; any other element type decodes and encodes
// per element on demand.
type InstanceList struct {
	parent   *Composite
	field    *Field
	elem     Codec
	length   int
	buf      []byte
	offset   int // the owning instance's start offset
	children []*Instance
}

func newInstanceList(parent *Composite, f *Field, buf []byte, offset int) (*InstanceList, error) {
	arr := f.codec.(*Array)
	l := &InstanceList{
		parent: parent,
		field:  f,
		elem:   arr.elem,
		length: arr.length,
		buf:    buf,
		offset: offset,
	}
	switch e := arr.elem.(type) {
	case *Composite, *Bitfield:
		for i := 0; i < arr.length; i++ {
			child, err := NewInstance(e, buf, offset+f.offset+i*arr.elem.Size())
			if err != nil {
				return nil, err
			}
			l.children = append(l.children, child)
		}
	}
	return l, nil
}

// Len returns the declared element count.
func (l *InstanceList) Len() int { return l.length }

// At returns the element at index i: a sub-view for structured
// elements, otherwise the freshly decoded value.
func (l *InstanceList) At(i int) (any, error) {
	if err := l.check(i); err != nil {
		return nil, err
	}
	if len(l.children) > 0 {
		return l.children[i], nil
	}
	return l.parent.deserializeElement(l.field.name, l.buf, l.offset, i)
}

// Set validates and encodes the element at index i. Structured
// elements are navigate-only.
func (l *InstanceList) Set(i int, value any) error {
	if err := l.check(i); err != nil {
		return err
	}
	if len(l.children) > 0 {
		return errLookupf(fmt.Sprintf("%s[%d]", l.field.name, i), "structural element, modify it through its own view")
	}
	return l.parent.serializeElement(l.field.name, value, l.buf, l.offset, i)
}

func (l *InstanceList) check(i int) error {
	if i < 0 || i >= l.length {
		return errLookupf(fmt.Sprintf("%s[%d]", l.field.name, i), "index out of range [0, %d)", l.length)
	}
	return nil
}

// Bytes returns the array's byte region of the shared buffer.
func (l *InstanceList) Bytes() []byte {
	start := l.offset + l.field.offset
	return l.buf[start : start+l.field.codec.Size()]
}

func (l *InstanceList) String() string {
	return l.render("")
}

func (l *InstanceList) render(prefix string) string {
	if len(l.children) == 0 {
		parts := make([]string, l.length)
		for i := range parts {
			v, err := l.At(i)
			if err != nil {
				v = fmt.Sprintf("<%v>", err)
			}
			parts[i] = fmt.Sprint(v)
		}
		return fmt.Sprintf("%s[%s]", prefix, strings.Join(parts, ", "))
	}
	indent := strings.Repeat(" ", len(prefix))
	parts := make([]string, l.length)
	for i, child := range l.children {
		parts[i] = child.render(indent)
	}
	return fmt.Sprintf("%s[\n%s\n%s]", prefix, strings.Join(parts, "\n"+indent+",\n"), indent)
}
