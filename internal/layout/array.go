package layout

import "fmt"

// Array repeats an element codec a fixed number of times. Elements are
// laid out back to back, so nesting arrays yields multi-dimensional
// arrays with the outermost dimension varying slowest, exactly as C
// lays out T[a][b].
type Array struct {
	elem   Codec
	length int
}

// NewArray builds a fixed-length array of the element codec.
func NewArray(elem Codec, length int) (*Array, error) {
	if elem == nil {
		return nil, errConfigf("array element codec is nil")
	}
	if length < 1 {
		return nil, errConfigf("invalid array length: %d", length)
	}
	return &Array{elem: elem, length: length}, nil
}

// Elem returns the element codec.
func (a *Array) Elem() Codec { return a.elem }

// Len returns the declared number of elements.
func (a *Array) Len() int { return a.length }

func (a *Array) Size() int        { return a.length * a.elem.Size() }
func (a *Array) Alignment() int   { return a.elem.Alignment() }
func (a *Array) TypeName() string { return fmt.Sprintf("%s[%d]", a.elem.TypeName(), a.length) }

// Serialize encodes up to Len elements. Supplying more than Len items
// is a *RangeError; supplying fewer leaves the remaining element slots
// zeroed.
func (a *Array) Serialize(v any) ([]byte, error) {
	items, ok := toSlice(v)
	if !ok {
		return nil, errRangef("", "value %v (%T) is not a list", v, v)
	}
	if len(items) > a.length {
		return nil, errRangef("", "list of %d items exceeds declared length %d", len(items), a.length)
	}
	es := a.elem.Size()
	buf := make([]byte, a.Size())
	for i, item := range items {
		b, err := a.elem.Serialize(item)
		if err != nil {
			return nil, err
		}
		copy(buf[i*es:(i+1)*es], b)
	}
	return buf, nil
}

func (a *Array) Deserialize(buf []byte) (any, error) {
	if len(buf) < a.Size() {
		return nil, errSize(len(buf), a.Size())
	}
	es := a.elem.Size()
	out := make([]any, a.length)
	for i := range out {
		v, err := a.elem.Deserialize(buf[i*es : (i+1)*es])
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
