package layout

import (
	"bytes"
	"unicode/utf8"
)

// Text is a fixed-capacity UTF-8 byte region. Serialization fails when
// the encoded string exceeds the capacity; shorter strings leave the
// tail zeroed, which doubles as the null terminator. Deserialization
// stops at the first zero byte; a region with no zero byte is all
// text.
type Text struct {
	length int
}

// NewText builds a text codec with a capacity of length bytes.
func NewText(length int) (*Text, error) {
	if length < 1 {
		return nil, errConfigf("invalid text length: %d", length)
	}
	return &Text{length: length}, nil
}

func (t *Text) Size() int        { return t.length }
func (t *Text) Alignment() int   { return 1 } // byte granular, never pads
func (t *Text) TypeName() string { return "utf-8" }

func (t *Text) Serialize(v any) ([]byte, error) {
	s, ok := v.(string)
	if !ok {
		return nil, errRangef("", "value %v (%T) is not a string", v, v)
	}
	if !utf8.ValidString(s) {
		return nil, errRangef("", "string is not valid UTF-8")
	}
	if len(s) > t.length {
		return nil, errRangef("", "string of %d bytes overflows %d-byte text field", len(s), t.length)
	}
	buf := make([]byte, t.length)
	copy(buf, s)
	return buf, nil
}

func (t *Text) Deserialize(buf []byte) (any, error) {
	if len(buf) < t.length {
		return nil, errSize(len(buf), t.length)
	}
	region := buf[:t.length]
	if i := bytes.IndexByte(region, 0); i >= 0 {
		region = region[:i]
	}
	return string(region), nil
}
