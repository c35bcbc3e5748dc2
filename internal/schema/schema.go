// Package schema compiles declarative type descriptions (YAML, or
// JSON as its subset) into layout codecs. Documents define structs,
// unions, bitfields and enums by name; later types may reference
// earlier ones, so a document is compiled top to bottom.
//
// The compiler only uses the public construction API of the layout
// package; it never reaches into layout internals.
package schema

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/layoutlabs/cstruct-go/internal/layout"
)

// Document is the root of a schema file.
type Document struct {
	Types []TypeDef `yaml:"types"`
}

// TypeDef describes one named type.
type TypeDef struct {
	Name      string        `yaml:"name"`
	Kind      string        `yaml:"kind"` // struct | union | bitfield | enum
	ByteOrder string        `yaml:"byteorder"`
	Alignment int           `yaml:"alignment"` // struct/union, default 1
	Size      int           `yaml:"size"`      // bitfield/enum forced size
	Signed    bool          `yaml:"signed"`    // enum
	Fields    []FieldDef    `yaml:"fields"`    // struct/union/bitfield
	Constants []ConstantDef `yaml:"constants"` // enum
}

// FieldDef describes one member of a struct, union or bitfield.
type FieldDef struct {
	Name      string `yaml:"name"`
	Type      string `yaml:"type"`   // primitive or earlier type name
	Length    int    `yaml:"length"` // array length, or utf-8 capacity
	Dims      []int  `yaml:"dims"`   // multi-dimensional array shape
	ByteOrder string `yaml:"byteorder"`
	Flatten   bool   `yaml:"flatten"`
	Bits      int    `yaml:"bits"`   // bitfield members only
	Signed    bool   `yaml:"signed"` // bitfield members only
}

// ConstantDef describes one enum constant. A nil value auto-assigns
// the next free integer.
type ConstantDef struct {
	Name  string `yaml:"name"`
	Value *int64 `yaml:"value"`
}

// Set holds the compiled codecs of one document in definition order.
type Set struct {
	names []string
	types map[string]layout.Codec
}

// Names returns the type names in definition order.
func (s *Set) Names() []string {
	return append([]string(nil), s.names...)
}

// Lookup returns the codec compiled for name.
func (s *Set) Lookup(name string) (layout.Codec, bool) {
	c, ok := s.types[name]
	return c, ok
}

// Load reads and compiles a schema file.
func Load(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("schema: %w", err)
	}
	set, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("schema %s: %w", path, err)
	}
	return set, nil
}

// Parse compiles a schema document from raw bytes.
func Parse(data []byte) (*Set, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &layout.ConfigError{Reason: fmt.Sprintf("invalid schema document: %v", err)}
	}
	return Compile(&doc)
}

// Compile builds codecs for every type in the document.
func Compile(doc *Document) (*Set, error) {
	set := &Set{types: make(map[string]layout.Codec)}
	for i := range doc.Types {
		td := &doc.Types[i]
		if td.Name == "" {
			return nil, &layout.ConfigError{Reason: "type without a name"}
		}
		if _, dup := set.types[td.Name]; dup {
			return nil, &layout.ConfigError{Reason: fmt.Sprintf("type name already exists: %q", td.Name)}
		}
		codec, err := compileType(td, set)
		if err != nil {
			return nil, fmt.Errorf("type %q: %w", td.Name, err)
		}
		set.names = append(set.names, td.Name)
		set.types[td.Name] = codec
	}
	return set, nil
}

func compileType(td *TypeDef, set *Set) (layout.Codec, error) {
	byteOrder, err := layout.ParseByteOrder(td.ByteOrder)
	if err != nil {
		return nil, err
	}

	switch td.Kind {
	case "struct", "union":
		alignment := td.Alignment
		if alignment == 0 {
			alignment = 1
		}
		var comp *layout.Composite
		if td.Kind == "union" {
			comp, err = layout.NewUnion(byteOrder, alignment)
		} else {
			comp, err = layout.NewStruct(byteOrder, alignment)
		}
		if err != nil {
			return nil, err
		}
		for i := range td.Fields {
			if err := addField(comp, &td.Fields[i], set); err != nil {
				return nil, err
			}
		}
		return comp, nil

	case "bitfield":
		bf, err := layout.NewBitfield(byteOrder, td.Size)
		if err != nil {
			return nil, err
		}
		for _, fd := range td.Fields {
			bits := fd.Bits
			if bits == 0 {
				bits = 1
			}
			if err := bf.Add(fd.Name, bits, fd.Signed); err != nil {
				return nil, err
			}
		}
		return bf, nil

	case "enum":
		en, err := layout.NewEnum(byteOrder, td.Size, td.Signed)
		if err != nil {
			return nil, err
		}
		for _, cd := range td.Constants {
			if cd.Value == nil {
				err = en.Add(cd.Name)
			} else {
				err = en.AddValue(cd.Name, *cd.Value)
			}
			if err != nil {
				return nil, err
			}
		}
		return en, nil

	default:
		return nil, &layout.ConfigError{Reason: fmt.Sprintf("unknown type kind %q", td.Kind)}
	}
}

func addField(comp *layout.Composite, fd *FieldDef, set *Set) error {
	if fd.Bits != 0 {
		return &layout.ConfigError{Reason: fmt.Sprintf("field %q: bits only allowed inside bitfield types", fd.Name)}
	}

	var opts []layout.AddOption
	if fd.ByteOrder != "" {
		bo, err := layout.ParseByteOrder(fd.ByteOrder)
		if err != nil {
			return err
		}
		opts = append(opts, layout.WithByteOrder(bo))
	}
	if fd.Flatten {
		opts = append(opts, layout.WithFlatten())
	}

	// A reference to an earlier type compiles to its codec; anything
	// else is passed through as a primitive type name.
	var datatype any = fd.Type
	if codec, ok := set.types[fd.Type]; ok {
		datatype = codec
	}

	if len(fd.Dims) > 0 {
		codec, err := resolveElem(datatype, fd, comp)
		if err != nil {
			return err
		}
		// Wrap inner dimensions first: dims [2][3] is two rows of
		// three elements, rows varying slowest.
		for i := len(fd.Dims) - 1; i >= 0; i-- {
			if codec, err = layout.NewArray(codec, fd.Dims[i]); err != nil {
				return err
			}
		}
		return comp.Add(codec, fd.Name, opts...)
	}

	if fd.Length > 0 {
		opts = append(opts, layout.WithLength(fd.Length))
	}
	return comp.Add(datatype, fd.Name, opts...)
}

// resolveElem builds the element codec for a multi-dimensional field.
func resolveElem(datatype any, fd *FieldDef, comp *layout.Composite) (layout.Codec, error) {
	if codec, ok := datatype.(layout.Codec); ok {
		return codec, nil
	}
	kind, err := layout.ParseKind(datatype.(string))
	if err != nil {
		return nil, err
	}
	if kind == layout.KindText {
		length := fd.Length
		if length == 0 {
			length = 1
		}
		return layout.NewText(length)
	}
	byteOrder := comp.ByteOrder()
	if fd.ByteOrder != "" {
		if byteOrder, err = layout.ParseByteOrder(fd.ByteOrder); err != nil {
			return nil, err
		}
	}
	return layout.NewScalar(kind, byteOrder)
}
