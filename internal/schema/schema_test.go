package schema

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/layoutlabs/cstruct-go/internal/layout"
)

const sensorSchema = `
types:
  - name: status
    kind: enum
    byteorder: little
    constants:
      - name: idle
      - name: active
      - name: fault
        value: 255
  - name: flags
    kind: bitfield
    byteorder: little
    fields:
      - name: enabled
        bits: 1
      - name: gain
        bits: 4
        signed: true
  - name: reading
    kind: struct
    byteorder: little
    alignment: 4
    fields:
      - name: id
        type: uint16
      - name: value
        type: float32
      - name: state
        type: status
      - name: label
        type: utf-8
        length: 8
      - name: ctrl
        type: flags
        flatten: true
`

func TestParseCompilesDocument(t *testing.T) {
	set, err := Parse([]byte(sensorSchema))
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"status", "flags", "reading"}
	if !reflect.DeepEqual(set.Names(), want) {
		t.Fatalf("names %v", set.Names())
	}

	codec, ok := set.Lookup("reading")
	if !ok {
		t.Fatal("reading not compiled")
	}
	comp := codec.(*layout.Composite)

	// id@0, pad, value@4, state@8, label@9, ctrl@17, then trailing pad
	if comp.Size() != 20 {
		t.Fatalf("size %d", comp.Size())
	}
	names := comp.Names()
	wantNames := []string{"id", "value", "state", "label", "enabled", "gain"}
	if !reflect.DeepEqual(names, wantNames) {
		t.Fatalf("field names %v", names)
	}
}

func TestCompiledRoundTrip(t *testing.T) {
	set, err := Parse([]byte(sensorSchema))
	if err != nil {
		t.Fatal(err)
	}
	codec, _ := set.Lookup("reading")
	comp := codec.(*layout.Composite)

	buf, err := comp.Serialize(map[string]any{
		"id":      77,
		"value":   2.5,
		"state":   "fault",
		"label":   "temp",
		"enabled": 1,
		"gain":    -4,
	})
	if err != nil {
		t.Fatal(err)
	}
	got, err := comp.Deserialize(buf)
	if err != nil {
		t.Fatal(err)
	}
	m := got.(map[string]any)
	if m["id"] != uint64(77) || m["value"] != 2.5 || m["state"] != "fault" {
		t.Fatalf("decoded %v", m)
	}
	if m["label"] != "temp" || m["enabled"] != uint64(1) || m["gain"] != int64(-4) {
		t.Fatalf("decoded %v", m)
	}
}

func TestEnumAutoAndExplicitValues(t *testing.T) {
	set, err := Parse([]byte(sensorSchema))
	if err != nil {
		t.Fatal(err)
	}
	codec, _ := set.Lookup("status")
	en := codec.(*layout.Enum)
	for name, want := range map[string]int64{"idle": 0, "active": 1, "fault": 255} {
		v, err := en.ValueOf(name)
		if err != nil {
			t.Fatal(err)
		}
		if v != want {
			t.Fatalf("%s = %d, want %d", name, v, want)
		}
	}
}

func TestTypeReferencesEarlierType(t *testing.T) {
	doc := `
types:
  - name: point
    kind: struct
    alignment: 4
    fields:
      - name: x
        type: int32
      - name: y
        type: int32
  - name: line
    kind: struct
    alignment: 4
    fields:
      - name: ends
        type: point
        length: 2
`
	set, err := Parse([]byte(doc))
	if err != nil {
		t.Fatal(err)
	}
	codec, _ := set.Lookup("line")
	if codec.Size() != 16 {
		t.Fatalf("size %d", codec.Size())
	}
}

func TestMultiDimensionalField(t *testing.T) {
	doc := `
types:
  - name: grid
    kind: struct
    byteorder: big
    fields:
      - name: cells
        type: uint16
        dims: [2, 3]
`
	set, err := Parse([]byte(doc))
	if err != nil {
		t.Fatal(err)
	}
	codec, _ := set.Lookup("grid")
	comp := codec.(*layout.Composite)
	if comp.Size() != 12 {
		t.Fatalf("size %d", comp.Size())
	}

	buf, err := comp.Serialize(map[string]any{
		"cells": []any{
			[]any{1, 2, 3},
			[]any{4, 5, 6},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	// row-major, big-endian
	if buf[1] != 1 || buf[5] != 3 || buf[7] != 4 {
		t.Fatalf("encoded bytes %v", buf)
	}
}

func TestLoadReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.yaml")
	if err := os.WriteFile(path, []byte(sensorSchema), 0o644); err != nil {
		t.Fatal(err)
	}
	set, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := set.Lookup("reading"); !ok {
		t.Fatal("reading not compiled")
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("missing file accepted")
	}
}

func TestSchemaErrors(t *testing.T) {
	cases := []struct {
		name string
		doc  string
	}{
		{"bad yaml", `types: [`},
		{"unknown kind", "types:\n  - name: t\n    kind: tuple\n"},
		{"missing name", "types:\n  - kind: struct\n"},
		{"duplicate type", "types:\n  - name: t\n    kind: struct\n  - name: t\n    kind: struct\n"},
		{"unknown field type", "types:\n  - name: t\n    kind: struct\n    fields:\n      - name: f\n        type: int128\n"},
		{"bits outside bitfield", "types:\n  - name: t\n    kind: struct\n    fields:\n      - name: f\n        type: uint8\n        bits: 3\n"},
		{"bad byte order", "types:\n  - name: t\n    kind: struct\n    byteorder: middle\n"},
	}
	for _, c := range cases {
		_, err := Parse([]byte(c.doc))
		var ce *layout.ConfigError
		if !errors.As(err, &ce) {
			t.Fatalf("%s: want ConfigError, got %v", c.name, err)
		}
	}
}
