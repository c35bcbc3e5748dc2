package layout

import (
	"bytes"
	"errors"
	"testing"
)

func TestEnumAutoValues(t *testing.T) {
	e, err := NewEnum(LittleEndian, 0, false)
	if err != nil {
		t.Fatal(err)
	}
	if err := e.Add("red"); err != nil {
		t.Fatal(err)
	}
	if err := e.AddValue("blue", 5); err != nil {
		t.Fatal(err)
	}
	if err := e.Add("green"); err != nil {
		t.Fatal(err)
	}

	cases := map[string]int64{"red": 0, "blue": 5, "green": 1}
	for name, want := range cases {
		v, err := e.ValueOf(name)
		if err != nil {
			t.Fatal(err)
		}
		if v != want {
			t.Fatalf("%s = %d, want %d", name, v, want)
		}
	}
}

func TestEnumRoundTrip(t *testing.T) {
	e, _ := NewEnum(LittleEndian, 0, false)
	e.Add("off")
	e.Add("on")
	e.Add("auto")

	buf, err := e.Serialize("auto")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(buf, []byte{2}) {
		t.Fatalf("encoded bytes %v", buf)
	}
	got, err := e.Deserialize(buf)
	if err != nil {
		t.Fatal(err)
	}
	if got != "auto" {
		t.Fatalf("decoded %v", got)
	}
}

func TestEnumUnknownValuePlaceholder(t *testing.T) {
	e, _ := NewEnum(LittleEndian, 0, false)
	e.AddValue("a", 0)
	e.AddValue("b", 1)
	e.AddValue("c", 2)

	got, err := e.Deserialize([]byte{0x7F})
	if err != nil {
		t.Fatal(err)
	}
	if got != "__VALUE__127" {
		t.Fatalf("decoded %v", got)
	}
}

func TestEnumUnknownNameFails(t *testing.T) {
	e, _ := NewEnum(LittleEndian, 0, false)
	e.Add("a")
	_, err := e.Serialize("z")
	var le *LookupError
	if !errors.As(err, &le) {
		t.Fatalf("want LookupError, got %v", err)
	}
}

func TestEnumSignedNegative(t *testing.T) {
	e, _ := NewEnum(BigEndian, 0, true)
	if err := e.AddValue("err", -1); err != nil {
		t.Fatal(err)
	}
	e.AddValue("ok", 0)

	if e.Size() != 1 {
		t.Fatalf("size %d", e.Size())
	}
	buf, err := e.Serialize("err")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(buf, []byte{0xFF}) {
		t.Fatalf("encoded bytes %x", buf)
	}
	got, err := e.Deserialize(buf)
	if err != nil {
		t.Fatal(err)
	}
	if got != "err" {
		t.Fatalf("decoded %v", got)
	}
}

func TestEnumUnsignedRejectsNegative(t *testing.T) {
	e, _ := NewEnum(LittleEndian, 0, false)
	err := e.AddValue("bad", -3)
	var ce *ConfigError
	if !errors.As(err, &ce) {
		t.Fatalf("want ConfigError, got %v", err)
	}
}

func TestEnumSizeGrowth(t *testing.T) {
	e, _ := NewEnum(LittleEndian, 0, false)
	e.AddValue("small", 200)
	if e.Size() != 1 {
		t.Fatalf("size after 200: %d", e.Size())
	}
	e.AddValue("big", 70000)
	if e.Size() != 3 {
		t.Fatalf("size after 70000: %d", e.Size())
	}
	if e.Alignment() != 4 {
		t.Fatalf("alignment %d", e.Alignment())
	}

	// the sign bit pushes 200 over one byte in a signed enum
	se, _ := NewEnum(LittleEndian, 0, true)
	se.AddValue("small", 200)
	if se.Size() != 2 {
		t.Fatalf("signed size after 200: %d", se.Size())
	}
}

func TestEnumForcedSize(t *testing.T) {
	e, err := NewEnum(BigEndian, 4, false)
	if err != nil {
		t.Fatal(err)
	}
	e.AddValue("x", 1)
	if e.Size() != 4 {
		t.Fatalf("size %d", e.Size())
	}
	buf, _ := e.Serialize("x")
	if !bytes.Equal(buf, []byte{0, 0, 0, 1}) {
		t.Fatalf("encoded bytes %x", buf)
	}

	small, _ := NewEnum(LittleEndian, 1, false)
	if err := small.AddValue("huge", 300); err == nil {
		t.Fatal("value beyond forced size accepted")
	}
}

func TestEnumDuplicateValueFirstNameWins(t *testing.T) {
	e, _ := NewEnum(LittleEndian, 0, false)
	e.AddValue("first", 7)
	e.AddValue("alias", 7)
	name, err := e.NameOf(7)
	if err != nil {
		t.Fatal(err)
	}
	if name != "first" {
		t.Fatalf("NameOf(7) = %q", name)
	}
	got, _ := e.Deserialize([]byte{7})
	if got != "first" {
		t.Fatalf("decoded %v", got)
	}
}

func TestEnumDuplicateName(t *testing.T) {
	e, _ := NewEnum(LittleEndian, 0, false)
	e.Add("x")
	err := e.Add("x")
	var ce *ConfigError
	if !errors.As(err, &ce) {
		t.Fatalf("want ConfigError, got %v", err)
	}
}
