package cstruct_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/layoutlabs/cstruct-go/pkg/cstruct"
)

func TestPersonRoundTrip(t *testing.T) {
	person, err := cstruct.NewStruct(cstruct.LittleEndian, 4)
	require.NoError(t, err)
	require.NoError(t, person.Add("utf-8", "name", cstruct.WithLength(16)))
	require.NoError(t, person.Add("uint8", "age"))
	require.NoError(t, person.Add("float32", "height"))

	// 16 + 1 + 3 pad + 4
	assert.Equal(t, 24, person.Size())

	buf, err := person.Serialize(map[string]any{
		"name":   "Ada",
		"age":    36,
		"height": 1.5,
	})
	require.NoError(t, err)
	require.Len(t, buf, 24)

	got, err := person.Deserialize(buf)
	require.NoError(t, err)
	m := got.(map[string]any)
	assert.Equal(t, "Ada", m["name"])
	assert.Equal(t, uint64(36), m["age"])
	assert.Equal(t, 1.5, m["height"])
}

func TestMessageHeader(t *testing.T) {
	flags, err := cstruct.NewBitfield(cstruct.LittleEndian, 0)
	require.NoError(t, err)
	require.NoError(t, flags.Add("version", 3, false))
	require.NoError(t, flags.Add("compressed", 1, false))
	require.NoError(t, flags.Add("priority", 4, true))

	kind, err := cstruct.NewEnum(cstruct.LittleEndian, 1, false)
	require.NoError(t, err)
	require.NoError(t, kind.Add("data"))
	require.NoError(t, kind.Add("ack"))
	require.NoError(t, kind.Add("nack"))

	header, err := cstruct.NewStruct(cstruct.LittleEndian, 4)
	require.NoError(t, err)
	require.NoError(t, header.Add("uint32", "seq"))
	require.NoError(t, header.Add(kind, "kind"))
	require.NoError(t, header.Add(flags, "flags", cstruct.WithFlatten()))
	require.NoError(t, header.Add("uint16", "length", cstruct.WithByteOrder(cstruct.BigEndian)))

	buf, err := header.Serialize(map[string]any{
		"seq":        9,
		"kind":       "ack",
		"version":    2,
		"compressed": 1,
		"priority":   -1,
		"length":     0x0100,
	})
	require.NoError(t, err)

	got, err := header.Deserialize(buf)
	require.NoError(t, err)
	m := got.(map[string]any)
	assert.Equal(t, uint64(9), m["seq"])
	assert.Equal(t, "ack", m["kind"])
	assert.Equal(t, uint64(2), m["version"])
	assert.Equal(t, int64(-1), m["priority"])
	assert.Equal(t, uint64(0x0100), m["length"])
}

func TestInstanceView(t *testing.T) {
	point, err := cstruct.NewStruct(cstruct.LittleEndian, 4)
	require.NoError(t, err)
	require.NoError(t, point.Add("int32", "x"))
	require.NoError(t, point.Add("int32", "y"))

	shape, err := cstruct.NewStruct(cstruct.LittleEndian, 4)
	require.NoError(t, err)
	require.NoError(t, shape.Add("uint8", "sides"))
	require.NoError(t, shape.Add(point, "origin"))

	view, err := cstruct.NewInstance(shape, nil, 0)
	require.NoError(t, err)
	require.NoError(t, view.Set("sides", 4))

	sub, err := view.Get("origin")
	require.NoError(t, err)
	origin := sub.(*cstruct.Instance)
	require.NoError(t, origin.Set("x", -10))

	// the sub-view and the parent share one buffer
	got, err := shape.Deserialize(view.Bytes())
	require.NoError(t, err)
	m := got.(map[string]any)
	assert.Equal(t, uint64(4), m["sides"])
	assert.Equal(t, int64(-10), m["origin"].(map[string]any)["x"])
}

func TestErrorKinds(t *testing.T) {
	s, err := cstruct.NewStruct(cstruct.LittleEndian, 1)
	require.NoError(t, err)
	require.NoError(t, s.Add("uint8", "n"))

	var ce *cstruct.ConfigError
	assert.ErrorAs(t, s.Add("uint8", "n"), &ce)

	_, err = s.Serialize(map[string]any{"n": 300})
	var re *cstruct.RangeError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "n", re.Field)

	_, err = s.Deserialize(nil)
	var se *cstruct.SizeError
	assert.ErrorAs(t, err, &se)

	en, err := cstruct.NewEnum(cstruct.NativeOrder, 0, false)
	require.NoError(t, err)
	require.NoError(t, en.Add("only"))
	_, err = en.Serialize("other")
	var le *cstruct.LookupError
	assert.True(t, errors.As(err, &le))
}

func TestParseHelpers(t *testing.T) {
	k, err := cstruct.ParseKind("float64")
	require.NoError(t, err)
	assert.Equal(t, cstruct.KindFloat64, k)

	bo, err := cstruct.ParseByteOrder("big")
	require.NoError(t, err)
	assert.Equal(t, cstruct.BigEndian, bo)

	_, err = cstruct.ParseKind("long double")
	assert.Error(t, err)
}
