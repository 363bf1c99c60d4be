package wire

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

type outer struct {
	Int16       int16
	Int64       int64
	Name        string
	Blob        []byte
	Int32Array  []int32
	StructArray []inner
	hidden      int32
	Skipped     int32 `wire:"omit"`
}

type inner struct {
	Id   int32
	Name string
}

func TestUnitMarshalUnmarshalRoundTrip(t *testing.T) {
	m := &outer{
		Int16:      1,
		Int64:      -7,
		Name:       "orders",
		Blob:       []byte{0xde, 0xad},
		Int32Array: []int32{2, 3},
		StructArray: []inner{
			{Id: 4, Name: "a"},
			{Id: 5, Name: ""},
		},
		hidden:  9,
		Skipped: 9,
	}
	buf := new(bytes.Buffer)
	require.NoError(t, Marshal(buf, m))
	n := &outer{}
	require.NoError(t, Unmarshal(bytes.NewReader(buf.Bytes()), n))
	require.Equal(t, m.Int16, n.Int16)
	require.Equal(t, m.Int64, n.Int64)
	require.Equal(t, m.Name, n.Name)
	require.Equal(t, m.Blob, n.Blob)
	require.Equal(t, m.Int32Array, n.Int32Array)
	require.Equal(t, m.StructArray, n.StructArray)
	require.Zero(t, n.hidden)
	require.Zero(t, n.Skipped)
}

func TestUnitMarshalBigEndian(t *testing.T) {
	buf := new(bytes.Buffer)
	require.NoError(t, Marshal(buf, &struct {
		A int32
		S string
	}{A: 1, S: "ab"}))
	require.Equal(t, []byte{0, 0, 0, 1, 0, 2, 'a', 'b'}, buf.Bytes())
}

func TestUnitUnmarshalNullString(t *testing.T) {
	// length -1 is a null string, reads as ""
	v := &struct{ S string }{}
	require.NoError(t, Unmarshal(bytes.NewReader([]byte{0xff, 0xff}), v))
	require.Equal(t, "", v.S)
}

func TestUnitUnmarshalNullBytes(t *testing.T) {
	v := &struct{ B []byte }{}
	require.NoError(t, Unmarshal(bytes.NewReader([]byte{0xff, 0xff, 0xff, 0xff}), v))
	require.Nil(t, v.B)
}

func TestUnitMarshalNilBytesAsNull(t *testing.T) {
	buf := new(bytes.Buffer)
	require.NoError(t, Marshal(buf, &struct{ B []byte }{}))
	require.Equal(t, []byte{0xff, 0xff, 0xff, 0xff}, buf.Bytes())
}
