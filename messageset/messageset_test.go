package messageset

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pubsubviewer/kafka/compression"
)

func TestUnitBuildUnmarshalRoundTrip(t *testing.T) {
	b, err := NewBuilder().AddStrings("m1", "m2", "m3").Build()
	require.NoError(t, err)
	messages := Unmarshal(b)
	require.Len(t, messages, 3)
	for i, want := range []string{"m1", "m2", "m3"} {
		require.Equal(t, want, string(messages[i].Value))
		require.Equal(t, int8(0), messages[i].Attributes)
	}
}

func TestUnitBuildEmpty(t *testing.T) {
	_, err := NewBuilder().Build()
	require.ErrorIs(t, err, ErrEmpty)
}

func TestUnitCrc(t *testing.T) {
	// standard IEEE reference value for "123456789"
	require.Equal(t, uint32(0xcbf43926), crc32.ChecksumIEEE([]byte("123456789")))

	// the embedded crc covers magic through value, not offset and size
	set, err := NewBuilder().Add([]byte("hello")).Build()
	require.NoError(t, err)
	size := int32(binary.BigEndian.Uint32(set[8:]))
	require.Equal(t, int32(4+2+4+4+5), size)
	crc := binary.BigEndian.Uint32(set[12:])
	require.Equal(t, crc32.ChecksumIEEE(set[16:12+size]), crc)
}

func TestUnitUnmarshalTruncatedTailDropped(t *testing.T) {
	b, err := NewBuilder().AddStrings("complete", "chopped").Build()
	require.NoError(t, err)
	messages := Unmarshal(b[:len(b)-3])
	require.Len(t, messages, 1)
	require.Equal(t, "complete", string(messages[0].Value))
}

func TestUnitUnmarshalEmpty(t *testing.T) {
	require.Nil(t, Unmarshal(nil))
	require.Nil(t, Unmarshal([]byte{0, 1, 2}))
}

func TestUnitCompressedWrapperRoundTrip(t *testing.T) {
	for _, c := range []compression.Compressor{
		&compression.GzipCodec{}, &compression.SnappyCodec{}, &compression.Lz4Codec{},
	} {
		b, err := NewBuilder().AddStrings("x", "yy", "zzz").BuildCompressed(c)
		require.NoError(t, err)
		messages := Unmarshal(b)
		require.Len(t, messages, 3)
		require.Equal(t, "zzz", string(messages[2].Value))
	}
}

func TestUnitUnmarshalMagic1Timestamp(t *testing.T) {
	// hand-built magic 1 message: the walker must read the timestamp
	body := new(bytes.Buffer)
	body.WriteByte(1) // magic
	body.WriteByte(0) // attributes
	binary.Write(body, binary.BigEndian, int64(1700000000000))
	binary.Write(body, binary.BigEndian, int32(-1)) // no key
	binary.Write(body, binary.BigEndian, int32(2))
	body.WriteString("hi")
	set := new(bytes.Buffer)
	binary.Write(set, binary.BigEndian, int64(42))
	binary.Write(set, binary.BigEndian, int32(4+body.Len()))
	binary.Write(set, binary.BigEndian, crc32.ChecksumIEEE(body.Bytes()))
	set.Write(body.Bytes())

	messages := Unmarshal(set.Bytes())
	require.Len(t, messages, 1)
	require.Equal(t, int64(42), messages[0].Offset)
	require.Equal(t, int64(1700000000000), messages[0].TimestampMs)
	require.Equal(t, "hi", string(messages[0].Value))
}
