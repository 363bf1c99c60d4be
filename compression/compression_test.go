package compression

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUnitCodecsRoundTrip(t *testing.T) {
	payload := []byte("the quick brown fox jumps over the lazy dog")
	for _, c := range []Compressor{&Nop{}, &GzipCodec{}, &SnappyCodec{}, &Lz4Codec{}} {
		compressed, err := c.Compress(payload)
		require.NoError(t, err)
		var d Decompressor
		if c.Type() == None {
			d = &Nop{}
		} else {
			d = ByType(c.Type())
			require.NotNil(t, d)
			require.Equal(t, c.Type(), d.Type())
		}
		out, err := d.Decompress(compressed)
		require.NoError(t, err)
		require.Equal(t, payload, out)
	}
}

func TestUnitByTypeUnknown(t *testing.T) {
	require.Nil(t, ByType(None))
	require.Nil(t, ByType(0x05))
}
