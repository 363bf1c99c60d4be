// Package compression implements the codecs carried in the lower 3 bits of
// legacy message attributes. A compressed message set is a single wrapper
// message whose value is the compressed inner set.
package compression

import (
	"bytes"
	"io"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/gzip"
	"github.com/pierrec/lz4/v4"
)

const (
	None int8 = iota
	Gzip
	Snappy
	Lz4
)

// Mask extracts the codec from message attributes.
const Mask int8 = 0x07

type Compressor interface {
	Compress([]byte) ([]byte, error)
	Type() int8
}

type Decompressor interface {
	Decompress([]byte) ([]byte, error)
	Type() int8
}

// ByType returns the decompressor for a codec id, nil for None and for
// unknown codecs.
func ByType(codec int8) Decompressor {
	switch codec {
	case Gzip:
		return &GzipCodec{}
	case Snappy:
		return &SnappyCodec{}
	case Lz4:
		return &Lz4Codec{}
	}
	return nil
}

// Nop passes bytes through unchanged. Use it to marshal and unmarshal
// uncompressed message sets.
type Nop struct{}

func (*Nop) Compress(b []byte) ([]byte, error)   { return b, nil }
func (*Nop) Decompress(b []byte) ([]byte, error) { return b, nil }
func (*Nop) Type() int8                          { return None }

type GzipCodec struct{}

func (*GzipCodec) Type() int8 { return Gzip }

func (*GzipCodec) Compress(b []byte) ([]byte, error) {
	buf := new(bytes.Buffer)
	w := gzip.NewWriter(buf)
	if _, err := w.Write(b); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (*GzipCodec) Decompress(b []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

type SnappyCodec struct{}

func (*SnappyCodec) Type() int8 { return Snappy }

func (*SnappyCodec) Compress(b []byte) ([]byte, error) {
	return snappy.Encode(nil, b), nil
}

func (*SnappyCodec) Decompress(b []byte) ([]byte, error) {
	return snappy.Decode(nil, b)
}

type Lz4Codec struct{}

func (*Lz4Codec) Type() int8 { return Lz4 }

func (*Lz4Codec) Compress(b []byte) ([]byte, error) {
	buf := new(bytes.Buffer)
	w := lz4.NewWriter(buf)
	if _, err := w.Write(b); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (*Lz4Codec) Decompress(b []byte) ([]byte, error) {
	return io.ReadAll(lz4.NewReader(bytes.NewReader(b)))
}
