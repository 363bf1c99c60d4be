/*
Package messageset implements functions for building, marshaling, and
unmarshaling legacy Kafka message sets (message format versions 0 and 1).

A message set is a sequence of messages, each framed as:

	offset:     int64  (ignored on produce, assigned by the broker)
	size:       int32  (bytes that follow, crc included)
	crc:        uint32 (IEEE CRC32 of everything from magic to end of value)
	magic:      int8   (0, or 1 when a timestamp is present)
	attributes: int8   (codec in the lower 3 bits)
	timestamp:  int64  (magic >= 1 only, ms since epoch)
	key:        int32 length prefixed bytes (-1 for no key)
	value:      int32 length prefixed bytes

There is no set-level header: the set's byte length is carried by the
enclosing Produce or Fetch structure. Because brokers bound fetch responses
by size, the last message of a fetched set may be truncated; the walker
drops it silently.
*/
package messageset

import (
	"bytes"
	"encoding/binary"
	"errors"
	"hash/crc32"

	"github.com/pubsubviewer/kafka/compression"
)

var ErrEmpty = errors.New("empty message set")

// Message is a single unmarshaled message. TimestampMs is 0 for magic 0
// messages (the legacy format carries no timestamp).
type Message struct {
	Offset      int64
	Attributes  int8
	TimestampMs int64
	Value       []byte
}

// Builder accumulates values for a produce message set. Not safe for
// concurrent use.
type Builder struct {
	values [][]byte
}

func NewBuilder() *Builder {
	return &Builder{}
}

// Add values to the set. Values are produced without keys.
func (b *Builder) Add(values ...[]byte) *Builder {
	b.values = append(b.values, values...)
	return b
}

func (b *Builder) AddStrings(values ...string) *Builder {
	for _, s := range values {
		b.values = append(b.values, []byte(s))
	}
	return b
}

// NumMessages that have been added to the builder.
func (b *Builder) NumMessages() int {
	return len(b.values)
}

// Build marshals the message set uncompressed. Returns ErrEmpty when no
// values have been added. Idempotent.
func (b *Builder) Build() ([]byte, error) {
	if len(b.values) == 0 {
		return nil, ErrEmpty
	}
	buf := new(bytes.Buffer)
	for _, v := range b.values {
		marshal(buf, 0, compression.None, v)
	}
	return buf.Bytes(), nil
}

// BuildCompressed marshals the message set, compresses it, and wraps it in a
// single wrapper message whose attributes carry the codec.
func (b *Builder) BuildCompressed(c compression.Compressor) ([]byte, error) {
	inner, err := b.Build()
	if err != nil {
		return nil, err
	}
	if c.Type() == compression.None {
		return inner, nil
	}
	compressed, err := c.Compress(inner)
	if err != nil {
		return nil, err
	}
	buf := new(bytes.Buffer)
	marshal(buf, 0, c.Type(), compressed)
	return buf.Bytes(), nil
}

// marshal writes one magic 0 message with no key. The crc covers magic,
// attributes, and the key and value framing, not the outer offset and size.
func marshal(buf *bytes.Buffer, offset int64, attributes int8, value []byte) {
	body := new(bytes.Buffer)
	body.WriteByte(0) // magic
	body.WriteByte(byte(attributes))
	binary.Write(body, binary.BigEndian, int32(-1)) // no key
	binary.Write(body, binary.BigEndian, int32(len(value)))
	body.Write(value)
	binary.Write(buf, binary.BigEndian, offset)
	binary.Write(buf, binary.BigEndian, int32(4+body.Len())) // size includes crc
	binary.Write(buf, binary.BigEndian, crc32.ChecksumIEEE(body.Bytes()))
	buf.Write(body.Bytes())
}

// Unmarshal walks a message set, transparently unwrapping compressed wrapper
// messages. A truncated trailing message is dropped, not an error. The crc
// is not verified (the transport already frames responses; a corrupt message
// surfaces as a parse stop, never a crash).
func Unmarshal(b []byte) []Message {
	var messages []Message
	for len(b) >= 12 {
		offset := int64(binary.BigEndian.Uint64(b))
		size := int32(binary.BigEndian.Uint32(b[8:]))
		if size < 6 { // crc + magic + attributes at minimum
			break
		}
		if len(b) < 12+int(size) {
			break // truncated tail, broker hit its byte bound
		}
		body := b[12+4 : 12+int(size)] // skip crc
		b = b[12+int(size):]
		m, ok := parse(offset, body)
		if !ok {
			break
		}
		if codec := m.Attributes & compression.Mask; codec != compression.None {
			messages = append(messages, unwrap(m, codec)...)
			continue
		}
		messages = append(messages, m)
	}
	return messages
}

// parse decodes magic, attributes, optional timestamp, key, value.
func parse(offset int64, body []byte) (Message, bool) {
	m := Message{Offset: offset}
	if len(body) < 2 {
		return m, false
	}
	magic := int8(body[0])
	m.Attributes = int8(body[1])
	body = body[2:]
	if magic >= 1 {
		if len(body) < 8 {
			return m, false
		}
		m.TimestampMs = int64(binary.BigEndian.Uint64(body))
		body = body[8:]
	}
	body, ok := skipBytes(body) // key
	if !ok {
		return m, false
	}
	value, _, ok := readBytes(body)
	if !ok {
		return m, false
	}
	m.Value = value
	return m, true
}

// unwrap decompresses a wrapper message and unmarshals the inner set. Inner
// offsets are relative to the wrapper for magic 1 wrappers (the wrapper
// carries the offset of the last inner message); magic 0 inner offsets are
// already absolute. An unknown codec or a decompression failure drops the
// wrapper, the next poll cycle retries the fetch.
func unwrap(wrapper Message, codec int8) []Message {
	d := compression.ByType(codec)
	if d == nil {
		return nil
	}
	inner, err := d.Decompress(wrapper.Value)
	if err != nil {
		return nil
	}
	messages := Unmarshal(inner)
	if n := len(messages); n > 0 && messages[n-1].Offset < wrapper.Offset {
		base := wrapper.Offset - messages[n-1].Offset
		for i := range messages {
			messages[i].Offset += base
		}
	}
	return messages
}

func readBytes(b []byte) (value []byte, rest []byte, ok bool) {
	if len(b) < 4 {
		return nil, nil, false
	}
	n := int32(binary.BigEndian.Uint32(b))
	b = b[4:]
	if n < 0 {
		return nil, b, true // null
	}
	if len(b) < int(n) {
		return nil, nil, false
	}
	return b[:n], b[n:], true
}

func skipBytes(b []byte) ([]byte, bool) {
	_, rest, ok := readBytes(b)
	return rest, ok
}
