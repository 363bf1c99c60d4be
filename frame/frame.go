// Package frame extracts correlation-tagged response frames from the raw
// byte stream read off a broker connection. Every frame on the wire is an
// int32 big-endian length (which excludes itself) followed by that many
// bytes, the first 4 of which are the int32 correlation id.
package frame

import "encoding/binary"

// MaxFrameSize is the sanity ceiling on the length prefix. A prefix above it
// (or at or below zero) means the stream is corrupted: the decoder cannot
// resynchronize frame-by-frame because the length field itself is
// untrustworthy, so it discards everything buffered.
const MaxFrameSize = 100 << 20

const headerSize = 8 // length prefix + correlation id

// Frame is a single decoded response. Bytes holds the complete frame,
// length prefix included; Body skips the prefix and the correlation id.
type Frame struct {
	CorrelationId int32
	Bytes         []byte
}

// Body returns the frame payload with the length and correlation id header
// stripped, ready for an api response parser.
func (f *Frame) Body() []byte {
	return f.Bytes[headerSize:]
}

// Decoder accumulates transport chunks and emits complete frames. Not safe
// for concurrent use; the reader loop owns it.
type Decoder struct {
	buf []byte
	// Resets counts defensive buffer discards due to corrupt length
	// prefixes.
	Resets int
}

// Feed appends a chunk from the transport and returns all frames completed
// by it. Returns nil when no full frame is buffered yet.
func (d *Decoder) Feed(chunk []byte) []Frame {
	d.buf = append(d.buf, chunk...)
	var frames []Frame
	for {
		if len(d.buf) < headerSize {
			return frames
		}
		length := int32(binary.BigEndian.Uint32(d.buf))
		// a frame shorter than its own correlation id is as corrupt as
		// a negative or improbably large one
		if length < 4 || length > MaxFrameSize {
			d.buf = nil
			d.Resets++
			return frames
		}
		total := int(length) + 4
		if len(d.buf) < total {
			return frames
		}
		b := make([]byte, total)
		copy(b, d.buf[:total])
		d.buf = d.buf[total:]
		frames = append(frames, Frame{
			CorrelationId: int32(binary.BigEndian.Uint32(b[4:])),
			Bytes:         b,
		})
	}
}

// Buffered returns the number of bytes waiting for frame completion.
func (d *Decoder) Buffered() int {
	return len(d.buf)
}
