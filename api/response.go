package api

import (
	"bytes"

	"github.com/pubsubviewer/kafka/wire"
)

// Unmarshal parses a response body into v. The body is the frame payload
// with the length prefix and correlation id already stripped by the
// connection's frame decoder.
func Unmarshal(body []byte, v interface{}) error {
	return wire.Unmarshal(bytes.NewReader(body), v)
}
