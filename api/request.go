package api

import (
	"bytes"
	"encoding/binary"

	"github.com/pubsubviewer/kafka/wire"
)

// https://kafka.apache.org/protocol
// https://cwiki.apache.org/confluence/display/KAFKA/A+Guide+To+The+Kafka+Protocol

// Request is a single api call: the shared header (api key, api version,
// correlation id, client id) followed by the call body. The correlation id
// is stamped by the connection just before the request is marshaled.
type Request struct {
	ApiKey        int16
	ApiVersion    int16
	CorrelationId int32
	ClientId      string
	Body          interface{}
}

// Bytes marshals the request with its int32 length prefix (the prefix
// excludes itself), ready to be written to the connection.
func (r *Request) Bytes() []byte {
	tmp := new(bytes.Buffer)
	if err := wire.Marshal(tmp, r); err != nil {
		panic(err) // request structs are fixed at compile time
	}
	buf := new(bytes.Buffer)
	binary.Write(buf, binary.BigEndian, int32(tmp.Len()))
	tmp.WriteTo(buf)
	return buf.Bytes()
}
