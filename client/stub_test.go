package client

import (
	"bytes"
	"encoding/binary"
	"io"
	"net"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pubsubviewer/kafka"
	"github.com/pubsubviewer/kafka/api"
	"github.com/pubsubviewer/kafka/api/Fetch"
	"github.com/pubsubviewer/kafka/api/ListOffsets"
	"github.com/pubsubviewer/kafka/api/Metadata"
	"github.com/pubsubviewer/kafka/wire"
)

// stubBroker speaks just enough of the wire protocol to exercise the client:
// it reads length-prefixed requests and lets the test's handler decide what,
// and whether, to respond. A nil handler result leaves the request pending.
type stubBroker struct {
	t  *testing.T
	ln net.Listener

	handler func(apiKey int16, correlationId int32, body []byte) interface{}

	mu     sync.Mutex
	conn   net.Conn
	counts map[int16]int
}

func newStubBroker(t *testing.T) *stubBroker {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	s := &stubBroker{t: t, ln: ln, counts: make(map[int16]int)}
	go s.serve()
	t.Cleanup(func() { ln.Close() })
	return s
}

func (s *stubBroker) config() *kafka.Config {
	return &kafka.Config{
		URL:     "kafka://" + s.ln.Addr().String(),
		Options: map[string]string{"client.id": "stub-test"},
	}
}

func (s *stubBroker) port() int {
	return s.ln.Addr().(*net.TCPAddr).Port
}

func (s *stubBroker) serve() {
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			return
		}
		s.mu.Lock()
		s.conn = conn
		s.mu.Unlock()
		go s.serveConn(conn)
	}
}

func (s *stubBroker) serveConn(conn net.Conn) {
	for {
		var size int32
		if err := binary.Read(conn, binary.BigEndian, &size); err != nil {
			return
		}
		b := make([]byte, size)
		if _, err := io.ReadFull(conn, b); err != nil {
			return
		}
		apiKey := int16(binary.BigEndian.Uint16(b))
		correlationId := int32(binary.BigEndian.Uint32(b[4:]))
		clientIdLen := int16(binary.BigEndian.Uint16(b[8:]))
		body := b[10+clientIdLen:]
		s.mu.Lock()
		s.counts[apiKey]++
		s.mu.Unlock()
		if resp := s.handler(apiKey, correlationId, body); resp != nil {
			s.write(correlationId, resp)
		}
	}
}

// write marshals a response struct and frames it. Tests may call it
// directly to answer requests the handler left pending, in any order.
func (s *stubBroker) write(correlationId int32, resp interface{}) {
	body := new(bytes.Buffer)
	require.NoError(s.t, wire.Marshal(body, resp))
	buf := new(bytes.Buffer)
	binary.Write(buf, binary.BigEndian, int32(4+body.Len()))
	binary.Write(buf, binary.BigEndian, correlationId)
	body.WriteTo(buf)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conn.Write(buf.Bytes())
}

func (s *stubBroker) count(apiKey int16) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[apiKey]
}

// metadataResponse describes a cluster of one broker (this stub) with one
// single-partition topic per name.
func metadataResponse(port int, names ...string) *Metadata.Response {
	resp := &Metadata.Response{
		Brokers: []Metadata.Broker{{NodeId: 1, Host: "127.0.0.1", Port: int32(port)}},
	}
	for _, name := range names {
		resp.TopicMetadata = append(resp.TopicMetadata, Metadata.TopicMetadata{
			Topic: name,
			PartitionMetadata: []Metadata.PartitionMetadata{
				{Partition: 0, Leader: 1, Replicas: []int32{1}, Isr: []int32{1}},
			},
		})
	}
	return resp
}

func listOffsetsResponse(topic string, partition int32, offset int64) *ListOffsets.Response {
	return &ListOffsets.Response{
		Responses: []ListOffsets.TopicResponse{{
			Topic: topic,
			Partitions: []ListOffsets.PartitionResponse{
				{Partition: partition, Offset: offset},
			},
		}},
	}
}

func fetchResponse(topic string, partition int32, messageSet []byte) *Fetch.Response {
	return &Fetch.Response{
		TopicResponses: []Fetch.TopicResponse{{
			Topic: topic,
			PartitionResponses: []Fetch.PartitionResponse{
				{Partition: partition, MessageSet: messageSet},
			},
		}},
	}
}

func parseListOffsetsRequest(t *testing.T, body []byte) *ListOffsets.Request {
	req := &ListOffsets.Request{}
	require.NoError(t, api.Unmarshal(body, req))
	return req
}

func parseFetchRequest(t *testing.T, body []byte) *Fetch.Request {
	req := &Fetch.Request{}
	require.NoError(t, api.Unmarshal(body, req))
	return req
}
