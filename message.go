package kafka

import "time"

// Message is a single record as delivered to subscribers or accepted for
// publishing. Immutable once constructed; one instance may be delivered to
// every subscription whose topic set contains its topic.
type Message struct {
	Topic     string
	Partition int32
	Offset    int64
	Payload   []byte
	Headers   map[string]string
	Timestamp time.Time
}
