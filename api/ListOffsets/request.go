package ListOffsets

import (
	"github.com/pubsubviewer/kafka/api"
)

// Timestamp selectors. Any other value resolves the first offset at or after
// that time (milliseconds since epoch).
const (
	Newest int64 = -1
	Oldest int64 = -2
)

// NewRequest builds a version 1 ListOffsets request for one topic partition.
func NewRequest(topic string, partition int32, timestampMs int64) *api.Request {
	p := []RequestPartition{{Partition: partition, Timestamp: timestampMs}}
	t := []RequestTopic{{Topic: topic, Partitions: p}}
	return &api.Request{
		ApiKey:     api.ListOffsets,
		ApiVersion: 1,
		Body: Request{
			ReplicaId: -1,
			Topics:    t,
		},
	}
}

type Request struct {
	ReplicaId int32
	Topics    []RequestTopic
}

type RequestTopic struct {
	Topic      string
	Partitions []RequestPartition
}

type RequestPartition struct {
	Partition int32
	Timestamp int64
}
