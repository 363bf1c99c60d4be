package Fetch

import (
	"github.com/pubsubviewer/kafka/api"
)

type Args struct {
	ClientId      string
	Topic         string
	Partition     int32
	Offset        int64
	MinBytes      int32
	MaxBytes      int32
	MaxWaitTimeMs int32
}

// NewRequest builds a version 0 Fetch request for one topic partition at a
// given starting offset.
func NewRequest(args *Args) *api.Request {
	p := Partition{
		Partition:   args.Partition,
		FetchOffset: args.Offset,
		MaxBytes:    args.MaxBytes,
	}
	t := Topic{
		Topic:      args.Topic,
		Partitions: []Partition{p},
	}
	return &api.Request{
		ApiKey:     api.Fetch,
		ApiVersion: 0,
		ClientId:   args.ClientId,
		Body: Request{
			ReplicaId:     -1,
			MaxWaitTimeMs: args.MaxWaitTimeMs,
			MinBytes:      args.MinBytes,
			Topics:        []Topic{t},
		},
	}
}

type Request struct {
	ReplicaId     int32
	MaxWaitTimeMs int32
	MinBytes      int32
	Topics        []Topic
}

type Topic struct {
	Topic      string
	Partitions []Partition
}

type Partition struct {
	Partition   int32
	FetchOffset int64
	MaxBytes    int32
}
