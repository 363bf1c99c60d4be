package Metadata

import (
	"github.com/pubsubviewer/kafka/api"
)

// NewRequest builds a version 0 Metadata request. An empty topic list asks
// for all topics in the cluster.
func NewRequest(topics []string) *api.Request {
	if topics == nil {
		topics = []string{}
	}
	return &api.Request{
		ApiKey:     api.Metadata,
		ApiVersion: 0,
		Body: Request{
			Topics: topics,
		},
	}
}

type Request struct {
	Topics []string
}
