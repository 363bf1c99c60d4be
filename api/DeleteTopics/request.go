package DeleteTopics

import (
	"github.com/pubsubviewer/kafka/api"
)

// NewRequest builds a version 0 DeleteTopics request for a single topic.
func NewRequest(topic string) *api.Request {
	return &api.Request{
		ApiKey:     api.DeleteTopics,
		ApiVersion: 0,
		Body: Request{
			Topics:    []string{topic},
			TimeoutMs: 5000,
		},
	}
}

type Request struct {
	Topics    []string
	TimeoutMs int32
}
