package CreateTopics

import (
	"github.com/pubsubviewer/kafka/api"
)

// NewRequest builds a version 0 CreateTopics request for a single topic.
func NewRequest(topic string, numPartitions int32, replicationFactor int16, configs []Config) *api.Request {
	if configs == nil {
		configs = []Config{}
	}
	t := Topic{
		Name:              topic,
		NumPartitions:     numPartitions,
		ReplicationFactor: replicationFactor,
		Assignments:       []Assignment{},
		Configs:           configs,
	}
	return &api.Request{
		ApiKey:     api.CreateTopics,
		ApiVersion: 0,
		Body: Request{
			Topics:    []Topic{t},
			TimeoutMs: 5000,
		},
	}
}

type Request struct {
	Topics    []Topic
	TimeoutMs int32
}

type Topic struct {
	Name              string
	NumPartitions     int32
	ReplicationFactor int16
	Assignments       []Assignment
	Configs           []Config
}

type Assignment struct {
	PartitionIndex int32
	BrokerIds      []int32
}

type Config struct {
	Name  string
	Value string
}
