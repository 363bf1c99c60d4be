package Produce

import (
	"github.com/pubsubviewer/kafka/api"
)

type Args struct {
	ClientId  string
	Topic     string
	Partition int32
	Acks      int16 // 0: no, 1: leader only, -1: all ISRs
	TimeoutMs int32
}

// NewRequest builds a version 0 Produce request carrying one message set for
// one topic partition.
func NewRequest(args *Args, messageSet []byte) *api.Request {
	d := Data{
		Partition:  args.Partition,
		MessageSet: messageSet,
	}
	t := TopicData{
		Topic: args.Topic,
		Data:  []Data{d},
	}
	return &api.Request{
		ApiKey:     api.Produce,
		ApiVersion: 0,
		ClientId:   args.ClientId,
		Body: Request{
			RequiredAcks: args.Acks,
			TimeoutMs:    args.TimeoutMs,
			TopicData:    []TopicData{t},
		},
	}
}

type Request struct {
	RequiredAcks int16
	TimeoutMs    int32
	TopicData    []TopicData
}

type TopicData struct {
	Topic string
	Data  []Data
}

type Data struct {
	Partition  int32
	MessageSet []byte // marshaled with its own int32 size prefix
}
