package Metadata

import (
	"net"
	"strconv"
)

type Response struct {
	Brokers       []Broker
	TopicMetadata []TopicMetadata
}

type Broker struct {
	NodeId int32
	Host   string
	Port   int32
}

func (b *Broker) Addr() string {
	return net.JoinHostPort(b.Host, strconv.Itoa(int(b.Port)))
}

type TopicMetadata struct {
	ErrorCode         int16
	Topic             string
	PartitionMetadata []PartitionMetadata
}

type PartitionMetadata struct {
	ErrorCode int16
	Partition int32
	Leader    int32
	Replicas  []int32
	Isr       []int32
}

func (r *Response) Broker(id int32) *Broker {
	for i := range r.Brokers {
		if r.Brokers[i].NodeId == id {
			return &r.Brokers[i]
		}
	}
	return nil
}

func (r *Response) Topic(name string) *TopicMetadata {
	for i := range r.TopicMetadata {
		if r.TopicMetadata[i].Topic == name {
			return &r.TopicMetadata[i]
		}
	}
	return nil
}
