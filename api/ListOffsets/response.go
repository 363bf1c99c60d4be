package ListOffsets

type Response struct {
	Responses []TopicResponse
}

type TopicResponse struct {
	Topic      string
	Partitions []PartitionResponse
}

type PartitionResponse struct {
	Partition int32
	ErrorCode int16
	Timestamp int64
	Offset    int64
}

// Offset returns the resolved offset for the topic partition, or 0 when the
// topic partition is absent from the response. Absence means "no data", it
// is not an error.
func (r *Response) Offset(topic string, partition int32) int64 {
	for _, t := range r.Responses {
		if t.Topic != topic {
			continue
		}
		for _, p := range t.Partitions {
			if p.Partition == partition {
				return p.Offset
			}
		}
	}
	return 0
}

// ErrorCode returns the error code for the topic partition, 0 when absent.
func (r *Response) ErrorCode(topic string, partition int32) int16 {
	for _, t := range r.Responses {
		if t.Topic != topic {
			continue
		}
		for _, p := range t.Partitions {
			if p.Partition == partition {
				return p.ErrorCode
			}
		}
	}
	return 0
}
