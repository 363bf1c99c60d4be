package Produce

type Response struct {
	TopicResponses []TopicResponse
}

type TopicResponse struct {
	Topic              string
	PartitionResponses []PartitionResponse
}

type PartitionResponse struct {
	Partition  int32
	ErrorCode  int16
	BaseOffset int64
}

// Partition returns the single partition response of a single-partition
// produce, or nil if the broker sent something unexpected.
func (r *Response) Partition() *PartitionResponse {
	if len(r.TopicResponses) != 1 {
		return nil
	}
	if len(r.TopicResponses[0].PartitionResponses) != 1 {
		return nil
	}
	return &r.TopicResponses[0].PartitionResponses[0]
}
