package DeleteTopics

type Response struct {
	Topics []TopicResponse
}

type TopicResponse struct {
	Name      string
	ErrorCode int16
}

// ErrorCode returns the first nonzero error code in the response, 0 when
// every topic was deleted.
func (r *Response) ErrorCode() int16 {
	for _, t := range r.Topics {
		if t.ErrorCode != 0 {
			return t.ErrorCode
		}
	}
	return 0
}
