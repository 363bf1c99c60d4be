// Package api defines Kafka protocol requests and responses.
package api

const (
	Produce      int16 = 0
	Fetch        int16 = 1
	ListOffsets  int16 = 2
	Metadata     int16 = 3
	CreateTopics int16 = 19
	DeleteTopics int16 = 20
)

// Keys maps the api keys used by this client to their protocol names.
var Keys = map[int16]string{
	0:  "Produce",
	1:  "Fetch",
	2:  "ListOffsets",
	3:  "Metadata",
	19: "CreateTopics",
	20: "DeleteTopics",
}
