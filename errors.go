package kafka

import (
	"errors"
	"fmt"
)

var (
	// ErrNotConnected is returned by operations attempted while the client
	// is disconnected.
	ErrNotConnected = errors.New("not connected")
	// ErrConnectionFailed wraps dial, TLS handshake, and socket failures.
	ErrConnectionFailed = errors.New("connection failed")
	// ErrConnectionClosed resolves every request still pending when the
	// connection goes away.
	ErrConnectionClosed = errors.New("connection closed")
	// ErrInvalidConfiguration is returned for a bad URL or port.
	ErrInvalidConfiguration = errors.New("invalid configuration")
	// ErrPublishFailed wraps a nonzero broker error code on produce.
	ErrPublishFailed = errors.New("publish failed")
	// ErrSubscriptionFailed wraps subscribe failures.
	ErrSubscriptionFailed = errors.New("subscription failed")
	// ErrNoMatchingTopics is returned when a subscription pattern matches
	// no topic in the cluster.
	ErrNoMatchingTopics = errors.New("no matching topics")
	// ErrTimeout is returned only where a caller imposes an explicit wait.
	ErrTimeout = errors.New("timeout")
)

const (
	ERR_NONE                             int16 = 0
	ERR_UNKNOWN_SERVER_ERROR             int16 = -1
	ERR_OFFSET_OUT_OF_RANGE              int16 = 1
	ERR_CORRUPT_MESSAGE                  int16 = 2
	ERR_UNKNOWN_TOPIC_OR_PARTITION       int16 = 3
	ERR_INVALID_FETCH_SIZE               int16 = 4
	ERR_LEADER_NOT_AVAILABLE             int16 = 5
	ERR_NOT_LEADER_FOR_PARTITION         int16 = 6
	ERR_REQUEST_TIMED_OUT                int16 = 7
	ERR_BROKER_NOT_AVAILABLE             int16 = 8
	ERR_REPLICA_NOT_AVAILABLE            int16 = 9
	ERR_MESSAGE_TOO_LARGE                int16 = 10
	ERR_NETWORK_EXCEPTION                int16 = 13
	ERR_INVALID_TOPIC_EXCEPTION          int16 = 17
	ERR_RECORD_LIST_TOO_LARGE            int16 = 18
	ERR_NOT_ENOUGH_REPLICAS              int16 = 19
	ERR_NOT_ENOUGH_REPLICAS_AFTER_APPEND int16 = 20
	ERR_INVALID_REQUIRED_ACKS            int16 = 21
	ERR_TOPIC_ALREADY_EXISTS             int16 = 36
	ERR_INVALID_PARTITIONS               int16 = 37
	ERR_INVALID_REPLICATION_FACTOR       int16 = 38
	ERR_POLICY_VIOLATION                 int16 = 44
)

var errorCodeNames = map[int16]string{
	-1: "UNKNOWN_SERVER_ERROR",
	1:  "OFFSET_OUT_OF_RANGE",
	2:  "CORRUPT_MESSAGE",
	3:  "UNKNOWN_TOPIC_OR_PARTITION",
	4:  "INVALID_FETCH_SIZE",
	5:  "LEADER_NOT_AVAILABLE",
	6:  "NOT_LEADER_FOR_PARTITION",
	7:  "REQUEST_TIMED_OUT",
	8:  "BROKER_NOT_AVAILABLE",
	9:  "REPLICA_NOT_AVAILABLE",
	10: "MESSAGE_TOO_LARGE",
	13: "NETWORK_EXCEPTION",
	17: "INVALID_TOPIC_EXCEPTION",
	18: "RECORD_LIST_TOO_LARGE",
	19: "NOT_ENOUGH_REPLICAS",
	20: "NOT_ENOUGH_REPLICAS_AFTER_APPEND",
	21: "INVALID_REQUIRED_ACKS",
	36: "TOPIC_ALREADY_EXISTS",
	37: "INVALID_PARTITIONS",
	38: "INVALID_REPLICATION_FACTOR",
	44: "POLICY_VIOLATION",
}

// Error carries a nonzero error code returned by the broker in a response
// body. Request-response round trips that complete but carry such a code do
// not tear down the connection; the code is returned to the specific caller.
type Error struct {
	Code int16
}

func (e *Error) Error() string {
	if name, ok := errorCodeNames[e.Code]; ok {
		return fmt.Sprintf("broker error %d %s", e.Code, name)
	}
	return fmt.Sprintf("broker error %d", e.Code)
}
