// Package client implements the multiplexed broker client. One persistent
// TCP (optionally TLS) connection carries all api calls concurrently, paired
// to their responses by correlation id. A background poll loop advances
// per-partition offsets and fans fetched messages out to pattern-based
// subscriptions sharing the connection.
package client

import (
	"fmt"
	"net"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pubsubviewer/kafka"
	"github.com/pubsubviewer/kafka/api/CreateTopics"
	"github.com/pubsubviewer/kafka/api/DeleteTopics"
	"github.com/pubsubviewer/kafka/api/Fetch"
	"github.com/pubsubviewer/kafka/api/ListOffsets"
	"github.com/pubsubviewer/kafka/api/Produce"
	"github.com/pubsubviewer/kafka/compression"
	"github.com/pubsubviewer/kafka/messageset"
	"github.com/pubsubviewer/kafka/metrics"
)

type topicPartition struct {
	topic     string
	partition int32
}

// Client talks to one broker over one connection. Create with New, call
// Connect before anything else. All exported calls are safe for concurrent
// use; they block until their response arrives or the connection tears down.
type Client struct {
	// Acks and TimeoutMs parameterize Produce requests.
	Acks      int16
	TimeoutMs int32
	// FetchMaxBytes and FetchMaxWaitMs bound Fetch requests.
	FetchMaxBytes  int32
	FetchMaxWaitMs int32
	// Compression, when non-nil, wraps published message sets.
	Compression compression.Compressor

	config *kafka.Config
	log    *logrus.Entry

	// connection state and response waiters
	mu      sync.Mutex
	conn    net.Conn
	waiters map[int32]chan []byte

	// correlation id counter, its own lock (see nextCorrelationId)
	idMu              sync.Mutex
	lastCorrelationId int32

	// metadata snapshot, subscriptions, partition offsets
	stateMu    sync.Mutex
	meta       *Snapshot
	subs       map[string]*Subscription
	offsets    map[topicPartition]int64
	rr         map[string]int32 // round robin publish cursor per topic
	pollCancel chan struct{}
}

// New returns a disconnected client for the given configuration. A nil
// logger falls back to the standard logrus logger.
func New(config *kafka.Config, log *logrus.Entry) *Client {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Client{
		Acks:           1,
		TimeoutMs:      5000,
		FetchMaxBytes:  1 << 20,
		FetchMaxWaitMs: 100,
		config:         config,
		log:            log,
		subs:           make(map[string]*Subscription),
		offsets:        make(map[topicPartition]int64),
		rr:             make(map[string]int32),
	}
}

// Publish sends payload to the topic, partition chosen round robin. It
// blocks until the broker acknowledges; a nonzero broker error code is a
// publish failure.
func (c *Client) Publish(topic string, payload []byte) error {
	partition, err := c.publishPartition(topic)
	if err != nil {
		return err
	}
	builder := messageset.NewBuilder().Add(payload)
	var set []byte
	if c.Compression != nil {
		set, err = builder.BuildCompressed(c.Compression)
	} else {
		set, err = builder.Build()
	}
	if err != nil {
		return fmt.Errorf("%w: %w", kafka.ErrPublishFailed, err)
	}
	req := Produce.NewRequest(&Produce.Args{
		ClientId:  c.config.ClientId(),
		Topic:     topic,
		Partition: partition,
		Acks:      c.Acks,
		TimeoutMs: c.TimeoutMs,
	}, set)
	resp := &Produce.Response{}
	if err := c.call(req, resp); err != nil {
		return err
	}
	p := resp.Partition()
	if p == nil {
		return fmt.Errorf("%w: malformed produce response", kafka.ErrPublishFailed)
	}
	if p.ErrorCode != kafka.ERR_NONE {
		return fmt.Errorf("%w: %w", kafka.ErrPublishFailed, &kafka.Error{Code: p.ErrorCode})
	}
	metrics.MessagesPublished.WithLabelValues(topic).Inc()
	c.log.WithFields(logrus.Fields{
		"topic": topic, "partition": partition, "offset": p.BaseOffset,
	}).Debug("published")
	return nil
}

// publishPartition resolves the next round robin partition for the topic,
// refreshing metadata when the topic is not in the cache.
func (c *Client) publishPartition(topic string) (int32, error) {
	t := c.cachedTopic(topic)
	if t == nil {
		if err := c.refreshMetadata(); err != nil {
			return 0, err
		}
		if t = c.cachedTopic(topic); t == nil {
			return 0, &kafka.Error{Code: kafka.ERR_UNKNOWN_TOPIC_OR_PARTITION}
		}
	}
	if len(t.Partitions) == 0 {
		return 0, &kafka.Error{Code: kafka.ERR_UNKNOWN_TOPIC_OR_PARTITION}
	}
	c.stateMu.Lock()
	defer c.stateMu.Unlock()
	i := c.rr[topic] % int32(len(t.Partitions))
	c.rr[topic]++
	return t.Partitions[i].Id, nil
}

// ListTopics refreshes metadata and returns the topic names, sorted.
func (c *Client) ListTopics() ([]string, error) {
	if err := c.refreshMetadata(); err != nil {
		return nil, err
	}
	snapshot := c.snapshot()
	names := make([]string, 0, len(snapshot.Topics))
	for _, t := range snapshot.Topics {
		names = append(names, t.Name)
	}
	sort.Strings(names)
	return names, nil
}

// CreateTopic creates a topic and waits for the broker's verdict. The first
// nonzero error code in the response is the failure.
func (c *Client) CreateTopic(name string, numPartitions int32, replicationFactor int16, configs map[string]string) error {
	var cfg []CreateTopics.Config
	for k, v := range configs {
		cfg = append(cfg, CreateTopics.Config{Name: k, Value: v})
	}
	resp := &CreateTopics.Response{}
	if err := c.call(CreateTopics.NewRequest(name, numPartitions, replicationFactor, cfg), resp); err != nil {
		return err
	}
	if code := resp.ErrorCode(); code != kafka.ERR_NONE {
		return fmt.Errorf("error creating topic %q: %w", name, &kafka.Error{Code: code})
	}
	return nil
}

// DeleteTopic deletes a topic. The first nonzero error code in the response
// is the failure.
func (c *Client) DeleteTopic(name string) error {
	resp := &DeleteTopics.Response{}
	if err := c.call(DeleteTopics.NewRequest(name), resp); err != nil {
		return err
	}
	if code := resp.ErrorCode(); code != kafka.ERR_NONE {
		return fmt.Errorf("error deleting topic %q: %w", name, &kafka.Error{Code: code})
	}
	return nil
}

// FetchLastMessages returns up to count of the most recent messages on the
// topic. The same count is fetched from every partition independently, then
// the results are merged, sorted by timestamp, and truncated: partitions
// with uneven load may be under- or over-represented. Best effort by
// design.
func (c *Client) FetchLastMessages(topic string, count int) ([]kafka.Message, error) {
	if err := c.refreshMetadata(); err != nil {
		return nil, err
	}
	t := c.cachedTopic(topic)
	if t == nil {
		return nil, fmt.Errorf("topic %q: %w", topic, &kafka.Error{Code: kafka.ERR_UNKNOWN_TOPIC_OR_PARTITION})
	}
	var merged []kafka.Message
	for _, p := range t.Partitions {
		newest, err := c.listOffset(topic, p.Id, ListOffsets.Newest)
		if err != nil {
			return nil, err
		}
		oldest, err := c.listOffset(topic, p.Id, ListOffsets.Oldest)
		if err != nil {
			return nil, err
		}
		start := newest - int64(count)
		if start < oldest {
			start = oldest
		}
		if start >= newest {
			continue // partition is empty or has fewer than requested
		}
		messages, err := c.fetch(topic, p.Id, start)
		if err != nil {
			return nil, err
		}
		merged = append(merged, messages...)
	}
	return truncateNewest(merged, count), nil
}

// FetchMessagesFromTime returns up to limit messages at or after fromTime,
// with the same per-partition fetch-then-merge approximation as
// FetchLastMessages.
func (c *Client) FetchMessagesFromTime(topic string, fromTime time.Time, limit int) ([]kafka.Message, error) {
	if err := c.refreshMetadata(); err != nil {
		return nil, err
	}
	t := c.cachedTopic(topic)
	if t == nil {
		return nil, fmt.Errorf("topic %q: %w", topic, &kafka.Error{Code: kafka.ERR_UNKNOWN_TOPIC_OR_PARTITION})
	}
	ts := fromTime.UnixMilli()
	var merged []kafka.Message
	for _, p := range t.Partitions {
		start, err := c.listOffset(topic, p.Id, ts)
		if err != nil {
			return nil, err
		}
		messages, err := c.fetch(topic, p.Id, start)
		if err != nil {
			return nil, err
		}
		merged = append(merged, messages...)
	}
	sortByTime(merged)
	if limit > 0 && len(merged) > limit {
		merged = merged[:limit]
	}
	return merged, nil
}

// listOffset resolves a single partition offset for a timestamp selector.
// An absent topic partition in the response reads as offset 0 ("no data").
func (c *Client) listOffset(topic string, partition int32, timestampMs int64) (int64, error) {
	resp := &ListOffsets.Response{}
	if err := c.call(ListOffsets.NewRequest(topic, partition, timestampMs), resp); err != nil {
		return 0, err
	}
	if code := resp.ErrorCode(topic, partition); code != kafka.ERR_NONE {
		return 0, fmt.Errorf("error listing offsets for %s/%d: %w", topic, partition, &kafka.Error{Code: code})
	}
	return resp.Offset(topic, partition), nil
}

// fetch does one Fetch round trip and unmarshals the returned message set.
func (c *Client) fetch(topic string, partition int32, offset int64) ([]kafka.Message, error) {
	req := Fetch.NewRequest(&Fetch.Args{
		ClientId:      c.config.ClientId(),
		Topic:         topic,
		Partition:     partition,
		Offset:        offset,
		MinBytes:      1,
		MaxBytes:      c.FetchMaxBytes,
		MaxWaitTimeMs: c.FetchMaxWaitMs,
	})
	resp := &Fetch.Response{}
	if err := c.call(req, resp); err != nil {
		return nil, err
	}
	p := resp.Partition()
	if p == nil {
		return nil, fmt.Errorf("malformed fetch response for %s/%d", topic, partition)
	}
	if p.ErrorCode != kafka.ERR_NONE {
		return nil, fmt.Errorf("error fetching %s/%d: %w", topic, partition, &kafka.Error{Code: p.ErrorCode})
	}
	now := time.Now()
	var messages []kafka.Message
	for _, m := range messageset.Unmarshal(p.MessageSet) {
		messages = append(messages, toMessage(topic, partition, m, now))
	}
	return messages, nil
}

func toMessage(topic string, partition int32, m messageset.Message, now time.Time) kafka.Message {
	ts := now
	if m.TimestampMs > 0 {
		ts = time.UnixMilli(m.TimestampMs)
	}
	return kafka.Message{
		Topic:     topic,
		Partition: partition,
		Offset:    m.Offset,
		Payload:   m.Value,
		Timestamp: ts,
	}
}

func sortByTime(messages []kafka.Message) {
	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].Timestamp.Before(messages[j].Timestamp)
	})
}

// truncateNewest sorts ascending by timestamp and keeps the newest n.
func truncateNewest(messages []kafka.Message, n int) []kafka.Message {
	sortByTime(messages)
	if n > 0 && len(messages) > n {
		messages = messages[len(messages)-n:]
	}
	return messages
}
