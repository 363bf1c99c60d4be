package client

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pubsubviewer/kafka"
	"github.com/pubsubviewer/kafka/api/ListOffsets"
	"github.com/pubsubviewer/kafka/metrics"
)

// ensurePollerLocked starts the poll loop if it is not running. Callers
// hold stateMu; every start/stop transition happens under it.
func (c *Client) ensurePollerLocked() {
	if c.pollCancel != nil {
		return
	}
	quit := make(chan struct{})
	c.pollCancel = quit
	go c.poll(quit)
}

func (c *Client) stopPollerLocked() {
	if c.pollCancel != nil {
		close(c.pollCancel)
		c.pollCancel = nil
	}
}

func (c *Client) stopPoller() {
	c.stateMu.Lock()
	defer c.stateMu.Unlock()
	c.stopPollerLocked()
}

// poll is the background consumption loop. Each cycle snapshots the
// pattern-to-topics map, walks every matched partition, and fans fetched
// messages out to interested subscriptions. It stops at the next iteration
// boundary when cancelled, and stops itself when no subscriptions remain.
// At-least-once: offsets advance only after delivery, a crash in between
// would redeliver.
func (c *Client) poll(quit chan struct{}) {
	c.log.Debug("poll loop started")
	defer c.log.Debug("poll loop stopped")
	for {
		topicSubs := c.subscriptionTopics()
		if len(topicSubs) == 0 {
			c.stateMu.Lock()
			if c.pollCancel == quit {
				c.pollCancel = nil
			}
			c.stateMu.Unlock()
			return
		}
		for topic, subs := range topicSubs {
			t := c.cachedTopic(topic)
			if t == nil {
				continue
			}
			for _, p := range t.Partitions {
				select {
				case <-quit:
					return
				default:
				}
				c.pollPartition(topic, p.Id, subs)
			}
		}
		metrics.PollCycles.Inc()
		select {
		case <-quit:
			return
		case <-time.After(kafka.PollInterval):
		}
	}
}

// subscriptionTopics snapshots, per matched topic, the subscriptions
// interested in it.
func (c *Client) subscriptionTopics() map[string][]*Subscription {
	c.stateMu.Lock()
	defer c.stateMu.Unlock()
	m := make(map[string][]*Subscription)
	for _, sub := range c.subs {
		for topic := range sub.topics {
			m[topic] = append(m[topic], sub)
		}
	}
	return m
}

// pollPartition fetches one partition at its tracked offset and delivers to
// every interested subscription. The offset is initialized lazily to the
// partition's earliest available offset and advanced by the number of
// messages actually returned. Errors are logged and swallowed: the next
// cycle retries, and a broken partition must not stop delivery for healthy
// ones.
func (c *Client) pollPartition(topic string, partition int32, subs []*Subscription) {
	tp := topicPartition{topic, partition}
	c.stateMu.Lock()
	offset, tracked := c.offsets[tp]
	c.stateMu.Unlock()
	if !tracked {
		earliest, err := c.listOffset(topic, partition, ListOffsets.Oldest)
		if err != nil {
			c.pollError(topic, partition, err)
			return
		}
		offset = earliest
		c.stateMu.Lock()
		c.offsets[tp] = offset
		c.stateMu.Unlock()
	}
	messages, err := c.fetch(topic, partition, offset)
	if err != nil {
		c.pollError(topic, partition, err)
		return
	}
	if len(messages) == 0 {
		return
	}
	for _, m := range messages {
		for _, sub := range subs {
			sub.queue.push(m)
		}
		metrics.MessagesDelivered.WithLabelValues(topic).Inc()
	}
	c.stateMu.Lock()
	c.offsets[tp] = offset + int64(len(messages))
	c.stateMu.Unlock()
}

func (c *Client) pollError(topic string, partition int32, err error) {
	c.log.WithFields(logrus.Fields{
		"topic": topic, "partition": partition,
	}).WithError(err).Warn("poll fetch failed, will retry")
}
