package client

import (
	"strings"

	"github.com/pubsubviewer/kafka"
	"github.com/pubsubviewer/kafka/api/ListOffsets"
	"github.com/pubsubviewer/kafka/api/Metadata"
)

// Topics named with this prefix are broker internals and never cached.
const internalTopicPrefix = "__"

// Broker is one node of the cluster as last reported by metadata.
type Broker struct {
	NodeId int32
	Host   string
	Port   int
}

// Partition is one shard of a topic. InSyncReplicas is the broker-reported
// subset of Replicas currently caught up with the leader.
type Partition struct {
	Id             int32
	Leader         int32
	Replicas       []int32
	InSyncReplicas []int32
	ErrorCode      int16
}

type Topic struct {
	Name       string
	Partitions []Partition
	ErrorCode  int16
}

// Snapshot is the last known cluster layout. It is immutable: refreshes
// replace it wholesale under the state lock, readers never see a partial
// merge.
type Snapshot struct {
	Brokers []Broker
	Topics  []Topic
}

// ClusterMetrics is the summary the inspection layer shows per connection.
type ClusterMetrics struct {
	PartitionCount            int
	UnderReplicatedPartitions int
	ConsumerGroupLag          int64
	LogEndOffset              int64
}

// refreshMetadata asks the broker for all topics and atomically replaces
// the cached snapshot. Topics with a nonzero error code or an internal name
// prefix are excluded.
func (c *Client) refreshMetadata() error {
	resp := &Metadata.Response{}
	if err := c.call(Metadata.NewRequest(nil), resp); err != nil {
		return err
	}
	snapshot := &Snapshot{}
	for _, b := range resp.Brokers {
		snapshot.Brokers = append(snapshot.Brokers, Broker{
			NodeId: b.NodeId,
			Host:   b.Host,
			Port:   int(b.Port),
		})
	}
	for _, t := range resp.TopicMetadata {
		if t.ErrorCode != kafka.ERR_NONE {
			continue
		}
		if strings.HasPrefix(t.Topic, internalTopicPrefix) {
			continue
		}
		topic := Topic{Name: t.Topic, ErrorCode: t.ErrorCode}
		for _, p := range t.PartitionMetadata {
			topic.Partitions = append(topic.Partitions, Partition{
				Id:             p.Partition,
				Leader:         p.Leader,
				Replicas:       p.Replicas,
				InSyncReplicas: p.Isr,
				ErrorCode:      p.ErrorCode,
			})
		}
		snapshot.Topics = append(snapshot.Topics, topic)
	}
	c.stateMu.Lock()
	c.meta = snapshot
	c.stateMu.Unlock()
	return nil
}

// snapshot returns the current metadata snapshot, empty when none has been
// fetched yet. The snapshot itself is never mutated, so callers may read it
// without holding any lock.
func (c *Client) snapshot() *Snapshot {
	c.stateMu.Lock()
	defer c.stateMu.Unlock()
	if c.meta == nil {
		return &Snapshot{}
	}
	return c.meta
}

func (c *Client) cachedTopic(name string) *Topic {
	snapshot := c.snapshot()
	for i := range snapshot.Topics {
		if snapshot.Topics[i].Name == name {
			return &snapshot.Topics[i]
		}
	}
	return nil
}

func (c *Client) clearMetadata() {
	c.stateMu.Lock()
	c.meta = nil
	c.offsets = make(map[topicPartition]int64)
	c.stateMu.Unlock()
}

// FetchClusterMetrics refreshes metadata and computes the cluster summary:
// partition count and under-replication from the snapshot, log end offset
// as the sum of latest offsets over all partitions, and lag as the distance
// between those and the poll loop's tracked read offsets (there is no
// consumer group membership; lag is this client's own).
func (c *Client) FetchClusterMetrics() (*ClusterMetrics, error) {
	if err := c.refreshMetadata(); err != nil {
		return nil, err
	}
	snapshot := c.snapshot()
	m := &ClusterMetrics{}
	ends := make(map[topicPartition]int64)
	for _, t := range snapshot.Topics {
		for _, p := range t.Partitions {
			m.PartitionCount++
			if len(p.InSyncReplicas) < len(p.Replicas) {
				m.UnderReplicatedPartitions++
			}
			end, err := c.listOffset(t.Name, p.Id, ListOffsets.Newest)
			if err != nil {
				return nil, err
			}
			ends[topicPartition{t.Name, p.Id}] = end
			m.LogEndOffset += end
		}
	}
	c.stateMu.Lock()
	for tp, next := range c.offsets {
		if end, ok := ends[tp]; ok && end > next {
			m.ConsumerGroupLag += end - next
		}
	}
	c.stateMu.Unlock()
	return m, nil
}
