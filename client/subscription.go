package client

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/pubsubviewer/kafka"
	"github.com/pubsubviewer/kafka/metrics"
)

// Subscription is one pattern's view of the stream. Messages arrive on the
// channel returned by Messages, which closes when the subscription ends,
// by Unsubscribe, by context cancellation, or by disconnect.
type Subscription struct {
	Pattern string
	topics  map[string]bool
	queue   *queue
}

// Messages returns the subscription's output stream. Unbounded: the poll
// loop never blocks on a slow reader.
func (s *Subscription) Messages() <-chan kafka.Message {
	return s.queue.out
}

// Topics returns the topic names the pattern matched at subscribe time.
func (s *Subscription) Topics() []string {
	names := make([]string, 0, len(s.topics))
	for name := range s.topics {
		names = append(names, name)
	}
	return names
}

// topicMatches resolves a subscription pattern against a topic name. ">"
// and "*" alone match everything; a pattern containing "*" is a glob;
// anything else is an exact name.
func topicMatches(topic, pattern string) bool {
	if pattern == ">" || pattern == "*" {
		return true
	}
	if !strings.Contains(pattern, "*") {
		return topic == pattern
	}
	re, err := globToRegexp(pattern)
	if err != nil {
		return false
	}
	return re.MatchString(topic)
}

func globToRegexp(pattern string) (*regexp.Regexp, error) {
	quoted := regexp.QuoteMeta(pattern)
	return regexp.Compile("^" + strings.ReplaceAll(quoted, `\*`, ".*") + "$")
}

// Subscribe refreshes metadata, resolves the pattern against the topic set,
// and registers a subscription. Re-subscribing a pattern replaces (and
// finishes) the prior subscription. The poll loop starts with the first
// subscription. Cancelling ctx unsubscribes asynchronously; other
// subscriptions on the connection are unaffected.
func (c *Client) Subscribe(ctx context.Context, pattern string) (*Subscription, error) {
	if !c.Connected() {
		return nil, fmt.Errorf("%w: %w", kafka.ErrSubscriptionFailed, kafka.ErrNotConnected)
	}
	if err := c.refreshMetadata(); err != nil {
		return nil, fmt.Errorf("%w: %w", kafka.ErrSubscriptionFailed, err)
	}
	matched := make(map[string]bool)
	for _, t := range c.snapshot().Topics {
		if topicMatches(t.Name, pattern) {
			matched[t.Name] = true
		}
	}
	if len(matched) == 0 {
		return nil, fmt.Errorf("%w: pattern %q: %w", kafka.ErrSubscriptionFailed, pattern, kafka.ErrNoMatchingTopics)
	}
	sub := &Subscription{
		Pattern: pattern,
		topics:  matched,
		queue:   newQueue(),
	}
	c.stateMu.Lock()
	if prior, ok := c.subs[pattern]; ok {
		prior.queue.finish()
	} else {
		metrics.Subscriptions.Inc()
	}
	c.subs[pattern] = sub
	c.ensurePollerLocked()
	c.stateMu.Unlock()
	c.log.WithField("pattern", pattern).WithField("topics", len(matched)).Info("subscribed")
	if ctx != nil && ctx.Done() != nil {
		go func() {
			select {
			case <-ctx.Done():
				c.unsubscribe(pattern, sub)
			case <-sub.queue.quit:
			}
		}()
	}
	return sub, nil
}

// Unsubscribe removes the pattern's subscription and finishes its stream.
// The poll loop stops itself once no subscriptions remain.
func (c *Client) Unsubscribe(pattern string) {
	c.unsubscribe(pattern, nil)
}

// unsubscribe removes the registered subscription for pattern. When expect
// is non-nil the removal only happens if that exact subscription is still
// registered (a replacement must not be torn down by its predecessor's
// context).
func (c *Client) unsubscribe(pattern string, expect *Subscription) {
	c.stateMu.Lock()
	sub, ok := c.subs[pattern]
	if !ok || (expect != nil && sub != expect) {
		c.stateMu.Unlock()
		return
	}
	delete(c.subs, pattern)
	if len(c.subs) == 0 {
		c.stopPollerLocked()
	}
	c.stateMu.Unlock()
	metrics.Subscriptions.Dec()
	sub.queue.finish()
	c.log.WithField("pattern", pattern).Info("unsubscribed")
}

// finishSubscriptions ends every subscription; part of teardown.
func (c *Client) finishSubscriptions() {
	c.stateMu.Lock()
	subs := c.subs
	c.subs = make(map[string]*Subscription)
	c.stateMu.Unlock()
	for _, sub := range subs {
		metrics.Subscriptions.Dec()
		sub.queue.finish()
	}
}
