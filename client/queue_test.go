package client

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pubsubviewer/kafka"
)

func TestQueueOrder(t *testing.T) {
	q := newQueue()
	defer q.finish()
	const n = 100
	for i := 0; i < n; i++ {
		q.push(kafka.Message{Payload: []byte(fmt.Sprintf("%d", i))})
	}
	for i := 0; i < n; i++ {
		select {
		case m := <-q.out:
			assert.Equal(t, fmt.Sprintf("%d", i), string(m.Payload))
		case <-time.After(time.Second):
			t.Fatalf("message %d not delivered", i)
		}
	}
}

// push must return immediately even with no reader draining the queue.
func TestQueuePushNeverBlocks(t *testing.T) {
	q := newQueue()
	defer q.finish()
	done := make(chan struct{})
	go func() {
		for i := 0; i < 10_000; i++ {
			q.push(kafka.Message{})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("push blocked")
	}
}

func TestQueueFinish(t *testing.T) {
	q := newQueue()
	q.push(kafka.Message{})
	q.finish()
	q.finish() // idempotent
	q.push(kafka.Message{})
	require.Eventually(t, func() bool {
		select {
		case _, ok := <-q.out:
			return !ok
		default:
			return false
		}
	}, time.Second, 5*time.Millisecond)
}
