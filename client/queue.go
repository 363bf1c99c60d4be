package client

import (
	"sync"

	"github.com/pubsubviewer/kafka"
)

// queue is the unbounded buffer between the poll loop and one subscriber.
// The poll loop must never block on a slow consumer, and delivery order
// must hold, so pushes append under a lock and a pump goroutine feeds the
// outbound channel.
type queue struct {
	mu       sync.Mutex
	cond     *sync.Cond
	items    []kafka.Message
	finished bool
	quit     chan struct{}
	out      chan kafka.Message
}

func newQueue() *queue {
	q := &queue{
		quit: make(chan struct{}),
		out:  make(chan kafka.Message),
	}
	q.cond = sync.NewCond(&q.mu)
	go q.pump()
	return q
}

// push never blocks.
func (q *queue) push(m kafka.Message) {
	q.mu.Lock()
	if !q.finished {
		q.items = append(q.items, m)
	}
	q.mu.Unlock()
	q.cond.Signal()
}

// finish stops the queue: buffered messages still waiting are dropped and
// the outbound channel closes. Idempotent.
func (q *queue) finish() {
	q.mu.Lock()
	if q.finished {
		q.mu.Unlock()
		return
	}
	q.finished = true
	close(q.quit)
	q.mu.Unlock()
	q.cond.Signal()
}

func (q *queue) pump() {
	defer close(q.out)
	for {
		q.mu.Lock()
		for len(q.items) == 0 && !q.finished {
			q.cond.Wait()
		}
		if q.finished {
			q.mu.Unlock()
			return
		}
		m := q.items[0]
		q.items = q.items[1:]
		q.mu.Unlock()
		select {
		case q.out <- m:
		case <-q.quit:
			return
		}
	}
}
