package pipeline

import (
	"sync"
	"time"
)

// Queue is an unbounded FIFO queue safe for concurrent producers and a
// single consumer. Enqueue never blocks, so the audio capture callback
// can hand off chunks regardless of how far behind the consumer is.
type Queue[T any] struct {
	mu     sync.Mutex
	items  []T
	signal chan struct{}
}

// NewQueue creates and returns a new Queue instance.
func NewQueue[T any]() *Queue[T] {
	return &Queue[T]{signal: make(chan struct{}, 1)}
}

// Enqueue adds an element to the end of the queue.
func (q *Queue[T]) Enqueue(item T) {
	q.mu.Lock()
	q.items = append(q.items, item)
	q.mu.Unlock()

	// Coalesced wakeup; the consumer re-checks the slice after waking.
	select {
	case q.signal <- struct{}{}:
	default:
	}
}

// Dequeue removes and returns the front element, waiting up to timeout
// for one to arrive. The boolean is false if the timeout elapsed with
// the queue still empty.
func (q *Queue[T]) Dequeue(timeout time.Duration) (T, bool) {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	for {
		q.mu.Lock()
		if len(q.items) > 0 {
			item := q.items[0]
			q.items = q.items[1:]
			q.mu.Unlock()
			return item, true
		}
		q.mu.Unlock()

		select {
		case <-q.signal:
		case <-deadline.C:
			var zero T
			return zero, false
		}
	}
}

// Len returns the number of elements in the queue.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
