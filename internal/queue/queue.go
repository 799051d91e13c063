// Package queue implements the fixed-capacity circular queue of ints used
// throughout the kernel to hold pids and allocator ids.
package queue

import "errors"

// ErrFull is returned by In when the queue has no free slots.
var ErrFull = errors.New("queue: full")

// ErrEmpty is returned by Out when the queue holds no items.
var ErrEmpty = errors.New("queue: empty")

// Queue is a fixed-capacity circular buffer of ints. It is not safe for
// concurrent use; callers serialize access the way the kernel serializes
// access to every other piece of scheduler state.
type Queue struct {
	items []int
	head  int
	tail  int
	size  int
}

// New allocates a queue with room for capacity items.
func New(capacity int) *Queue {
	if capacity <= 0 {
		panic("queue: capacity must be positive")
	}
	return &Queue{items: make([]int, capacity)}
}

// Reset empties the queue in place, as queue_init re-clears an existing
// queue_t rather than allocating a new one.
func (q *Queue) Reset() {
	for i := range q.items {
		q.items[i] = 0
	}
	q.head = 0
	q.tail = 0
	q.size = 0
}

// In adds item to the tail of the queue.
func (q *Queue) In(item int) error {
	if q.size == len(q.items) {
		return ErrFull
	}

	q.items[q.tail] = item
	q.tail++
	if q.tail == len(q.items) {
		q.tail = 0
	}
	q.size++

	return nil
}

// Out removes and returns the item at the head of the queue.
func (q *Queue) Out() (int, error) {
	if q.size == 0 {
		return 0, ErrEmpty
	}

	item := q.items[q.head]
	q.items[q.head] = 0
	q.head++
	if q.head == len(q.items) {
		q.head = 0
	}
	q.size--

	return item, nil
}

// Remove deletes the first occurrence of item from the queue, preserving
// the relative order of everything else, the same rotate-and-skip approach
// scheduler_remove uses against the run queue.
func (q *Queue) Remove(item int) bool {
	found := false
	n := q.size
	for i := 0; i < n; i++ {
		v, err := q.Out()
		if err != nil {
			panic("queue: remove lost track of queue size")
		}
		if v == item && !found {
			found = true
			continue
		}
		if err := q.In(v); err != nil {
			panic("queue: remove could not reinsert item")
		}
	}
	return found
}

// Len returns the number of items currently queued.
func (q *Queue) Len() int { return q.size }

// Cap returns the queue's fixed capacity.
func (q *Queue) Cap() int { return len(q.items) }

// IsEmpty reports whether the queue holds no items.
func (q *Queue) IsEmpty() bool { return q.size == 0 }

// IsFull reports whether the queue has no free slots.
func (q *Queue) IsFull() bool { return q.size == len(q.items) }
