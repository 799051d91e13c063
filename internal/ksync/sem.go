package ksync

import (
	"fmt"

	"github.com/kongvang2/gmkOS/internal/proc"
	"github.com/kongvang2/gmkOS/internal/queue"
)

type semaphore struct {
	allocated bool
	count     int
	waitQueue *queue.Queue
}

// SemTable is the fixed-size, queue-allocated table of counting
// semaphores.
type SemTable struct {
	entries      []semaphore
	free         *queue.Queue
	waitQueueCap int
	sched        Scheduler
	lookup       PidLookup
}

// NewSemTable builds a semaphore table with room for max semaphores, each
// with a wait queue of the given capacity.
func NewSemTable(max, waitQueueCap int, sched Scheduler, lookup PidLookup) *SemTable {
	if sched == nil || lookup == nil {
		panic("ksync: scheduler and lookup are required")
	}

	t := &SemTable{
		entries:      make([]semaphore, max),
		free:         queue.New(max),
		waitQueueCap: waitQueueCap,
		sched:        sched,
		lookup:       lookup,
	}
	for i := 0; i < max; i++ {
		if err := t.free.In(i); err != nil {
			panic(fmt.Sprintf("ksync: failed to seed semaphore allocator: %v", err))
		}
	}
	return t
}

func (t *SemTable) valid(id int) bool {
	return id >= 0 && id < len(t.entries) && t.entries[id].allocated
}

// Init allocates a semaphore with the given initial count.
func (t *SemTable) Init(initial int) (int, error) {
	id, err := t.free.Out()
	if err != nil {
		return -1, fmt.Errorf("ksync: no free semaphores: %w", err)
	}

	t.entries[id] = semaphore{
		allocated: true,
		count:     initial,
		waitQueue: queue.New(t.waitQueueCap),
	}
	return id, nil
}

// Destroy releases a semaphore back to the free list. Legal only when the
// count is zero and nothing is waiting on it — destroying a semaphore
// with pending waiters would strand them.
func (t *SemTable) Destroy(id int) error {
	if !t.valid(id) {
		return fmt.Errorf("ksync: invalid semaphore id %d", id)
	}
	s := &t.entries[id]
	if s.count > 0 || !s.waitQueue.IsEmpty() {
		return fmt.Errorf("ksync: cannot destroy semaphore %d: in use", id)
	}

	if err := t.free.In(id); err != nil {
		panic(fmt.Sprintf("ksync: failed to return semaphore %d to the free list: %v", id, err))
	}
	t.entries[id] = semaphore{}

	return nil
}

// Wait blocks active on the semaphore if its count is zero, otherwise
// decrements the count immediately. Returns the resulting count.
func (t *SemTable) Wait(id int, active *proc.PCB) (int, error) {
	if active == nil {
		panic("ksync: wait called with no active process")
	}
	if !t.valid(id) {
		return -1, fmt.Errorf("ksync: invalid semaphore id %d", id)
	}
	s := &t.entries[id]

	if s.count == 0 {
		t.sched.Remove(active)
		active.State = proc.StateWaiting
		active.SchedQueue = s.waitQueue
		active.WaitKind = proc.WaitSem
		active.WaitID = id
		if err := s.waitQueue.In(active.Pid); err != nil {
			panic(fmt.Sprintf("ksync: failed to queue process %d on semaphore %d: %v", active.Pid, id, err))
		}
		return s.count, nil
	}

	s.count--
	return s.count, nil
}

// Post increments the semaphore's count, then, if a process is waiting,
// hands the token directly to it: the waiter is dequeued and re-admitted
// to the scheduler, and the increment is immediately offset by a matching
// decrement so the returned count reflects what the woken waiter actually
// observes rather than the transient pre-handoff value.
func (t *SemTable) Post(id int) (int, error) {
	if !t.valid(id) {
		return -1, fmt.Errorf("ksync: invalid semaphore id %d", id)
	}
	s := &t.entries[id]

	s.count++

	if pid, err := s.waitQueue.Out(); err == nil {
		if p := t.lookup(pid); p != nil {
			t.sched.Add(p)
			s.count--
		}
	}

	return s.count, nil
}

// AliveCount returns the number of currently allocated semaphores, for
// metrics.
func (t *SemTable) AliveCount() int {
	n := 0
	for _, s := range t.entries {
		if s.allocated {
			n++
		}
	}
	return n
}

// Count returns the current count of the semaphore, for diagnostics and
// tests.
func (t *SemTable) Count(id int) int {
	if !t.valid(id) {
		return -1
	}
	return t.entries[id].count
}
