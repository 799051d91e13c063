// Package ksync implements the kernel's recursive mutex and counting
// semaphore, grounded on kmutex.c/ksem.c and the accounting decisions
// recorded in DESIGN.md.
package ksync

import (
	"fmt"

	"github.com/kongvang2/gmkOS/internal/proc"
	"github.com/kongvang2/gmkOS/internal/queue"
)

// Scheduler is the subset of *sched.Scheduler the mutex/semaphore tables
// need: pulling a waiter back onto the run queue. Both *sched.Scheduler's
// Remove and Add methods already satisfy this interface.
type Scheduler interface {
	Remove(p *proc.PCB)
	Add(p *proc.PCB)
}

// PidLookup resolves a pid to its PCB.
type PidLookup func(pid int) *proc.PCB

type mutex struct {
	allocated bool
	lockCount int
	owner     *proc.PCB
	waitQueue *queue.Queue
}

// MutexTable is the fixed-size, queue-allocated table of mutexes.
type MutexTable struct {
	entries      []mutex
	free         *queue.Queue
	waitQueueCap int
	sched        Scheduler
	lookup       PidLookup
}

// NewMutexTable builds a mutex table with room for max mutexes, each with
// a wait queue of the given capacity.
func NewMutexTable(max, waitQueueCap int, sched Scheduler, lookup PidLookup) *MutexTable {
	if sched == nil || lookup == nil {
		panic("ksync: scheduler and lookup are required")
	}

	t := &MutexTable{
		entries:      make([]mutex, max),
		free:         queue.New(max),
		waitQueueCap: waitQueueCap,
		sched:        sched,
		lookup:       lookup,
	}
	for i := 0; i < max; i++ {
		if err := t.free.In(i); err != nil {
			panic(fmt.Sprintf("ksync: failed to seed mutex allocator: %v", err))
		}
	}
	return t
}

// Init allocates a fresh mutex and returns its id, or an error if none are
// free.
func (t *MutexTable) Init() (int, error) {
	id, err := t.free.Out()
	if err != nil {
		return -1, fmt.Errorf("ksync: no free mutexes: %w", err)
	}

	t.entries[id] = mutex{
		allocated: true,
		waitQueue: queue.New(t.waitQueueCap),
	}
	return id, nil
}

func (t *MutexTable) valid(id int) bool {
	return id >= 0 && id < len(t.entries) && t.entries[id].allocated
}

// Destroy releases a mutex back to the free list. It fails if the mutex
// is currently held.
func (t *MutexTable) Destroy(id int) error {
	if !t.valid(id) {
		return fmt.Errorf("ksync: invalid mutex id %d", id)
	}
	m := &t.entries[id]
	if m.lockCount > 0 {
		return fmt.Errorf("ksync: cannot destroy locked mutex %d", id)
	}

	if err := t.free.In(id); err != nil {
		panic(fmt.Sprintf("ksync: failed to return mutex %d to the free list: %v", id, err))
	}
	t.entries[id] = mutex{}

	return nil
}

// Lock locks the mutex on behalf of active. Recursive re-acquisition by
// the current owner succeeds immediately; any other caller blocks on the
// mutex's wait queue until it is handed ownership by Unlock.
//
// lock_count conflates two things by design: the owner's recursion depth
// and the number of other processes queued behind it. A lock_count of 3
// could mean "owner recursed twice more" or "owner holds it once and two
// others are waiting" — the count alone can't distinguish them. This
// matches the mutex_lock contract exactly rather than splitting it into
// two counters, because scenario 3's expected lock-count values are only
// reproducible with this accounting (see DESIGN.md).
func (t *MutexTable) Lock(id int, active *proc.PCB) (int, error) {
	if active == nil {
		panic("ksync: lock called with no active process")
	}
	if !t.valid(id) {
		return -1, fmt.Errorf("ksync: invalid mutex id %d", id)
	}
	m := &t.entries[id]

	if m.lockCount > 0 && m.owner != active {
		t.sched.Remove(active)
		active.State = proc.StateWaiting
		active.SchedQueue = m.waitQueue
		active.WaitKind = proc.WaitMutex
		active.WaitID = id
		if err := m.waitQueue.In(active.Pid); err != nil {
			panic(fmt.Sprintf("ksync: failed to queue process %d on mutex %d: %v", active.Pid, id, err))
		}
	}

	if m.lockCount == 0 {
		m.owner = active
	}
	m.lockCount++

	return m.lockCount, nil
}

// Unlock releases one level of the mutex. When the lock count reaches
// zero the mutex becomes free; otherwise the next queued waiter (if any)
// is handed ownership and re-admitted to the scheduler.
func (t *MutexTable) Unlock(id int) (int, error) {
	if !t.valid(id) {
		return -1, fmt.Errorf("ksync: invalid mutex id %d", id)
	}
	m := &t.entries[id]

	if m.lockCount == 0 {
		return 0, nil
	}

	m.lockCount--
	if m.lockCount == 0 {
		m.owner = nil
		return 0, nil
	}

	pid, err := m.waitQueue.Out()
	if err == nil {
		if p := t.lookup(pid); p != nil {
			t.sched.Remove(p)
			t.sched.Add(p)
			m.owner = p
		}
	}

	return m.lockCount, nil
}

// AliveCount returns the number of currently allocated mutexes, for
// metrics.
func (t *MutexTable) AliveCount() int {
	n := 0
	for _, m := range t.entries {
		if m.allocated {
			n++
		}
	}
	return n
}

// LockCount returns the current lock count of the mutex, for diagnostics
// and tests.
func (t *MutexTable) LockCount(id int) int {
	if !t.valid(id) {
		return -1
	}
	return t.entries[id].lockCount
}

// Owner returns the PCB currently holding the mutex, or nil.
func (t *MutexTable) Owner(id int) *proc.PCB {
	if !t.valid(id) {
		return nil
	}
	return t.entries[id].owner
}
