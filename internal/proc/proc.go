// Package proc defines the process control block and the fixed-table
// allocator that hands out PCB entries, grounded on kproc_create/
// kproc_destroy and the proc_table/proc_allocator pair in the original
// kernel.
package proc

import (
	"fmt"

	"github.com/kongvang2/gmkOS/internal/queue"
	"github.com/kongvang2/gmkOS/internal/ringbuf"
)

// Type distinguishes kernel processes from user processes. It is advisory
// bookkeeping only: gmkOS has no privilege rings to enforce it against.
type Type int

const (
	TypeKernel Type = iota
	TypeUser
)

func (t Type) String() string {
	if t == TypeKernel {
		return "KERNEL"
	}
	return "USER"
}

// State is the PCB lifecycle state.
type State int

const (
	StateNone State = iota
	StateIdle
	StateActive
	StateSleeping
	StateWaiting
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateActive:
		return "ACTIVE"
	case StateSleeping:
		return "SLEEPING"
	case StateWaiting:
		return "WAITING"
	default:
		return "NONE"
	}
}

// IO stream identifiers, matching PROC_IO_IN / PROC_IO_OUT.
const (
	IOIn = iota
	IOOut
	ioMax
)

// WaitKind records which kind of queue a blocked process is sitting in, so
// a later scheduler_remove-equivalent knows where to look. It stands in
// for the original's raw `proc->scheduler_queue` pointer: gmkOS keeps the
// pointer too (queues are stable heap values under Go's GC, so there is no
// dangling-pointer risk the original had to engineer around), but the
// tagged kind is what callers outside internal/sched use to reason about
// a PCB's queue membership without dereferencing it.
type WaitKind int

const (
	WaitNone WaitKind = iota
	WaitRun
	WaitSleep
	WaitMutex
	WaitSem
)

// PCB is the process control block. Unlike the original's trapframe-driven
// design, gmkOS has no raw register/stack frame to save: the goroutine
// stack of whichever hostsim worker is executing on behalf of this PCB
// plays that role. The fields kept here are exactly the scheduling and
// accounting fields spec'd for the PCB.
type PCB struct {
	Pid  int
	Name string
	Type Type

	State State

	RunTime   int
	CPUTime   int
	StartTime int
	SleepTime int

	// WaitKind/WaitID describe which queue currently owns this PCB.
	// WaitID is meaningful only for WaitMutex/WaitSem, naming the mutex or
	// semaphore table index the PCB is blocked on.
	WaitKind WaitKind
	WaitID   int

	SchedQueue *queue.Queue

	IO [ioMax]*ringbuf.Buf
}

// Allocator hands out fixed PCB table slots the same way proc_allocator
// hands out indices into proc_table: entries are queue_out'd from a
// pre-filled id queue on create and queue_in'd back on destroy.
type Allocator struct {
	free    *queue.Queue
	table   []*PCB
	nextPid int
}

// NewAllocator builds an allocator with room for max PCBs.
func NewAllocator(max int) *Allocator {
	a := &Allocator{
		free:  queue.New(max),
		table: make([]*PCB, max),
	}
	for i := 0; i < max; i++ {
		if err := a.free.In(i); err != nil {
			panic(fmt.Sprintf("proc: failed to seed allocator: %v", err))
		}
	}
	return a
}

// Create allocates a PCB table entry and assigns it the next pid.
func (a *Allocator) Create(name string, typ Type) (*PCB, error) {
	entry, err := a.free.Out()
	if err != nil {
		return nil, fmt.Errorf("proc: no free process table entries: %w", err)
	}

	p := &PCB{
		Pid:   a.nextPid,
		Name:  name,
		Type:  typ,
		State: StateIdle,
	}
	a.nextPid++
	a.table[entry] = p

	return p, nil
}

// Destroy releases a PCB's table entry for reuse. pid 0 (the idle task) can
// never be destroyed.
func (a *Allocator) Destroy(p *PCB) error {
	if p == nil {
		panic("proc: destroy called with a nil process")
	}
	if p.Pid == 0 {
		return fmt.Errorf("proc: cannot destroy the idle task")
	}

	entry := a.entryOf(p)
	if entry < 0 {
		panic("proc: process is not present in the process table")
	}

	a.table[entry] = nil
	if err := a.free.In(entry); err != nil {
		panic(fmt.Sprintf("proc: failed to return entry to allocator: %v", err))
	}

	return nil
}

func (a *Allocator) entryOf(p *PCB) int {
	for i, e := range a.table {
		if e == p {
			return i
		}
	}
	return -1
}

// Lookup finds the PCB with the given pid, or nil if none exists.
func (a *Allocator) Lookup(pid int) *PCB {
	for _, p := range a.table {
		if p != nil && p.Pid == pid {
			return p
		}
	}
	return nil
}

// All returns every currently-allocated PCB, for diagnostics and metrics.
func (a *Allocator) All() []*PCB {
	out := make([]*PCB, 0, len(a.table))
	for _, p := range a.table {
		if p != nil {
			out = append(out, p)
		}
	}
	return out
}

// Count returns the number of currently-allocated PCBs.
func (a *Allocator) Count() int {
	n := 0
	for _, p := range a.table {
		if p != nil {
			n++
		}
	}
	return n
}
