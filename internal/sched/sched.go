// Package sched implements the round-robin, time-sliced scheduler:
// grounded directly on scheduler_run/scheduler_add/scheduler_remove/
// scheduler_sleep/scheduler_timer in the original kernel.
package sched

import (
	"fmt"

	"github.com/kongvang2/gmkOS/internal/proc"
	"github.com/kongvang2/gmkOS/internal/queue"
)

// PidLookup resolves a pid to its PCB. The scheduler does not own the
// process table itself (the kernel does), so it is handed a lookup
// function the same way the original kernel links scheduler.c against
// kproc.c's pid_to_proc.
type PidLookup func(pid int) *proc.PCB

// Scheduler holds the run queue, sleep queue, and the single active
// process slot.
type Scheduler struct {
	runQueue   *queue.Queue
	sleepQueue *queue.Queue
	active     *proc.PCB
	timeslice  int
	lookup     PidLookup
}

// New builds a scheduler with the given run/sleep queue capacities and
// time slice (in ticks), bound to lookup for pid-to-PCB resolution.
func New(queueCapacity, timeslice int, lookup PidLookup) *Scheduler {
	if lookup == nil {
		panic("sched: lookup function is required")
	}
	return &Scheduler{
		runQueue:   queue.New(queueCapacity),
		sleepQueue: queue.New(queueCapacity),
		timeslice:  timeslice,
		lookup:     lookup,
	}
}

// Active returns the currently active process, or nil if none is
// scheduled yet.
func (s *Scheduler) Active() *proc.PCB { return s.active }

// RunQueueLen reports how many processes are waiting to run.
func (s *Scheduler) RunQueueLen() int { return s.runQueue.Len() }

// SleepQueueLen reports how many processes are currently asleep.
func (s *Scheduler) SleepQueueLen() int { return s.sleepQueue.Len() }

// Add places a process onto the run queue in the IDLE state, the same
// transition every newly-created or newly-woken process goes through.
func (s *Scheduler) Add(p *proc.PCB) {
	if p == nil {
		panic("sched: add called with a nil process")
	}

	p.SchedQueue = s.runQueue
	p.WaitKind = proc.WaitRun
	p.State = proc.StateIdle
	p.CPUTime = 0

	if err := s.runQueue.In(p.Pid); err != nil {
		panic(fmt.Sprintf("sched: unable to add process %d to the run queue: %v", p.Pid, err))
	}
}

// Remove takes a process out of whichever queue currently holds it
// (run, sleep, or a resource wait queue) and clears the active slot if it
// was the running process.
func (s *Scheduler) Remove(p *proc.PCB) {
	if p == nil {
		panic("sched: remove called with a nil process")
	}

	if p.SchedQueue != nil {
		p.SchedQueue.Remove(p.Pid)
		p.SchedQueue = nil
		p.WaitKind = proc.WaitNone
	}

	if p == s.active {
		s.active = nil
	}
}

// Sleep puts a process to sleep for the given number of ticks. Calling
// Sleep again on an already-sleeping process only refreshes its remaining
// time; it does not requeue it.
func (s *Scheduler) Sleep(p *proc.PCB, ticks int) {
	if p == nil {
		panic("sched: sleep called with a nil process")
	}

	p.SleepTime = ticks
	if p.State == proc.StateSleeping {
		return
	}

	s.Remove(p)

	p.State = proc.StateSleeping
	p.SchedQueue = s.sleepQueue
	p.WaitKind = proc.WaitSleep

	if err := s.sleepQueue.In(p.Pid); err != nil {
		panic(fmt.Sprintf("sched: unable to add process %d to the sleep queue: %v", p.Pid, err))
	}
}

// Tick advances accounting for the active process by one tick and walks
// the sleep queue, waking any process whose countdown has expired.
//
// Each entry's sleep_time is decremented first; the process stays asleep
// (requeued at the tail of the sleep queue) while the result is still
// non-negative, and wakes on the tick where it first goes negative. A
// process put to sleep for k ticks is therefore back on the run queue
// after exactly k+1 ticks.
func (s *Scheduler) Tick() {
	if s.active != nil {
		s.active.RunTime++
		s.active.CPUTime++
	}

	n := s.sleepQueue.Len()
	for i := 0; i < n; i++ {
		pid, err := s.sleepQueue.Out()
		if err != nil {
			continue
		}

		p := s.lookup(pid)
		if p == nil {
			continue
		}

		p.SleepTime--

		if p.SleepTime >= 0 {
			if err := s.sleepQueue.In(pid); err != nil {
				panic(fmt.Sprintf("sched: unable to requeue sleeping process %d: %v", pid, err))
			}
		} else {
			s.Add(p)
		}
	}
}

// Run ensures the active slot holds a runnable process: it retires the
// current process if its time slice is exhausted, then pulls the next
// pid off the run queue (falling back to pid 0, the idle task, if the run
// queue is empty).
func (s *Scheduler) Run() {
	if s.active != nil && s.active.State != proc.StateActive {
		s.active = nil
	}

	if s.active != nil && s.active.CPUTime >= s.timeslice {
		s.active.CPUTime = 0

		if s.active.Pid != 0 {
			s.Add(s.active)
		} else {
			s.active.State = proc.StateIdle
		}

		s.active = nil
	}

	if s.active == nil {
		pid, err := s.runQueue.Out()
		if err != nil {
			pid = 0
		}
		s.active = s.lookup(pid)
	}

	if s.active == nil {
		panic("sched: unable to schedule a process")
	}

	s.active.State = proc.StateActive
}
