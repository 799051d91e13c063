// Package hostsim hosts gmkOS's deterministic kernel core inside real
// goroutines: one goroutine per process, handed control one at a time by
// a resume channel, and a wall-clock ticker standing in for the timer
// IRQ. Grounded on the teacher's per-kernel-thread, IRQ-wake goroutine
// idiom (main.go's runtime thread loop) and the toy G/M/P scheduler in
// the examples pack (toysched7.go) for the shape of mapping logical
// processes onto cooperating goroutines.
//
// Only one process goroutine ever runs kernel-affecting code at a time:
// control passes from the currently active process to whichever process
// internal/kernel.Kernel.Syscall leaves active, exactly at syscall
// boundaries. A process that never calls a syscall can starve the
// runtime of its only preemption point — see Decision 4 in DESIGN.md.
package hostsim

import (
	"sync"
	"time"

	"github.com/kongvang2/gmkOS/internal/kernel"
	"github.com/kongvang2/gmkOS/internal/proc"
)

type handle struct {
	pcb    *proc.PCB
	resume chan struct{}
}

// Runtime owns the goroutine-per-process bookkeeping around a Kernel.
type Runtime struct {
	k *kernel.Kernel

	mu      sync.Mutex
	handles map[int]*handle

	stop chan struct{}
	wg   sync.WaitGroup
}

// New builds a runtime around an already-constructed kernel.
func New(k *kernel.Kernel) *Runtime {
	return &Runtime{
		k:       k,
		handles: make(map[int]*handle),
		stop:    make(chan struct{}),
	}
}

// Boot boots the kernel's idle task and launches its goroutine, which
// blocks until the runtime grants it the first turn in Start.
func (r *Runtime) Boot(fn func(c *Context)) *proc.PCB {
	idle := r.k.Boot()
	r.launch(idle, fn)
	return idle
}

// Spawn creates a new process, registers it with the scheduler, and
// launches its goroutine blocked until its first turn arrives.
func (r *Runtime) Spawn(name string, typ proc.Type, fn func(c *Context)) (*proc.PCB, error) {
	p, err := r.k.Spawn(name, typ)
	if err != nil {
		return nil, err
	}
	r.launch(p, fn)
	return p, nil
}

func (r *Runtime) launch(p *proc.PCB, fn func(c *Context)) {
	h := &handle{pcb: p, resume: make(chan struct{}, 1)}

	r.mu.Lock()
	r.handles[p.Pid] = h
	r.mu.Unlock()

	ctx := &Context{rt: r, pid: p.Pid}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		select {
		case <-h.resume:
		case <-r.stop:
			return
		}
		fn(ctx)
	}()
}

// wake hands the run token to pid's goroutine, if it is registered. It is
// a no-op for an unknown pid (e.g. a process that has already exited).
func (r *Runtime) wake(pid int) {
	r.mu.Lock()
	h := r.handles[pid]
	r.mu.Unlock()
	if h == nil {
		return
	}
	select {
	case h.resume <- struct{}{}:
	default:
	}
}

func (r *Runtime) forget(pid int) {
	r.mu.Lock()
	delete(r.handles, pid)
	r.mu.Unlock()
}

// yield is called after every syscall a process goroutine makes: it
// hands control to whichever process the kernel now considers active,
// blocking the caller until it is handed control back. If the caller is
// still the active process (its syscall didn't trigger a hand-off), it
// returns immediately.
func (r *Runtime) yield(pid int) {
	next := r.k.Active()
	if next != nil && next.Pid == pid {
		return
	}

	if next != nil {
		r.wake(next.Pid)
	}

	r.mu.Lock()
	h := r.handles[pid]
	r.mu.Unlock()
	if h == nil {
		return
	}

	select {
	case <-h.resume:
	case <-r.stop:
	}
}

// Start gives the first process the scheduler picks its initial turn.
// Call it once, after Boot and every Spawn that should be present at
// boot, and before starting the timer ticker.
func (r *Runtime) Start() {
	r.k.TimerTick()
	if active := r.k.Active(); active != nil {
		r.wake(active.Pid)
	}
}

// Tick delivers a single timer IRQ, for callers (tests, or a custom demo
// driver) that want to pace ticks themselves instead of using RunTicker.
func (r *Runtime) Tick() {
	r.k.TimerTick()
}

// RunTicker drives the timer IRQ on a wall-clock interval until Stop is
// called. Pass a short interval for a snappy demo; gmkOS's own
// TICKS_PER_SECOND governs how many ticks make up a simulated second, not
// how fast real time advances here.
func (r *Runtime) RunTicker(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-r.stop:
			return
		case <-ticker.C:
			r.k.TimerTick()
		}
	}
}

// Stop releases every process goroutine currently blocked waiting for its
// turn. Demo programs that loop forever between syscalls (Idle, Ping,
// Pong) are not guaranteed to observe this before their process exits;
// Stop does not wait for them, since the typical caller is about to
// terminate the whole process anyway.
func (r *Runtime) Stop() {
	close(r.stop)
}

// Wait blocks until every spawned process goroutine has returned. Only
// useful when every process is guaranteed to call Context.Exit — demo
// programs that loop forever will make this block forever too.
func (r *Runtime) Wait() {
	r.wg.Wait()
}
