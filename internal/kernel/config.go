// Package kernel ties the queue, ringbuf, proc, sched, ksync, and trap
// packages into a single Kernel value and drives the kernel-entry sequence
// spec'd in SPEC_FULL.md §4/§9: one mutable Kernel, one lock, dispatched
// one IRQ at a time. Grounded on kernel.c's kernel_init/kernel_context_enter
// sequence and the package-level global state convention the original
// kernel uses throughout main.go.
package kernel

// KernelName is returned by SYS_GET_NAME, matching OS_NAME in kernel.h.
const KernelName = "gmkOS"

// Config holds the kernel's compile-time-equivalent tunables, matching
// PROC_MAX, PROC_NAME_LEN, MUTEX_MAX, SEM_MAX, QUEUE_SIZE, RINGBUF_SIZE,
// TIMERS_MAX, SCHEDULER_TIMESLICE, and TICKS_PER_SECOND from
// kernel.h/scheduler.h/queue.h/ringbuf.h, plus the TTY count. There is no
// PROC_STACK_SIZE counterpart: a process has no kernel stack of its own
// here.
type Config struct {
	ProcMax            int
	ProcNameLen        int
	MutexMax           int
	SemMax             int
	QueueSize          int
	RingbufSize        int
	TimersMax          int
	SchedulerTimeslice int
	TicksPerSecond     int
	TTYMax             int
}

// DefaultConfig matches the original kernel's compile-time defaults.
func DefaultConfig() Config {
	return Config{
		ProcMax:            32,
		ProcNameLen:        32,
		MutexMax:           16,
		SemMax:             16,
		QueueSize:          32,
		RingbufSize:        2048,
		TimersMax:          16,
		SchedulerTimeslice: 10,
		TicksPerSecond:     100,
		TTYMax:             10,
	}
}
