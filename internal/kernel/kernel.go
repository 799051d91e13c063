package kernel

import (
	"sync"

	"github.com/kongvang2/gmkOS/internal/keyboard"
	"github.com/kongvang2/gmkOS/internal/klog"
	"github.com/kongvang2/gmkOS/internal/ksync"
	"github.com/kongvang2/gmkOS/internal/metrics"
	"github.com/kongvang2/gmkOS/internal/pic"
	"github.com/kongvang2/gmkOS/internal/proc"
	"github.com/kongvang2/gmkOS/internal/ringbuf"
	"github.com/kongvang2/gmkOS/internal/sched"
	"github.com/kongvang2/gmkOS/internal/timer"
	"github.com/kongvang2/gmkOS/internal/trap"
	"github.com/kongvang2/gmkOS/internal/tty"
)

// Kernel is the single mutable instance of everything modeled: process
// table, scheduler, sync primitives, IRQ handler table, TTYs, keyboard
// decoder, PIC, logging, and metrics, all serialized behind one lock. This
// mirrors the original kernel's convention of a handful of package-level
// globals (proc_table, run_queue, active_proc, ...) touched only from
// inside the single-threaded IRQ-handling path; the lock here plays the
// role "interrupts are disabled" plays there.
type Kernel struct {
	mu sync.Mutex

	cfg Config

	procs   *proc.Allocator
	sched   *sched.Scheduler
	mutexes *ksync.MutexTable
	sems    *ksync.SemTable
	trap    *trap.HandlerTable
	ttys    *tty.Manager
	kbd     *keyboard.Decoder
	pic     *pic.Controller
	timers  *timer.Table
	log     *klog.Logger
	metrics *metrics.Metrics

	pendingScancode byte
	currentFrame    *trap.Frame
}

// New constructs a kernel from its configuration, logger, and metrics
// registry, registers its IRQ handlers and timer callbacks, and unmasks
// the timer and keyboard lines, but does not yet boot it (no idle task):
// call Boot for that.
func New(cfg Config, log *klog.Logger, m *metrics.Metrics) *Kernel {
	k := &Kernel{
		cfg:   cfg,
		procs: proc.NewAllocator(cfg.ProcMax),
		ttys:  tty.New(cfg.TTYMax, cfg.RingbufSize),
		pic:   pic.New(),
		log:   log,
		metrics: m,
	}
	k.kbd = keyboard.New(k.ttys)
	k.sched = sched.New(cfg.QueueSize, cfg.SchedulerTimeslice, k.procs.Lookup)
	k.mutexes = ksync.NewMutexTable(cfg.MutexMax, cfg.QueueSize, k.sched, k.procs.Lookup)
	k.sems = ksync.NewSemTable(cfg.SemMax, cfg.QueueSize, k.sched, k.procs.Lookup)
	k.timers = timer.New(cfg.TimersMax)
	k.trap = trap.NewHandlerTable(func(format string, args ...any) {
		if m != nil {
			m.Panics.Inc()
		}
		log.Panic(format, args...)
	})

	k.trap.Register(trap.IRQTimer, k.handleTimer)
	k.trap.Register(trap.IRQKeyboard, k.handleKeyboard)
	k.trap.Register(trap.IRQSyscall, k.handleSyscall)

	// scheduler_timer and tty_refresh are themselves registered through the
	// timer table in the original kernel (scheduler.c, tty.c), not called
	// directly from the IRQ handler.
	if _, err := k.timers.Register(k.sched.Tick, 1, -1); err != nil {
		log.Panic("kernel: failed to register scheduler tick callback: %v", err)
	}
	if _, err := k.timers.Register(k.refreshTTYs, 2, -1); err != nil {
		log.Panic("kernel: failed to register tty refresh callback: %v", err)
	}

	k.pic.Enable(trap.IRQTimer)
	k.pic.Enable(trap.IRQKeyboard)

	return k
}

// Boot creates the idle task (pid 0) and schedules it, the hosted
// equivalent of kernel_init creating proc 0 before the first timer tick
// ever fires.
func (k *Kernel) Boot() *proc.PCB {
	k.mu.Lock()
	defer k.mu.Unlock()

	idle, err := k.procs.Create("idle", proc.TypeKernel)
	if err != nil {
		k.log.Panic("kernel: failed to create idle task: %v", err)
	}
	k.attachIO(idle)
	k.sched.Add(idle)
	k.log.Info("kernel booted: %s", KernelName)

	return idle
}

// Spawn creates a new process and admits it to the scheduler, the hosted
// equivalent of kproc_create immediately followed by scheduler_add.
func (k *Kernel) Spawn(name string, typ proc.Type) (*proc.PCB, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	p, err := k.procs.Create(name, typ)
	if err != nil {
		return nil, err
	}
	k.attachIO(p)
	k.sched.Add(p)
	return p, nil
}

// attachIO gives a freshly-created PCB its own private input/output ring
// buffers, the default every process gets before (optionally) being
// attached to a TTY.
func (k *Kernel) attachIO(p *proc.PCB) {
	p.IO[proc.IOIn] = ringbuf.New(k.cfg.RingbufSize)
	p.IO[proc.IOOut] = ringbuf.New(k.cfg.RingbufSize)
}

// AttachTTY rewires a process's stdin/stdout to the given TTY's input and
// output ring buffers, replacing its private ones. This is the hosted
// equivalent of kproc_create wiring a process's default file descriptors
// to its controlling terminal.
func (k *Kernel) AttachTTY(p *proc.PCB, ttyNumber int) bool {
	k.mu.Lock()
	defer k.mu.Unlock()

	t := k.ttys.Get(ttyNumber)
	if t == nil {
		return false
	}
	p.IO[proc.IOIn] = t.Input
	p.IO[proc.IOOut] = t.Output
	return true
}

// InitMutex allocates a mutex directly, without requiring an active
// process — useful for boot-time setup of resources shared by processes
// not created yet, the way kproc_init allocates shell_mutex before any
// shell exists.
func (k *Kernel) InitMutex() (int, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.mutexes.Init()
}

// InitSem allocates a semaphore directly, without requiring an active
// process. See InitMutex.
func (k *Kernel) InitSem(initial int) (int, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.sems.Init(initial)
}

// DrainTTYOutput pops every byte currently buffered in a TTY's output
// stream, for a host terminal to render. It never blocks: an empty TTY
// returns an empty slice, and an out-of-range TTY number returns nil.
func (k *Kernel) DrainTTYOutput(ttyNumber int) []byte {
	k.mu.Lock()
	defer k.mu.Unlock()

	t := k.ttys.Get(ttyNumber)
	if t == nil {
		return nil
	}

	out := make([]byte, 0, t.Output.Len())
	for !t.Output.IsEmpty() {
		b, err := t.Output.Read()
		if err != nil {
			break
		}
		out = append(out, b)
	}
	return out
}

// TTYCount reports how many TTYs the kernel's TTY manager holds.
func (k *Kernel) TTYCount() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.ttys.Count()
}

// Active returns the currently scheduled process.
func (k *Kernel) Active() *proc.PCB {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.sched.Active()
}

// TTYs exposes the TTY manager, for hostsim to wire real terminals to.
func (k *Kernel) TTYs() *tty.Manager { return k.ttys }

// InjectKeyboard delivers one scan code through the keyboard IRQ path.
func (k *Kernel) InjectKeyboard(scancode byte) {
	k.mu.Lock()
	defer k.mu.Unlock()

	k.pendingScancode = scancode
	k.enter(trap.IRQKeyboard)
}

// TimerTick delivers one timer IRQ: the scheduler advances its sleep
// queue accounting, the active process's time slice is charged, and a
// new process may be scheduled in.
func (k *Kernel) TimerTick() {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.enter(trap.IRQTimer)
}

// Syscall dispatches a syscall IRQ on behalf of frame.Syscall, executed
// against the currently active process. Return is also left in
// frame.Return for callers that prefer reading it off the frame.
func (k *Kernel) Syscall(f *trap.Frame) int {
	k.mu.Lock()
	defer k.mu.Unlock()

	k.currentFrame = f
	k.enter(trap.IRQSyscall)
	k.currentFrame = nil

	return f.Return
}

// enter runs the fixed kernel-entry sequence: dispatch the handler for
// irq, dismiss it at the PIC if it originated there, let the scheduler
// pick (or re-pick) the active process, and refresh gauges. Every IRQ
// entry point above (InjectKeyboard, TimerTick, Syscall) funnels through
// this single path, the same
// way every original IRQ/syscall eventually lands in kernel_context_enter.
func (k *Kernel) enter(irq int) {
	k.trap.Dispatch(irq)

	if trap.IsPIC(irq) {
		k.pic.Dismiss(irq)
	}

	k.sched.Run()
	if k.sched.Active() == nil {
		k.log.Panic("kernel: scheduler left no active process after dispatch")
	}

	if k.metrics != nil {
		k.metrics.RunQueueDepth.Set(float64(k.sched.RunQueueLen()))
		k.metrics.SleepQueueDepth.Set(float64(k.sched.SleepQueueLen()))
		k.metrics.ProcessesAlive.Set(float64(k.procs.Count()))
		k.metrics.MutexesAlive.Set(float64(k.mutexes.AliveCount()))
		k.metrics.SemaphoresAlive.Set(float64(k.sems.AliveCount()))
	}
}

func (k *Kernel) handleTimer() {
	k.timers.Tick()
	if k.metrics != nil {
		k.metrics.Ticks.Inc()
	}
}

func (k *Kernel) handleKeyboard() {
	k.kbd.Inject(k.pendingScancode)
}

// refreshTTYs stands in for tty_refresh's screen repaint: there is no VGA
// framebuffer to draw once hosted, so this is the hook point a real
// renderer would occupy, registered at the same 2-tick interval as the
// original rather than dropped.
func (k *Kernel) refreshTTYs() {}

func (k *Kernel) handleSyscall() {
	f := k.currentFrame
	if f == nil {
		k.log.Panic("kernel: syscall IRQ dispatched with no frame")
		return
	}

	active := k.sched.Active()
	if active == nil {
		k.log.Panic("kernel: syscall IRQ dispatched with no active process")
		return
	}

	switch f.Syscall {
	case trap.SyscallIORead:
		f.Return = k.sysIORead(active, f)
	case trap.SyscallIOWrite:
		f.Return = k.sysIOWrite(active, f)
	case trap.SyscallIOFlush:
		f.Return = k.sysIOFlush(active, f)
	case trap.SyscallSysGetTime:
		f.Return = k.timers.Ticks() / k.cfg.TicksPerSecond
	case trap.SyscallSysGetName:
		f.Return = copyString(f.Buf1, KernelName)
	case trap.SyscallProcSleep:
		k.sched.Sleep(active, f.Arg1*k.cfg.TicksPerSecond)
		f.Return = 0
	case trap.SyscallProcExit:
		f.Return = k.sysProcExit(active)
	case trap.SyscallProcGetPid:
		f.Return = active.Pid
	case trap.SyscallProcGetName:
		f.Return = copyString(f.Buf1, active.Name)
	case trap.SyscallMutexInit:
		f.Return = orMinusOne(k.mutexes.Init())
	case trap.SyscallMutexDestroy:
		f.Return = boolResult(k.mutexes.Destroy(f.Arg1))
	case trap.SyscallMutexLock:
		f.Return = orMinusOne(k.mutexes.Lock(f.Arg1, active))
	case trap.SyscallMutexUnlock:
		f.Return = orMinusOne(k.mutexes.Unlock(f.Arg1))
	case trap.SyscallSemInit:
		f.Return = orMinusOne(k.sems.Init(f.Arg1))
	case trap.SyscallSemDestroy:
		f.Return = boolResult(k.sems.Destroy(f.Arg1))
	case trap.SyscallSemWait:
		f.Return = orMinusOne(k.sems.Wait(f.Arg1, active))
	case trap.SyscallSemPost:
		f.Return = orMinusOne(k.sems.Post(f.Arg1))
	default:
		f.Return = -1
	}
}

func (k *Kernel) sysIORead(active *proc.PCB, f *trap.Frame) int {
	stream := ioStream(active, f.Arg1)
	if stream == nil || f.Buf1 == nil {
		return -1
	}
	return stream.ReadMem(f.Buf1)
}

func (k *Kernel) sysIOWrite(active *proc.PCB, f *trap.Frame) int {
	stream := ioStream(active, f.Arg1)
	if stream == nil {
		return -1
	}
	if err := stream.WriteMem(f.Buf1); err != nil {
		return -1
	}
	return 0
}

func (k *Kernel) sysIOFlush(active *proc.PCB, f *trap.Frame) int {
	stream := ioStream(active, f.Arg1)
	if stream == nil {
		return -1
	}
	stream.Flush()
	return 0
}

func (k *Kernel) sysProcExit(active *proc.PCB) int {
	k.sched.Remove(active)
	if err := k.procs.Destroy(active); err != nil {
		return -1
	}
	return 0
}

func ioStream(p *proc.PCB, stream int) *ringbuf.Buf {
	if stream != trap.IOIn && stream != trap.IOOut {
		return nil
	}
	return p.IO[stream]
}

func copyString(dst []byte, s string) int {
	if dst == nil {
		return -1
	}
	n := copy(dst, s)
	if n < len(dst) {
		dst[n] = 0
	}
	return 0
}

func orMinusOne(n int, err error) int {
	if err != nil {
		return -1
	}
	return n
}

func boolResult(err error) int {
	if err != nil {
		return -1
	}
	return 0
}
