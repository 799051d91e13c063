package hostsim

import "github.com/kongvang2/gmkOS/internal/trap"

// Context is a process goroutine's handle onto the syscall surface. Every
// method blocks until the runtime hands control back to this process
// (immediately, if the syscall didn't cause a scheduler hand-off).
type Context struct {
	rt  *Runtime
	pid int
}

// Pid returns the pid the kernel assigned this process at creation.
func (c *Context) Pid() int { return c.pid }

func (c *Context) syscall(f *trap.Frame) int {
	f.Interrupt = trap.IRQSyscall
	ret := c.rt.k.Syscall(f)
	c.rt.yield(c.pid)
	return ret
}

// Read copies up to len(buf) bytes from the given IO stream into buf,
// returning the number of bytes actually copied.
func (c *Context) Read(stream int, buf []byte) int {
	return c.syscall(&trap.Frame{Syscall: trap.SyscallIORead, Arg1: stream, Buf1: buf})
}

// Write writes data to the given IO stream, all-or-nothing. Returns false
// if the stream's buffer could not hold all of data.
func (c *Context) Write(stream int, data []byte) bool {
	return c.syscall(&trap.Frame{Syscall: trap.SyscallIOWrite, Arg1: stream, Buf1: data}) == 0
}

// Flush discards the contents of the given IO stream.
func (c *Context) Flush(stream int) {
	c.syscall(&trap.Frame{Syscall: trap.SyscallIOFlush, Arg1: stream})
}

// Time returns the number of simulated seconds since boot.
func (c *Context) Time() int {
	return c.syscall(&trap.Frame{Syscall: trap.SyscallSysGetTime})
}

// OSName returns the kernel's reported name.
func (c *Context) OSName() string {
	buf := make([]byte, 32)
	c.syscall(&trap.Frame{Syscall: trap.SyscallSysGetName, Buf1: buf})
	return cString(buf)
}

// Sleep blocks this process for the given number of simulated seconds.
func (c *Context) Sleep(seconds int) {
	c.syscall(&trap.Frame{Syscall: trap.SyscallProcSleep, Arg1: seconds})
}

// Exit terminates this process and frees its pid. Unlike every other
// Context method, it does not wait for another turn: it hands control to
// the newly active process and returns at once, and the process goroutine
// is expected to return immediately afterward.
func (c *Context) Exit() {
	f := &trap.Frame{Syscall: trap.SyscallProcExit, Interrupt: trap.IRQSyscall}
	c.rt.k.Syscall(f)
	c.rt.forget(c.pid)

	if active := c.rt.k.Active(); active != nil {
		c.rt.wake(active.Pid)
	}
}

// GetPid returns this process's own pid, as reported by the kernel rather
// than the locally-cached value (they are always equal; GetPid exercises
// the syscall path the way a real program would).
func (c *Context) GetPid() int {
	return c.syscall(&trap.Frame{Syscall: trap.SyscallProcGetPid})
}

// Name returns this process's own name.
func (c *Context) Name() string {
	buf := make([]byte, 32)
	c.syscall(&trap.Frame{Syscall: trap.SyscallProcGetName, Buf1: buf})
	return cString(buf)
}

// MutexInit allocates a new mutex, returning its id or -1 on exhaustion.
func (c *Context) MutexInit() int {
	return c.syscall(&trap.Frame{Syscall: trap.SyscallMutexInit})
}

// MutexDestroy frees a mutex. Returns false if it is still held.
func (c *Context) MutexDestroy(id int) bool {
	return c.syscall(&trap.Frame{Syscall: trap.SyscallMutexDestroy, Arg1: id}) == 0
}

// MutexLock locks a mutex, returning the resulting lock count.
func (c *Context) MutexLock(id int) int {
	return c.syscall(&trap.Frame{Syscall: trap.SyscallMutexLock, Arg1: id})
}

// MutexUnlock unlocks one level of a mutex, returning the resulting lock
// count.
func (c *Context) MutexUnlock(id int) int {
	return c.syscall(&trap.Frame{Syscall: trap.SyscallMutexUnlock, Arg1: id})
}

// SemInit allocates a new counting semaphore with the given initial
// count.
func (c *Context) SemInit(initial int) int {
	return c.syscall(&trap.Frame{Syscall: trap.SyscallSemInit, Arg1: initial})
}

// SemDestroy frees a semaphore. Returns false if it still has a positive
// count or pending waiters.
func (c *Context) SemDestroy(id int) bool {
	return c.syscall(&trap.Frame{Syscall: trap.SyscallSemDestroy, Arg1: id}) == 0
}

// SemWait waits on a semaphore, returning the resulting count.
func (c *Context) SemWait(id int) int {
	return c.syscall(&trap.Frame{Syscall: trap.SyscallSemWait, Arg1: id})
}

// SemPost signals a semaphore, returning the resulting count.
func (c *Context) SemPost(id int) int {
	return c.syscall(&trap.Frame{Syscall: trap.SyscallSemPost, Arg1: id})
}

func cString(buf []byte) string {
	for i, b := range buf {
		if b == 0 {
			return string(buf[:i])
		}
	}
	return string(buf)
}
