// Demo programs recovered from original_source/src/prog_user.c and the
// boot topology original_source/src/kproc.c's kproc_init builds: one idle
// task, a shell on each of TTYs 1-4, and three ping/pong pairs sharing one
// semaphore pair.
package hostsim

import (
	"fmt"
	"time"

	"github.com/kongvang2/gmkOS/internal/trap"
)

// idlePollInterval paces the idle task's real-wall-clock spin so the demo
// binary doesn't burn a CPU core busy-looping; it has no kernel meaning.
const idlePollInterval = 2 * time.Millisecond

// Idle loops forever, yielding the CPU at every turn. It is never
// re-enqueued on time-slice expiry (the scheduler special-cases pid 0),
// so this goroutine is simply the permanent fallback when nothing else is
// runnable.
func Idle(c *Context) {
	for {
		c.Time() // the syscall that doubles as this turn's yield point
		time.Sleep(idlePollInterval)
	}
}

// ShellDeps are the resources a pair of sibling shells share, mirroring
// prog_user.c's shell_mutex[pid%2].
type ShellDeps struct {
	TTY       int
	SharedMutex int // id of the mutex shared with this shell's sibling
}

// Shell implements the original's five commands (help, sleep, time, exit,
// lock) read one line at a time from its TTY's input stream.
func Shell(c *Context, deps ShellDeps) {
	c.Flush(trap.IOIn)
	c.Flush(trap.IOOut)

	banner := fmt.Sprintf("%s shell ready on tty%d (pid %d)\n", c.OSName(), deps.TTY, c.Pid())
	c.Write(trap.IOOut, []byte(banner))

	// Stagger startup the way the original staggers shells by pid, so
	// they don't all announce themselves on the same tick.
	c.Sleep(c.Pid()%3 + 1)

	for {
		line := readLine(c)
		if line == "" {
			continue
		}

		switch line {
		case "help":
			c.Write(trap.IOOut, []byte("commands: help, sleep, time, lock, exit\n"))
		case "sleep":
			c.Write(trap.IOOut, []byte("sleeping 1s\n"))
			c.Sleep(1)
		case "time":
			c.Write(trap.IOOut, []byte(fmt.Sprintf("%ds since boot\n", c.Time())))
		case "lock":
			count := c.MutexLock(deps.SharedMutex)
			c.Write(trap.IOOut, []byte(fmt.Sprintf("acquired shared mutex, count=%d\n", count)))
			c.MutexUnlock(deps.SharedMutex)
		case "exit":
			c.Write(trap.IOOut, []byte("bye\n"))
			c.Exit()
			return
		default:
			c.Write(trap.IOOut, []byte("unknown command: " + line + "\n"))
		}
	}
}

// readLine pulls bytes off the process's input stream until a newline,
// sleeping briefly between empty reads rather than busy-polling.
func readLine(c *Context) string {
	var line []byte
	buf := make([]byte, 64)
	for {
		n := c.Read(trap.IOIn, buf)
		if n == 0 {
			c.Sleep(1)
			continue
		}
		for _, b := range buf[:n] {
			if b == '\n' {
				return string(line)
			}
			line = append(line, b)
		}
	}
}

// PingPongDeps names the semaphore pair and turn-taking interval a
// ping/pong pair hands a token back and forth over, mirroring
// pingpong_semaphores[2].
type PingPongDeps struct {
	MyTurn   int // semaphore this process waits on
	TheirTurn int // semaphore this process posts to
	Interval int // seconds to sleep between turns
}

// Ping is the half of the pair that starts with the token (its semaphore
// initialized to count 1).
func Ping(c *Context, deps PingPongDeps) {
	pingPongLoop(c, "ping", deps)
}

// Pong is the half of the pair that starts waiting (its semaphore
// initialized to count 0).
func Pong(c *Context, deps PingPongDeps) {
	pingPongLoop(c, "pong", deps)
}

func pingPongLoop(c *Context, name string, deps PingPongDeps) {
	for {
		c.SemWait(deps.MyTurn)
		msg := fmt.Sprintf("[%ds] %s (pid %d)\n", c.Time(), name, c.Pid())
		c.Write(trap.IOOut, []byte(msg))
		c.Sleep(deps.Interval)
		c.SemPost(deps.TheirTurn)
	}
}
