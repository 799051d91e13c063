package hostsim

import (
	"fmt"

	"github.com/kongvang2/gmkOS/internal/kernel"
	"github.com/kongvang2/gmkOS/internal/proc"
)

// BootDemo recreates kproc_init's boot topology: the idle task, four
// shells (one per TTY 1-4, sharing two mutexes the way the original
// shares shell_mutex[pid%2]), and three ping/pong pairs sharing the last
// two TTYs' output.
func BootDemo(rt *Runtime, k *kernel.Kernel) error {
	idle := rt.Boot(Idle)
	if !k.AttachTTY(idle, 0) {
		return fmt.Errorf("hostsim: tty 0 unavailable for idle")
	}

	shellMutexes := make([]int, 2)
	for i := range shellMutexes {
		id, err := k.InitMutex()
		if err != nil {
			return fmt.Errorf("hostsim: allocate shell mutex: %w", err)
		}
		shellMutexes[i] = id
	}

	for ttyNum := 1; ttyNum <= 4; ttyNum++ {
		deps := ShellDeps{TTY: ttyNum, SharedMutex: shellMutexes[ttyNum%2]}
		shell, err := rt.Spawn(fmt.Sprintf("shell%d", ttyNum), proc.TypeUser, func(c *Context) {
			Shell(c, deps)
		})
		if err != nil {
			return fmt.Errorf("hostsim: spawn shell%d: %w", ttyNum, err)
		}
		if !k.AttachTTY(shell, ttyNum) {
			return fmt.Errorf("hostsim: tty %d unavailable for shell", ttyNum)
		}
	}

	pingTurn, err := k.InitSem(1)
	if err != nil {
		return fmt.Errorf("hostsim: allocate ping semaphore: %w", err)
	}
	pongTurn, err := k.InitSem(0)
	if err != nil {
		return fmt.Errorf("hostsim: allocate pong semaphore: %w", err)
	}

	for i := 0; i < 3; i++ {
		pingDeps := PingPongDeps{MyTurn: pingTurn, TheirTurn: pongTurn, Interval: 2}
		ping, err := rt.Spawn(fmt.Sprintf("ping%d", i), proc.TypeUser, func(c *Context) {
			Ping(c, pingDeps)
		})
		if err != nil {
			return fmt.Errorf("hostsim: spawn ping%d: %w", i, err)
		}
		k.AttachTTY(ping, 5)

		pongDeps := PingPongDeps{MyTurn: pongTurn, TheirTurn: pingTurn, Interval: 2}
		pong, err := rt.Spawn(fmt.Sprintf("pong%d", i), proc.TypeUser, func(c *Context) {
			Pong(c, pongDeps)
		})
		if err != nil {
			return fmt.Errorf("hostsim: spawn pong%d: %w", i, err)
		}
		k.AttachTTY(pong, 6)
	}

	return nil
}
