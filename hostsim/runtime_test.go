package hostsim

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/kongvang2/gmkOS/internal/kernel"
	"github.com/kongvang2/gmkOS/internal/klog"
	"github.com/kongvang2/gmkOS/internal/metrics"
	"github.com/kongvang2/gmkOS/internal/proc"
)

func newTestKernel(t *testing.T) *kernel.Kernel {
	t.Helper()
	log := klog.New(klog.LevelError)
	m := metrics.New(prometheus.NewRegistry())
	return kernel.New(kernel.DefaultConfig(), log, m)
}

// TestTwoProcessesRunToCompletion spawns two finite worker processes that
// each report their pid and exit, and confirms both get scheduled and
// both terminate without deadlocking the runtime's turn handoff.
func TestTwoProcessesRunToCompletion(t *testing.T) {
	k := newTestKernel(t)
	rt := New(k)

	rt.Boot(func(c *Context) {
		for {
			c.Time()
			time.Sleep(time.Millisecond)
		}
	})

	seen := make(chan int, 2)

	worker := func(c *Context) {
		seen <- c.GetPid()
		c.Exit()
	}

	_, err := rt.Spawn("A", proc.TypeUser, worker)
	require.NoError(t, err)
	_, err = rt.Spawn("B", proc.TypeUser, worker)
	require.NoError(t, err)

	rt.Start()

	deadline := time.After(2 * time.Second)
	tick := time.NewTicker(time.Millisecond)
	defer tick.Stop()

	got := map[int]bool{}
	for len(got) < 2 {
		select {
		case pid := <-seen:
			got[pid] = true
		case <-tick.C:
			rt.Tick()
		case <-deadline:
			t.Fatal("workers never completed")
		}
	}

	require.Len(t, got, 2)
}
