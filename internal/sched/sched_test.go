package sched

import (
	"testing"

	"github.com/kongvang2/gmkOS/internal/proc"
	"github.com/stretchr/testify/require"
)

func lookupFrom(table map[int]*proc.PCB) PidLookup {
	return func(pid int) *proc.PCB { return table[pid] }
}

func TestRoundRobinFairness(t *testing.T) {
	idle := &proc.PCB{Pid: 0, State: proc.StateIdle}
	p1 := &proc.PCB{Pid: 1, State: proc.StateIdle}
	p2 := &proc.PCB{Pid: 2, State: proc.StateIdle}
	table := map[int]*proc.PCB{0: idle, 1: p1, 2: p2}

	s := New(8, 2, lookupFrom(table))
	s.Add(idle)
	s.Add(p1)
	s.Add(p2)

	var order []int
	for i := 0; i < 5; i++ {
		s.Run()
		order = append(order, s.Active().Pid)
		s.Tick()
		s.Tick()
	}

	require.Equal(t, []int{0, 1, 2, 1, 2}, order)
}

func TestSleepWakesAfterCountdownPlusOneTick(t *testing.T) {
	idle := &proc.PCB{Pid: 0, State: proc.StateIdle}
	p1 := &proc.PCB{Pid: 1, State: proc.StateIdle}
	table := map[int]*proc.PCB{0: idle, 1: p1}

	s := New(8, 100, lookupFrom(table))
	s.Add(idle)
	s.Add(p1)

	s.Run() // active = idle
	s.Sleep(p1, 2)
	require.Equal(t, proc.StateSleeping, p1.State)
	require.Equal(t, 0, s.RunQueueLen())

	s.Tick() // sleep_time: 2 -> 1, still >= 0, requeue
	require.Equal(t, 1, s.SleepQueueLen())
	s.Tick() // sleep_time: 1 -> 0, still >= 0, requeue
	require.Equal(t, 1, s.SleepQueueLen())
	s.Tick() // sleep_time: 0 -> -1, now negative, wake (tick k+1 = 3)
	require.Equal(t, 0, s.SleepQueueLen())
	require.Equal(t, 1, s.RunQueueLen())
}

func TestRemoveFromRunQueue(t *testing.T) {
	idle := &proc.PCB{Pid: 0, State: proc.StateIdle}
	p1 := &proc.PCB{Pid: 1, State: proc.StateIdle}
	table := map[int]*proc.PCB{0: idle, 1: p1}

	s := New(8, 10, lookupFrom(table))
	s.Add(idle)
	s.Add(p1)
	s.Remove(p1)

	require.Equal(t, 1, s.RunQueueLen())
	require.Nil(t, p1.SchedQueue)
}

func TestPanicsWhenNoProcessSchedulable(t *testing.T) {
	table := map[int]*proc.PCB{}
	s := New(4, 10, lookupFrom(table))

	require.Panics(t, func() { s.Run() })
}
