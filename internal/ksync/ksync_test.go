package ksync

import (
	"testing"

	"github.com/kongvang2/gmkOS/internal/proc"
	"github.com/kongvang2/gmkOS/internal/sched"
	"github.com/stretchr/testify/require"
)

func newHarness(t *testing.T, n int) (*sched.Scheduler, map[int]*proc.PCB) {
	t.Helper()
	table := map[int]*proc.PCB{}
	s := sched.New(16, 1000, func(pid int) *proc.PCB { return table[pid] })
	for i := 0; i < n; i++ {
		p := &proc.PCB{Pid: i, State: proc.StateIdle}
		table[i] = p
		s.Add(p)
	}
	return s, table
}

func TestMutexHandoffScenario(t *testing.T) {
	s, table := newHarness(t, 2)
	a, b := table[0], table[1]

	m := NewMutexTable(4, 8, s, func(pid int) *proc.PCB { return table[pid] })
	id, err := m.Init()
	require.NoError(t, err)

	s.Run() // active = A
	require.Equal(t, a, s.Active())

	count, err := m.Lock(id, a)
	require.NoError(t, err)
	require.Equal(t, 1, count)

	s.Run() // still A (A did not block)
	count, err = m.Lock(id, b)
	require.NoError(t, err)
	require.Equal(t, 2, count)
	require.Equal(t, proc.StateWaiting, b.State)

	count, err = m.Unlock(id)
	require.NoError(t, err)
	require.Equal(t, 1, count)
	require.Equal(t, b, m.Owner(id))
	require.Equal(t, proc.StateIdle, b.State)

	count, err = m.Unlock(id)
	require.NoError(t, err)
	require.Equal(t, 0, count)
	require.Nil(t, m.Owner(id))
}

func TestMutexRecursiveAcquisitionBySameOwner(t *testing.T) {
	s, table := newHarness(t, 1)
	a := table[0]
	m := NewMutexTable(4, 8, s, func(pid int) *proc.PCB { return table[pid] })
	id, _ := m.Init()

	s.Run()
	c1, _ := m.Lock(id, a)
	c2, _ := m.Lock(id, a)
	require.Equal(t, 1, c1)
	require.Equal(t, 2, c2)

	m.Unlock(id)
	c3, _ := m.Unlock(id)
	require.Equal(t, 0, c3)
}

func TestMutexDestroyFailsWhenLocked(t *testing.T) {
	s, table := newHarness(t, 1)
	a := table[0]
	m := NewMutexTable(4, 8, s, func(pid int) *proc.PCB { return table[pid] })
	id, _ := m.Init()

	s.Run()
	m.Lock(id, a)
	require.Error(t, m.Destroy(id))

	m.Unlock(id)
	require.NoError(t, m.Destroy(id))
}

func TestSemaphorePingPongAlternation(t *testing.T) {
	s, table := newHarness(t, 2)
	ping, pong := table[0], table[1]

	sems := NewSemTable(4, 8, s, func(pid int) *proc.PCB { return table[pid] })
	pingSem, _ := sems.Init(1)
	pongSem, _ := sems.Init(0)

	var sequence []string

	step := func(actor *proc.PCB, own, other int, name string) {
		s.Run()
		require.Equal(t, actor, s.Active())
		_, err := sems.Wait(own, actor)
		require.NoError(t, err)
		sequence = append(sequence, name)
		_, err = sems.Post(other)
		require.NoError(t, err)
		if actor.State == proc.StateActive {
			// the process yields after its turn, matching the demo
			// program's blocking syscall boundary
			s.Remove(actor)
			s.Add(actor)
		}
	}

	for i := 0; i < 3; i++ {
		step(ping, pingSem, pongSem, "ping")
		step(pong, pongSem, pingSem, "pong")
	}

	require.Equal(t, []string{"ping", "pong", "ping", "pong", "ping", "pong"}, sequence)
}

func TestSemaphoreDestroyRequiresEmptyWaitQueue(t *testing.T) {
	s, table := newHarness(t, 1)
	a := table[0]
	sems := NewSemTable(4, 8, s, func(pid int) *proc.PCB { return table[pid] })
	id, _ := sems.Init(0)

	s.Run()
	_, err := sems.Wait(id, a)
	require.NoError(t, err)
	require.Equal(t, proc.StateWaiting, a.State)

	require.Error(t, sems.Destroy(id))

	sems.Post(id)
	require.NoError(t, sems.Destroy(id))
}
