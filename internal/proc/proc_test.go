package proc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCreateAssignsIncrementingPids(t *testing.T) {
	a := NewAllocator(4)
	p0, err := a.Create("idle", TypeKernel)
	require.NoError(t, err)
	require.Equal(t, 0, p0.Pid)

	p1, err := a.Create("shell", TypeUser)
	require.NoError(t, err)
	require.Equal(t, 1, p1.Pid)
	require.Equal(t, StateIdle, p1.State)
}

func TestCreateFailsWhenTableFull(t *testing.T) {
	a := NewAllocator(2)
	_, err := a.Create("a", TypeUser)
	require.NoError(t, err)
	_, err = a.Create("b", TypeUser)
	require.NoError(t, err)

	_, err = a.Create("c", TypeUser)
	require.Error(t, err)
}

func TestDestroyFreesEntryForReuse(t *testing.T) {
	a := NewAllocator(1)
	p, err := a.Create("only", TypeUser)
	require.NoError(t, err)

	require.NoError(t, a.Destroy(p))
	require.Nil(t, a.Lookup(p.Pid))

	_, err = a.Create("reused", TypeUser)
	require.NoError(t, err, "the freed entry must be reusable")
}

func TestIdleTaskCannotBeDestroyed(t *testing.T) {
	a := NewAllocator(2)
	idle, err := a.Create("idle", TypeKernel)
	require.NoError(t, err)
	require.Equal(t, 0, idle.Pid)

	require.Error(t, a.Destroy(idle))
}

func TestLookupByPid(t *testing.T) {
	a := NewAllocator(2)
	p, _ := a.Create("one", TypeUser)
	require.Equal(t, p, a.Lookup(p.Pid))
	require.Nil(t, a.Lookup(999))
}
