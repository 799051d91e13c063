package timer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFiresOnEveryIntervalTick(t *testing.T) {
	table := New(4)
	var fired int
	_, err := table.Register(func() { fired++ }, 2, -1)
	require.NoError(t, err)

	for i := 0; i < 6; i++ {
		table.Tick()
	}

	require.Equal(t, 3, fired)
	require.Equal(t, 6, table.Ticks())
}

func TestRepeatZeroUnregistersAfterOneFiring(t *testing.T) {
	table := New(4)
	var fired int
	id, err := table.Register(func() { fired++ }, 1, 0)
	require.NoError(t, err)

	table.Tick()
	table.Tick()
	table.Tick()

	require.Equal(t, 1, fired)
	require.Error(t, table.Unregister(id))
}

func TestPositiveRepeatDecrementsOnlyOnFiring(t *testing.T) {
	table := New(4)
	var fired int
	_, err := table.Register(func() { fired++ }, 3, 2)
	require.NoError(t, err)

	for i := 0; i < 9; i++ {
		table.Tick()
	}

	// Fires at ticks 3, 6, 9: the first firing consumes repeat=2, the
	// second consumes repeat=1, and the third fires with repeat==0 and
	// unregisters itself rather than firing a fourth time.
	require.Equal(t, 3, fired)
}

func TestUnregisterFreesIdForReuse(t *testing.T) {
	table := New(1)
	id, err := table.Register(func() {}, 1, -1)
	require.NoError(t, err)
	require.NoError(t, table.Unregister(id))

	_, err = table.Register(func() {}, 1, -1)
	require.NoError(t, err)
}

func TestRegisterFailsWhenTableIsFull(t *testing.T) {
	table := New(1)
	_, err := table.Register(func() {}, 1, -1)
	require.NoError(t, err)

	_, err = table.Register(func() {}, 1, -1)
	require.Error(t, err)
}

func TestRegisterRejectsNilCallback(t *testing.T) {
	table := New(1)
	_, err := table.Register(nil, 1, -1)
	require.Error(t, err)
}
