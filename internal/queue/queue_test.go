package queue

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInOutFIFO(t *testing.T) {
	q := New(4)
	require.NoError(t, q.In(10))
	require.NoError(t, q.In(20))
	require.NoError(t, q.In(30))

	v, err := q.Out()
	require.NoError(t, err)
	require.Equal(t, 10, v)

	v, err = q.Out()
	require.NoError(t, err)
	require.Equal(t, 20, v)

	require.Equal(t, 1, q.Len())
}

func TestFullReturnsError(t *testing.T) {
	q := New(2)
	require.NoError(t, q.In(1))
	require.NoError(t, q.In(2))
	require.ErrorIs(t, q.In(3), ErrFull)
	require.True(t, q.IsFull())
}

func TestEmptyReturnsError(t *testing.T) {
	q := New(2)
	_, err := q.Out()
	require.ErrorIs(t, err, ErrEmpty)
	require.True(t, q.IsEmpty())
}

func TestWrapsAroundCapacity(t *testing.T) {
	q := New(3)
	require.NoError(t, q.In(1))
	require.NoError(t, q.In(2))
	v, _ := q.Out()
	require.Equal(t, 1, v)
	require.NoError(t, q.In(3))
	require.NoError(t, q.In(4))

	var got []int
	for q.Len() > 0 {
		v, err := q.Out()
		require.NoError(t, err)
		got = append(got, v)
	}
	require.Equal(t, []int{2, 3, 4}, got)
}

func TestRemoveMaintainsOrder(t *testing.T) {
	q := New(4)
	q.In(1)
	q.In(2)
	q.In(3)

	require.True(t, q.Remove(2))
	require.False(t, q.Remove(2))

	var got []int
	for q.Len() > 0 {
		v, _ := q.Out()
		got = append(got, v)
	}
	require.Equal(t, []int{1, 3}, got)
}

func TestResetClears(t *testing.T) {
	q := New(2)
	q.In(1)
	q.Reset()
	require.True(t, q.IsEmpty())
	require.Equal(t, 0, q.Len())
}
