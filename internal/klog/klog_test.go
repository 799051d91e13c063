package klog

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetGetLevel(t *testing.T) {
	l := New(LevelWarn)
	require.Equal(t, LevelWarn, l.GetLevel())

	got := l.SetLevel(LevelDebug)
	require.Equal(t, LevelDebug, got)
	require.Equal(t, LevelDebug, l.GetLevel())
}

func TestPanicAlwaysPanics(t *testing.T) {
	l := New(LevelNone)
	require.PanicsWithValue(t, "kernel invariant violated: 42", func() {
		l.Panic("kernel invariant violated: %d", 42)
	})
}
