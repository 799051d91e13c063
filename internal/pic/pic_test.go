package pic

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStartsWithEverythingDisabled(t *testing.T) {
	c := New()
	require.False(t, c.Enabled(0x20))
}

func TestEnableDisable(t *testing.T) {
	c := New()
	c.Enable(0x20)
	require.True(t, c.Enabled(0x20))
	c.Disable(0x20)
	require.False(t, c.Enabled(0x20))
}

func TestDismissCountsPerIRQ(t *testing.T) {
	c := New()
	c.Dismiss(0x20)
	c.Dismiss(0x20)
	c.Dismiss(0x21)
	require.Equal(t, 2, c.DismissedCount(0x20))
	require.Equal(t, 1, c.DismissedCount(0x21))
}
