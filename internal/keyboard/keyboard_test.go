package keyboard

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kongvang2/gmkOS/internal/tty"
)

func TestInjectWritesDecodedByteToActiveTTY(t *testing.T) {
	ttys := tty.New(2, 16)
	d := New(ttys)

	d.Inject(0x1E) // 'a'

	b, err := ttys.Active().Input.Read()
	require.NoError(t, err)
	require.Equal(t, byte('a'), b)
}

func TestInjectIgnoresBreakCodes(t *testing.T) {
	ttys := tty.New(2, 16)
	d := New(ttys)

	d.Inject(0x1E | 0x80)

	require.True(t, ttys.Active().Input.IsEmpty())
}

func TestInjectIgnoresUnmappedScanCodes(t *testing.T) {
	ttys := tty.New(2, 16)
	d := New(ttys)

	d.Inject(0x01) // Esc: a make code with no table entry

	require.True(t, ttys.Active().Input.IsEmpty())
}

func TestInjectTargetsWhicheverTTYIsActive(t *testing.T) {
	ttys := tty.New(2, 16)
	ttys.Select(1)
	d := New(ttys)

	d.Inject(0x1E)

	require.True(t, ttys.Get(0).Input.IsEmpty())
	b, err := ttys.Get(1).Input.Read()
	require.NoError(t, err)
	require.Equal(t, byte('a'), b)
}
