package trap

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDispatchRunsRegisteredHandler(t *testing.T) {
	ran := false
	table := NewHandlerTable(func(format string, args ...any) {
		t.Fatalf("unexpected panic: %s", fmt.Sprintf(format, args...))
	})
	table.Register(IRQTimer, func() { ran = true })

	table.Dispatch(IRQTimer)
	require.True(t, ran)
}

func TestDispatchPanicsOnMissingHandler(t *testing.T) {
	var captured string
	table := NewHandlerTable(func(format string, args ...any) {
		captured = fmt.Sprintf(format, args...)
		panic(captured)
	})

	require.Panics(t, func() { table.Dispatch(0x21) })
	require.Contains(t, captured, "0x21")
}

func TestIsPICRange(t *testing.T) {
	require.True(t, IsPIC(IRQTimer))
	require.True(t, IsPIC(IRQKeyboard))
	require.False(t, IsPIC(IRQSyscall))
}
