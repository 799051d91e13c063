// Package timer implements the registrable timer-callback table every
// periodic kernel activity (scheduler tick accounting, TTY refresh) is
// driven through, grounded on original_source/src/timer.c's
// timer_callback_register/timer_irq_handler pair and its
// queue-allocated `timer_t timers[TIMERS_MAX]` table.
package timer

import (
	"fmt"

	"github.com/kongvang2/gmkOS/internal/queue"
)

// Func is a registered timer callback, standing in for the original's bare
// `void (*callback)()` function pointer.
type Func func()

type entry struct {
	allocated bool
	fn        Func
	interval  int
	repeat    int
}

// Table is the fixed-size, queue-allocated table of timer callbacks.
// Callers serialize access externally, the same way every other kernel
// table is mutated only from inside the single kernel entry path.
type Table struct {
	entries []entry
	free    *queue.Queue
	ticks   int
}

// New builds a timer table with room for max registered callbacks.
func New(max int) *Table {
	t := &Table{
		entries: make([]entry, max),
		free:    queue.New(max),
	}
	for i := 0; i < max; i++ {
		if err := t.free.In(i); err != nil {
			panic(fmt.Sprintf("timer: failed to seed timer allocator: %v", err))
		}
	}
	return t
}

// Register allocates a timer callback that fires every interval ticks.
// repeat follows timer_t's contract: -1 repeats forever, 0 fires once and
// then unregisters itself, and a positive count decrements once per firing
// until it reaches zero and unregisters.
func (t *Table) Register(fn Func, interval, repeat int) (int, error) {
	if fn == nil {
		return -1, fmt.Errorf("timer: callback function is required")
	}
	if interval <= 0 {
		return -1, fmt.Errorf("timer: interval must be positive")
	}

	id, err := t.free.Out()
	if err != nil {
		return -1, fmt.Errorf("timer: no free timer callbacks: %w", err)
	}

	t.entries[id] = entry{allocated: true, fn: fn, interval: interval, repeat: repeat}
	return id, nil
}

// Unregister frees a timer callback id before it would naturally expire.
func (t *Table) Unregister(id int) error {
	if !t.valid(id) {
		return fmt.Errorf("timer: invalid timer id %d", id)
	}
	t.release(id)
	return nil
}

func (t *Table) valid(id int) bool {
	return id >= 0 && id < len(t.entries) && t.entries[id].allocated
}

func (t *Table) release(id int) {
	t.entries[id] = entry{}
	if err := t.free.In(id); err != nil {
		panic(fmt.Sprintf("timer: failed to return timer %d to the free list: %v", id, err))
	}
}

// Tick advances the tick count and fires every registered callback whose
// interval divides evenly into it, the same modulo test
// timer_irq_handler runs against timer_ticks. A callback's repeat count is
// only consulted on a tick where it actually fires: spec.md's contract is
// "decrement on each fire", not on each tick, unlike the literal source
// (which decrements every callback's repeat count on every tick regardless
// of whether its interval was hit) — see DESIGN.md.
func (t *Table) Tick() {
	t.ticks++

	for id := range t.entries {
		e := &t.entries[id]
		if !e.allocated || t.ticks%e.interval != 0 {
			continue
		}

		e.fn()

		switch {
		case e.repeat > 0:
			e.repeat--
		case e.repeat == 0:
			t.release(id)
		}
	}
}

// Ticks returns the number of ticks delivered since the table was built.
func (t *Table) Ticks() int { return t.ticks }
