// Package tty provides the fixed set of virtual TTYs a process's IO
// streams are attached to: a pair of byte ring buffers (input, output)
// per TTY, with one TTY marked active for keyboard delivery. Grounded on
// tty.h/tty.c (trimmed to the input/output ring-buffer pair and active-TTY
// selection; screen/scrollback rendering is not in scope).
package tty

import "github.com/kongvang2/gmkOS/internal/ringbuf"

// TTY holds one virtual terminal's input and output streams.
type TTY struct {
	ID     int
	Input  *ringbuf.Buf
	Output *ringbuf.Buf
}

// Manager owns the fixed TTY table and tracks which TTY is active.
type Manager struct {
	ttys   []*TTY
	active int
}

// New builds a manager with count TTYs, each with an input/output buffer
// of the given capacity, and TTY 0 selected as active (tty_init's default).
func New(count, bufCapacity int) *Manager {
	m := &Manager{ttys: make([]*TTY, count)}
	for i := range m.ttys {
		m.ttys[i] = &TTY{
			ID:     i,
			Input:  ringbuf.New(bufCapacity),
			Output: ringbuf.New(bufCapacity),
		}
	}
	return m
}

// Get returns the TTY with the given number, or nil if out of range.
func (m *Manager) Get(number int) *TTY {
	if number < 0 || number >= len(m.ttys) {
		return nil
	}
	return m.ttys[number]
}

// Select changes the active TTY, the one the keyboard delivers decoded
// bytes to.
func (m *Manager) Select(number int) {
	if number < 0 || number >= len(m.ttys) {
		return
	}
	m.active = number
}

// Active returns the currently active TTY.
func (m *Manager) Active() *TTY { return m.ttys[m.active] }

// ActiveNumber returns the currently active TTY's number.
func (m *Manager) ActiveNumber() int { return m.active }

// Count returns the number of TTYs the manager holds.
func (m *Manager) Count() int { return len(m.ttys) }
