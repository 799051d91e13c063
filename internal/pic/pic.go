// Package pic simulates the dual-8259 programmable interrupt controller
// the kernel entry point talks to: masking/unmasking individual IRQ lines
// and dismissing (EOI'ing) one after its handler returns. There is no real
// hardware to program once hosted, so this is bookkeeping only, grounded
// on interrupts.c's irq_enable/irq_disable/pic_ack trio.
package pic

// Controller tracks, per IRQ line, whether it is currently masked
// (disabled) and how many times it has been dismissed.
type Controller struct {
	enabled   map[int]bool
	dismissed map[int]int
}

// New builds a controller with every IRQ line initially disabled, the same
// state the hardware resets into before interrupts_init unmasks the ones
// the kernel cares about.
func New() *Controller {
	return &Controller{
		enabled:   make(map[int]bool),
		dismissed: make(map[int]int),
	}
}

// Enable unmasks the given IRQ line.
func (c *Controller) Enable(irq int) { c.enabled[irq] = true }

// Disable masks the given IRQ line.
func (c *Controller) Disable(irq int) { c.enabled[irq] = false }

// Enabled reports whether the given IRQ line is currently unmasked.
func (c *Controller) Enabled(irq int) bool { return c.enabled[irq] }

// Dismiss acknowledges (EOIs) the given IRQ, letting the controller
// deliver further interrupts on that line.
func (c *Controller) Dismiss(irq int) { c.dismissed[irq]++ }

// DismissedCount returns how many times the given IRQ has been dismissed,
// for diagnostics and tests.
func (c *Controller) DismissedCount(irq int) int { return c.dismissed[irq] }
