// Package keyboard decodes raw scan codes into bytes and pushes them into
// the active TTY's input ring buffer, standing in for the keyboard IRQ
// handler. Grounded on keyboard.c, trimmed to the decode-and-push path: no
// modifier-key state machine, since only line input through a TTY is in
// scope here.
package keyboard

import "github.com/kongvang2/gmkOS/internal/tty"

// US QWERTY scan-code-to-ASCII table for key-down codes (the make codes;
// break codes, scan code | 0x80, are ignored). Unmapped entries decode to
// 0 and are dropped rather than injected.
var scanTable = map[byte]byte{
	0x1E: 'a', 0x30: 'b', 0x2E: 'c', 0x20: 'd', 0x12: 'e',
	0x21: 'f', 0x22: 'g', 0x23: 'h', 0x17: 'i', 0x24: 'j',
	0x25: 'k', 0x26: 'l', 0x32: 'm', 0x31: 'n', 0x18: 'o',
	0x19: 'p', 0x10: 'q', 0x13: 'r', 0x1F: 's', 0x14: 't',
	0x16: 'u', 0x2F: 'v', 0x11: 'w', 0x2D: 'x', 0x15: 'y',
	0x2C: 'z',
	0x02: '1', 0x03: '2', 0x04: '3', 0x05: '4', 0x06: '5',
	0x07: '6', 0x08: '7', 0x09: '8', 0x0A: '9', 0x0B: '0',
	0x39: ' ', 0x1C: '\n', 0x0E: '\b',
}

// Decoder holds the state needed to turn scan codes into TTY input.
type Decoder struct {
	ttys *tty.Manager
}

// New builds a decoder that injects decoded bytes into the active TTY of
// the given manager.
func New(ttys *tty.Manager) *Decoder {
	return &Decoder{ttys: ttys}
}

// Inject decodes one scan code and, if it maps to a printable byte, writes
// it into the active TTY's input buffer. Break codes (bit 7 set) and
// unmapped scan codes are silently ignored, matching the original's
// "only act on key-down" behavior for the subset of keys gmkOS models.
func (d *Decoder) Inject(scancode byte) {
	if scancode&0x80 != 0 {
		return
	}

	c, ok := scanTable[scancode]
	if !ok {
		return
	}

	active := d.ttys.Active()
	if active == nil {
		return
	}

	// A full input buffer silently drops the keystroke rather than
	// blocking the IRQ handler.
	_ = active.Input.Write(c)
}
