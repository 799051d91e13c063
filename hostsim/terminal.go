package hostsim

import (
	"fmt"
	"io"
	"time"

	"golang.org/x/term"

	"github.com/kongvang2/gmkOS/internal/kernel"
)

// scanOf is the reverse of internal/keyboard's scan-code table: it maps a
// byte a host terminal delivers back to the scan code the keyboard IRQ
// handler expects, since there is no physical keyboard controller to
// generate one once hosted.
var scanOf = map[byte]byte{
	'a': 0x1E, 'b': 0x30, 'c': 0x2E, 'd': 0x20, 'e': 0x12,
	'f': 0x21, 'g': 0x22, 'h': 0x23, 'i': 0x17, 'j': 0x24,
	'k': 0x25, 'l': 0x26, 'm': 0x32, 'n': 0x31, 'o': 0x18,
	'p': 0x19, 'q': 0x10, 'r': 0x13, 's': 0x1F, 't': 0x14,
	'u': 0x16, 'v': 0x2F, 'w': 0x11, 'x': 0x2D, 'y': 0x15,
	'z': 0x2C,
	'1': 0x02, '2': 0x03, '3': 0x04, '4': 0x05, '5': 0x06,
	'6': 0x07, '7': 0x08, '8': 0x09, '9': 0x0A, '0': 0x0B,
	' ': 0x39, '\r': 0x1C, '\n': 0x1C, 0x7F: 0x0E,
}

// Terminal bridges a real host terminal (raw mode, via golang.org/x/term)
// to one of the kernel's TTYs: keystrokes are translated to scan codes
// and injected through the keyboard IRQ path, which delivers them to the
// active TTY, and the TTY's output stream is polled and written back to
// the host.
type Terminal struct {
	k         *kernel.Kernel
	ttyNumber int
	in        io.Reader
	out       io.Writer
	fd        int
	raw       *term.State
}

// NewTerminal binds a host terminal (identified by its file descriptor,
// e.g. int(os.Stdin.Fd())) to the given TTY number.
func NewTerminal(k *kernel.Kernel, ttyNumber int, fd int, in io.Reader, out io.Writer) *Terminal {
	return &Terminal{k: k, ttyNumber: ttyNumber, fd: fd, in: in, out: out}
}

// Start puts the host terminal into raw mode, makes its TTY the active
// one so keystrokes reach it, and begins pumping input and output. Call
// Stop to restore the terminal.
func (t *Terminal) Start(stop <-chan struct{}) error {
	if term.IsTerminal(t.fd) {
		state, err := term.MakeRaw(t.fd)
		if err != nil {
			return fmt.Errorf("hostsim: failed to put terminal in raw mode: %w", err)
		}
		t.raw = state
	}

	t.k.TTYs().Select(t.ttyNumber)

	go t.pumpInput(stop)
	go t.pumpOutput(stop)
	return nil
}

// Stop restores the host terminal to its original mode.
func (t *Terminal) Stop() {
	if t.raw != nil {
		term.Restore(t.fd, t.raw)
	}
}

func (t *Terminal) pumpInput(stop <-chan struct{}) {
	buf := make([]byte, 1)
	for {
		select {
		case <-stop:
			return
		default:
		}

		n, err := t.in.Read(buf)
		if err != nil || n == 0 {
			return
		}
		if code, ok := scanOf[buf[0]]; ok {
			t.k.InjectKeyboard(code)
		}
	}
}

func (t *Terminal) pumpOutput(stop <-chan struct{}) {
	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if data := t.k.DrainTTYOutput(t.ttyNumber); len(data) > 0 {
				t.out.Write(data)
			}
		}
	}
}
