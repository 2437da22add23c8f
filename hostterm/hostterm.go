// Package hostterm is the optional background keystroke poller the
// scheduler's KeyboardBuffer input feeds from: raw-mode terminal setup
// and a best-effort non-blocking read, kept entirely outside the
// emulator core (§1 names the host-terminal driver an out-of-scope
// collaborator).
//
// Grounded on the teacher's terminal_host.go raw-mode-toggle role for
// its pixel terminal - that file drove ANSI glyph rendering directly
// and was pruned along with the rest of the pixel-video stack
// (DESIGN.md's pruning pass), but its "put the host fd in raw mode,
// restore it on exit" shape is exactly what a DOS console needs here
// too, now grounded on the teacher's own direct dependency,
// golang.org/x/term, instead of the teacher's own hand-rolled syscalls.
package hostterm

import (
	"os"

	"golang.org/x/term"
)

// Console owns one raw-mode terminal session on stdin/stdout.
type Console struct {
	fd       int
	oldState *term.State
}

// Open puts the process's stdin into raw mode (no line buffering, no
// local echo) so the emulator can deliver one keystroke at a time to
// the guest's keyboard ring, per §4.7/§9's "global keyboard thread"
// note. Returns a Console whose Restore must be called on shutdown.
func Open() (*Console, error) {
	fd := int(os.Stdin.Fd())
	old, err := term.MakeRaw(fd)
	if err != nil {
		return nil, err
	}
	return &Console{fd: fd, oldState: old}, nil
}

// Restore returns the terminal to whatever mode it was in before Open.
func (c *Console) Restore() error {
	if c == nil || c.oldState == nil {
		return nil
	}
	return term.Restore(c.fd, c.oldState)
}

// Size reports the current terminal's columns and rows. The -rows CLI
// flag's default does not depend on it.
func (c *Console) Size() (cols, rows int, err error) {
	return term.GetSize(c.fd)
}

// ReadByte performs a single non-blocking-ish read of one byte from
// stdin; it is used from a dedicated goroutine the scheduler polls via
// a channel, never called directly from the CPU loop.
func (c *Console) ReadByte() (byte, error) {
	var buf [1]byte
	n, err := os.Stdin.Read(buf[:])
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, nil
	}
	return buf[0], nil
}

// Poller runs ReadByte in a background goroutine and republishes every
// byte read on a channel, letting the scheduler's InputFn drain it
// without ever blocking the CPU loop on terminal I/O.
type Poller struct {
	console *Console
	bytesCh chan byte
}

// NewPoller starts the background read loop. Call Stop to end it (the
// underlying goroutine exits once the next blocking read returns after
// the terminal is closed/restored).
func NewPoller(c *Console) *Poller {
	p := &Poller{console: c, bytesCh: make(chan byte, 256)}
	go p.run()
	return p
}

func (p *Poller) run() {
	for {
		b, err := p.console.ReadByte()
		if err != nil {
			close(p.bytesCh)
			return
		}
		select {
		case p.bytesCh <- b:
		default:
			// Ring is momentarily full; drop, matching the guest
			// keyboard buffer's own "drop when full" rule (§4.7).
		}
	}
}

// Next returns the next pending keystroke's ASCII byte, translated to a
// scancode by asciiToScancode, and whether one was available.
func (p *Poller) Next() (scancode, ascii byte, ok bool) {
	select {
	case b, open := <-p.bytesCh:
		if !open {
			return 0, 0, false
		}
		return asciiToScancode(b), b, true
	default:
		return 0, 0, false
	}
}

// asciiToScancode gives plain ASCII keys a plausible Set-1 scancode;
// real make-codes for non-character keys (arrows, function keys) would
// need the terminal's escape-sequence parser, out of scope for this
// thin a poller.
func asciiToScancode(ascii byte) byte {
	switch {
	case ascii >= 'a' && ascii <= 'z':
		return 0x10 + (ascii - 'a')
	case ascii == 0x1B:
		return 0x01 // Esc
	case ascii == 0x0D:
		return 0x1C // Enter
	case ascii == 0x08:
		return 0x0E // Backspace
	case ascii == 0x09:
		return 0x0F // Tab
	default:
		return 0x00
	}
}
