package ui

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rileyhilliard/dupefindr/internal/logger"
	"golang.org/x/term"
)

// Terminal is the output device the progress display paints to.
//
// The terminal is treated as write-only: its cursor position is never read
// back. Instead the row the cursor was last parked on is tracked here, so a
// new coordinator can start where the previous one left off.
type Terminal struct {
	out         io.Writer
	errOut      io.Writer
	interactive bool
	size        func() (width, height int)
	log         logger.Logger

	mu        sync.Mutex
	cursorRow int
}

// TerminalOption configures a Terminal built with NewTerminal.
type TerminalOption func(*Terminal)

// WithInteractive marks the terminal as interactive (cursor control allowed).
func WithInteractive(interactive bool) TerminalOption {
	return func(t *Terminal) {
		t.interactive = interactive
	}
}

// WithSize fixes the terminal dimensions. A height of 0 means unbounded.
func WithSize(width, height int) TerminalOption {
	return func(t *Terminal) {
		t.size = func() (int, int) { return width, height }
	}
}

// WithCursorRow sets the row (0-based) the cursor starts on.
func WithCursorRow(row int) TerminalOption {
	return func(t *Terminal) {
		t.cursorRow = row
	}
}

// WithTerminalLogger sets the logger used for swallowed write errors.
func WithTerminalLogger(l logger.Logger) TerminalOption {
	return func(t *Terminal) {
		t.log = l
	}
}

// NewTerminal creates a virtual terminal writing to out and errOut.
// It is non-interactive unless WithInteractive(true) is given.
func NewTerminal(out, errOut io.Writer, opts ...TerminalOption) *Terminal {
	t := &Terminal{
		out:    out,
		errOut: errOut,
		size:   func() (int, int) { return 0, 0 },
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.errOut == nil {
		t.errOut = t.out
	}
	return t
}

var (
	stdoutOnce sync.Once
	stdoutTerm *Terminal
)

// Stdout returns the terminal attached to os.Stdout and os.Stderr.
// The capability probe runs once per process.
//
// Without a cursor query the starting row is unknown, so the cursor is
// assumed to sit on the bottom row, which is where a scrolling CLI's cursor
// usually is. Starting low is always safe: the coordinator scrolls the
// viewport when its block needs more room.
func Stdout() *Terminal {
	stdoutOnce.Do(func() {
		fd := int(os.Stdout.Fd())
		t := &Terminal{
			out:         os.Stdout,
			errOut:      os.Stderr,
			interactive: IsInteractive(os.Stdout),
			size: func() (int, int) {
				w, h, err := term.GetSize(fd)
				if err != nil {
					return 0, 0
				}
				return w, h
			},
		}
		if t.interactive {
			if _, h := t.size(); h > 0 {
				t.cursorRow = h - 1
			}
		}
		stdoutTerm = t
	})
	return stdoutTerm
}

// IsInteractive reports whether f is attached to an interactive terminal.
// Anything that cannot be determined counts as not a terminal.
func IsInteractive(f *os.File) bool {
	if f == nil {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// IsInteractive reports whether cursor control sequences may be written.
func (t *Terminal) IsInteractive() bool {
	return t.interactive
}

// Size returns the current width and height. Zero means unknown.
func (t *Terminal) Size() (width, height int) {
	w, h := t.size()
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return w, h
}

// CursorRow returns the row the cursor was last parked on.
func (t *Terminal) CursorRow() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cursorRow
}

func (t *Terminal) setCursorRow(row int) {
	if row < 0 {
		row = 0
	}
	t.mu.Lock()
	t.cursorRow = row
	t.mu.Unlock()
}

// Resync forgets the tracked cursor row after output that bypassed this
// Terminal, such as an interactive prompt, and assumes the bottom row again.
func (t *Terminal) Resync() {
	if !t.interactive {
		return
	}
	if _, h := t.Size(); h > 0 {
		t.setCursorRow(h - 1)
	}
}

// Print writes s as plain output outside of any progress display and keeps
// the tracked cursor row in step with the newlines it contains.
func (t *Terminal) Print(s string) {
	if !t.interactive {
		t.write(s)
		return
	}
	_, h := t.Size()
	if h > 0 && t.CursorRow() >= h {
		// Parked past the bottom row, so the cursor really sits at the
		// start of the last printed line. Open a fresh one first.
		s = "\n" + s
	}
	t.write(s)
	n := strings.Count(s, "\n")
	if n == 0 {
		return
	}
	row := t.CursorRow() + n
	if h > 0 && row > h-1 {
		row = h - 1
	}
	t.setCursorRow(row)
}

// flush writes a compound paint in one call and records where it parked
// the cursor. Callers hold the render lock.
func (t *Terminal) flush(p *paint) {
	if p.Len() == 0 {
		return
	}
	t.write(p.String())
	if p.parked >= 0 {
		t.setCursorRow(p.parked)
	}
}

// write is best effort: a lost repaint must never abort the work it reports on.
func (t *Terminal) write(s string) {
	if _, err := io.WriteString(t.out, s); err != nil {
		t.logger().Debug("terminal write failed: %v", err)
	}
}

func (t *Terminal) writeErr(s string) {
	if _, err := io.WriteString(t.errOut, s); err != nil {
		t.logger().Debug("terminal write failed: %v", err)
	}
}

func (t *Terminal) logger() logger.Logger {
	if t.log != nil {
		return t.log
	}
	return logger.Default()
}
