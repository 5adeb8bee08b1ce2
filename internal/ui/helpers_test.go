package ui

import (
	"bytes"
	"sync"
)

// syncBuffer is a bytes.Buffer safe for concurrent writers.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func (b *syncBuffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf.Reset()
}

// virtualTerm builds an interactive terminal of the given size with the
// cursor on row, plus a private render lock.
func virtualTerm(width, height, row int) (*Terminal, *RenderLock, *syncBuffer) {
	out := &syncBuffer{}
	t := NewTerminal(out, out,
		WithInteractive(true),
		WithSize(width, height),
		WithCursorRow(row),
	)
	return t, NewRenderLock(), out
}

// plainTerm builds a non-interactive terminal with separate streams.
func plainTerm() (*Terminal, *RenderLock, *syncBuffer, *syncBuffer) {
	out, errOut := &syncBuffer{}, &syncBuffer{}
	return NewTerminal(out, errOut), NewRenderLock(), out, errOut
}
