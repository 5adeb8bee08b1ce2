package ui

import "sync"

// RenderLock serializes compound paints so that two goroutines never
// interleave cursor-positioning sequences on the same terminal.
//
// It guards nothing but the terminal itself and is never acquired
// recursively. Bars and coordinators sharing a terminal must share a lock.
type RenderLock struct {
	mu sync.Mutex
}

// NewRenderLock creates an independent lock, e.g. for one virtual terminal in a test.
func NewRenderLock() *RenderLock {
	return &RenderLock{}
}

// defaultRenderLock is created at package init and lives for the process.
var defaultRenderLock = NewRenderLock()

// DefaultRenderLock returns the process-wide lock used for Stdout().
func DefaultRenderLock() *RenderLock {
	return defaultRenderLock
}

// Lock acquires the lock.
func (l *RenderLock) Lock() {
	l.mu.Lock()
}

// Unlock releases the lock.
func (l *RenderLock) Unlock() {
	l.mu.Unlock()
}
