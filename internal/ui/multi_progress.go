package ui

import (
	"slices"
	"sync"

	"github.com/rileyhilliard/dupefindr/internal/logger"
)

// MultiProgress stacks several ProgressBars into one block of terminal rows
// and interleaves plain log lines above it.
//
// Rows are tracked purely in the coordinator's own state: the block starts at
// anchorRow and element i (counting visible elements only) sits on
// anchorRow+i. Before any row-relative paint the block is made to fit the
// viewport; when it would run past the last row the viewport is scrolled by
// exactly the overflow and anchorRow is moved up by the same amount.
//
// Lock order is coordinator, then render lock, then bar. Spinners are only
// stopped with neither of the first two held.
type MultiProgress struct {
	term *Terminal
	lock *RenderLock
	log  logger.Logger

	mu        sync.Mutex
	elements  []*ProgressBar
	anchorRow int
}

// NewMultiProgress creates an empty coordinator anchored at the terminal's
// current cursor row.
func NewMultiProgress(opts ...Option) *MultiProgress {
	s := newSettings(opts)
	m := &MultiProgress{
		term: s.term,
		lock: s.lock,
		log:  s.log,
	}
	if s.term.IsInteractive() {
		m.anchorRow = s.term.CursorRow()
	}
	return m
}

// Add appends bar to the bottom of the block and repaints. The returned
// handle is bar itself; adding a member twice is a no-op.
func (m *MultiProgress) Add(bar *ProgressBar) *ProgressBar {
	if bar == nil {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.indexLocked(bar) >= 0 {
		return bar
	}
	bar.bind(m)
	m.elements = append(m.elements, bar)

	if !m.term.IsInteractive() {
		m.relayoutLocked()
		return bar
	}

	m.lock.Lock()
	defer m.lock.Unlock()

	p := newPaint()
	p.beginSync()
	m.fitLocked(p, 0)
	m.relayoutLocked()
	if row := bar.Row(); bar.style != StyleHidden && m.onScreen(row) {
		p.moveTo(row)
		p.clearDown()
	}
	m.paintAllLocked(p)
	p.park(m.anchorRow)
	p.endSync()
	m.term.flush(p)
	return bar
}

// Remove takes bar out of the block, stops its animation, erases the block
// and repaints the remaining elements in their new rows. Removing a bar
// that is not a member is a no-op.
func (m *MultiProgress) Remove(bar *ProgressBar) {
	if bar == nil || !m.Contains(bar) {
		return
	}

	// Stop outside the locks: the animation goroutine may be waiting on them.
	bar.StopSpinner()

	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexLocked(bar)
	if i < 0 {
		return
	}
	m.elements = slices.Delete(m.elements, i, i+1)
	bar.detach()
	m.relayoutLocked()

	if !m.term.IsInteractive() {
		return
	}

	m.lock.Lock()
	defer m.lock.Unlock()

	p := newPaint()
	p.beginSync()
	p.moveTo(m.anchorRow)
	p.clearDown()
	m.paintAllLocked(p)
	p.park(m.anchorRow)
	p.endSync()
	m.term.flush(p)
}

// Contains reports whether bar is currently tracked.
func (m *MultiProgress) Contains(bar *ProgressBar) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.indexLocked(bar) >= 0
}

// Increment increments a member bar. Non-members are ignored, so a remove
// racing an in-flight update is harmless.
func (m *MultiProgress) Increment(bar *ProgressBar, delta int64) {
	if m.Contains(bar) {
		bar.Increment(delta)
	}
}

// SetPosition sets a member bar's position. Non-members are ignored.
func (m *MultiProgress) SetPosition(bar *ProgressBar, v int64) {
	if m.Contains(bar) {
		bar.SetPosition(v)
	}
}

// SetMessage sets a member bar's status text. Non-members are ignored.
func (m *MultiProgress) SetMessage(bar *ProgressBar, msg string) {
	if m.Contains(bar) {
		bar.SetMessage(msg)
	}
}

// DrawAll repaints every element in row order as one frame.
func (m *MultiProgress) DrawAll() {
	if !m.term.IsInteractive() {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.lock.Lock()
	defer m.lock.Unlock()

	p := newPaint()
	p.beginSync()
	m.fitLocked(p, 0)
	m.relayoutLocked()
	m.paintAllLocked(p)
	p.park(m.anchorRow)
	p.endSync()
	m.term.flush(p)
}

// FinishAll stops every animation and leaves the cursor below the block so
// ordinary output that follows does not overwrite it.
func (m *MultiProgress) FinishAll() {
	m.mu.Lock()
	elems := slices.Clone(m.elements)
	m.mu.Unlock()

	for _, e := range elems {
		e.Finish()
	}

	if !m.term.IsInteractive() {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.lock.Lock()
	defer m.lock.Unlock()

	p := newPaint()
	p.beginSync()
	m.fitLocked(p, 0)
	m.relayoutLocked()
	m.paintAllLocked(p)
	below := m.anchorRow + m.visibleLocked()
	if !m.onScreen(below) {
		// The block ends on the bottom row: a newline scrolls it up by one.
		_, h := m.term.Size()
		p.moveTo(h - 1)
		p.WriteString("\r\n")
		if m.anchorRow > 0 {
			m.anchorRow--
			m.relayoutLocked()
		}
		below = h - 1
	}
	p.park(below)
	p.endSync()
	m.term.flush(p)
}

// Println prints a line above the block. The block moves down one row, or
// the viewport scrolls when the block already touches the bottom.
func (m *MultiProgress) Println(msg string) {
	m.println(msg, false)
}

// Eprintln is Println for error text: red on a terminal, stderr otherwise.
func (m *MultiProgress) Eprintln(msg string) {
	m.println(msg, true)
}

func (m *MultiProgress) println(msg string, isErr bool) {
	if !m.term.IsInteractive() {
		printPlain(m.term, msg, isErr)
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, e := range m.elements {
		e.hold()
	}
	defer func() {
		for _, e := range m.elements {
			e.release()
		}
	}()

	m.lock.Lock()
	defer m.lock.Unlock()

	width, h := m.term.Size()
	lines := wrapLines(msg, width)

	p := newPaint()
	p.beginSync()
	m.fitLocked(p, len(lines))
	p.moveTo(m.anchorRow)
	p.clearDown()
	for _, l := range lines {
		m.anchorRow = p.fit(m.anchorRow, h)
		p.line(m.anchorRow, styleLogLine(l, isErr))
		m.anchorRow++
	}
	// Only a message taller than the viewport leaves the block short of room here.
	m.fitLocked(p, 0)
	m.relayoutLocked()
	m.paintAllLocked(p)
	p.park(m.anchorRow)
	p.endSync()
	m.term.flush(p)
}

// Len returns the number of tracked elements.
func (m *MultiProgress) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.elements)
}

// AnchorRow returns the topmost row of the block.
func (m *MultiProgress) AnchorRow() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.anchorRow
}

// drawElement repaints a single member on its row. It is the paint path
// for every update a bar receives while it belongs to the coordinator.
func (m *MultiProgress) drawElement(bar *ProgressBar) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.indexLocked(bar) < 0 || !m.term.IsInteractive() {
		return
	}

	m.lock.Lock()
	defer m.lock.Unlock()

	p := newPaint()
	bar.paintLine(p, bar.Row(), m.term)
	p.park(m.anchorRow)
	m.term.flush(p)
}

// onScreen reports whether row is inside the viewport.
func (m *MultiProgress) onScreen(row int) bool {
	_, h := m.term.Size()
	return h <= 0 || row < h
}

func (m *MultiProgress) indexLocked(bar *ProgressBar) int {
	return slices.Index(m.elements, bar)
}

// visibleLocked counts the elements that occupy a row.
func (m *MultiProgress) visibleLocked() int {
	n := 0
	for _, e := range m.elements {
		if e.style != StyleHidden {
			n++
		}
	}
	return n
}

// fitLocked scrolls the viewport so that extra log rows plus the block fit
// below anchorRow. The anchor never moves above row 0; a block taller than
// the viewport is cut off at the bottom instead.
func (m *MultiProgress) fitLocked(p *paint, extra int) {
	_, h := m.term.Size()
	if h <= 0 {
		return
	}
	overflow := m.anchorRow + extra + m.visibleLocked() - h
	if overflow > m.anchorRow {
		overflow = m.anchorRow
	}
	if overflow <= 0 {
		return
	}
	p.scrollUp(overflow, h)
	m.anchorRow -= overflow
	m.log.Debug("progress block scrolled by %d, anchor now %d", overflow, m.anchorRow)
}

// relayoutLocked assigns rows from the anchor down. Hidden elements share
// the row of the next visible element and never paint.
func (m *MultiProgress) relayoutLocked() {
	row := m.anchorRow
	for _, e := range m.elements {
		e.setRow(row)
		if e.style != StyleHidden {
			row++
		}
	}
}

func (m *MultiProgress) paintAllLocked(p *paint) {
	for _, e := range m.elements {
		if e.style == StyleHidden {
			continue
		}
		e.paintLine(p, e.Row(), m.term)
	}
}
