package ui

import (
	"fmt"
	"strings"

	"github.com/muesli/termenv"
)

// Synchronized update mode (DEC private mode 2026). Terminals that support it
// hold the frame until the end marker, everything else ignores it.
const (
	beginSyncUpdate = termenv.CSI + "?2026h"
	endSyncUpdate   = termenv.CSI + "?2026l"
)

// paint accumulates one compound paint so it reaches the terminal in a
// single write. Rows are 0-based.
type paint struct {
	strings.Builder
	parked int
}

func newPaint() *paint {
	return &paint{parked: -1}
}

func (p *paint) beginSync() {
	p.WriteString(beginSyncUpdate)
}

func (p *paint) endSync() {
	p.WriteString(endSyncUpdate)
}

func (p *paint) moveTo(row int) {
	p.WriteString(termenv.CSI + fmt.Sprintf(termenv.CursorPositionSeq, row+1, 1))
}

func (p *paint) clearLine() {
	p.WriteString(termenv.CSI + termenv.EraseEntireLineSeq)
}

func (p *paint) clearDown() {
	p.WriteString(termenv.CSI + fmt.Sprintf(termenv.EraseDisplaySeq, 0))
}

// scrollUp scrolls the viewport by n lines by emitting newlines on the
// bottom row, which keeps the scrolled-off lines in the scrollback.
func (p *paint) scrollUp(n, height int) {
	if n <= 0 {
		return
	}
	p.moveTo(height - 1)
	p.WriteString(strings.Repeat("\n", n))
}

// fit scrolls the viewport when row is past the last line and returns the
// row to paint on instead.
func (p *paint) fit(row, height int) int {
	if height > 0 && row >= height {
		p.scrollUp(row-height+1, height)
		return height - 1
	}
	return row
}

// line clears row and writes s on it.
func (p *paint) line(row int, s string) {
	p.moveTo(row)
	p.clearLine()
	p.WriteString(s)
}

// park leaves the cursor at the start of row once the paint is flushed.
func (p *paint) park(row int) {
	p.moveTo(row)
	p.parked = row
}
