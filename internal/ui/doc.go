// Package ui renders dupefindr's live progress output and styled summaries.
//
// The core is a small in-place rendering engine built for several
// goroutines reporting at once: a hashing worker pool, an overall bar, and
// log lines that must not tear the display.
//
// # Components Overview
//
//	ProgressBar    - One render primitive: determinate bar, spinner, or hidden counter
//	MultiProgress  - Stacks bars into a block of rows, interleaves log lines above it
//	RenderLock     - Serializes compound paints to one terminal
//	Terminal       - Output device with capability probe and cursor row tracking
//	SummaryRenderer - Styled duplicate summary for the text report
//
// # Rendering Model
//
// Every compound paint (move the cursor, clear, write, move back) is built
// in memory and written in one call while the RenderLock is held. Block
// repaints are wrapped in synchronized update mode so terminals that support
// it show whole frames.
//
// The cursor position is never queried. A MultiProgress owns its rows: the
// block starts at the terminal's tracked cursor row and, when it would run
// past the bottom of the viewport, the viewport is scrolled by emitting
// newlines on the last row. Scrolled-off lines stay in the scrollback.
//
// When stdout is not a terminal (or TERM=dumb), nothing is drawn. Println
// writes a plain line to stdout and Eprintln to stderr, so piped output
// stays readable.
//
// # Usage
//
//	m := ui.NewMultiProgress()
//	overall := m.Add(ui.NewBar(int64(len(files))).WithMessage("hashing"))
//	spin := m.Add(ui.NewSpinner().WithMessage("worker 1"))
//	spin.StartSpinner()
//	// ... from any goroutine ...
//	m.Increment(overall, 1)
//	m.Println("skipped: empty file")
//	m.FinishAll()
//
// Lock order is MultiProgress, then RenderLock, then ProgressBar. Spinners
// are stopped with neither of the first two held.
//
// # Color Scheme
//
// Colors are defined as ANSI codes for broad terminal compatibility:
//
//	ColorSuccess   (green)  - Bars past 80%, applied actions
//	ColorError     (red)    - Eprintln lines, failed actions
//	ColorWarning   (yellow) - Bars past 50%, skipped entries
//	ColorInfo      (cyan)   - Paths
//	ColorMuted     (gray)   - Hashes, timing
//	ColorSecondary (blue)   - Spinners, bars below 50%
//
// Use DisableColors() to switch to monochrome output (for --no-color flag).
package ui
