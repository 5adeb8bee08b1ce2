package ui

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/rileyhilliard/dupefindr/internal/logger"
)

// DefaultTickInterval is the spinner frame cadence.
const DefaultTickInterval = 100 * time.Millisecond

// settings are shared by ProgressBar and MultiProgress constructors.
type settings struct {
	term  *Terminal
	lock  *RenderLock
	log   logger.Logger
	width int
	tick  time.Duration
}

// Option configures a ProgressBar or MultiProgress.
type Option func(*settings)

// WithTerminal paints to t instead of Stdout().
func WithTerminal(t *Terminal) Option {
	return func(s *settings) {
		s.term = t
	}
}

// WithRenderLock serializes paints through l instead of the process-wide lock.
func WithRenderLock(l *RenderLock) Option {
	return func(s *settings) {
		s.lock = l
	}
}

// WithLogger sets the logger for diagnostic messages.
func WithLogger(l logger.Logger) Option {
	return func(s *settings) {
		s.log = l
	}
}

// WithWidth sets the number of bar cells.
func WithWidth(width int) Option {
	return func(s *settings) {
		s.width = width
	}
}

// WithTickInterval sets the spinner frame cadence.
func WithTickInterval(d time.Duration) Option {
	return func(s *settings) {
		s.tick = d
	}
}

func newSettings(opts []Option) settings {
	s := settings{
		width: DefaultBarWidth,
		tick:  DefaultTickInterval,
	}
	for _, opt := range opts {
		opt(&s)
	}
	if s.term == nil {
		s.term = Stdout()
	}
	if s.lock == nil {
		s.lock = DefaultRenderLock()
	}
	if s.log == nil {
		s.log = logger.Default()
	}
	if s.tick <= 0 {
		s.tick = DefaultTickInterval
	}
	return s
}

// ProgressBar is a single render primitive: a determinate bar, an animated
// spinner, or a hidden counter.
//
// A *ProgressBar is a shared handle. It may be updated from any goroutine;
// every field is guarded internally. While it belongs to a MultiProgress,
// the coordinator owns its row and all of its paints.
type ProgressBar struct {
	style RenderStyle
	total int64
	width int
	tick  time.Duration
	log   logger.Logger

	mu       sync.Mutex
	position int64 // frame index for spinners
	message  string
	row      int
	term     *Terminal
	lock     *RenderLock
	owner    *MultiProgress
	detached bool // removed from its coordinator; never painted again
	finished bool

	animating atomic.Bool
	held      atomic.Bool

	animMu   sync.Mutex
	spinning bool
	stopChan chan struct{}
	doneChan chan struct{}
}

// NewBar creates a determinate bar. Position is clamped to [0, total].
func NewBar(total int64, opts ...Option) *ProgressBar {
	if total < 0 {
		total = 0
	}
	return newProgressBar(StyleBar, total, opts)
}

// NewSpinner creates an indeterminate spinner. Call StartSpinner to animate it.
func NewSpinner(opts ...Option) *ProgressBar {
	return newProgressBar(StyleSpinner, 1, opts)
}

// NewHidden creates a bar that tracks counters but never draws.
func NewHidden(opts ...Option) *ProgressBar {
	return newProgressBar(StyleHidden, 1, opts)
}

func newProgressBar(style RenderStyle, total int64, opts []Option) *ProgressBar {
	s := newSettings(opts)
	b := &ProgressBar{
		style: style,
		total: total,
		width: s.width,
		tick:  s.tick,
		log:   s.log,
		term:  s.term,
		lock:  s.lock,
	}
	if s.term.IsInteractive() {
		b.row = s.term.CursorRow()
	}
	return b
}

// WithMessage sets the status text and returns the bar for chaining.
func (b *ProgressBar) WithMessage(msg string) *ProgressBar {
	b.mu.Lock()
	b.message = msg
	b.mu.Unlock()
	return b
}

// Style returns the render style.
func (b *ProgressBar) Style() RenderStyle {
	return b.style
}

// Total returns the bar total. It carries no meaning for spinners and hidden bars.
func (b *ProgressBar) Total() int64 {
	return b.total
}

// Position returns the current position (the frame index for spinners).
func (b *ProgressBar) Position() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.position
}

// Message returns the current status text.
func (b *ProgressBar) Message() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.message
}

// Row returns the terminal row currently assigned to the bar.
func (b *ProgressBar) Row() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.row
}

// IsAnimating reports whether an animation goroutine is still running.
func (b *ProgressBar) IsAnimating() bool {
	return b.animating.Load()
}

// Increment adds delta to the position and repaints. Bars clamp to
// [0, total]; spinners advance their frame modulo the glyph count.
func (b *ProgressBar) Increment(delta int64) {
	b.mu.Lock()
	b.position = b.clampLocked(b.position + delta)
	b.mu.Unlock()
	b.Draw()
}

// SetPosition sets the position with the same clamping as Increment and repaints.
func (b *ProgressBar) SetPosition(v int64) {
	b.mu.Lock()
	b.position = b.clampLocked(v)
	b.mu.Unlock()
	b.Draw()
}

// SetMessage replaces the status text and repaints.
func (b *ProgressBar) SetMessage(msg string) {
	b.mu.Lock()
	b.message = msg
	b.mu.Unlock()
	b.Draw()
}

func (b *ProgressBar) clampLocked(v int64) int64 {
	switch b.style {
	case StyleBar:
		if v < 0 {
			return 0
		}
		if v > b.total {
			return b.total
		}
		return v
	case StyleSpinner:
		return spinnerIndex(v)
	default:
		if v < 0 {
			return 0
		}
		return v
	}
}

// Finish ends the bar. A spinner stops animating and its row is erased;
// calling Finish again is safe. Bars and hidden bars are left as they are,
// their coordinator erases them on removal.
func (b *ProgressBar) Finish() {
	if b.style != StyleSpinner {
		return
	}
	b.StopSpinner()
	b.mu.Lock()
	already := b.finished
	b.finished = true
	b.mu.Unlock()
	if !already {
		b.Draw()
	}
}

// Draw repaints the bar in place at its assigned row. It does nothing when
// the terminal is not interactive or the bar is hidden.
func (b *ProgressBar) Draw() {
	if b.style == StyleHidden {
		return
	}
	b.mu.Lock()
	t, lock, owner, detached := b.term, b.lock, b.owner, b.detached
	b.mu.Unlock()

	if !t.IsInteractive() || detached {
		return
	}
	if owner != nil {
		owner.drawElement(b)
		return
	}

	lock.Lock()
	defer lock.Unlock()

	p := newPaint()
	row := b.Row()
	b.paintLine(p, row, t)
	p.park(row)
	t.flush(p)
}

// Println prints a line on the bar's row and moves the bar down one row.
// When the bar belongs to a MultiProgress the line goes through it.
func (b *ProgressBar) Println(msg string) {
	b.println(msg, false)
}

// Eprintln is Println for error text: red on a terminal, stderr otherwise.
func (b *ProgressBar) Eprintln(msg string) {
	b.println(msg, true)
}

func (b *ProgressBar) println(msg string, isErr bool) {
	b.mu.Lock()
	t, lock, owner := b.term, b.lock, b.owner
	b.mu.Unlock()

	if owner != nil {
		owner.println(msg, isErr)
		return
	}
	if !t.IsInteractive() {
		printPlain(t, msg, isErr)
		return
	}

	lock.Lock()
	defer lock.Unlock()

	width, height := t.Size()
	lines := wrapLines(msg, width)

	b.mu.Lock()
	row := b.row
	b.mu.Unlock()

	p := newPaint()
	p.beginSync()
	if height > 0 {
		if overflow := row + len(lines) + 1 - height; overflow > 0 {
			if overflow > row {
				overflow = row
			}
			p.scrollUp(overflow, height)
			row -= overflow
		}
	}
	for _, l := range lines {
		row = p.fit(row, height)
		p.line(row, styleLogLine(l, isErr))
		row++
	}
	row = p.fit(row, height)

	b.mu.Lock()
	b.row = row
	b.mu.Unlock()

	b.paintLine(p, row, t)
	p.park(row)
	p.endSync()
	t.flush(p)
}

// paintLine appends the bar's current line at row. Callers hold the render lock.
func (b *ProgressBar) paintLine(p *paint, row int, t *Terminal) {
	if _, h := t.Size(); h > 0 && row >= h {
		return
	}
	width, _ := t.Size()
	p.line(row, fitWidth(b.render(), width))
}

// render formats the bar from a consistent snapshot of its fields.
func (b *ProgressBar) render() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.style {
	case StyleBar:
		return RenderBarLine(b.position, b.total, b.width, b.message)
	case StyleSpinner:
		if b.finished {
			return ""
		}
		return RenderSpinnerLine(int(b.position), b.message)
	default:
		return ""
	}
}

// bind hands the bar to a coordinator, which takes over its terminal, lock and row.
func (b *ProgressBar) bind(m *MultiProgress) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.owner = m
	b.term = m.term
	b.lock = m.lock
	b.detached = false
}

// detach releases the bar from its coordinator. A detached bar keeps
// counting but never paints again.
func (b *ProgressBar) detach() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.owner = nil
	b.detached = true
}

func (b *ProgressBar) setRow(row int) {
	b.mu.Lock()
	b.row = row
	b.mu.Unlock()
}

func printPlain(t *Terminal, msg string, isErr bool) {
	if isErr {
		t.writeErr(msg + "\n")
		return
	}
	t.write(msg + "\n")
}

func styleLogLine(line string, isErr bool) string {
	if isErr {
		return ErrorStyle().Render(line)
	}
	return line
}
