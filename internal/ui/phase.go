package ui

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// DividerWidth is the default width for divider lines.
const DividerWidth = 50

// Printer receives whole lines of output. MultiProgress and ProgressBar
// both satisfy it, so phase lines land above any live bars.
type Printer interface {
	Println(msg string)
	Eprintln(msg string)
}

// Phase represents a distinct step of a scan.
type Phase struct {
	Name      string
	StartTime time.Time
	EndTime   time.Time
	Success   bool
	Skipped   bool
	Error     error
}

// Duration returns the phase duration.
func (p Phase) Duration() time.Duration {
	if p.EndTime.IsZero() {
		return time.Since(p.StartTime)
	}
	return p.EndTime.Sub(p.StartTime)
}

// PhaseLog records phases and prints one line per finished phase.
type PhaseLog struct {
	p   Printer
	now func() time.Time

	mu     sync.Mutex
	phases []Phase
}

// NewPhaseLog creates a phase log printing through p.
func NewPhaseLog(p Printer) *PhaseLog {
	return &PhaseLog{p: p, now: time.Now}
}

// Start begins a phase. A phase still open is closed as successful first.
func (l *PhaseLog) Start(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closeLocked()
	l.phases = append(l.phases, Phase{Name: name, StartTime: l.now()})
}

// Done ends the current phase and prints it.
// Shows: ● Hashed 312 files (0.3s)
func (l *PhaseLog) Done(label string) {
	ph, ok := l.end(func(ph *Phase) { ph.Success = true })
	if !ok {
		return
	}
	if label == "" {
		label = ph.Name
	}
	l.p.Println(FormatPhase(SymbolComplete, ColorSuccess, label, formatDuration(ph.Duration())))
}

// Fail ends the current phase as failed and prints it as an error.
// Shows: ✗ Hashing failed (2.3s)
func (l *PhaseLog) Fail(label string, err error) {
	ph, ok := l.end(func(ph *Phase) { ph.Error = err })
	if !ok {
		return
	}
	if label == "" {
		label = ph.Name + " failed"
	}
	l.p.Eprintln(FormatPhase(SymbolFail, ColorError, label, formatDuration(ph.Duration())))
}

// Skip records a phase that did not run.
// Shows: ⊘ Applying (dry run)
func (l *PhaseLog) Skip(name, reason string) {
	l.mu.Lock()
	l.closeLocked()
	now := l.now()
	l.phases = append(l.phases, Phase{Name: name, StartTime: now, EndTime: now, Skipped: true})
	l.mu.Unlock()

	timing := ""
	if reason != "" {
		timing = "(" + reason + ")"
	}
	l.p.Println(FormatPhase(SymbolSkipped, ColorWarning, name, timing))
}

// Phases returns a copy of every recorded phase.
func (l *PhaseLog) Phases() []Phase {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Phase, len(l.phases))
	copy(out, l.phases)
	return out
}

func (l *PhaseLog) end(mark func(*Phase)) (Phase, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.phases) == 0 {
		return Phase{}, false
	}
	ph := &l.phases[len(l.phases)-1]
	if !ph.EndTime.IsZero() {
		return Phase{}, false
	}
	ph.EndTime = l.now()
	mark(ph)
	return *ph, true
}

func (l *PhaseLog) closeLocked() {
	if n := len(l.phases); n > 0 && l.phases[n-1].EndTime.IsZero() {
		l.phases[n-1].EndTime = l.now()
		l.phases[n-1].Success = true
	}
}

// HeaderInfo contains information to display in the header.
type HeaderInfo struct {
	Version string
	Root    string   // Directory being scanned
	Details []string // Short settings, e.g. "keep newest", "move to ~/dupes"
}

// RenderHeader renders the banner printed before a scan.
func RenderHeader(info HeaderInfo) string {
	titleStyle := lipgloss.NewStyle().Foreground(ColorInfo).Bold(true)
	mutedStyle := lipgloss.NewStyle().Foreground(ColorMuted)

	var output strings.Builder
	output.WriteString(titleStyle.Render("dupefindr"))
	if info.Version != "" {
		output.WriteString(" ")
		output.WriteString(mutedStyle.Render(info.Version))
	}
	output.WriteString("\n")

	if info.Root != "" {
		output.WriteString(info.Root)
		output.WriteString("\n")
	}
	if len(info.Details) > 0 {
		output.WriteString(mutedStyle.Render(strings.Join(info.Details, " · ")))
		output.WriteString("\n")
	}

	output.WriteString(FormatDivider(DividerWidth))
	output.WriteString("\n")
	return output.String()
}

// FormatPhase returns a formatted phase line as a string.
func FormatPhase(symbol string, symbolColor lipgloss.Color, name string, timing string) string {
	symbolStyle := lipgloss.NewStyle().Foreground(symbolColor)
	timingStyle := lipgloss.NewStyle().Foreground(ColorMuted)

	if timing == "" {
		return fmt.Sprintf("%s %s", symbolStyle.Render(symbol), name)
	}
	return fmt.Sprintf("%s %s %s", symbolStyle.Render(symbol), name, timingStyle.Render(timing))
}

// FormatDivider returns a divider line as a string.
func FormatDivider(width int) string {
	style := lipgloss.NewStyle().Foreground(ColorMuted)
	return style.Render(strings.Repeat("━", width))
}

func formatDuration(d time.Duration) string {
	secs := d.Seconds()
	if secs < 0.1 {
		return fmt.Sprintf("(%.2fs)", secs)
	}
	return fmt.Sprintf("(%.1fs)", secs)
}
