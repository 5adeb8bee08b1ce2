package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Progress bar block characters.
const (
	BarFilled = '█'
	BarEmpty  = '░'
)

// DefaultBarWidth is the number of cells in a bar, excluding brackets.
const DefaultBarWidth = 40

// ClampPercent clamps a percentage to the 0-100 range.
func ClampPercent(percent float64) float64 {
	if percent < 0 {
		return 0
	}
	if percent > 100 {
		return 100
	}
	return percent
}

// Percent returns position as a percentage of total.
// A non-positive total counts as complete.
func Percent(position, total int64) float64 {
	if total <= 0 {
		return 100
	}
	return ClampPercent(float64(position) / float64(total) * 100)
}

// ProgressColor returns the bar color for a percentage.
// Higher values are better: 0-50% secondary (blue), 50-80% warning (yellow), 80%+ success (green).
func ProgressColor(percent float64) lipgloss.Color {
	switch {
	case percent >= 80:
		return ColorSuccess
	case percent >= 50:
		return ColorWarning
	default:
		return ColorSecondary
	}
}

// CalculateBarCounts returns the number of filled and empty cells for a bar.
// Percent should be 0-100, width is the total bar width.
func CalculateBarCounts(percent float64, width int) (filled, empty int) {
	if width <= 0 {
		return 0, 0
	}
	filled = int((ClampPercent(percent) / 100.0) * float64(width))
	empty = width - filled
	return
}

// BuildBarString builds the raw bar string (without styling) from filled/empty counts.
// If brackets is true, wraps in [ ].
func BuildBarString(filledCount, emptyCount int, brackets bool) string {
	var sb strings.Builder
	capacity := filledCount + emptyCount
	if brackets {
		capacity += 2
	}
	sb.Grow(capacity * 3)

	if brackets {
		sb.WriteRune('[')
	}
	for i := 0; i < filledCount; i++ {
		sb.WriteRune(BarFilled)
	}
	for i := 0; i < emptyCount; i++ {
		sb.WriteRune(BarEmpty)
	}
	if brackets {
		sb.WriteRune(']')
	}

	return sb.String()
}

// RenderBarLine renders a determinate bar line.
// Output format: [████████░░░░░░░░] 40/100 message
func RenderBarLine(position, total int64, width int, message string) string {
	pct := Percent(position, total)
	filled, empty := CalculateBarCounts(pct, width)
	bar := lipgloss.NewStyle().Foreground(ProgressColor(pct)).Render(BuildBarString(filled, empty, true))

	line := fmt.Sprintf("%s %d/%d", bar, position, total)
	if message != "" {
		line += " " + message
	}
	return line
}

// RenderSpinnerLine renders a spinner line for the given animation frame.
// Output format: ⠙ message
func RenderSpinnerLine(frame int, message string) string {
	glyph := spinnerFrames[spinnerIndex(int64(frame))]
	return lipgloss.NewStyle().Foreground(ColorSecondary).Render(glyph) + " " + message
}

// spinnerIndex maps any frame counter onto the glyph cycle.
func spinnerIndex(frame int64) int64 {
	n := int64(len(spinnerFrames))
	frame %= n
	if frame < 0 {
		frame += n
	}
	return frame
}

// fitWidth truncates s so it never wraps onto the next row.
func fitWidth(s string, width int) string {
	if width <= 0 || ansi.StringWidth(s) <= width {
		return s
	}
	return ansi.Truncate(s, width, "…")
}

// wrapLines splits text into the rows it occupies at the given width.
func wrapLines(text string, width int) []string {
	text = strings.TrimRight(text, "\n")
	if width > 0 {
		text = ansi.Hardwrap(text, width, true)
	}
	return strings.Split(text, "\n")
}
