package ui

// RenderStyle selects how a ProgressBar is drawn. It is fixed at construction.
type RenderStyle int

const (
	StyleBar     RenderStyle = iota // Determinate bar with a total
	StyleSpinner                    // Indeterminate animated spinner
	StyleHidden                     // No output, counters still tracked
)

func (s RenderStyle) String() string {
	switch s {
	case StyleBar:
		return "bar"
	case StyleSpinner:
		return "spinner"
	case StyleHidden:
		return "hidden"
	default:
		return "unknown"
	}
}
