package ui

// Unicode symbols for status indicators.
const (
	SymbolSuccess  = "✓" // Group resolved / action applied
	SymbolFail     = "✗" // Action failed
	SymbolPending  = "○" // Not yet processed
	SymbolProgress = "◐" // In progress
	SymbolComplete = "●" // Phase done
	SymbolSkipped  = "⊘" // Skipped (dry run, user skip)
)

// spinnerFrames is the Braille glyph cycle used by spinner-style bars.
var spinnerFrames = []string{
	"⠁", "⠁", "⠉", "⠙", "⠚", "⠒", "⠂", "⠂", "⠒", "⠲", "⠴", "⠤", "⠄", "⠄", "⠤",
	"⠠", "⠠", "⠤", "⠦", "⠖", "⠒", "⠐", "⠐", "⠒", "⠓", "⠋", "⠉", "⠈", "⠈",
}
