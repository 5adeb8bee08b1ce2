package ui

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestColorConstants(t *testing.T) {
	colors := []lipgloss.Color{
		ColorSuccess,
		ColorError,
		ColorWarning,
		ColorInfo,
		ColorPrimary,
		ColorSecondary,
		ColorMuted,
	}

	for _, color := range colors {
		assert.NotEmpty(t, string(color), "color should not be empty")
	}
}

func TestStyles(t *testing.T) {
	styles := map[string]lipgloss.Style{
		"success": SuccessStyle(),
		"error":   ErrorStyle(),
		"warning": WarningStyle(),
		"info":    InfoStyle(),
		"muted":   MutedStyle(),
	}

	for name, style := range styles {
		t.Run(name, func(t *testing.T) {
			assert.Contains(t, style.Render(name), name)
		})
	}
}

func TestRenderStyleString(t *testing.T) {
	assert.Equal(t, "bar", StyleBar.String())
	assert.Equal(t, "spinner", StyleSpinner.String())
	assert.Equal(t, "hidden", StyleHidden.String())
	assert.Equal(t, "unknown", RenderStyle(42).String())
}
