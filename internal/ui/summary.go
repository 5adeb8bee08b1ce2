package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

// EntryStatus is what happened to one redundant copy in a duplicate group.
type EntryStatus int

const (
	EntryPending EntryStatus = iota // Reported only, no action requested
	EntryDone                       // Action applied
	EntrySkipped                    // Dry run or skipped by the user
	EntryFailed                     // Action attempted and failed
)

// DuplicateEntry is one redundant copy for summary display.
// This mirrors report data to avoid importing it from the ui package.
type DuplicateEntry struct {
	Path   string
	Status EntryStatus
	Detail string // action name, or the error text for EntryFailed
}

// DuplicateGroup is a set of identical files for summary display.
type DuplicateGroup struct {
	Hash       string
	Size       int64
	Keep       string
	Duplicates []DuplicateEntry
}

// ScanSummary holds the results of a scan for summary rendering.
type ScanSummary struct {
	Root     string
	Scanned  int
	Groups   []DuplicateGroup
	Duration time.Duration
	DryRun   bool
}

// Wasted returns the bytes held by redundant copies across all groups.
func (s *ScanSummary) Wasted() int64 {
	var total int64
	for _, g := range s.Groups {
		total += g.Size * int64(len(g.Duplicates))
	}
	return total
}

// SummaryRenderer formats scan summaries for terminal display.
type SummaryRenderer struct {
	errorStyle   lipgloss.Style
	successStyle lipgloss.Style
	warningStyle lipgloss.Style
	pathStyle    lipgloss.Style
	mutedStyle   lipgloss.Style
}

// NewSummaryRenderer creates a new summary renderer with default styles.
func NewSummaryRenderer() *SummaryRenderer {
	return &SummaryRenderer{
		errorStyle:   lipgloss.NewStyle().Foreground(ColorError),
		successStyle: lipgloss.NewStyle().Foreground(ColorSuccess),
		warningStyle: lipgloss.NewStyle().Foreground(ColorWarning),
		pathStyle:    lipgloss.NewStyle().Foreground(ColorInfo),
		mutedStyle:   lipgloss.NewStyle().Foreground(ColorMuted),
	}
}

// RenderSummary generates a formatted duplicate summary.
func RenderSummary(summary *ScanSummary) string {
	r := NewSummaryRenderer()
	return r.Render(summary)
}

// Render generates the formatted summary string.
func (r *SummaryRenderer) Render(summary *ScanSummary) string {
	if summary == nil {
		return ""
	}

	var sb strings.Builder

	fileWord := "file"
	if summary.Scanned != 1 {
		fileWord = "files"
	}

	if len(summary.Groups) == 0 {
		sb.WriteString(r.successStyle.Render(fmt.Sprintf("%s No duplicates in %d %s", SymbolSuccess, summary.Scanned, fileWord)))
		sb.WriteString(r.footer(summary))
		sb.WriteString("\n")
		return sb.String()
	}

	groupWord := "group"
	if len(summary.Groups) != 1 {
		groupWord = "groups"
	}
	sb.WriteString(r.warningStyle.Render(fmt.Sprintf("%s %d duplicate %s in %d %s, %s reclaimable",
		SymbolComplete, len(summary.Groups), groupWord, summary.Scanned, fileWord, humanize.IBytes(uint64(summary.Wasted())))))
	sb.WriteString(r.footer(summary))
	sb.WriteString("\n")

	for _, g := range summary.Groups {
		sb.WriteString("\n")

		// Group header: size per copy, copy count, short hash
		hash := g.Hash
		if len(hash) > 12 {
			hash = hash[:12]
		}
		sb.WriteString(fmt.Sprintf("  %s x%d  %s\n",
			humanize.IBytes(uint64(g.Size)), len(g.Duplicates)+1, r.mutedStyle.Render(hash)))

		if g.Keep != "" {
			sb.WriteString("    keep  ")
			sb.WriteString(r.pathStyle.Render(g.Keep))
			sb.WriteString("\n")
		}

		for _, d := range g.Duplicates {
			sb.WriteString("    ")
			sb.WriteString(r.entry(d))
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

func (r *SummaryRenderer) footer(summary *ScanSummary) string {
	var parts []string
	if summary.Duration > 0 {
		parts = append(parts, summary.Duration.Round(time.Millisecond).String())
	}
	if summary.DryRun {
		parts = append(parts, "dry run")
	}
	if len(parts) == 0 {
		return ""
	}
	return " " + r.mutedStyle.Render("("+strings.Join(parts, ", ")+")")
}

func (r *SummaryRenderer) entry(d DuplicateEntry) string {
	switch d.Status {
	case EntryDone:
		return r.successStyle.Render(SymbolSuccess+" "+d.Detail) + "  " + d.Path
	case EntrySkipped:
		label := SymbolSkipped
		if d.Detail != "" {
			label += " " + d.Detail
		}
		return r.warningStyle.Render(label) + "  " + d.Path
	case EntryFailed:
		line := r.errorStyle.Render(SymbolFail) + "  " + d.Path
		if d.Detail != "" {
			line += "\n      " + r.mutedStyle.Render(d.Detail)
		}
		return line
	default:
		return r.mutedStyle.Render(SymbolPending) + "  " + d.Path
	}
}

// RenderSuccessSummary generates a one-line message for a completed action.
func RenderSuccessSummary(action string, count int, bytes int64) string {
	r := NewSummaryRenderer()
	if count == 0 {
		return ""
	}
	fileWord := "file"
	if count != 1 {
		fileWord = "files"
	}
	return r.successStyle.Render(fmt.Sprintf("%s %s %d %s (%s)", SymbolSuccess, action, count, fileWord, humanize.IBytes(uint64(bytes))))
}
