package ui

import (
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
)

func TestRenderSummaryWithGroups(t *testing.T) {
	summary := &ScanSummary{
		Root:    "/photos",
		Scanned: 42,
		Groups: []DuplicateGroup{
			{
				Hash: "d41d8cd98f00b204e9800998ecf8427e",
				Size: 2048,
				Keep: "/photos/a.jpg",
				Duplicates: []DuplicateEntry{
					{Path: "/photos/copy/a.jpg", Status: EntryDone, Detail: "moved"},
					{Path: "/photos/old/a.jpg", Status: EntryFailed, Detail: "permission denied"},
				},
			},
			{
				Hash:       "0cc175b9c0f1b6a831c399e269772661",
				Size:       1024,
				Keep:       "/photos/b.jpg",
				Duplicates: []DuplicateEntry{{Path: "/photos/b (1).jpg", Status: EntrySkipped, Detail: "dry run"}},
			},
		},
		Duration: 1500 * time.Millisecond,
	}

	result := ansi.Strip(RenderSummary(summary))

	assert.Contains(t, result, "2 duplicate groups in 42 files")
	assert.Contains(t, result, "5.0 KiB reclaimable")
	assert.Contains(t, result, "(1.5s)")
	assert.Contains(t, result, "d41d8cd98f00")
	assert.NotContains(t, result, "d41d8cd98f00b204", "hash is shortened")
	assert.Contains(t, result, "2.0 KiB x3")
	assert.Contains(t, result, "keep  /photos/a.jpg")
	assert.Contains(t, result, SymbolSuccess+" moved  /photos/copy/a.jpg")
	assert.Contains(t, result, SymbolFail+"  /photos/old/a.jpg")
	assert.Contains(t, result, "permission denied")
	assert.Contains(t, result, SymbolSkipped+" dry run  /photos/b (1).jpg")
}

func TestRenderSummarySingleGroup(t *testing.T) {
	summary := &ScanSummary{
		Scanned: 1,
		Groups: []DuplicateGroup{
			{Hash: "abc", Size: 10, Keep: "a", Duplicates: []DuplicateEntry{{Path: "b"}}},
		},
	}

	result := ansi.Strip(RenderSummary(summary))
	assert.Contains(t, result, "1 duplicate group in 1 file,")
	assert.Contains(t, result, SymbolPending+"  b")
}

func TestRenderSummaryNoDuplicates(t *testing.T) {
	result := ansi.Strip(RenderSummary(&ScanSummary{Scanned: 10, DryRun: true}))
	assert.Contains(t, result, "No duplicates in 10 files")
	assert.Contains(t, result, "(dry run)")
}

func TestRenderSummaryNil(t *testing.T) {
	assert.Empty(t, RenderSummary(nil))
}

func TestScanSummaryWasted(t *testing.T) {
	s := &ScanSummary{Groups: []DuplicateGroup{
		{Size: 100, Duplicates: make([]DuplicateEntry, 2)},
		{Size: 5, Duplicates: make([]DuplicateEntry, 1)},
	}}
	assert.Equal(t, int64(205), s.Wasted())
}

func TestRenderSuccessSummary(t *testing.T) {
	assert.Empty(t, RenderSuccessSummary("deleted", 0, 0))
	assert.Contains(t, ansi.Strip(RenderSuccessSummary("deleted", 3, 3072)), "deleted 3 files (3.0 KiB)")
}
