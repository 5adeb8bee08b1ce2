package cli

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rileyhilliard/dupefindr/internal/config"
	"github.com/rileyhilliard/dupefindr/internal/dupes"
	"github.com/rileyhilliard/dupefindr/internal/errors"
	"github.com/rileyhilliard/dupefindr/internal/report"
	"github.com/rileyhilliard/dupefindr/internal/ui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lockedBuffer is a bytes.Buffer safe for the spinner goroutines.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func writeFile(t *testing.T, path, content string, mtime time.Time) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	require.NoError(t, os.Chtimes(path, mtime, mtime))
}

// fixture builds a tree with one duplicate pair, one same-size file with
// different content, one unique file, and one hidden file.
func fixture(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a", "photo.jpg"), "same-content", time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC))
	writeFile(t, filepath.Join(root, "b", "photo-copy.jpg"), "same-content", time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC))
	writeFile(t, filepath.Join(root, "c", "other.txt"), "different!!!", time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC))
	writeFile(t, filepath.Join(root, "unique.bin"), "x", time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC))
	writeFile(t, filepath.Join(root, ".hidden"), "same-content", time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC))
	return root
}

type scanHarness struct {
	req     scanRequest
	out     *bytes.Buffer
	termOut *lockedBuffer
	termErr *lockedBuffer
}

func newHarness(root string, mutate func(*config.Config)) *scanHarness {
	ui.DisableColors()
	cfg := config.DefaultConfig()
	if mutate != nil {
		mutate(cfg)
	}
	h := &scanHarness{out: &bytes.Buffer{}, termOut: &lockedBuffer{}, termErr: &lockedBuffer{}}
	h.req = scanRequest{
		Root:   root,
		Config: cfg,
		Out:    h.out,
		Term:   ui.NewTerminal(h.termOut, h.termErr),
		Confirm: func(int, int64) error {
			return stderrors.New("confirm should not be called")
		},
	}
	return h
}

func (h *scanHarness) run(t *testing.T) error {
	t.Helper()
	return runScan(context.Background(), h.req)
}

func TestRunScanReportOnly(t *testing.T) {
	root := fixture(t)
	h := newHarness(root, nil)

	require.NoError(t, h.run(t))

	out := h.out.String()
	assert.Contains(t, out, "1 duplicate group in 4 files, 12 B reclaimable")
	assert.Contains(t, out, "keep  "+filepath.Join(root, "b", "photo-copy.jpg"), "newest copy is kept")
	assert.Contains(t, out, filepath.Join(root, "a", "photo.jpg"))
	assert.NotContains(t, out, ".hidden")

	progress := h.termOut.String()
	assert.Contains(t, progress, "dupefindr dev")
	assert.Contains(t, progress, "Collected 4 files")
	assert.Contains(t, progress, "Hashed 3 files")
	assert.Contains(t, progress, "Applying (no action)")

	_, err := os.Stat(filepath.Join(root, "a", "photo.jpg"))
	assert.NoError(t, err, "report only leaves files alone")
}

func TestRunScanVerboseLogsSkips(t *testing.T) {
	root := fixture(t)
	h := newHarness(root, nil)
	h.req.Verbose = true

	require.NoError(t, h.run(t))

	progress := h.termOut.String()
	assert.Contains(t, progress, "skipped "+filepath.Join(root, ".hidden")+" (hidden)")
	assert.Contains(t, progress, "hashed "+filepath.Join(root, "c", "other.txt"))
}

func TestRunScanMove(t *testing.T) {
	root := fixture(t)
	dest := t.TempDir()
	h := newHarness(root, func(c *config.Config) {
		c.Action.Type = "move"
		c.Action.Destination = dest
	})

	require.NoError(t, h.run(t))

	moved := filepath.Join(dest, "a", "photo.jpg")
	data, err := os.ReadFile(moved)
	require.NoError(t, err)
	assert.Equal(t, "same-content", string(data))

	_, err = os.Stat(filepath.Join(root, "a", "photo.jpg"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(root, "b", "photo-copy.jpg"))
	assert.NoError(t, err)

	assert.Contains(t, h.out.String(), "moved")
	assert.Contains(t, h.out.String(), "Moved 1 file (12 B)")
	assert.Contains(t, h.termOut.String(), "Moved 1 file")
}

func TestRunScanDeleteAsksFirst(t *testing.T) {
	root := fixture(t)
	h := newHarness(root, func(c *config.Config) { c.Action.Type = "delete" })

	var asked int
	h.req.Confirm = func(count int, bytes int64) error {
		asked = count
		assert.Equal(t, int64(12), bytes)
		return errors.New(errors.ErrInput, "Deletion cancelled", "")
	}

	err := h.run(t)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrInput))
	assert.Equal(t, 1, asked)

	_, err = os.Stat(filepath.Join(root, "a", "photo.jpg"))
	assert.NoError(t, err, "declined delete touches nothing")
}

func TestRunScanDeleteWithYes(t *testing.T) {
	root := fixture(t)
	h := newHarness(root, func(c *config.Config) { c.Action.Type = "delete" })
	h.req.Yes = true

	require.NoError(t, h.run(t))

	_, err := os.Stat(filepath.Join(root, "a", "photo.jpg"))
	assert.True(t, os.IsNotExist(err))
	assert.Contains(t, h.out.String(), "deleted")
}

func TestRunScanDryRun(t *testing.T) {
	root := fixture(t)
	h := newHarness(root, func(c *config.Config) {
		c.Action.Type = "delete"
		c.Action.DryRun = true
	})

	require.NoError(t, h.run(t))

	_, err := os.Stat(filepath.Join(root, "a", "photo.jpg"))
	assert.NoError(t, err)
	assert.Contains(t, h.out.String(), "dry run")
	assert.Contains(t, h.termOut.String(), "Applying (dry run)")
}

func TestRunScanJSONKeepsStdoutClean(t *testing.T) {
	root := fixture(t)
	h := newHarness(root, func(c *config.Config) { c.Output.Format = report.FormatJSON })
	h.req.Verbose = true

	require.NoError(t, h.run(t))

	var doc report.Document
	require.NoError(t, json.Unmarshal(h.out.Bytes(), &doc))
	assert.Equal(t, 4, doc.Scanned)
	require.Len(t, doc.Groups, 1)
	assert.Equal(t, "pending", doc.Groups[0].Duplicates[0].Status)

	assert.Empty(t, h.termOut.String(), "no header or phase lines with machine output")
}

type pickFirst struct{ calls int }

func (p *pickFirst) Choose(_ context.Context, g dupes.Group, index, total int) (int, error) {
	p.calls++
	return 0, nil
}

func TestRunScanInteractiveKeep(t *testing.T) {
	root := fixture(t)
	h := newHarness(root, func(c *config.Config) { c.Action.Keep = "interactive" })
	chooser := &pickFirst{}
	h.req.Chooser = chooser

	require.NoError(t, h.run(t))

	assert.Equal(t, 1, chooser.calls)
	assert.Contains(t, h.out.String(), "keep  "+filepath.Join(root, "a", "photo.jpg"))
}

func TestRunScanInteractiveNeedsChooser(t *testing.T) {
	root := fixture(t)
	h := newHarness(root, func(c *config.Config) { c.Action.Keep = "interactive" })

	err := h.run(t)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrInput))
}

func TestRunScanNoDuplicates(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "one"), "1", time.Now())
	writeFile(t, filepath.Join(root, "two"), "22", time.Now())
	h := newHarness(root, nil)

	require.NoError(t, h.run(t))

	assert.Contains(t, h.out.String(), "No duplicates in 2 files")
	assert.Contains(t, h.termOut.String(), "Hashing (no files share a size)")
}

func TestRunScanMissingRoot(t *testing.T) {
	h := newHarness(filepath.Join(t.TempDir(), "nope"), nil)

	err := h.run(t)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrScan))
}

func TestRunScanOnVirtualTerminal(t *testing.T) {
	root := fixture(t)
	h := newHarness(root, func(c *config.Config) { c.Hash.Workers = 2 })
	h.req.Term = ui.NewTerminal(h.termOut, h.termErr,
		ui.WithInteractive(true),
		ui.WithSize(60, 8),
		ui.WithCursorRow(7),
	)

	require.NoError(t, h.run(t))

	assert.Contains(t, h.out.String(), "1 duplicate group")
	assert.Contains(t, h.termOut.String(), "Hashed 3 files")
	assert.LessOrEqual(t, h.req.Term.CursorRow(), 7)
}

func TestDescribe(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Action.Destination = "/q"
	cfg.Action.DryRun = true
	cfg.Scan.Recursive = false

	got := describe(cfg, dupes.KeepOldest, "move")
	assert.Equal(t, []string{"keep oldest", "move to /q", "dry run", "top level only"}, got)
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "Moved", capitalize("moved"))
	assert.Equal(t, "", capitalize(""))
}
