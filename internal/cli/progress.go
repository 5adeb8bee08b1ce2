package cli

import (
	"fmt"
	"path/filepath"
	"sync/atomic"

	"github.com/rileyhilliard/dupefindr/internal/errors"
	"github.com/rileyhilliard/dupefindr/internal/logger"
	"github.com/rileyhilliard/dupefindr/internal/ui"
)

// collectEvery throttles spinner message updates while walking.
const collectEvery = 64

// collectProgress shows a spinner with a running file count while the
// tree is walked.
type collectProgress struct {
	m       *ui.MultiProgress
	spinner *ui.ProgressBar
	count   atomic.Int64
}

func newCollectProgress(m *ui.MultiProgress, opts []ui.Option) *collectProgress {
	c := &collectProgress{m: m}
	c.spinner = m.Add(ui.NewSpinner(opts...).WithMessage("collecting files"))
	c.spinner.StartSpinner()
	return c
}

// Visit counts a collected file.
func (c *collectProgress) Visit(string) {
	n := c.count.Add(1)
	if n%collectEvery == 0 {
		c.m.SetMessage(c.spinner, fmt.Sprintf("collecting files  %d", n))
	}
}

// Done stops the spinner and erases its row.
func (c *collectProgress) Done() {
	c.m.Remove(c.spinner)
	c.m.FinishAll()
}

// hashProgress drives an overall bar plus one spinner per hashing worker.
// It satisfies hasher.Reporter.
type hashProgress struct {
	m       *ui.MultiProgress
	log     logger.Logger
	overall *ui.ProgressBar
	workers []*ui.ProgressBar
	failed  atomic.Int64
}

func newHashProgress(m *ui.MultiProgress, log logger.Logger, total int64, workers int, opts []ui.Option) *hashProgress {
	h := &hashProgress{m: m, log: log}
	h.overall = m.Add(ui.NewBar(total, opts...).WithMessage("hashing"))
	for i := 0; i < workers; i++ {
		s := m.Add(ui.NewSpinner(opts...).WithMessage(workerLabel(i, "")))
		s.StartSpinner()
		h.workers = append(h.workers, s)
	}
	return h
}

func (h *hashProgress) Started(worker int, path string) {
	if w := h.worker(worker); w != nil {
		h.m.SetMessage(w, workerLabel(worker, filepath.Base(path)))
	}
}

func (h *hashProgress) Finished(worker int, path string, err error) {
	h.m.Increment(h.overall, 1)
	if w := h.worker(worker); w != nil {
		h.m.SetMessage(w, workerLabel(worker, ""))
	}
	if err != nil {
		h.failed.Add(1)
		h.log.Error("%s %s", ui.SymbolFail, failureText(err, path))
		return
	}
	h.log.Debug("hashed %s", path)
}

// Failed returns how many files could not be hashed.
func (h *hashProgress) Failed() int {
	return int(h.failed.Load())
}

// Done removes the worker spinners and leaves the overall bar in place.
func (h *hashProgress) Done() {
	for _, w := range h.workers {
		h.m.Remove(w)
	}
	h.m.FinishAll()
}

func (h *hashProgress) worker(i int) *ui.ProgressBar {
	if i < 0 || i >= len(h.workers) {
		return nil
	}
	return h.workers[i]
}

func workerLabel(i int, file string) string {
	if file == "" {
		return fmt.Sprintf("worker %d  idle", i+1)
	}
	return fmt.Sprintf("worker %d  %s", i+1, file)
}

func failureText(err error, path string) string {
	return fmt.Sprintf("%s: %s", path, errors.Detail(err))
}
