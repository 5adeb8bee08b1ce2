package ui

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBar(t *testing.T) {
	term, lock, _, _ := plainTerm()

	b := NewBar(100, WithTerminal(term), WithRenderLock(lock)).WithMessage("files")
	assert.Equal(t, StyleBar, b.Style())
	assert.Equal(t, int64(100), b.Total())
	assert.Equal(t, int64(0), b.Position())
	assert.Equal(t, "files", b.Message())
	assert.False(t, b.IsAnimating())

	neg := NewBar(-5, WithTerminal(term), WithRenderLock(lock))
	assert.Equal(t, int64(0), neg.Total())
}

func TestNewBarTakesCursorRow(t *testing.T) {
	term, lock, _ := virtualTerm(80, 24, 7)
	b := NewBar(10, WithTerminal(term), WithRenderLock(lock))
	assert.Equal(t, 7, b.Row())

	plain, plainLock, _, _ := plainTerm()
	assert.Equal(t, 0, NewBar(10, WithTerminal(plain), WithRenderLock(plainLock)).Row())
}

func TestBarClamping(t *testing.T) {
	term, lock, _, _ := plainTerm()

	tests := []struct {
		name string
		ops  func(b *ProgressBar)
		want int64
	}{
		{"increment within range", func(b *ProgressBar) { b.Increment(40) }, 40},
		{"increment past total", func(b *ProgressBar) { b.Increment(150) }, 100},
		{"decrement below zero", func(b *ProgressBar) { b.Increment(10); b.Increment(-30) }, 0},
		{"set position past total", func(b *ProgressBar) { b.SetPosition(1000) }, 100},
		{"set negative position", func(b *ProgressBar) { b.SetPosition(-1) }, 0},
		{"set exact total", func(b *ProgressBar) { b.SetPosition(100) }, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBar(100, WithTerminal(term), WithRenderLock(lock))
			tt.ops(b)
			assert.Equal(t, tt.want, b.Position())
		})
	}
}

func TestSpinnerIncrementWraps(t *testing.T) {
	term, lock, _, _ := plainTerm()
	s := NewSpinner(WithTerminal(term), WithRenderLock(lock))

	s.Increment(int64(len(spinnerFrames)) + 1)
	assert.Equal(t, int64(1), s.Position())

	s.SetPosition(-1)
	assert.Equal(t, int64(len(spinnerFrames)-1), s.Position())
}

func TestHiddenTracksCounters(t *testing.T) {
	term, lock, out := virtualTerm(80, 24, 0)
	h := NewHidden(WithTerminal(term), WithRenderLock(lock))

	h.Increment(5)
	h.SetMessage("quiet")
	h.Draw()

	assert.Equal(t, int64(5), h.Position())
	assert.Equal(t, "quiet", h.Message())
	assert.Empty(t, out.String(), "hidden bars never paint")
}

func TestDrawNonInteractiveIsNoop(t *testing.T) {
	term, lock, out, errOut := plainTerm()
	b := NewBar(10, WithTerminal(term), WithRenderLock(lock))

	b.Increment(3)
	b.SetMessage("x")
	b.Draw()

	assert.Empty(t, out.String())
	assert.Empty(t, errOut.String())
}

func TestDrawInteractive(t *testing.T) {
	term, lock, out := virtualTerm(80, 24, 4)
	b := NewBar(10, WithTerminal(term), WithRenderLock(lock), WithWidth(10)).WithMessage("hashing")

	b.SetPosition(5)

	got := out.String()
	assert.Contains(t, got, "\x1b[5;1H", "paints at its row")
	assert.Contains(t, ansi.Strip(got), "5/10 hashing")
	assert.Equal(t, 4, term.CursorRow(), "cursor parked on the bar row")
}

func TestDrawTruncatesToWidth(t *testing.T) {
	term, lock, out := virtualTerm(20, 24, 0)
	b := NewBar(10, WithTerminal(term), WithRenderLock(lock), WithWidth(10)).
		WithMessage(strings.Repeat("m", 40))

	b.Draw()

	line := ansi.Strip(out.String())
	assert.NotContains(t, line, strings.Repeat("m", 40))
	assert.Contains(t, line, "…")
}

func TestPrintlnNonInteractive(t *testing.T) {
	term, lock, out, errOut := plainTerm()
	b := NewBar(10, WithTerminal(term), WithRenderLock(lock))

	b.Println("X")
	assert.Equal(t, "X\n", out.String())

	b.Eprintln("boom")
	assert.Equal(t, "boom\n", errOut.String())
	assert.Equal(t, "X\n", out.String())
}

func TestPrintlnMovesBarDown(t *testing.T) {
	term, lock, out := virtualTerm(80, 24, 3)
	b := NewBar(10, WithTerminal(term), WithRenderLock(lock))

	b.Println("hello")

	assert.Equal(t, 4, b.Row())
	assert.Equal(t, 4, term.CursorRow())
	got := out.String()
	assert.Contains(t, got, "\x1b[4;1H\x1b[2Khello")
	assert.True(t, strings.HasPrefix(got, beginSyncUpdate))
	assert.True(t, strings.HasSuffix(got, endSyncUpdate))
}

func TestPrintlnScrollsAtBottom(t *testing.T) {
	term, lock, out := virtualTerm(80, 5, 4)
	b := NewBar(10, WithTerminal(term), WithRenderLock(lock))

	b.Println("hello")

	assert.Equal(t, 4, b.Row(), "bar stays on the last row")
	assert.Contains(t, out.String(), "\x1b[5;1H\n", "viewport scrolled by one")
	assert.Contains(t, out.String(), "\x1b[4;1H\x1b[2Khello")
}

func TestConcurrentIncrement(t *testing.T) {
	term, lock, _ := virtualTerm(80, 24, 0)
	b := NewBar(100, WithTerminal(term), WithRenderLock(lock))

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				b.Increment(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(100), b.Position())
}

func TestConcurrentSetMessageAndIncrement(t *testing.T) {
	term, lock, _ := virtualTerm(80, 24, 0)
	b := NewBar(50, WithTerminal(term), WithRenderLock(lock))

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			b.Increment(1)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			b.SetMessage("file")
		}
	}()
	wg.Wait()

	assert.Equal(t, int64(50), b.Position())
	assert.Equal(t, "file", b.Message())
}

func TestSpinnerStartStop(t *testing.T) {
	term, lock, out := virtualTerm(80, 24, 0)
	s := NewSpinner(WithTerminal(term), WithRenderLock(lock), WithTickInterval(5*time.Millisecond)).
		WithMessage("walking")

	s.StartSpinner()
	assert.True(t, s.IsAnimating())
	s.StartSpinner() // already running

	time.Sleep(30 * time.Millisecond)
	s.StopSpinner()

	assert.Eventually(t, func() bool { return !s.IsAnimating() }, 200*time.Millisecond, 5*time.Millisecond)
	assert.Contains(t, ansi.Strip(out.String()), "walking")

	s.StopSpinner() // not running
}

func TestSpinnerFinishIsIdempotent(t *testing.T) {
	term, lock, out := virtualTerm(80, 24, 2)
	s := NewSpinner(WithTerminal(term), WithRenderLock(lock), WithTickInterval(5*time.Millisecond))

	s.StartSpinner()
	time.Sleep(15 * time.Millisecond)

	require.NotPanics(t, func() {
		s.Finish()
		s.Finish()
	})
	assert.False(t, s.IsAnimating())
	assert.True(t, strings.HasSuffix(out.String(), "\x1b[3;1H\x1b[2K\x1b[3;1H"), "finished spinner row is erased")
}

func TestSpinnerRestartAfterFinish(t *testing.T) {
	term, lock, _, _ := plainTerm()
	s := NewSpinner(WithTerminal(term), WithRenderLock(lock), WithTickInterval(5*time.Millisecond))

	s.StartSpinner()
	s.Finish()
	s.StartSpinner()
	assert.True(t, s.IsAnimating())
	s.StopSpinner()
	assert.False(t, s.IsAnimating())
}

func TestStartSpinnerOnBarIsNoop(t *testing.T) {
	term, lock, _, _ := plainTerm()
	b := NewBar(10, WithTerminal(term), WithRenderLock(lock))

	b.StartSpinner()
	assert.False(t, b.IsAnimating())
	b.StopSpinner()
	b.Finish()
	assert.Equal(t, int64(0), b.Position())
}

func TestSpinnerAdvancesFrames(t *testing.T) {
	term, lock, _, _ := plainTerm()
	s := NewSpinner(WithTerminal(term), WithRenderLock(lock), WithTickInterval(2*time.Millisecond))

	s.StartSpinner()
	defer s.StopSpinner()

	assert.Eventually(t, func() bool { return s.Position() > 0 }, time.Second, time.Millisecond)
}
