package ui

import "time"

// StartSpinner starts the animation goroutine. It is a no-op for bars,
// hidden bars, and spinners that are already animating.
func (b *ProgressBar) StartSpinner() {
	if b.style != StyleSpinner {
		return
	}

	b.animMu.Lock()
	defer b.animMu.Unlock()
	if b.spinning {
		return
	}

	b.mu.Lock()
	b.finished = false
	b.mu.Unlock()

	b.spinning = true
	b.stopChan = make(chan struct{})
	b.doneChan = make(chan struct{})
	b.animating.Store(true)

	go b.animate(b.stopChan, b.doneChan, b.tick)
}

// StopSpinner stops the animation goroutine and waits for it to exit.
// Safe to call when the spinner is not running.
//
// Callers must not hold the render lock or the owning coordinator's lock:
// the goroutine may be waiting on either to paint its last frame.
func (b *ProgressBar) StopSpinner() {
	b.animMu.Lock()
	if !b.spinning {
		b.animMu.Unlock()
		return
	}
	b.spinning = false
	close(b.stopChan)
	done := b.doneChan
	b.animMu.Unlock()

	<-done
}

// animate advances the frame on every tick until stop is closed. Frames are
// skipped while a coordinator holds animations.
func (b *ProgressBar) animate(stop <-chan struct{}, done chan<- struct{}, tick time.Duration) {
	ticker := time.NewTicker(tick)
	defer ticker.Stop()
	defer close(done)
	defer b.animating.Store(false)

	b.Draw()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if b.held.Load() {
				continue
			}
			b.mu.Lock()
			b.position = spinnerIndex(b.position + 1)
			b.mu.Unlock()
			b.Draw()
		}
	}
}

// hold pauses frame advancement until release.
func (b *ProgressBar) hold() {
	b.held.Store(true)
}

func (b *ProgressBar) release() {
	b.held.Store(false)
}
