package syncer

import (
	"sync"
	"time"
)

// DefaultDebounceWindow is the trailing window used for drag-reorder
// coalescing.
const DefaultDebounceWindow = 500 * time.Millisecond

// Debouncer coalesces rapid submissions into one trailing flush: only the
// last value submitted within the window is delivered. Consecutive values
// that compare equal to the last flushed value are suppressed entirely,
// so dragging an image back to where it started costs no write.
type Debouncer[T any] struct {
	window time.Duration
	equal  func(a, b T) bool
	flush  func(T)

	mu      sync.Mutex
	timer   *time.Timer
	pending *T
	last    *T
	stopped bool
}

// NewDebouncer creates a debouncer delivering to flush. equal may be nil,
// which disables duplicate suppression.
func NewDebouncer[T any](window time.Duration, equal func(a, b T) bool, flush func(T)) *Debouncer[T] {
	if window <= 0 {
		window = DefaultDebounceWindow
	}
	return &Debouncer[T]{window: window, equal: equal, flush: flush}
}

// Submit schedules a value. Each call restarts the trailing window, so a
// burst of submissions flushes once, with the last value.
func (debouncer *Debouncer[T]) Submit(value T) {
	debouncer.mu.Lock()
	defer debouncer.mu.Unlock()

	if debouncer.stopped {
		return
	}

	// Suppress values equal to what the server already has
	if debouncer.equal != nil && debouncer.last != nil && debouncer.equal(*debouncer.last, value) {
		// Also cancels a pending different value: the net effect of the
		// burst is "no change"
		debouncer.pending = nil
		if debouncer.timer != nil {
			debouncer.timer.Stop()
			debouncer.timer = nil
		}
		return
	}

	debouncer.pending = &value

	if debouncer.timer != nil {
		debouncer.timer.Stop()
	}
	debouncer.timer = time.AfterFunc(debouncer.window, debouncer.fire)
}

// Flush delivers any pending value immediately.
func (debouncer *Debouncer[T]) Flush() {
	debouncer.fire()
}

// Stop cancels any pending delivery. Further submissions are ignored.
func (debouncer *Debouncer[T]) Stop() {
	debouncer.mu.Lock()
	defer debouncer.mu.Unlock()

	debouncer.stopped = true
	debouncer.pending = nil
	if debouncer.timer != nil {
		debouncer.timer.Stop()
		debouncer.timer = nil
	}
}

func (debouncer *Debouncer[T]) fire() {
	debouncer.mu.Lock()

	if debouncer.pending == nil {
		debouncer.mu.Unlock()
		return
	}
	value := *debouncer.pending
	debouncer.pending = nil
	debouncer.last = &value
	if debouncer.timer != nil {
		debouncer.timer.Stop()
		debouncer.timer = nil
	}

	// Deliver outside the lock; flush may call Submit again
	flush := debouncer.flush
	debouncer.mu.Unlock()

	flush(value)
}
